package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-managebooks/internal/interface/http"
	"github.com/oksasatya/go-managebooks/internal/interface/middleware"
)

// UserModule serves /api/users.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	writes := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndMethod(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	{
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.Get)
		users.POST("", writes, m.Handler.Create)
		users.PATCH("/:id", writes, m.Handler.Update)
		users.POST("/:id/activate", writes, m.Handler.Activate)
		users.POST("/:id/deactivate", writes, m.Handler.Deactivate)
		users.DELETE("/:id", writes, m.Handler.Delete)
	}
}
