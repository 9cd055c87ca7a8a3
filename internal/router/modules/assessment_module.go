package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-managebooks/internal/interface/http"
	"github.com/oksasatya/go-managebooks/internal/interface/middleware"
)

// AssessmentModule serves /api/assessments.
type AssessmentModule struct {
	Handler *handlers.AssessmentHandler
	Redis   *redis.Client
}

func NewAssessmentModule(h *handlers.AssessmentHandler, rdb *redis.Client) *AssessmentModule {
	return &AssessmentModule{Handler: h, Redis: rdb}
}

func (m *AssessmentModule) Name() string { return "assessments" }

func (m *AssessmentModule) Register(rg *gin.RouterGroup) {
	writes := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndMethod(), middleware.AllowPrivateIP())

	assessments := rg.Group("/assessments")
	{
		assessments.GET("/:id", m.Handler.Get)
		assessments.POST("", writes, m.Handler.Create)
		assessments.PATCH("/:id", writes, m.Handler.Update)
		assessments.DELETE("/:id", writes, m.Handler.Delete)
	}
}
