package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-managebooks/internal/interface/http"
	"github.com/oksasatya/go-managebooks/internal/interface/middleware"
)

// BookModule serves /api/books and the per-book assessment listing.
type BookModule struct {
	Books       *handlers.BookHandler
	Assessments *handlers.AssessmentHandler
	Redis       *redis.Client
}

func NewBookModule(books *handlers.BookHandler, assessments *handlers.AssessmentHandler, rdb *redis.Client) *BookModule {
	return &BookModule{Books: books, Assessments: assessments, Redis: rdb}
}

func (m *BookModule) Name() string { return "books" }

func (m *BookModule) Register(rg *gin.RouterGroup) {
	writes := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndMethod(), middleware.AllowPrivateIP())
	uploads := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	books := rg.Group("/books")
	{
		books.GET("", m.Books.Search)
		books.GET("/:id", m.Books.Get)
		books.GET("/:id/assessments", m.Assessments.ListByBook)
		books.POST("", writes, m.Books.Create)
		books.PATCH("/:id", writes, m.Books.Update)
		books.DELETE("/:id", writes, m.Books.Delete)
		books.PUT("/:id/cover", uploads, m.Books.UploadCover)
	}
}
