package router

import (
	"time"

	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/internal/container"
	"github.com/oksasatya/go-managebooks/internal/infrastructure/cache"
	"github.com/oksasatya/go-managebooks/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-managebooks/internal/infrastructure/postgres"
	"github.com/oksasatya/go-managebooks/internal/infrastructure/search"
	"github.com/oksasatya/go-managebooks/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-managebooks/internal/interface/http"
	"github.com/oksasatya/go-managebooks/internal/interface/middleware"
	"github.com/oksasatya/go-managebooks/internal/router/modules"
)

// BuildDeps wires repositories and optional adapters from the container.
// Without a Postgres pool the in-memory store is used.
func BuildDeps() application.Deps {
	cfg := container.GetConfig()
	d := application.Deps{Logger: container.GetLogger()}

	if pool := container.GetPGPool(); pool != nil {
		d.UoW = pginfra.NewUnitOfWork(pool)
		d.Users = pginfra.NewUserRepository(pool)
		d.Books = pginfra.NewBookRepository(pool)
		d.Assessments = pginfra.NewAssessmentRepository(pool)
	} else {
		store := memory.NewStore()
		d.UoW = memory.NewUnitOfWork(store)
		d.Users = memory.NewUserRepository(store)
		d.Books = memory.NewBookRepository(store)
		d.Assessments = memory.NewAssessmentRepository(store)
	}

	if p := container.GetPublisher(); p != nil {
		d.Events = p
	}
	if rdb := container.GetRedis(); rdb != nil {
		d.Cache = cache.NewBookCache(rdb, cfg.BookCacheTTL)
	}
	if es := container.GetES(); es != nil {
		d.Index = search.NewBookIndex(es, cfg.ESBooksIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		d.Storage = storage.NewGCS(gcs, cfg.GCSBucket)
	}
	return d
}

// InitModules builds the services and registers every feature module.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	svc := application.NewServices(BuildDeps())

	r.Logger = logger
	r.Use(middleware.RateLimit(rdb, cfg.RateLimitPerMinute, time.Minute, middleware.KeyByIP(),
		middleware.AnyOf(middleware.AllowPrivateIP(), middleware.AllowCIDRs(cfg.RateLimitExemptCIDRs()...))))

	assessments := handlers.NewAssessmentHandler(svc.Assessments, logger)
	r.Add(
		modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger), rdb),
		modules.NewBookModule(handlers.NewBookHandler(svc.Books, logger), assessments, rdb),
		modules.NewAssessmentModule(assessments, rdb),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
