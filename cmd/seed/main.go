package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-managebooks/config"
	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/internal/container"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
	pginfra "github.com/oksasatya/go-managebooks/internal/infrastructure/postgres"
	"github.com/oksasatya/go-managebooks/internal/router"
	"github.com/oksasatya/go-managebooks/pkg/helpers"
)

var demoUsers = []application.CreateUserInput{
	{Email: "ada@example.com", Name: "Ada Lovelace"},
	{Email: "alan@example.com", Name: "Alan Turing"},
	{Email: "grace@example.com", Name: "Grace Hopper"},
}

var demoBooks = []application.CreateBookInput{
	{
		Title:             "Dune",
		Description:       "A desert planet, a noble family and the spice that binds an empire.",
		ISBN:              "978-0441172719",
		Author:            "Frank Herbert",
		PublishingCompany: "Chilton Books",
		Genre:             "Scifi",
		YearOfPublication: 1965,
		NumberOfPages:     412,
	},
	{
		Title:             "The Shining",
		Description:       "A winter caretaker and his family alone in the Overlook Hotel.",
		ISBN:              "978-0385121675",
		Author:            "Stephen King",
		PublishingCompany: "Doubleday",
		Genre:             "Horror",
		YearOfPublication: 1977,
		NumberOfPages:     447,
	},
	{
		Title:             "Pride and Prejudice",
		Description:       "Elizabeth Bennet and Mr Darcy misjudge each other at length.",
		ISBN:              "978-0141439518",
		Author:            "Jane Austen",
		PublishingCompany: "Penguin Classics",
		Genre:             "Romance",
		YearOfPublication: 2002,
		NumberOfPages:     480,
	},
}

// notes[i][j] is what demo user j gives demo book i.
var notes = [][]int{
	{5, 4, 5},
	{4, 3, 0},
	{3, 5, 4},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	for _, w := range cfg.Warnings() {
		logger.Warn("config: " + w)
	}
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	svc := application.NewServices(router.BuildDeps())

	existing, err := svc.Books.SearchBooks(ctx, seedwork.SearchInput{PerPage: 1})
	if err != nil {
		logger.WithError(err).Fatal("failed to inspect catalogue")
	}
	if existing.Total > 0 {
		logger.WithField("books", existing.Total).Info("catalogue not empty; skipping seed")
		return
	}

	users := make([]application.UserView, 0, len(demoUsers))
	for _, in := range demoUsers {
		u, err := svc.Users.CreateUser(ctx, in)
		if err != nil {
			logger.WithError(err).WithField("email", in.Email).Fatal("failed to seed user")
		}
		users = append(users, u)
	}

	for i, in := range demoBooks {
		b, err := svc.Books.CreateBook(ctx, in)
		if err != nil {
			logger.WithError(err).WithField("isbn", in.ISBN).Fatal("failed to seed book")
		}
		for j, note := range notes[i] {
			if note == 0 {
				continue
			}
			if _, err := svc.Assessments.CreateAssessment(ctx, application.CreateAssessmentInput{
				UserID:      users[j].ID,
				BookID:      b.ID,
				Note:        note,
				Description: "Seeded review",
			}); err != nil {
				logger.WithError(err).Fatal("failed to seed assessment")
			}
		}
		logger.WithFields(logrus.Fields{"book_id": b.ID, "title": b.Title}).Info("seeded book")
	}
	logger.WithField("users", len(users)).Info("seed complete")
}
