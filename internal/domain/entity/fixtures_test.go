package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() seedwork.Clock { return seedwork.FixedClock(fixedNow) }

func ptr[T any](v T) *T { return &v }

func validBookFields() BookFields {
	return BookFields{
		Title:             "The Left Hand of Darkness",
		Description:       "An envoy visits a planet whose people have no fixed sex.",
		ISBN:              "978-0-441-47812-5",
		Author:            "Ursula K. Le Guin",
		PublishingCompany: "Ace Books",
		Genre:             BookGenreScifi,
		YearOfPublication: 1969,
		NumberOfPages:     304,
		AverageGrade:      decimal.RequireFromString("4.50"),
	}
}

func validBook() *Book {
	b, err := NewBook(fixedClock(), validBookFields())
	if err != nil {
		panic(err)
	}
	return b
}

func validUser() *User {
	u, err := NewUser(fixedClock(), "reader@example.com", "Alice")
	if err != nil {
		panic(err)
	}
	return u
}

func validAssessment() *Assessment {
	a, err := NewAssessment(fixedClock(), 4, "Dense but rewarding.", uuid.New(), uuid.New())
	if err != nil {
		panic(err)
	}
	return a
}

func longString(n int) string { return strings.Repeat("x", n) }
