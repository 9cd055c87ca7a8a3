package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-managebooks/internal/domain/exception"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
	"github.com/oksasatya/go-managebooks/internal/domain/validation"
)

const (
	bookTitleMinLength       = 3
	bookTitleMaxLength       = 255
	bookDescriptionMaxLength = 10_000
	bookAuthorMaxLength      = 255
	bookPublisherMaxLength   = 255
	bookMinPages             = 10
	bookMaxPages             = 1500
	averageGradePlaces       = 2
)

// BookFields are the caller supplied values a book is built from.
type BookFields struct {
	Title             string
	Description       string
	ISBN              string
	Author            string
	PublishingCompany string
	Genre             BookGenre
	YearOfPublication int
	NumberOfPages     int
	AverageGrade      decimal.Decimal
}

// BookUpdate carries the fields a partial update may change. Nil means keep.
type BookUpdate struct {
	Title             *string
	Description       *string
	ISBN              *string
	Author            *string
	PublishingCompany *string
	Genre             *BookGenre
	YearOfPublication *int
	NumberOfPages     *int
	AverageGrade      *decimal.Decimal
}

// Book is the aggregate root for a catalogue entry.
//
// Invariants:
//   - Title is 3..255 characters
//   - Description is non-empty and at most 10000 characters
//   - ISBN is non-empty; uniqueness is checked against storage by the caller
//   - Author and PublishingCompany are non-empty and at most 255 characters
//   - YearOfPublication is between 1900 and the current year
//   - NumberOfPages is between 10 and 1500
type Book struct {
	seedwork.AggregateRoot
	fields        BookFields
	createdAt     time.Time
	coverURL      string
	assessmentIDs []uuid.UUID
	clock         seedwork.Clock
}

// NewBook stamps CreatedAt from clock and validates. No book is returned on error.
func NewBook(clock seedwork.Clock, f BookFields) (*Book, error) {
	if clock == nil {
		clock = seedwork.SystemClock
	}
	b := &Book{
		AggregateRoot: seedwork.NewAggregateRoot(),
		fields:        f,
		createdAt:     clock.Now(),
		assessmentIDs: []uuid.UUID{},
		clock:         clock,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// RestoreBook rehydrates a book from storage without validating it. Validate
// checks the year against the system clock; Update takes the caller's clock.
func RestoreBook(id uuid.UUID, f BookFields, createdAt time.Time, coverURL string, assessmentIDs []uuid.UUID) *Book {
	return &Book{
		AggregateRoot: seedwork.RestoreAggregateRoot(seedwork.RestoreEntity(id)),
		fields:        f,
		createdAt:     createdAt,
		coverURL:      coverURL,
		assessmentIDs: slices.Clone(assessmentIDs),
		clock:         seedwork.SystemClock,
	}
}

func (b *Book) Title() string                 { return b.fields.Title }
func (b *Book) Description() string           { return b.fields.Description }
func (b *Book) ISBN() string                  { return b.fields.ISBN }
func (b *Book) Author() string                { return b.fields.Author }
func (b *Book) PublishingCompany() string     { return b.fields.PublishingCompany }
func (b *Book) Genre() BookGenre              { return b.fields.Genre }
func (b *Book) YearOfPublication() int        { return b.fields.YearOfPublication }
func (b *Book) NumberOfPages() int            { return b.fields.NumberOfPages }
func (b *Book) AverageGrade() decimal.Decimal { return b.fields.AverageGrade }
func (b *Book) CreatedAt() time.Time          { return b.createdAt }
func (b *Book) CoverURL() string              { return b.coverURL }
func (b *Book) AssessmentIDs() []uuid.UUID    { return slices.Clone(b.assessmentIDs) }

// Fields returns a copy of the current field values.
func (b *Book) Fields() BookFields { return b.fields }

// Validate checks fields in a fixed order and reports the first violation.
func (b *Book) Validate() error {
	return validateBookFields(b.fields, b.clock.Now())
}

func validateBookFields(f BookFields, now time.Time) error {
	rules := []func() error{
		func() error { return validation.NotNullOrEmpty(f.Title, "Title") },
		func() error { return validation.MinLength(f.Title, bookTitleMinLength, "Title") },
		func() error { return validation.MaxLength(f.Title, bookTitleMaxLength, "Title") },
		func() error { return validation.NotNullOrEmpty(f.Description, "Description") },
		func() error { return validation.MaxLength(f.Description, bookDescriptionMaxLength, "Description") },
		func() error { return validation.NotNullOrEmpty(f.ISBN, "ISBN") },
		func() error { return validation.NotNullOrEmpty(f.Author, "Author") },
		func() error { return validation.MaxLength(f.Author, bookAuthorMaxLength, "Author") },
		func() error { return validation.NotNullOrEmpty(f.PublishingCompany, "PublishingCompany") },
		func() error { return validation.MaxLength(f.PublishingCompany, bookPublisherMaxLength, "PublishingCompany") },
		func() error { return validation.ValidYearAt(f.YearOfPublication, now, "YearOfPublication") },
		func() error { return validation.MinValue(f.NumberOfPages, bookMinPages, "NumberOfPages") },
		func() error { return validation.MaxValue(f.NumberOfPages, bookMaxPages, "NumberOfPages") },
		func() error { return validGenre(f.Genre) },
	}
	for _, rule := range rules {
		if err := rule(); err != nil {
			return err
		}
	}
	return nil
}

func validGenre(g BookGenre) error {
	if !g.IsValid() {
		return exception.NewEntityValidation("Genre should be a valid genre")
	}
	return nil
}

// Update merges the supplied fields and re-validates, bounding the year by
// clock (the book's own clock when nil). On error the book is left exactly as
// it was. CreatedAt is never touched.
func (b *Book) Update(clock seedwork.Clock, in BookUpdate) error {
	if clock == nil {
		clock = b.clock
	}
	next := BookFields{
		Title:             take(in.Title, b.fields.Title),
		Description:       take(in.Description, b.fields.Description),
		ISBN:              take(in.ISBN, b.fields.ISBN),
		Author:            take(in.Author, b.fields.Author),
		PublishingCompany: take(in.PublishingCompany, b.fields.PublishingCompany),
		Genre:             take(in.Genre, b.fields.Genre),
		YearOfPublication: take(in.YearOfPublication, b.fields.YearOfPublication),
		NumberOfPages:     take(in.NumberOfPages, b.fields.NumberOfPages),
		AverageGrade:      take(in.AverageGrade, b.fields.AverageGrade),
	}
	if err := validateBookFields(next, clock.Now()); err != nil {
		return err
	}
	b.fields = next
	return nil
}

// RecalculateAverageGrade sets AverageGrade to the mean of notes rounded to
// two places, or zero when there are none.
func (b *Book) RecalculateAverageGrade(notes []int) {
	if len(notes) == 0 {
		b.fields.AverageGrade = decimal.Zero
		return
	}
	sum := decimal.Zero
	for _, n := range notes {
		sum = sum.Add(decimal.NewFromInt(int64(n)))
	}
	b.fields.AverageGrade = sum.Div(decimal.NewFromInt(int64(len(notes)))).Round(averageGradePlaces)
}

func (b *Book) ChangeCover(url string) { b.coverURL = url }

func (b *Book) AttachAssessment(id uuid.UUID) {
	b.assessmentIDs = appendID(b.assessmentIDs, id)
}
