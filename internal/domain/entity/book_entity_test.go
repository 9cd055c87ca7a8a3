package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-managebooks/internal/domain/exception"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

func TestNewBookRoundTrip(t *testing.T) {
	f := validBookFields()
	b, err := NewBook(fixedClock(), f)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, f.Title, b.Title())
	assert.Equal(t, f.Description, b.Description())
	assert.Equal(t, f.ISBN, b.ISBN())
	assert.Equal(t, f.Author, b.Author())
	assert.Equal(t, f.PublishingCompany, b.PublishingCompany())
	assert.Equal(t, f.Genre, b.Genre())
	assert.Equal(t, f.YearOfPublication, b.YearOfPublication())
	assert.Equal(t, f.NumberOfPages, b.NumberOfPages())
	assert.True(t, f.AverageGrade.Equal(b.AverageGrade()))
	assert.Equal(t, fixedNow, b.CreatedAt())
	assert.Equal(t, f, b.Fields())
	assert.Empty(t, b.AssessmentIDs())
}

func TestNewBookRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *BookFields)
		message string
	}{
		{"empty title", func(f *BookFields) { f.Title = "" }, "Title should not be empty or null"},
		{"blank title", func(f *BookFields) { f.Title = "    " }, "Title should not be empty or null"},
		{"short title", func(f *BookFields) { f.Title = "ab" }, "Title should not be less than 3 characters long"},
		{"long title", func(f *BookFields) { f.Title = longString(256) }, "Title should not be greater than 255 characters long"},
		{"empty description", func(f *BookFields) { f.Description = " " }, "Description should not be empty or null"},
		{"long description", func(f *BookFields) { f.Description = longString(10_001) }, "Description should not be greater than 10000 characters long"},
		{"empty isbn", func(f *BookFields) { f.ISBN = "" }, "ISBN should not be empty or null"},
		{"empty author", func(f *BookFields) { f.Author = "" }, "Author should not be empty or null"},
		{"long author", func(f *BookFields) { f.Author = longString(256) }, "Author should not be greater than 255 characters long"},
		{"empty publisher", func(f *BookFields) { f.PublishingCompany = "" }, "PublishingCompany should not be empty or null"},
		{"long publisher", func(f *BookFields) { f.PublishingCompany = longString(256) }, "PublishingCompany should not be greater than 255 characters long"},
		{"year too old", func(f *BookFields) { f.YearOfPublication = 1899 }, "YearOfPublication should be a valid year"},
		{"year in the future", func(f *BookFields) { f.YearOfPublication = fixedNow.Year() + 1 }, "YearOfPublication should be a valid year"},
		{"too few pages", func(f *BookFields) { f.NumberOfPages = 5 }, "NumberOfPages should not be less than 10 value"},
		{"too many pages", func(f *BookFields) { f.NumberOfPages = 1501 }, "NumberOfPages should not be greater than 1500 value"},
		{"unknown genre", func(f *BookFields) { f.Genre = BookGenre(42) }, "Genre should be a valid genre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validBookFields()
			tt.mutate(&f)
			b, err := NewBook(fixedClock(), f)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, exception.IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestBookValidationShortCircuits(t *testing.T) {
	f := validBookFields()
	f.Title = "ab"
	f.Description = ""
	f.NumberOfPages = 1

	_, err := NewBook(fixedClock(), f)
	require.Error(t, err)
	assert.Equal(t, "Title should not be less than 3 characters long", err.Error())
}

func TestBookBoundaries(t *testing.T) {
	for _, pages := range []int{10, 1500} {
		f := validBookFields()
		f.NumberOfPages = pages
		_, err := NewBook(fixedClock(), f)
		assert.NoError(t, err, "pages=%d", pages)
	}
	for _, year := range []int{1900, fixedNow.Year()} {
		f := validBookFields()
		f.YearOfPublication = year
		_, err := NewBook(fixedClock(), f)
		assert.NoError(t, err, "year=%d", year)
	}
	f := validBookFields()
	f.Title = "abc"
	_, err := NewBook(fixedClock(), f)
	assert.NoError(t, err)
}

func TestBookUpdate(t *testing.T) {
	t.Run("no fields is a no-op", func(t *testing.T) {
		b := validBook()
		before := b.Fields()
		require.NoError(t, b.Update(fixedClock(), BookUpdate{}))
		assert.Equal(t, before, b.Fields())
		assert.Equal(t, fixedNow, b.CreatedAt())
	})

	t.Run("changes only the given field", func(t *testing.T) {
		b := validBook()
		want := b.Fields()
		want.NumberOfPages = 320

		require.NoError(t, b.Update(fixedClock(), BookUpdate{NumberOfPages: ptr(320)}))
		assert.Equal(t, want, b.Fields())
	})

	t.Run("several fields at once", func(t *testing.T) {
		b := validBook()
		require.NoError(t, b.Update(fixedClock(), BookUpdate{
			Title: ptr("The Dispossessed"),
			Genre: ptr(BookGenreRomance),
		}))
		assert.Equal(t, "The Dispossessed", b.Title())
		assert.Equal(t, BookGenreRomance, b.Genre())
		assert.Equal(t, "Ursula K. Le Guin", b.Author())
	})

	t.Run("invalid merge leaves the book untouched", func(t *testing.T) {
		b := validBook()
		before := b.Fields()
		err := b.Update(fixedClock(), BookUpdate{Title: ptr("Fine Title"), NumberOfPages: ptr(2000)})
		require.Error(t, err)
		assert.Equal(t, "NumberOfPages should not be greater than 1500 value", err.Error())
		assert.Equal(t, before, b.Fields())
	})

	t.Run("restored book checks the year against the given clock", func(t *testing.T) {
		b := RestoreBook(uuid.New(), validBookFields(), fixedNow, "", nil)
		y2k := seedwork.FixedClock(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))

		err := b.Update(y2k, BookUpdate{YearOfPublication: ptr(2020)})
		require.Error(t, err)
		assert.Equal(t, "YearOfPublication should be a valid year", err.Error())
		assert.Equal(t, 1969, b.YearOfPublication())

		require.NoError(t, b.Update(y2k, BookUpdate{YearOfPublication: ptr(1999)}))
	})
}

func TestBookRecalculateAverageGrade(t *testing.T) {
	b := validBook()

	b.RecalculateAverageGrade([]int{5, 4, 4})
	assert.Equal(t, "4.33", b.AverageGrade().StringFixed(2))

	b.RecalculateAverageGrade([]int{1, 2})
	assert.Equal(t, "1.50", b.AverageGrade().StringFixed(2))

	b.RecalculateAverageGrade(nil)
	assert.True(t, b.AverageGrade().Equal(decimal.Zero))
}

func TestBookCoverAndAssessments(t *testing.T) {
	b := validBook()
	b.ChangeCover("https://storage.googleapis.com/covers/x.png")
	assert.Equal(t, "https://storage.googleapis.com/covers/x.png", b.CoverURL())

	id := uuid.New()
	b.AttachAssessment(id)
	assert.Equal(t, []uuid.UUID{id}, b.AssessmentIDs())
}

func TestRestoreBookKeepsStoredValues(t *testing.T) {
	id := uuid.New()
	f := validBookFields()
	assessment := uuid.New()
	b := RestoreBook(id, f, fixedNow, "cover", []uuid.UUID{assessment})

	assert.Equal(t, id, b.ID())
	assert.Equal(t, f, b.Fields())
	assert.Equal(t, fixedNow, b.CreatedAt())
	assert.Equal(t, "cover", b.CoverURL())
	assert.Equal(t, []uuid.UUID{assessment}, b.AssessmentIDs())
	assert.NoError(t, b.Validate())
}

func TestParseBookGenre(t *testing.T) {
	for _, g := range BookGenres() {
		parsed, err := ParseBookGenre(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}
	g, err := ParseBookGenre(" scifi ")
	require.NoError(t, err)
	assert.Equal(t, BookGenreScifi, g)

	g, err = ParseBookGenre("cookbook")
	assert.Error(t, err)
	assert.Equal(t, BookGenreUnknown, g)
	assert.False(t, g.IsValid())
	assert.Equal(t, "BookGenre(42)", BookGenre(42).String())
}
