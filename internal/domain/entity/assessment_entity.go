package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
	"github.com/oksasatya/go-managebooks/internal/domain/validation"
)

const (
	assessmentMinNote = 1
	assessmentMaxNote = 5
)

// Assessment is a user's grade and review of a book. It points at its user
// and book by id only.
type Assessment struct {
	seedwork.Entity
	note        int
	description string
	userID      uuid.UUID
	bookID      uuid.UUID
	createdAt   time.Time
}

// AssessmentUpdate carries the fields a partial update may change. Nil means keep.
type AssessmentUpdate struct {
	Note        *int
	Description *string
}

func NewAssessment(clock seedwork.Clock, note int, description string, userID, bookID uuid.UUID) (*Assessment, error) {
	if clock == nil {
		clock = seedwork.SystemClock
	}
	a := &Assessment{
		Entity:      seedwork.NewEntity(),
		note:        note,
		description: description,
		userID:      userID,
		bookID:      bookID,
		createdAt:   clock.Now(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// RestoreAssessment rehydrates an assessment from storage without validating it.
func RestoreAssessment(id uuid.UUID, note int, description string, userID, bookID uuid.UUID, createdAt time.Time) *Assessment {
	return &Assessment{
		Entity:      seedwork.RestoreEntity(id),
		note:        note,
		description: description,
		userID:      userID,
		bookID:      bookID,
		createdAt:   createdAt,
	}
}

func (a *Assessment) Note() int            { return a.note }
func (a *Assessment) Description() string  { return a.description }
func (a *Assessment) UserID() uuid.UUID    { return a.userID }
func (a *Assessment) BookID() uuid.UUID    { return a.bookID }
func (a *Assessment) CreatedAt() time.Time { return a.createdAt }

func (a *Assessment) Validate() error {
	if err := validation.MinValue(a.note, assessmentMinNote, "Note"); err != nil {
		return err
	}
	if err := validation.MaxValue(a.note, assessmentMaxNote, "Note"); err != nil {
		return err
	}
	return validation.NotNullOrEmpty(a.description, "Description")
}

// Update merges the supplied fields and re-validates. On error the assessment
// is left exactly as it was.
func (a *Assessment) Update(in AssessmentUpdate) error {
	next := *a
	next.note = take(in.Note, a.note)
	next.description = take(in.Description, a.description)
	if err := next.Validate(); err != nil {
		return err
	}
	a.note = next.note
	a.description = next.description
	return nil
}
