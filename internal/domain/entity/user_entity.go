package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
	"github.com/oksasatya/go-managebooks/internal/domain/validation"
)

const userNameMaxLength = 255

// User is the aggregate root for readers of the catalogue.
//
// Invariants:
//   - Email is a non-empty, well formed address
//   - Name is non-empty and at most 255 characters
//   - Id and CreatedAt never change after construction
//
// Assessments are referenced by id only; resolving them is a read concern.
type User struct {
	seedwork.AggregateRoot
	email         string
	name          string
	createdAt     time.Time
	isActive      bool
	assessmentIDs []uuid.UUID
}

// UserUpdate carries the fields a partial update may change. Nil means keep.
type UserUpdate struct {
	Email *string
	Name  *string
}

// NewUser builds an active user stamped with clock's time. No user is returned
// when any invariant fails.
func NewUser(clock seedwork.Clock, email, name string) (*User, error) {
	if clock == nil {
		clock = seedwork.SystemClock
	}
	u := &User{
		AggregateRoot: seedwork.NewAggregateRoot(),
		email:         email,
		name:          name,
		createdAt:     clock.Now(),
		isActive:      true,
		assessmentIDs: []uuid.UUID{},
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// RestoreUser rehydrates a user from storage without validating it.
func RestoreUser(id uuid.UUID, email, name string, createdAt time.Time, isActive bool, assessmentIDs []uuid.UUID) *User {
	return &User{
		AggregateRoot: seedwork.RestoreAggregateRoot(seedwork.RestoreEntity(id)),
		email:         email,
		name:          name,
		createdAt:     createdAt,
		isActive:      isActive,
		assessmentIDs: slices.Clone(assessmentIDs),
	}
}

func (u *User) Email() string              { return u.email }
func (u *User) Name() string               { return u.name }
func (u *User) CreatedAt() time.Time       { return u.createdAt }
func (u *User) IsActive() bool             { return u.isActive }
func (u *User) AssessmentIDs() []uuid.UUID { return slices.Clone(u.assessmentIDs) }

// Validate checks fields in a fixed order and reports the first violation.
func (u *User) Validate() error {
	if err := validation.ValidEmail(u.email, "Email"); err != nil {
		return err
	}
	if err := validation.NotNullOrEmpty(u.email, "Email"); err != nil {
		return err
	}
	if err := validation.NotNullOrEmpty(u.name, "Name"); err != nil {
		return err
	}
	return validation.MaxLength(u.name, userNameMaxLength, "Name")
}

// Update merges the supplied fields and re-validates. On error the user is
// left exactly as it was.
func (u *User) Update(in UserUpdate) error {
	next := *u
	next.email = take(in.Email, u.email)
	next.name = take(in.Name, u.name)
	if err := next.Validate(); err != nil {
		return err
	}
	u.email = next.email
	u.name = next.name
	return nil
}

func (u *User) Activate()   { u.isActive = true }
func (u *User) Deactivate() { u.isActive = false }

func (u *User) AttachAssessment(id uuid.UUID) {
	u.assessmentIDs = appendID(u.assessmentIDs, id)
}
