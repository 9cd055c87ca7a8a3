package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
)

type AssessmentService struct {
	Deps
}

func NewAssessmentService(d Deps) *AssessmentService {
	return &AssessmentService{Deps: d.withDefaults()}
}

type CreateAssessmentInput struct {
	UserID      uuid.UUID
	BookID      uuid.UUID
	Note        int
	Description string
}

type UpdateAssessmentInput struct {
	Note        *int
	Description *string
}

// CreateAssessment records a review by an active user and recalculates the
// book's average grade in the same unit of work.
func (s *AssessmentService) CreateAssessment(ctx context.Context, in CreateAssessmentInput) (AssessmentView, error) {
	a, err := entity.NewAssessment(s.Clock, in.Note, in.Description, in.UserID, in.BookID)
	if err != nil {
		return AssessmentView{}, err
	}

	var (
		u *entity.User
		b *entity.Book
	)
	if err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Users.Get(ctx, in.UserID)
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		if !u.IsActive() {
			return ErrUserInactive
		}
		if _, err := s.Books.Get(ctx, in.BookID); err != nil {
			return notFoundAs(err, ErrBookNotFound)
		}
		if err := s.Assessments.Insert(ctx, a); err != nil {
			return err
		}
		b, err = s.recalculateGrade(ctx, in.BookID)
		return err
	}); err != nil {
		return AssessmentView{}, err
	}

	u.AttachAssessment(a.ID())
	b.AttachAssessment(a.ID())
	s.Logger.WithField("assessment_id", a.ID()).WithField("book_id", b.ID()).Info("assessment created")
	s.syncBook(ctx, b)
	s.publish(ctx, Event{
		Name:        EventAssessmentCreated,
		AggregateID: a.ID(),
		Payload:     map[string]any{"user_id": u.ID(), "book_id": b.ID(), "note": a.Note()},
	})
	return newAssessmentView(a, u, b), nil
}

func (s *AssessmentService) GetAssessment(ctx context.Context, id uuid.UUID) (AssessmentView, error) {
	a, err := s.Assessments.Get(ctx, id)
	if err != nil {
		return AssessmentView{}, notFoundAs(err, ErrAssessmentNotFound)
	}
	u, err := s.Users.Get(ctx, a.UserID())
	if err != nil {
		return AssessmentView{}, notFoundAs(err, ErrUserNotFound)
	}
	b, err := s.Books.Get(ctx, a.BookID())
	if err != nil {
		return AssessmentView{}, notFoundAs(err, ErrBookNotFound)
	}
	return newAssessmentView(a, u, b), nil
}

func (s *AssessmentService) UpdateAssessment(ctx context.Context, id uuid.UUID, in UpdateAssessmentInput) (AssessmentView, error) {
	var (
		a *entity.Assessment
		u *entity.User
		b *entity.Book
	)
	if err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.Assessments.Get(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrAssessmentNotFound)
		}
		if err := a.Update(entity.AssessmentUpdate{Note: in.Note, Description: in.Description}); err != nil {
			return err
		}
		if err := s.Assessments.Update(ctx, a); err != nil {
			return err
		}
		u, err = s.Users.Get(ctx, a.UserID())
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		b, err = s.recalculateGrade(ctx, a.BookID())
		return err
	}); err != nil {
		return AssessmentView{}, err
	}

	s.syncBook(ctx, b)
	s.publish(ctx, Event{Name: EventAssessmentUpdated, AggregateID: a.ID()})
	return newAssessmentView(a, u, b), nil
}

func (s *AssessmentService) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	var b *entity.Book
	if err := s.inTx(ctx, func(ctx context.Context) error {
		a, err := s.Assessments.Get(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrAssessmentNotFound)
		}
		if err := s.Assessments.Delete(ctx, a); err != nil {
			return err
		}
		b, err = s.recalculateGrade(ctx, a.BookID())
		return err
	}); err != nil {
		return err
	}

	s.syncBook(ctx, b)
	s.publish(ctx, Event{Name: EventAssessmentDeleted, AggregateID: id})
	return nil
}

func (s *AssessmentService) ListAssessmentsByBook(ctx context.Context, bookID uuid.UUID) ([]AssessmentSummary, error) {
	if _, err := s.Books.Get(ctx, bookID); err != nil {
		return nil, notFoundAs(err, ErrBookNotFound)
	}
	list, err := s.Assessments.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]AssessmentSummary, 0, len(list))
	for _, a := range list {
		out = append(out, NewAssessmentSummary(a))
	}
	return out, nil
}

func newAssessmentView(a *entity.Assessment, u *entity.User, b *entity.Book) AssessmentView {
	return AssessmentView{
		ID:          a.ID(),
		Note:        a.Note(),
		Description: a.Description(),
		CreatedAt:   a.CreatedAt(),
		User:        NewUserView(u),
		Book:        NewBookView(b),
	}
}
