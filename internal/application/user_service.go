package application

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type UserService struct {
	Deps
}

func NewUserService(d Deps) *UserService {
	return &UserService{Deps: d.withDefaults()}
}

type CreateUserInput struct {
	Email string
	Name  string
}

type UpdateUserInput struct {
	Email *string
	Name  *string
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (UserView, error) {
	u, err := entity.NewUser(s.Clock, in.Email, in.Name)
	if err != nil {
		return UserView{}, err
	}
	if err := s.inTx(ctx, func(ctx context.Context) error {
		return s.Users.Insert(ctx, u)
	}); err != nil {
		return UserView{}, err
	}

	s.Logger.WithField("user_id", u.ID()).Info("user created")
	s.publish(ctx, Event{
		Name:        EventUserCreated,
		AggregateID: u.ID(),
		Payload:     map[string]any{"email": u.Email(), "name": u.Name()},
	})
	return NewUserView(u), nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (UserView, error) {
	u, err := s.Users.Get(ctx, id)
	if err != nil {
		return UserView{}, notFoundAs(err, ErrUserNotFound)
	}
	return NewUserView(u), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (UserView, error) {
	return s.mutate(ctx, id, EventUserUpdated, func(u *entity.User) error {
		return u.Update(entity.UserUpdate{Email: in.Email, Name: in.Name})
	})
}

func (s *UserService) ActivateUser(ctx context.Context, id uuid.UUID) (UserView, error) {
	return s.mutate(ctx, id, EventUserActivated, func(u *entity.User) error {
		u.Activate()
		return nil
	})
}

func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) (UserView, error) {
	return s.mutate(ctx, id, EventUserDeactivated, func(u *entity.User) error {
		u.Deactivate()
		return nil
	})
}

// DeleteUser removes the user together with every assessment they wrote and
// recalculates the grades of the books those assessments belonged to.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	var touched []*entity.Book
	if err := s.inTx(ctx, func(ctx context.Context) error {
		u, err := s.Users.Get(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		bookIDs := make([]uuid.UUID, 0)
		for _, aid := range u.AssessmentIDs() {
			a, err := s.Assessments.Get(ctx, aid)
			if err != nil {
				return err
			}
			if !slices.Contains(bookIDs, a.BookID()) {
				bookIDs = append(bookIDs, a.BookID())
			}
		}
		if err := s.Users.Delete(ctx, u); err != nil {
			return err
		}
		for _, bid := range bookIDs {
			b, err := s.recalculateGrade(ctx, bid)
			if err != nil {
				return err
			}
			touched = append(touched, b)
		}
		return nil
	}); err != nil {
		return err
	}

	for _, b := range touched {
		s.syncBook(ctx, b)
	}
	s.publish(ctx, Event{Name: EventUserDeleted, AggregateID: id})
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[UserView], error) {
	out, err := s.Users.Search(ctx, in.Normalize())
	if err != nil {
		return seedwork.SearchOutput[UserView]{}, err
	}
	return mapOutput(out, NewUserView), nil
}

func (s *UserService) mutate(ctx context.Context, id uuid.UUID, event string, fn func(u *entity.User) error) (UserView, error) {
	var u *entity.User
	if err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Users.Get(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		if err := fn(u); err != nil {
			return err
		}
		return s.Users.Update(ctx, u)
	}); err != nil {
		return UserView{}, err
	}
	s.publish(ctx, Event{
		Name:        event,
		AggregateID: u.ID(),
		Payload:     map[string]any{"email": u.Email(), "name": u.Name()},
	})
	return NewUserView(u), nil
}
