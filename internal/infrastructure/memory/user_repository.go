package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func toUserRecord(u *entity.User) userRecord {
	return userRecord{ID: u.ID(), Email: u.Email(), Name: u.Name(), CreatedAt: u.CreatedAt(), IsActive: u.IsActive()}
}

func (st *state) restoreUser(r userRecord) *entity.User {
	return entity.RestoreUser(r.ID, r.Email, r.Name, r.CreatedAt, r.IsActive,
		st.assessmentIDs(func(a assessmentRecord) bool { return a.UserID == r.ID }))
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) error {
	rec := toUserRecord(u)
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.users[rec.ID]; ok {
			return fmt.Errorf("insert user %s: %w", rec.ID, errDuplicate)
		}
		st.users[rec.ID] = rec
		return nil
	})
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u *entity.User
	r.store.read(ctx, func(st *state) {
		if rec, ok := st.users[id]; ok {
			u = st.restoreUser(rec)
		}
	})
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u *entity.User
	r.store.read(ctx, func(st *state) {
		for _, rec := range st.users {
			if strings.EqualFold(rec.Email, email) {
				u = st.restoreUser(rec)
				return
			}
		}
	})
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	rec := toUserRecord(u)
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.users[rec.ID]; !ok {
			return fmt.Errorf("user %s: %w", rec.ID, repository.ErrNotFound)
		}
		st.users[rec.ID] = rec
		return nil
	})
}

// Delete removes the user together with the assessments it wrote.
func (r *UserRepository) Delete(ctx context.Context, u *entity.User) error {
	id := u.ID()
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
		}
		delete(st.users, id)
		for aid, a := range st.assessments {
			if a.UserID == id {
				delete(st.assessments, aid)
			}
		}
		return nil
	})
}

func (r *UserRepository) Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[*entity.User], error) {
	var out seedwork.SearchOutput[*entity.User]
	r.store.read(ctx, func(st *state) {
		records := maps.Values(st.users)
		out = searchRecords(records, in,
			func(u userRecord, term string) bool {
				return containsFold(u.Name, term) || containsFold(u.Email, term)
			},
			map[string]func(a, b userRecord) int{
				"name":      func(a, b userRecord) int { return compareFold(a.Name, b.Name) },
				"email":     func(a, b userRecord) int { return compareFold(a.Email, b.Email) },
				"createdat": func(a, b userRecord) int { return a.CreatedAt.Compare(b.CreatedAt) },
			},
			"name",
			st.restoreUser,
		)
	})
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
