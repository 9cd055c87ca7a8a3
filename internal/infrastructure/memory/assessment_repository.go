package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type AssessmentRepository struct {
	store *Store
}

func NewAssessmentRepository(store *Store) *AssessmentRepository {
	return &AssessmentRepository{store: store}
}

func toAssessmentRecord(a *entity.Assessment) assessmentRecord {
	return assessmentRecord{
		ID:          a.ID(),
		Note:        a.Note(),
		Description: a.Description(),
		UserID:      a.UserID(),
		BookID:      a.BookID(),
		CreatedAt:   a.CreatedAt(),
	}
}

func restoreAssessment(r assessmentRecord) *entity.Assessment {
	return entity.RestoreAssessment(r.ID, r.Note, r.Description, r.UserID, r.BookID, r.CreatedAt)
}

func compareAssessments(a, b assessmentRecord) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return slices.Compare(a.ID[:], b.ID[:])
}

// assessmentIDs returns matching assessment ids in creation order.
func (st *state) assessmentIDs(match func(a assessmentRecord) bool) []uuid.UUID {
	var records []assessmentRecord
	for _, a := range st.assessments {
		if match(a) {
			records = append(records, a)
		}
	}
	slices.SortFunc(records, compareAssessments)
	ids := make([]uuid.UUID, 0, len(records))
	for _, a := range records {
		ids = append(ids, a.ID)
	}
	return ids
}

func (r *AssessmentRepository) Insert(ctx context.Context, a *entity.Assessment) error {
	rec := toAssessmentRecord(a)
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.assessments[rec.ID]; ok {
			return fmt.Errorf("insert assessment %s: %w", rec.ID, errDuplicate)
		}
		if _, ok := st.users[rec.UserID]; !ok {
			return fmt.Errorf("assessment user %s: %w", rec.UserID, repository.ErrNotFound)
		}
		if _, ok := st.books[rec.BookID]; !ok {
			return fmt.Errorf("assessment book %s: %w", rec.BookID, repository.ErrNotFound)
		}
		st.assessments[rec.ID] = rec
		return nil
	})
}

func (r *AssessmentRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Assessment, error) {
	var (
		rec assessmentRecord
		ok  bool
	)
	r.store.read(ctx, func(st *state) {
		rec, ok = st.assessments[id]
	})
	if !ok {
		return nil, fmt.Errorf("assessment %s: %w", id, repository.ErrNotFound)
	}
	return restoreAssessment(rec), nil
}

func (r *AssessmentRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Assessment, error) {
	var records []assessmentRecord
	r.store.read(ctx, func(st *state) {
		for _, a := range st.assessments {
			if a.BookID == bookID {
				records = append(records, a)
			}
		}
	})
	slices.SortFunc(records, compareAssessments)
	out := make([]*entity.Assessment, 0, len(records))
	for _, rec := range records {
		out = append(out, restoreAssessment(rec))
	}
	return out, nil
}

func (r *AssessmentRepository) Update(ctx context.Context, a *entity.Assessment) error {
	rec := toAssessmentRecord(a)
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.assessments[rec.ID]; !ok {
			return fmt.Errorf("assessment %s: %w", rec.ID, repository.ErrNotFound)
		}
		st.assessments[rec.ID] = rec
		return nil
	})
}

func (r *AssessmentRepository) Delete(ctx context.Context, a *entity.Assessment) error {
	id := a.ID()
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.assessments[id]; !ok {
			return fmt.Errorf("assessment %s: %w", id, repository.ErrNotFound)
		}
		delete(st.assessments, id)
		return nil
	})
}

func (r *AssessmentRepository) Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[*entity.Assessment], error) {
	var out seedwork.SearchOutput[*entity.Assessment]
	r.store.read(ctx, func(st *state) {
		records := maps.Values(st.assessments)
		out = searchRecords(records, in,
			func(a assessmentRecord, term string) bool { return containsFold(a.Description, term) },
			map[string]func(a, b assessmentRecord) int{
				"note":      func(a, b assessmentRecord) int { return a.Note - b.Note },
				"createdat": compareAssessments,
			},
			"createdat",
			restoreAssessment,
		)
	})
	return out, nil
}

var _ repository.AssessmentRepository = (*AssessmentRepository)(nil)
