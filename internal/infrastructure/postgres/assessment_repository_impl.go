package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type AssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

const assessmentColumns = `id, note, description, user_id, book_id, created_at`

var assessmentOrderColumns = map[string]string{
	"note":      "note",
	"createdat": "created_at",
}

type assessmentRow struct {
	ID          uuid.UUID
	Note        int
	Description string
	UserID      uuid.UUID
	BookID      uuid.UUID
	CreatedAt   time.Time
}

func (r assessmentRow) restore() *entity.Assessment {
	return entity.RestoreAssessment(r.ID, r.Note, r.Description, r.UserID, r.BookID, r.CreatedAt)
}

func (r *AssessmentRepository) Insert(ctx context.Context, a *entity.Assessment) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO assessments (id, note, description, user_id, book_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID(), a.Note(), a.Description(), a.UserID(), a.BookID(), a.CreatedAt())
	return err
}

func (r *AssessmentRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Assessment, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[assessmentRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("assessment %s: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}
	return rec.restore(), nil
}

func (r *AssessmentRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Assessment, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+assessmentColumns+` FROM assessments WHERE book_id = $1 ORDER BY created_at, id`, bookID)
	if err != nil {
		return nil, err
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[assessmentRow])
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Assessment, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.restore())
	}
	return out, nil
}

func (r *AssessmentRepository) Update(ctx context.Context, a *entity.Assessment) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE assessments SET note = $1, description = $2 WHERE id = $3
	`, a.Note(), a.Description(), a.ID())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("assessment %s: %w", a.ID(), repository.ErrNotFound)
	}
	return nil
}

func (r *AssessmentRepository) Delete(ctx context.Context, a *entity.Assessment) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM assessments WHERE id = $1`, a.ID())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("assessment %s: %w", a.ID(), repository.ErrNotFound)
	}
	return nil
}

func (r *AssessmentRepository) Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[*entity.Assessment], error) {
	in = in.Normalize()
	q := conn(ctx, r.pool)
	out := seedwork.SearchOutput[*entity.Assessment]{CurrentPage: in.Page, PerPage: in.PerPage, Items: []*entity.Assessment{}}

	where := `WHERE ($1::text = '' OR description ILIKE $2)`
	args := []any{in.Search, likePattern(in.Search)}

	if err := q.QueryRow(ctx, `SELECT count(*) FROM assessments `+where, args...).Scan(&out.Total); err != nil {
		return out, err
	}
	rows, err := q.Query(ctx, `SELECT `+assessmentColumns+` FROM assessments `+where+` `+
		orderClause(in, assessmentOrderColumns, "createdat")+` LIMIT $3 OFFSET $4`,
		append(args, in.PerPage, in.Offset())...)
	if err != nil {
		return out, err
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[assessmentRow])
	if err != nil {
		return out, err
	}
	for _, rec := range records {
		out.Items = append(out.Items, rec.restore())
	}
	return out, nil
}

var _ repository.AssessmentRepository = (*AssessmentRepository)(nil)
