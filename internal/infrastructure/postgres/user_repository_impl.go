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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, name, is_active, created_at`

var userOrderColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdat": "created_at",
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (id, email, name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID(), u.Email(), u.Name(), u.IsActive(), u.CreatedAt())
	return err
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	q := conn(ctx, r.pool)
	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := r.scan(ctx, q, row)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	q := conn(ctx, r.pool)
	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := r.scan(ctx, q, row)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, is_active = $3
		WHERE id = $4
	`, u.Email(), u.Name(), u.IsActive(), u.ID())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", u.ID(), repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, u *entity.User) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", u.ID(), repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[*entity.User], error) {
	in = in.Normalize()
	q := conn(ctx, r.pool)
	out := seedwork.SearchOutput[*entity.User]{CurrentPage: in.Page, PerPage: in.PerPage, Items: []*entity.User{}}

	where := `WHERE ($1::text = '' OR name ILIKE $2 OR email ILIKE $2)`
	args := []any{in.Search, likePattern(in.Search)}

	if err := q.QueryRow(ctx, `SELECT count(*) FROM users `+where, args...).Scan(&out.Total); err != nil {
		return out, err
	}

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users `+where+` `+
		orderClause(in, userOrderColumns, "name")+` LIMIT $3 OFFSET $4`,
		append(args, in.PerPage, in.Offset())...)
	if err != nil {
		return out, err
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[userRow])
	if err != nil {
		return out, err
	}
	for _, rec := range records {
		ids, err := assessmentIDsBy(ctx, q, "user_id", rec.ID)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, rec.restore(ids))
	}
	return out, nil
}

type userRow struct {
	ID        uuid.UUID
	Email     string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

func (r userRow) restore(assessmentIDs []uuid.UUID) *entity.User {
	return entity.RestoreUser(r.ID, r.Email, r.Name, r.CreatedAt, r.IsActive, assessmentIDs)
}

func (r *UserRepository) scan(ctx context.Context, q querier, row pgx.Row) (*entity.User, error) {
	var rec userRow
	if err := row.Scan(&rec.ID, &rec.Email, &rec.Name, &rec.IsActive, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	ids, err := assessmentIDsBy(ctx, q, "user_id", rec.ID)
	if err != nil {
		return nil, err
	}
	return rec.restore(ids), nil
}

// assessmentIDsBy lists assessment ids referencing owner through column, in creation order.
func assessmentIDsBy(ctx context.Context, q querier, column string, owner uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx,
		`SELECT id FROM assessments WHERE `+column+` = $1 ORDER BY created_at, id`, owner)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

var _ repository.UserRepository = (*UserRepository)(nil)
