package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/exception"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

const bookColumns = `id, title, description, isbn, author, publishing_company, genre,
	year_of_publication, number_of_pages, average_grade::text, cover_url, created_at`

const (
	uniqueViolation  = "23505"
	isbnUniqueIndex  = "ux_books_isbn"
	isbnUniqueReason = "ISBN should be unique"
)

// isbnConflict turns a lost race on ux_books_isbn into the same validation
// error the ExistsByISBN check reports.
func isbnConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == isbnUniqueIndex {
		return exception.NewEntityValidation(isbnUniqueReason)
	}
	return err
}

var bookOrderColumns = map[string]string{
	"title":     "title",
	"author":    "author",
	"year":      "year_of_publication",
	"grade":     "average_grade",
	"createdat": "created_at",
}

func (r *BookRepository) Insert(ctx context.Context, b *entity.Book) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO books (id, title, description, isbn, author, publishing_company, genre,
			year_of_publication, number_of_pages, average_grade, cover_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, $12)
	`, b.ID(), b.Title(), b.Description(), b.ISBN(), b.Author(), b.PublishingCompany(), b.Genre().String(),
		b.YearOfPublication(), b.NumberOfPages(), b.AverageGrade().String(), b.CoverURL(), b.CreatedAt())
	return isbnConflict(err)
}

func (r *BookRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	q := conn(ctx, r.pool)
	row := q.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	var rec bookRow
	if err := rec.scan(row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("book %s: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}
	return r.restore(ctx, q, rec)
}

func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE lower(trim(isbn)) = lower(trim($1)))`, isbn,
	).Scan(&exists)
	return exists, err
}

func (r *BookRepository) Update(ctx context.Context, b *entity.Book) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE books
		SET title = $1, description = $2, isbn = $3, author = $4, publishing_company = $5, genre = $6,
			year_of_publication = $7, number_of_pages = $8, average_grade = $9::numeric, cover_url = $10
		WHERE id = $11
	`, b.Title(), b.Description(), b.ISBN(), b.Author(), b.PublishingCompany(), b.Genre().String(),
		b.YearOfPublication(), b.NumberOfPages(), b.AverageGrade().String(), b.CoverURL(), b.ID())
	if err != nil {
		return isbnConflict(err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", b.ID(), repository.ErrNotFound)
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, b *entity.Book) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM books WHERE id = $1`, b.ID())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", b.ID(), repository.ErrNotFound)
	}
	return nil
}

func (r *BookRepository) Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[*entity.Book], error) {
	in = in.Normalize()
	q := conn(ctx, r.pool)
	out := seedwork.SearchOutput[*entity.Book]{CurrentPage: in.Page, PerPage: in.PerPage, Items: []*entity.Book{}}

	where := `WHERE ($1::text = '' OR title ILIKE $2 OR author ILIKE $2 OR isbn ILIKE $2)`
	args := []any{in.Search, likePattern(in.Search)}

	if err := q.QueryRow(ctx, `SELECT count(*) FROM books `+where, args...).Scan(&out.Total); err != nil {
		return out, err
	}

	rows, err := q.Query(ctx, `SELECT `+bookColumns+` FROM books `+where+` `+
		orderClause(in, bookOrderColumns, "title")+` LIMIT $3 OFFSET $4`,
		append(args, in.PerPage, in.Offset())...)
	if err != nil {
		return out, err
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (bookRow, error) {
		var rec bookRow
		err := rec.scan(row)
		return rec, err
	})
	if err != nil {
		return out, err
	}
	for _, rec := range records {
		b, err := r.restore(ctx, q, rec)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, b)
	}
	return out, nil
}

type bookRow struct {
	ID                uuid.UUID
	Title             string
	Description       string
	ISBN              string
	Author            string
	PublishingCompany string
	Genre             string
	YearOfPublication int
	NumberOfPages     int
	AverageGrade      string
	CoverURL          string
	CreatedAt         time.Time
}

func (rec *bookRow) scan(row pgx.Row) error {
	return row.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.ISBN, &rec.Author, &rec.PublishingCompany,
		&rec.Genre, &rec.YearOfPublication, &rec.NumberOfPages, &rec.AverageGrade, &rec.CoverURL, &rec.CreatedAt)
}

func (r *BookRepository) restore(ctx context.Context, q querier, rec bookRow) (*entity.Book, error) {
	genre, err := entity.ParseBookGenre(rec.Genre)
	if err != nil {
		return nil, fmt.Errorf("book %s: %w", rec.ID, err)
	}
	grade, err := decimal.NewFromString(rec.AverageGrade)
	if err != nil {
		return nil, fmt.Errorf("book %s average grade: %w", rec.ID, err)
	}
	ids, err := assessmentIDsBy(ctx, q, "book_id", rec.ID)
	if err != nil {
		return nil, err
	}
	return entity.RestoreBook(rec.ID, entity.BookFields{
		Title:             rec.Title,
		Description:       rec.Description,
		ISBN:              rec.ISBN,
		Author:            rec.Author,
		PublishingCompany: rec.PublishingCompany,
		Genre:             genre,
		YearOfPublication: rec.YearOfPublication,
		NumberOfPages:     rec.NumberOfPages,
		AverageGrade:      grade,
	}, rec.CreatedAt, rec.CoverURL, ids), nil
}

var _ repository.BookRepository = (*BookRepository)(nil)
