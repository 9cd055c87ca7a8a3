package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/exception"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type BookRepository struct {
	store *Store
}

func NewBookRepository(store *Store) *BookRepository {
	return &BookRepository{store: store}
}

func toBookRecord(b *entity.Book) bookRecord {
	return bookRecord{ID: b.ID(), Fields: b.Fields(), CreatedAt: b.CreatedAt(), CoverURL: b.CoverURL()}
}

func (st *state) restoreBook(r bookRecord) *entity.Book {
	return entity.RestoreBook(r.ID, r.Fields, r.CreatedAt, r.CoverURL,
		st.assessmentIDs(func(a assessmentRecord) bool { return a.BookID == r.ID }))
}

func sameISBN(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// isbnTaken reports whether a book other than self already uses isbn. Writes
// check it on staging and again when a commit replays them.
func (st *state) isbnTaken(isbn string, self uuid.UUID) bool {
	for id, rec := range st.books {
		if id != self && sameISBN(rec.Fields.ISBN, isbn) {
			return true
		}
	}
	return false
}

func (r *BookRepository) Insert(ctx context.Context, b *entity.Book) error {
	rec := toBookRecord(b)
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.books[rec.ID]; ok {
			return fmt.Errorf("insert book %s: %w", rec.ID, errDuplicate)
		}
		if st.isbnTaken(rec.Fields.ISBN, rec.ID) {
			return exception.NewEntityValidation("ISBN should be unique")
		}
		st.books[rec.ID] = rec
		return nil
	})
}

func (r *BookRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var b *entity.Book
	r.store.read(ctx, func(st *state) {
		if rec, ok := st.books[id]; ok {
			b = st.restoreBook(rec)
		}
	})
	if b == nil {
		return nil, fmt.Errorf("book %s: %w", id, repository.ErrNotFound)
	}
	return b, nil
}

func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var found bool
	r.store.read(ctx, func(st *state) {
		found = st.isbnTaken(isbn, uuid.Nil)
	})
	return found, nil
}

func (r *BookRepository) Update(ctx context.Context, b *entity.Book) error {
	rec := toBookRecord(b)
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.books[rec.ID]; !ok {
			return fmt.Errorf("book %s: %w", rec.ID, repository.ErrNotFound)
		}
		if st.isbnTaken(rec.Fields.ISBN, rec.ID) {
			return exception.NewEntityValidation("ISBN should be unique")
		}
		st.books[rec.ID] = rec
		return nil
	})
}

// Delete removes the book together with its assessments.
func (r *BookRepository) Delete(ctx context.Context, b *entity.Book) error {
	id := b.ID()
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.books[id]; !ok {
			return fmt.Errorf("book %s: %w", id, repository.ErrNotFound)
		}
		delete(st.books, id)
		for aid, a := range st.assessments {
			if a.BookID == id {
				delete(st.assessments, aid)
			}
		}
		return nil
	})
}

func (r *BookRepository) Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[*entity.Book], error) {
	var out seedwork.SearchOutput[*entity.Book]
	r.store.read(ctx, func(st *state) {
		records := maps.Values(st.books)
		out = searchRecords(records, in,
			func(b bookRecord, term string) bool {
				return containsFold(b.Fields.Title, term) ||
					containsFold(b.Fields.Author, term) ||
					containsFold(b.Fields.ISBN, term)
			},
			map[string]func(a, b bookRecord) int{
				"title":     func(a, b bookRecord) int { return compareFold(a.Fields.Title, b.Fields.Title) },
				"author":    func(a, b bookRecord) int { return compareFold(a.Fields.Author, b.Fields.Author) },
				"year":      func(a, b bookRecord) int { return a.Fields.YearOfPublication - b.Fields.YearOfPublication },
				"grade":     func(a, b bookRecord) int { return a.Fields.AverageGrade.Cmp(b.Fields.AverageGrade) },
				"createdat": func(a, b bookRecord) int { return a.CreatedAt.Compare(b.CreatedAt) },
			},
			"title",
			st.restoreBook,
		)
	})
	return out, nil
}

var _ repository.BookRepository = (*BookRepository)(nil)
