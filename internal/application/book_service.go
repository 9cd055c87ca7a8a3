package application

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
	"github.com/oksasatya/go-managebooks/internal/domain/validation"
)

type BookService struct {
	Deps
}

func NewBookService(d Deps) *BookService {
	return &BookService{Deps: d.withDefaults()}
}

type CreateBookInput struct {
	Title             string
	Description       string
	ISBN              string
	Author            string
	PublishingCompany string
	Genre             string
	YearOfPublication int
	NumberOfPages     int
	AverageGrade      decimal.Decimal
}

type UpdateBookInput struct {
	Title             *string
	Description       *string
	ISBN              *string
	Author            *string
	PublishingCompany *string
	Genre             *string
	YearOfPublication *int
	NumberOfPages     *int
}

// CreateBook validates the book, then checks ISBN uniqueness inside the
// unit of work that inserts it.
func (s *BookService) CreateBook(ctx context.Context, in CreateBookInput) (BookView, error) {
	genre, _ := entity.ParseBookGenre(in.Genre)
	b, err := entity.NewBook(s.Clock, entity.BookFields{
		Title:             in.Title,
		Description:       in.Description,
		ISBN:              in.ISBN,
		Author:            in.Author,
		PublishingCompany: in.PublishingCompany,
		Genre:             genre,
		YearOfPublication: in.YearOfPublication,
		NumberOfPages:     in.NumberOfPages,
		AverageGrade:      in.AverageGrade,
	})
	if err != nil {
		return BookView{}, err
	}

	if err := s.inTx(ctx, func(ctx context.Context) error {
		if err := validation.IsUnique(ctx, b.ISBN(), "ISBN", s.Books.ExistsByISBN); err != nil {
			return err
		}
		return s.Books.Insert(ctx, b)
	}); err != nil {
		return BookView{}, err
	}

	s.Logger.WithField("book_id", b.ID()).Info("book created")
	s.syncBook(ctx, b)
	s.publish(ctx, Event{
		Name:        EventBookCreated,
		AggregateID: b.ID(),
		Payload:     map[string]any{"title": b.Title(), "isbn": b.ISBN()},
	})
	return NewBookView(b), nil
}

// GetBook reads through the cache when one is configured.
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (BookView, error) {
	if s.Cache != nil {
		v, ok, err := s.Cache.Get(ctx, id)
		if err != nil {
			s.Logger.WithError(err).WithField("book_id", id).Warn("book cache read failed")
		} else if ok {
			return v, nil
		}
	}

	b, err := s.Books.Get(ctx, id)
	if err != nil {
		return BookView{}, notFoundAs(err, ErrBookNotFound)
	}
	v := NewBookView(b)
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, v); err != nil {
			s.Logger.WithError(err).WithField("book_id", id).Warn("book cache write failed")
		}
	}
	return v, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, in UpdateBookInput) (BookView, error) {
	upd := entity.BookUpdate{
		Title:             in.Title,
		Description:       in.Description,
		ISBN:              in.ISBN,
		Author:            in.Author,
		PublishingCompany: in.PublishingCompany,
		YearOfPublication: in.YearOfPublication,
		NumberOfPages:     in.NumberOfPages,
	}
	if in.Genre != nil {
		genre, _ := entity.ParseBookGenre(*in.Genre)
		upd.Genre = &genre
	}

	var b *entity.Book
	if err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.Books.Get(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrBookNotFound)
		}
		previousISBN := b.ISBN()
		if err := b.Update(s.Clock, upd); err != nil {
			return err
		}
		if !sameISBN(previousISBN, b.ISBN()) {
			if err := validation.IsUnique(ctx, b.ISBN(), "ISBN", s.Books.ExistsByISBN); err != nil {
				return err
			}
		}
		return s.Books.Update(ctx, b)
	}); err != nil {
		return BookView{}, err
	}

	s.syncBook(ctx, b)
	s.publish(ctx, Event{Name: EventBookUpdated, AggregateID: b.ID()})
	return NewBookView(b), nil
}

// DeleteBook removes the book and its assessments.
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.inTx(ctx, func(ctx context.Context) error {
		b, err := s.Books.Get(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrBookNotFound)
		}
		return s.Books.Delete(ctx, b)
	}); err != nil {
		return err
	}
	s.forgetBook(ctx, id)
	s.publish(ctx, Event{Name: EventBookDeleted, AggregateID: id})
	return nil
}

// SearchBooks uses the full-text index for free-text queries when one is
// configured and falls back to repository search otherwise or on index failure.
func (s *BookService) SearchBooks(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[BookView], error) {
	in = in.Normalize()
	if s.Index != nil && in.Search != "" {
		out, err := s.searchIndex(ctx, in)
		if err == nil {
			return out, nil
		}
		s.Logger.WithError(err).WithField("search", in.Search).Warn("book index search failed, using repository")
	}

	out, err := s.Books.Search(ctx, in)
	if err != nil {
		return seedwork.SearchOutput[BookView]{}, err
	}
	return mapOutput(out, NewBookView), nil
}

func (s *BookService) searchIndex(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[BookView], error) {
	hits, err := s.Index.Search(ctx, in)
	if err != nil {
		return seedwork.SearchOutput[BookView]{}, err
	}
	out := seedwork.SearchOutput[BookView]{
		CurrentPage: hits.CurrentPage,
		PerPage:     hits.PerPage,
		Total:       hits.Total,
		Items:       make([]BookView, 0, len(hits.Items)),
	}
	for _, id := range hits.Items {
		b, err := s.Books.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			s.Logger.WithField("book_id", id).Warn("stale book in index")
			continue
		}
		if err != nil {
			return seedwork.SearchOutput[BookView]{}, err
		}
		out.Items = append(out.Items, NewBookView(b))
	}
	return out, nil
}

// UploadCover stores the image and points the book at it.
func (s *BookService) UploadCover(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader) (BookView, error) {
	if s.Storage == nil {
		return BookView{}, ErrStorageDisabled
	}
	if _, err := s.Books.Get(ctx, id); err != nil {
		return BookView{}, notFoundAs(err, ErrBookNotFound)
	}

	objectPath := path.Join("covers", id.String(), uuid.NewString()+strings.ToLower(path.Ext(filename)))
	url, err := s.Storage.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return BookView{}, err
	}

	var b *entity.Book
	if err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.Books.Get(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrBookNotFound)
		}
		b.ChangeCover(url)
		return s.Books.Update(ctx, b)
	}); err != nil {
		return BookView{}, err
	}

	s.syncBook(ctx, b)
	s.publish(ctx, Event{Name: EventBookUpdated, AggregateID: id, Payload: map[string]any{"cover_url": url}})
	return NewBookView(b), nil
}

func sameISBN(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
