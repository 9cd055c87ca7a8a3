package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

// Deps are the collaborators the services are built from. Events, Cache,
// Index and Storage are optional.
type Deps struct {
	UoW         repository.UnitOfWork
	Users       repository.UserRepository
	Books       repository.BookRepository
	Assessments repository.AssessmentRepository

	Events  EventPublisher
	Cache   BookCache
	Index   BookIndex
	Storage ObjectStorage

	Clock  seedwork.Clock
	Logger *logrus.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = seedwork.SystemClock
	}
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	return d
}

// inTx runs fn inside one unit of work and commits when it returns nil.
func (d Deps) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, err := d.UoW.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = d.UoW.Rollback(txCtx) }()

	if err := fn(txCtx); err != nil {
		return err
	}
	return d.UoW.Commit(txCtx)
}

func (d Deps) publish(ctx context.Context, ev Event) {
	if d.Events == nil {
		return
	}
	ev.OccurredAt = d.Clock.Now().UTC()
	if err := d.Events.Publish(ctx, ev); err != nil {
		d.Logger.WithError(err).
			WithField("event", ev.Name).
			WithField("aggregate_id", ev.AggregateID).
			Warn("publish event failed")
	}
}

// recalculateGrade recomputes a book's average from its stored assessments
// and saves it. It must run inside the unit of work that changed them.
func (d Deps) recalculateGrade(ctx context.Context, bookID uuid.UUID) (*entity.Book, error) {
	b, err := d.Books.Get(ctx, bookID)
	if err != nil {
		return nil, notFoundAs(err, ErrBookNotFound)
	}
	list, err := d.Assessments.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	notes := make([]int, 0, len(list))
	for _, a := range list {
		notes = append(notes, a.Note())
	}
	b.RecalculateAverageGrade(notes)
	if err := d.Books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// syncBook refreshes the read side for a committed book. Failures are logged.
func (d Deps) syncBook(ctx context.Context, b *entity.Book) {
	if d.Cache != nil {
		if err := d.Cache.Delete(ctx, b.ID()); err != nil {
			d.Logger.WithError(err).WithField("book_id", b.ID()).Warn("book cache invalidate failed")
		}
	}
	if d.Index != nil {
		if err := d.Index.Index(ctx, b); err != nil {
			d.Logger.WithError(err).WithField("book_id", b.ID()).Warn("book index failed")
		}
	}
}

// forgetBook drops a deleted book from the read side. Failures are logged.
func (d Deps) forgetBook(ctx context.Context, id uuid.UUID) {
	if d.Cache != nil {
		if err := d.Cache.Delete(ctx, id); err != nil {
			d.Logger.WithError(err).WithField("book_id", id).Warn("book cache invalidate failed")
		}
	}
	if d.Index != nil {
		if err := d.Index.Remove(ctx, id); err != nil {
			d.Logger.WithError(err).WithField("book_id", id).Warn("book index remove failed")
		}
	}
}

// Services groups every application service over one set of dependencies.
type Services struct {
	Users       *UserService
	Books       *BookService
	Assessments *AssessmentService
}

func NewServices(d Deps) *Services {
	return &Services{
		Users:       NewUserService(d),
		Books:       NewBookService(d),
		Assessments: NewAssessmentService(d),
	}
}
