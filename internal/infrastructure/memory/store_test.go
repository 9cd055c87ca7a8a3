package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/exception"
	"github.com/oksasatya/go-managebooks/internal/domain/repository"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type StoreSuite struct {
	suite.Suite
	store       *Store
	uow         *UnitOfWork
	users       *UserRepository
	books       *BookRepository
	assessments *AssessmentRepository
	ctx         context.Context
	clock       seedwork.Clock
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = NewStore()
	s.uow = NewUnitOfWork(s.store)
	s.users = NewUserRepository(s.store)
	s.books = NewBookRepository(s.store)
	s.assessments = NewAssessmentRepository(s.store)
	s.ctx = context.Background()
	s.clock = seedwork.FixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (s *StoreSuite) newUser(email, name string) *entity.User {
	u, err := entity.NewUser(s.clock, email, name)
	s.Require().NoError(err)
	return u
}

func (s *StoreSuite) newBook(title, isbn string) *entity.Book {
	b, err := entity.NewBook(s.clock, entity.BookFields{
		Title:             title,
		Description:       "description",
		ISBN:              isbn,
		Author:            "Author Name",
		PublishingCompany: "Publisher",
		Genre:             entity.BookGenreHorror,
		YearOfPublication: 2001,
		NumberOfPages:     200,
		AverageGrade:      decimal.Zero,
	})
	s.Require().NoError(err)
	return b
}

func (s *StoreSuite) TestUserCRUD() {
	u := s.newUser("a@b.com", "Alice")
	s.Require().NoError(s.users.Insert(s.ctx, u))

	found, err := s.users.Get(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Equal(u.Email(), found.Email())
	s.Equal(u.CreatedAt(), found.CreatedAt())
	s.True(found.IsActive())

	byEmail, err := s.users.GetByEmail(s.ctx, "A@B.COM")
	s.Require().NoError(err)
	s.Equal(u.ID(), byEmail.ID())

	found.Deactivate()
	s.Require().NoError(s.users.Update(s.ctx, found))
	again, err := s.users.Get(s.ctx, u.ID())
	s.Require().NoError(err)
	s.False(again.IsActive())

	s.Require().NoError(s.users.Delete(s.ctx, u))
	_, err = s.users.Get(s.ctx, u.ID())
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.users.Delete(s.ctx, u), repository.ErrNotFound)
}

func (s *StoreSuite) TestStoredCopiesAreIsolated() {
	u := s.newUser("a@b.com", "Alice")
	s.Require().NoError(s.users.Insert(s.ctx, u))

	name := "Mutated"
	s.Require().NoError(u.Update(entity.UserUpdate{Name: &name}))

	found, err := s.users.Get(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Equal("Alice", found.Name())
}

func (s *StoreSuite) TestTransactionBuffersWrites() {
	txCtx, err := s.uow.Begin(s.ctx)
	s.Require().NoError(err)

	b := s.newBook("Carrie", "isbn-1")
	s.Require().NoError(s.books.Insert(txCtx, b))

	s.Run("visible inside the transaction", func() {
		exists, err := s.books.ExistsByISBN(txCtx, "isbn-1")
		s.Require().NoError(err)
		s.True(exists)
	})

	s.Run("invisible outside before commit", func() {
		_, err := s.books.Get(s.ctx, b.ID())
		s.ErrorIs(err, repository.ErrNotFound)
	})

	s.Require().NoError(s.uow.Commit(txCtx))
	s.Equal(1, s.store.Commits())

	_, err = s.books.Get(s.ctx, b.ID())
	s.NoError(err)
	s.NoError(s.uow.Rollback(txCtx))
	s.Error(s.uow.Commit(txCtx))
}

func (s *StoreSuite) TestConcurrentISBNFailsOnCommit() {
	first, err := s.uow.Begin(s.ctx)
	s.Require().NoError(err)
	second, err := s.uow.Begin(s.ctx)
	s.Require().NoError(err)

	for _, txCtx := range []context.Context{first, second} {
		exists, err := s.books.ExistsByISBN(txCtx, "isbn-1")
		s.Require().NoError(err)
		s.False(exists)
	}
	s.Require().NoError(s.books.Insert(first, s.newBook("Winner", "isbn-1")))
	s.Require().NoError(s.books.Insert(second, s.newBook("Loser", " ISBN-1 ")))
	s.Require().NoError(s.uow.Commit(first))

	err = s.uow.Commit(second)
	s.Require().Error(err)
	s.True(exception.IsValidation(err))
	s.Equal("ISBN should be unique", err.Error())

	out, err := s.books.Search(s.ctx, seedwork.SearchInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Items, 1)
	s.Equal("Winner", out.Items[0].Title())
}

func (s *StoreSuite) TestUpdateToTakenISBN() {
	s.Require().NoError(s.books.Insert(s.ctx, s.newBook("One", "isbn-1")))
	b := s.newBook("Two", "isbn-2")
	s.Require().NoError(s.books.Insert(s.ctx, b))

	s.Require().NoError(b.Update(s.clock, entity.BookUpdate{ISBN: ptr("isbn-1")}))
	err := s.books.Update(s.ctx, b)
	s.Require().Error(err)
	s.Equal("ISBN should be unique", err.Error())

	s.Require().NoError(b.Update(s.clock, entity.BookUpdate{ISBN: ptr("ISBN-2"), Title: ptr("Two Again")}))
	s.NoError(s.books.Update(s.ctx, b))
}

func (s *StoreSuite) TestRollbackDiscardsWrites() {
	txCtx, err := s.uow.Begin(s.ctx)
	s.Require().NoError(err)

	u := s.newUser("a@b.com", "Alice")
	s.Require().NoError(s.users.Insert(txCtx, u))
	s.Require().NoError(s.uow.Rollback(txCtx))

	_, err = s.users.Get(s.ctx, u.ID())
	s.ErrorIs(err, repository.ErrNotFound)
	s.Equal(0, s.store.Commits())
	s.Error(s.users.Insert(txCtx, u))
}

func (s *StoreSuite) TestAssessmentsDriveReferences() {
	u := s.newUser("a@b.com", "Alice")
	b := s.newBook("Carrie", "isbn-1")
	s.Require().NoError(s.users.Insert(s.ctx, u))
	s.Require().NoError(s.books.Insert(s.ctx, b))

	a, err := entity.NewAssessment(s.clock, 5, "great", u.ID(), b.ID())
	s.Require().NoError(err)
	s.Require().NoError(s.assessments.Insert(s.ctx, a))

	foundBook, err := s.books.Get(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{a.ID()}, foundBook.AssessmentIDs())

	foundUser, err := s.users.Get(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{a.ID()}, foundUser.AssessmentIDs())

	list, err := s.assessments.ListByBook(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Run("orphan assessments are rejected", func() {
		orphan, err := entity.NewAssessment(s.clock, 3, "meh", uuid.New(), b.ID())
		s.Require().NoError(err)
		s.ErrorIs(s.assessments.Insert(s.ctx, orphan), repository.ErrNotFound)
	})

	s.Run("deleting the book cascades", func() {
		s.Require().NoError(s.books.Delete(s.ctx, b))
		_, err := s.assessments.Get(s.ctx, a.ID())
		s.ErrorIs(err, repository.ErrNotFound)
	})
}

func (s *StoreSuite) TestSearch() {
	for i, title := range []string{"Dune", "Dune Messiah", "Carrie", "It"} {
		s.Require().NoError(s.books.Insert(s.ctx, s.newBook(title, "isbn-"+string(rune('a'+i)))))
	}

	out, err := s.books.Search(s.ctx, seedwork.SearchInput{Search: "dune"})
	s.Require().NoError(err)
	s.Equal(2, out.Total)
	s.Equal("Dune", out.Items[0].Title())

	out, err = s.books.Search(s.ctx, seedwork.SearchInput{Page: 2, PerPage: 3, OrderBy: "title"})
	s.Require().NoError(err)
	s.Equal(4, out.Total)
	s.Equal(2, out.CurrentPage)
	s.Require().Len(out.Items, 1)
	s.Equal("It", out.Items[0].Title())

	out, err = s.books.Search(s.ctx, seedwork.SearchInput{OrderBy: "title", Order: seedwork.OrderDesc})
	s.Require().NoError(err)
	s.Equal("It", out.Items[0].Title())

	out, err = s.books.Search(s.ctx, seedwork.SearchInput{Page: 9})
	s.Require().NoError(err)
	s.Empty(out.Items)
}

func ptr[T any](v T) *T { return &v }
