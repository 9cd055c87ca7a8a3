package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type UserView struct {
	ID            uuid.UUID   `json:"id"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	IsActive      bool        `json:"is_active"`
	AssessmentIDs []uuid.UUID `json:"assessment_ids"`
	CreatedAt     time.Time   `json:"created_at"`
}

func NewUserView(u *entity.User) UserView {
	return UserView{
		ID:            u.ID(),
		Email:         u.Email(),
		Name:          u.Name(),
		IsActive:      u.IsActive(),
		AssessmentIDs: u.AssessmentIDs(),
		CreatedAt:     u.CreatedAt(),
	}
}

type BookView struct {
	ID                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	ISBN              string          `json:"isbn"`
	Author            string          `json:"author"`
	PublishingCompany string          `json:"publishing_company"`
	Genre             string          `json:"genre"`
	YearOfPublication int             `json:"year_of_publication"`
	NumberOfPages     int             `json:"number_of_pages"`
	AverageGrade      decimal.Decimal `json:"average_grade"`
	CoverURL          string          `json:"cover_url,omitempty"`
	AssessmentIDs     []uuid.UUID     `json:"assessment_ids"`
	CreatedAt         time.Time       `json:"created_at"`
}

func NewBookView(b *entity.Book) BookView {
	return BookView{
		ID:                b.ID(),
		Title:             b.Title(),
		Description:       b.Description(),
		ISBN:              b.ISBN(),
		Author:            b.Author(),
		PublishingCompany: b.PublishingCompany(),
		Genre:             b.Genre().String(),
		YearOfPublication: b.YearOfPublication(),
		NumberOfPages:     b.NumberOfPages(),
		AverageGrade:      b.AverageGrade(),
		CoverURL:          b.CoverURL(),
		AssessmentIDs:     b.AssessmentIDs(),
		CreatedAt:         b.CreatedAt(),
	}
}

// AssessmentView is an assessment with its user and book resolved.
type AssessmentView struct {
	ID          uuid.UUID `json:"id"`
	Note        int       `json:"note"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	User        UserView  `json:"user"`
	Book        BookView  `json:"book"`
}

// AssessmentSummary is an assessment with bare relation ids, used in lists.
type AssessmentSummary struct {
	ID          uuid.UUID `json:"id"`
	Note        int       `json:"note"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"user_id"`
	BookID      uuid.UUID `json:"book_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewAssessmentSummary(a *entity.Assessment) AssessmentSummary {
	return AssessmentSummary{
		ID:          a.ID(),
		Note:        a.Note(),
		Description: a.Description(),
		UserID:      a.UserID(),
		BookID:      a.BookID(),
		CreatedAt:   a.CreatedAt(),
	}
}

func mapOutput[T, V any](out seedwork.SearchOutput[T], fn func(T) V) seedwork.SearchOutput[V] {
	items := make([]V, 0, len(out.Items))
	for _, it := range out.Items {
		items = append(items, fn(it))
	}
	return seedwork.SearchOutput[V]{
		CurrentPage: out.CurrentPage,
		PerPage:     out.PerPage,
		Total:       out.Total,
		Items:       items,
	}
}
