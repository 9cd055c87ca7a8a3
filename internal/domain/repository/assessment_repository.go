package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

// AssessmentRepository defines persistence operations for assessments.
type AssessmentRepository interface {
	seedwork.Repository[*entity.Assessment]
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Assessment, error)
}
