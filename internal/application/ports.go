package application

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

const (
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventUserActivated     = "user.activated"
	EventUserDeactivated   = "user.deactivated"
	EventUserDeleted       = "user.deleted"
	EventBookCreated       = "book.created"
	EventBookUpdated       = "book.updated"
	EventBookDeleted       = "book.deleted"
	EventAssessmentCreated = "assessment.created"
	EventAssessmentUpdated = "assessment.updated"
	EventAssessmentDeleted = "assessment.deleted"
)

// Event is published after the unit of work that produced it has committed.
type Event struct {
	Name        string         `json:"name"`
	AggregateID uuid.UUID      `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// BookIndex is a full-text index over the catalogue. Search returns matching
// book ids in relevance order.
type BookIndex interface {
	Index(ctx context.Context, b *entity.Book) error
	Remove(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[uuid.UUID], error)
}

// BookCache holds rendered book views keyed by id.
type BookCache interface {
	Get(ctx context.Context, id uuid.UUID) (BookView, bool, error)
	Set(ctx context.Context, v BookView) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ObjectStorage stores blobs and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
