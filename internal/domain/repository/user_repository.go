package repository

import (
	"context"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	seedwork.Repository[*entity.User]
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
