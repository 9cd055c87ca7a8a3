package repository

import (
	"context"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	seedwork.Repository[*entity.Book]
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
}
