package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned (possibly wrapped) by every repository when the
// requested record does not exist.
var ErrNotFound = errors.New("not found")

// UnitOfWork scopes a batch of repository calls into one atomic commit.
// Begin returns a context the repositories must receive for their writes to
// join the batch.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
