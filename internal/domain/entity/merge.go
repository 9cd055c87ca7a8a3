package entity

import (
	"slices"

	"github.com/google/uuid"
)

// take returns *v when present, otherwise current.
func take[T any](v *T, current T) T {
	if v == nil {
		return current
	}
	return *v
}

// appendID keeps ids ordered and free of duplicates.
func appendID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
