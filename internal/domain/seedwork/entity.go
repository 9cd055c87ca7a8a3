// Package seedwork holds the building blocks every aggregate is made of.
package seedwork

import "github.com/google/uuid"

// Entity supplies identity. The id is generated once and never reassigned.
type Entity struct {
	id uuid.UUID
}

func NewEntity() Entity {
	return Entity{id: uuid.New()}
}

// RestoreEntity rebuilds identity loaded from storage.
func RestoreEntity(id uuid.UUID) Entity {
	return Entity{id: id}
}

func (e Entity) ID() uuid.UUID { return e.id }

// SameIdentityAs compares by id only.
func (e Entity) SameIdentityAs(other Identifiable) bool {
	if other == nil {
		return false
	}
	return e.id == other.ID()
}

// Identifiable is anything carrying an entity id.
type Identifiable interface {
	ID() uuid.UUID
}
