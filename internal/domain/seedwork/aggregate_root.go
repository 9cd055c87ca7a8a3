package seedwork

// AggregateRoot marks an entity as an independent consistency boundary.
// It adds no state beyond identity.
type AggregateRoot struct {
	Entity
}

func NewAggregateRoot() AggregateRoot {
	return AggregateRoot{Entity: NewEntity()}
}

func RestoreAggregateRoot(e Entity) AggregateRoot {
	return AggregateRoot{Entity: e}
}

func (AggregateRoot) aggregateRoot() {}

// Aggregate is satisfied only by types embedding AggregateRoot.
type Aggregate interface {
	Identifiable
	aggregateRoot()
}
