/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// UpdateOp is the kind of change a PropertyUpdate applies.
type UpdateOp int

const (
	// OpSet replaces the value at a path, including everything nested below it.
	OpSet UpdateOp = iota
	// OpDel removes the path and everything nested below it.
	OpDel
)

func (o UpdateOp) String() string {
	switch o {
	case OpSet:
		return "SET"
	case OpDel:
		return "DEL"
	default:
		return "UNKNOWN"
	}
}

// PropertyUpdate is a single change carried by a PartialUpdate.
type PropertyUpdate struct {
	Op    UpdateOp
	Path  string
	Value any
}

// PartialUpdate carries only the changed properties of one entity of type T.
// Paths use dots for nesting and ".[i]" for list elements, e.g. "address.city"
// or "tags.[0]".
type PartialUpdate[T any] struct {
	id         string
	updates    []PropertyUpdate
	refreshTTL bool
}

// NewPartialUpdate starts a partial update for the entity with the given id.
func NewPartialUpdate[T any](id string) *PartialUpdate[T] {
	return &PartialUpdate[T]{id: id}
}

// ID returns the identifier of the targeted entity.
func (p *PartialUpdate[T]) ID() string { return p.id }

// Set records a new value for path.
func (p *PartialUpdate[T]) Set(path string, value any) *PartialUpdate[T] {
	p.updates = append(p.updates, PropertyUpdate{Op: OpSet, Path: path, Value: value})
	return p
}

// Del records the removal of path.
func (p *PartialUpdate[T]) Del(path string) *PartialUpdate[T] {
	p.updates = append(p.updates, PropertyUpdate{Op: OpDel, Path: path})
	return p
}

// RefreshTTL controls whether the keyspace time-to-live is re-applied after the update.
func (p *PartialUpdate[T]) RefreshTTL(refresh bool) *PartialUpdate[T] {
	p.refreshTTL = refresh
	return p
}

// IsRefreshTTL reports whether RefreshTTL(true) was requested.
func (p *PartialUpdate[T]) IsRefreshTTL() bool { return p.refreshTTL }

// PropertyUpdates returns the recorded changes in the order they were added.
func (p *PartialUpdate[T]) PropertyUpdates() []PropertyUpdate {
	out := make([]PropertyUpdate, len(p.updates))
	copy(out, p.updates)
	return out
}

// ScanParams narrows a keyspace scan.
type ScanParams struct {
	// Match is an optional glob applied to ids (SSCAN MATCH).
	Match string
	// Count is a hint for ids per page. Zero uses the stream page size.
	Count int64
}
