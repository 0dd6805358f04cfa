// Package collision tracks column names while a snapshot index is built.
package collision

import (
	"fmt"

	"github.com/arloliu/cyclenc/errs"
)

// Tracker records column IDs and names, rejecting duplicate names and noting
// when two different names share an ID.
type Tracker struct {
	byID         map[uint64]string
	names        []string
	hasCollision bool
}

// NewTracker creates an empty tracker sized for n columns.
func NewTracker(n int) *Tracker {
	if n < 0 {
		n = 0
	}

	return &Tracker{
		byID:  make(map[uint64]string, n),
		names: make([]string, 0, n),
	}
}

// Track registers a column name with its hash.
//
// Returns ErrInvalidColumnName for an empty name and ErrDuplicateColumn when the
// same name is tracked twice. A different name with the same hash is not an error:
// readers resolve IDs by comparing stored names, so only the collision flag is set.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return errs.ErrInvalidColumnName
	}

	if existing, ok := t.byID[id]; ok {
		if existing == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateColumn, name)
		}
		t.hasCollision = true
	}

	t.byID[id] = name
	t.names = append(t.names, name)

	return nil
}

// HasCollision reports whether two tracked names share an ID.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in insertion order.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}
