// Package store holds the master list of parsed snailfish numbers.
package store

import "nickandperla.net/snailfish/internal/number"

// Source is a read-only, indexable list of numbers. Get hands out a private
// copy each call, so the list stays usable across any number of additions.
type Source interface {
	// Len returns the number of stored numbers.
	Len() int
	// Get returns a deep copy of the i-th number.
	Get(i int) number.Node
}

// Record is one stored number with the input line it came from.
type Record struct {
	Line   int
	Number number.Node
}
