// SPDX-License-Identifier: MIT

package decompose

import (
	"errors"
	"math/big"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/boshernitzan"
)

var (
	// ErrIterationBoundExceeded is the Reason of Undetermined components
	// whose branch ran out of induction steps. It is informational:
	// Decompose still returns a complete Result.
	ErrIterationBoundExceeded = errors.New("decompose: iteration bound exceeded")

	// ErrNegativeBound is returned for a negative step bound.
	ErrNegativeBound = errors.New("decompose: negative step bound")

	// ErrNilIET is returned when no IET is given.
	ErrNilIET = errors.New("decompose: nil IET")
)

// Tag classifies a component.
type Tag int

const (
	// Undetermined: nothing was certified within the budget.
	Undetermined Tag = iota
	// Periodic: a finite union of periodic orbits (cylinders).
	Periodic
	// Minimal: no periodic trajectory.
	Minimal
)

// String returns the lower-case tag name.
func (t Tag) String() string {
	switch t {
	case Periodic:
		return "periodic"
	case Minimal:
		return "minimal"
	default:
		return "undetermined"
	}
}

// Component is one terminal piece of a decomposition.
type Component struct {
	// Labels are the original labels whose intervals meet the component, in
	// original top order. An interval split between several components is
	// listed in each of them.
	Labels []string
	Tag    Tag
	// Length is the measure of the component: Σ λ·h over the intervals of
	// the induced IET it ended as, h being the return times.
	Length algebraic.Number
	// Cylinders is the number of cylinders of a Periodic component.
	Cylinders int
	// Periods holds the period of each cylinder.
	Periods []*big.Int
	// Confidence tells which certificate produced a Minimal or Periodic tag.
	Confidence boshernitzan.Confidence
	// Reason explains an Undetermined tag.
	Reason error
	// Steps counts engine calls spent on the component's lineage.
	Steps int
}

// Result is the outcome of Decompose.
type Result struct {
	// Components ordered by the position of their first label in the
	// original top row.
	Components []Component
	// Steps counts all engine calls.
	Steps int
	// BoundExceeded is set when some branch hit the step bound.
	BoundExceeded bool
}

// Count returns how many components carry tag.
func (r Result) Count(tag Tag) int {
	n := 0
	for _, c := range r.Components {
		if c.Tag == tag {
			n++
		}
	}

	return n
}

// TotalLength returns the sum of the component lengths.
func (r Result) TotalLength() algebraic.Number {
	var s algebraic.Number
	for _, c := range r.Components {
		s = s.Add(c.Length)
	}

	return s
}
