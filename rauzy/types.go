// SPDX-License-Identifier: MIT

package rauzy

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrSaddleConnection is reported when the two rightmost intervals have
	// exactly equal length.
	ErrSaddleConnection = errors.New("rauzy: saddle connection")

	// ErrDegenerateIET is reported when fewer than two intervals remain.
	ErrDegenerateIET = errors.New("rauzy: fewer than two intervals")
)

// ConnectionError describes a saddle connection between the last top
// interval and the last bottom interval. errors.Is(err, ErrSaddleConnection)
// holds for it.
type ConnectionError struct {
	TopLabel, BottomLabel string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rauzy: saddle connection between %q (top) and %q (bottom)", e.TopLabel, e.BottomLabel)
}

// Unwrap returns ErrSaddleConnection.
func (e *ConnectionError) Unwrap() error { return ErrSaddleConnection }

// Side names the row whose last interval won a step.
type Side int

const (
	// Top means the last top interval was longer.
	Top Side = iota
	// Bottom means the last bottom interval was longer.
	Bottom
)

// String returns "top" or "bottom".
func (s Side) String() string {
	if s == Top {
		return "top"
	}

	return "bottom"
}

// Loss records how many times a label was subtracted from the winner.
type Loss struct {
	Label string
	Times *big.Int
}

// Step records one induction move (or one Zorich block of moves of the
// same type).
type Step struct {
	Winner      Side
	WinnerLabel string
	// Losers in the order they first lost.
	Losers []Loss
	// Multiplicity is the number of elementary steps represented (1 for
	// Induce).
	Multiplicity *big.Int
	// Top and Bottom are the rows after the move.
	Top, Bottom []string
}

// LoserLabel returns the first loser, the only one of an elementary step.
func (s Step) LoserLabel() string { return s.Losers[0].Label }
