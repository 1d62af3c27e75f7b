// SPDX-License-Identifier: MIT

package rauzy

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/iet"
)

// Induce performs one elementary Rauzy step.
//
// Errors:
//   - ErrDegenerateIET if t.Len() < 2.
//   - *ConnectionError if the rightmost intervals have equal length
//     (including the case where they are the same interval).
func Induce(t *iet.IET) (*iet.IET, Step, error) {
	return induce(t, false)
}

// Zorich performs the maximal run of consecutive Rauzy steps of the same
// type in one call. Whole cycles of losers are removed with a single exact
// Floor; Step.Multiplicity counts the elementary steps. The run stops before
// a step that would be a saddle connection, so Zorich only reports one when
// the very first step is.
//
// Errors: as Induce.
func Zorich(t *iet.IET) (*iet.IET, Step, error) {
	return induce(t, true)
}

func induce(t *iet.IET, accelerate bool) (*iet.IET, Step, error) {
	if t.Len() < 2 {
		return nil, Step{}, ErrDegenerateIET
	}
	a, b := t.TopLast(), t.BottomLast()
	if a == b {
		return nil, Step{}, &ConnectionError{TopLabel: a, BottomLabel: b}
	}
	top, bottom, lengths := t.Top(), t.Bottom(), t.Lengths()

	var st Step
	switch lengths[a].Cmp(lengths[b]) {
	case 0:
		return nil, Step{}, &ConnectionError{TopLabel: a, BottomLabel: b}
	case 1:
		st = run(Top, a, bottom, lengths, accelerate)
	default:
		st = run(Bottom, b, top, lengths, accelerate)
	}

	next, err := iet.Assemble(top, bottom, lengths)
	if err != nil {
		// lengths stay positive by construction
		return nil, Step{}, fmt.Errorf("rauzy: induced IET is invalid: %w", err)
	}
	st.Top, st.Bottom = next.Top(), next.Bottom()

	return next, st, nil
}

// run applies steps won by winner, whose losers are taken from the end of
// row (the opposite row). row and lengths are updated in place.
//
// Implementation:
//   - Stage 1 (accelerated only): the losers are the k labels after the
//     winner in row; every k steps they return to their order and the winner
//     has lost S = their total. m = ⌊λw / S⌋ cycles (one fewer when λw is a
//     multiple of S) are removed at once.
//   - Stage 2: single steps while the winner is strictly longer than the
//     current last label (exactly one step when not accelerating).
func run(side Side, winner string, row []string, lengths map[string]algebraic.Number, accelerate bool) Step {
	pos := indexOf(row, winner)
	tail := row[pos+1:]
	st := Step{Winner: side, WinnerLabel: winner, Multiplicity: new(big.Int)}
	times := make(map[string]*big.Int, len(tail))
	lose := func(label string, n *big.Int) {
		if _, ok := times[label]; !ok {
			times[label] = new(big.Int)
			st.Losers = append(st.Losers, Loss{Label: label})
		}
		times[label].Add(times[label], n)
	}

	w := lengths[winner]
	if accelerate {
		var sum algebraic.Number
		for _, l := range tail {
			sum = sum.Add(lengths[l])
		}
		q, _ := w.Div(sum)
		m := q.Floor()
		if w.Equal(sum.MulInt(m)) {
			m.Sub(m, big.NewInt(1))
		}
		if m.Sign() > 0 {
			w = w.Sub(sum.MulInt(m))
			for i := len(tail) - 1; i >= 0; i-- {
				lose(tail[i], m)
			}
			st.Multiplicity.Mul(m, big.NewInt(int64(len(tail))))
		}
	}

	one := big.NewInt(1)
	for {
		last := row[len(row)-1]
		if w.Cmp(lengths[last]) <= 0 {
			break
		}
		w = w.Sub(lengths[last])
		copy(row[pos+2:], row[pos+1:len(row)-1])
		row[pos+1] = last
		lose(last, one)
		st.Multiplicity.Add(st.Multiplicity, one)
		if !accelerate {
			break
		}
	}
	lengths[winner] = w

	for i := range st.Losers {
		st.Losers[i].Times = times[st.Losers[i].Label]
	}

	return st
}

// Collapse resolves the saddle connection conn of t. When both labels are
// the same, that interval is mapped onto itself (a cylinder) and is
// removed. Otherwise the top label is removed and the bottom label takes
// its place in the bottom row: the first return to the shorter interval
// passes through both.
//
// Errors:
//   - ErrSaddleConnection (wrapped) if conn does not match t's rightmost
//     labels or their lengths differ.
//   - ErrDegenerateIET if nothing would remain.
func Collapse(t *iet.IET, conn *ConnectionError) (*iet.IET, error) {
	a, b := conn.TopLabel, conn.BottomLabel
	if t.TopLast() != a || t.BottomLast() != b {
		return nil, fmt.Errorf("%w: %q/%q are not the rightmost labels of %s", ErrSaddleConnection, a, b, t)
	}
	if !t.Length(a).Equal(t.Length(b)) {
		return nil, fmt.Errorf("%w: %q and %q have different lengths", ErrSaddleConnection, a, b)
	}
	if t.Len() < 2 {
		return nil, ErrDegenerateIET
	}

	top, bottom, lengths := t.Top(), t.Bottom(), t.Lengths()
	top = top[:len(top)-1]
	bottom = bottom[:len(bottom)-1]
	delete(lengths, a)
	if a != b {
		bottom[indexOf(bottom, a)] = b
	}

	return iet.Assemble(top, bottom, lengths)
}

func indexOf(row []string, label string) int {
	for i, l := range row {
		if l == label {
			return i
		}
	}

	return -1
}
