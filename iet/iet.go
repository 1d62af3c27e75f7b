package iet

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/ietx/algebraic"
)

// Interval is a labelled interval of positive length.
type Interval struct {
	Label  string
	Length algebraic.Number
}

// IET is an interval exchange transformation. The zero value is not usable;
// build one with New, NewFromPermutation, NewRows or Assemble.
type IET struct {
	top     []string
	bottom  []string
	lengths map[string]algebraic.Number
	field   *algebraic.Field
}

// New builds an IET from the top labels, their lengths, and the bottom
// order of the same labels.
//
// Errors:
//   - ErrInvalidPermutation, ErrInvalidLength (wrapped with context).
//   - algebraic.ErrFieldMismatch when lengths come from different fields.
func New(labels []string, lengths []algebraic.Number, bottom []string) (*IET, error) {
	if len(labels) != len(lengths) {
		return nil, fmt.Errorf("%w: %d labels, %d lengths", ErrInvalidLength, len(labels), len(lengths))
	}
	m := make(map[string]algebraic.Number, len(labels))
	for i, l := range labels {
		if _, dup := m[l]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidPermutation, l)
		}
		m[l] = lengths[i]
	}

	return Assemble(labels, bottom, m)
}

// NewFromPermutation builds an IET whose i-th top interval (labels[i],
// lengths[i]) sits at bottom position perm[i].
//
// Errors:
//   - ErrInvalidPermutation when perm is not a bijection of [0, n).
//   - as New.
func NewFromPermutation(labels []string, lengths []algebraic.Number, perm []int) (*IET, error) {
	n := len(labels)
	if len(perm) != n {
		return nil, fmt.Errorf("%w: permutation of length %d for %d labels", ErrInvalidPermutation, len(perm), n)
	}
	bottom := make([]string, n)
	for i, p := range perm {
		if p < 0 || p >= n || bottom[p] != "" {
			return nil, fmt.Errorf("%w: %v is not a bijection of [0, %d)", ErrInvalidPermutation, perm, n)
		}
		bottom[p] = labels[i]
	}

	return New(labels, lengths, bottom)
}

// NewRows builds an IET from two rows that each carry lengths. Every label
// must have the same length in both rows.
//
// Errors:
//   - ErrLengthMismatch when a label's lengths or the row totals differ.
//   - algebraic.ErrFieldMismatch when the rows mix fields.
//   - as New.
func NewRows(top, bottom []Interval) (*IET, error) {
	all := make([]algebraic.Number, 0, len(top)+len(bottom))
	for _, row := range [][]Interval{top, bottom} {
		for _, iv := range row {
			all = append(all, iv.Length)
		}
	}
	if _, err := algebraic.CommonField(all...); err != nil {
		return nil, err
	}
	var tt, bt algebraic.Number
	labels := make([]string, len(top))
	lengths := make([]algebraic.Number, len(top))
	for i, iv := range top {
		labels[i], lengths[i] = iv.Label, iv.Length
		tt = tt.Add(iv.Length)
	}
	byLabel := make(map[string]algebraic.Number, len(top))
	for i, l := range labels {
		byLabel[l] = lengths[i]
	}
	order := make([]string, len(bottom))
	for i, iv := range bottom {
		order[i] = iv.Label
		bt = bt.Add(iv.Length)
		if want, ok := byLabel[iv.Label]; ok && !want.Equal(iv.Length) {
			return nil, fmt.Errorf("%w: label %q has length %s on top and %s on bottom", ErrLengthMismatch, iv.Label, want, iv.Length)
		}
	}
	if !tt.Equal(bt) {
		return nil, fmt.Errorf("%w: totals %s and %s", ErrLengthMismatch, tt, bt)
	}

	return New(labels, lengths, order)
}

// Assemble builds an IET from its two rows and a length per label. The
// slices and map are copied.
//
// Implementation:
//   - Stage 1: both rows are non-empty, duplicate free, with no empty label,
//     and hold the same label set.
//   - Stage 2: lengths exist exactly for those labels and are > 0.
//   - Stage 3: all lengths share one field.
func Assemble(top, bottom []string, lengths map[string]algebraic.Number) (*IET, error) {
	if len(top) == 0 {
		return nil, fmt.Errorf("%w: no intervals", ErrInvalidPermutation)
	}
	if len(top) != len(bottom) {
		return nil, fmt.Errorf("%w: rows of length %d and %d", ErrInvalidPermutation, len(top), len(bottom))
	}
	seen := make(map[string]int, len(top))
	for _, l := range top {
		if l == "" {
			return nil, fmt.Errorf("%w: empty label", ErrInvalidPermutation)
		}
		if seen[l] != 0 {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidPermutation, l)
		}
		seen[l] = 1
	}
	for _, l := range bottom {
		switch seen[l] {
		case 0:
			return nil, fmt.Errorf("%w: bottom label %q not in top row", ErrInvalidPermutation, l)
		case 2:
			return nil, fmt.Errorf("%w: duplicate bottom label %q", ErrInvalidPermutation, l)
		}
		seen[l] = 2
	}

	if len(lengths) != len(top) {
		for l := range lengths {
			if seen[l] == 0 {
				return nil, fmt.Errorf("%w: length for unknown label %q", ErrInvalidLength, l)
			}
		}
	}
	t := &IET{
		top:     append([]string(nil), top...),
		bottom:  append([]string(nil), bottom...),
		lengths: make(map[string]algebraic.Number, len(top)),
	}
	all := make([]algebraic.Number, 0, len(top))
	for _, l := range top {
		x, ok := lengths[l]
		if !ok {
			return nil, fmt.Errorf("%w: missing length for %q", ErrInvalidLength, l)
		}
		if x.Sign() <= 0 {
			return nil, fmt.Errorf("%w: %q has length %s", ErrInvalidLength, l, x)
		}
		t.lengths[l] = x
		all = append(all, x)
	}
	f, err := algebraic.CommonField(all...)
	if err != nil {
		return nil, err
	}
	t.field = f

	return t, nil
}

// Len returns the number of intervals.
func (t *IET) Len() int { return len(t.top) }

// Field returns the field of the lengths.
func (t *IET) Field() *algebraic.Field { return t.field }

// Top returns the labels in top order.
func (t *IET) Top() []string { return append([]string(nil), t.top...) }

// Bottom returns the labels in bottom order.
func (t *IET) Bottom() []string { return append([]string(nil), t.bottom...) }

// Labels returns the label set in top order (same as Top).
func (t *IET) Labels() []string { return t.Top() }

// Length returns the length of label, or zero for an unknown label.
func (t *IET) Length(label string) algebraic.Number { return t.lengths[label] }

// Has reports whether label belongs to t.
func (t *IET) Has(label string) bool {
	_, ok := t.lengths[label]

	return ok
}

// Lengths returns a copy of the length map.
func (t *IET) Lengths() map[string]algebraic.Number {
	out := make(map[string]algebraic.Number, len(t.lengths))
	for l, x := range t.lengths {
		out[l] = x
	}

	return out
}

// TopLast returns the label of the rightmost top interval.
func (t *IET) TopLast() string { return t.top[len(t.top)-1] }

// BottomLast returns the label of the rightmost bottom interval.
func (t *IET) BottomLast() string { return t.bottom[len(t.bottom)-1] }

// TotalLength returns L, the sum of all lengths.
func (t *IET) TotalLength() algebraic.Number {
	var s algebraic.Number
	for _, l := range t.top {
		s = s.Add(t.lengths[l])
	}

	return s
}

// Intervals returns the top row with lengths.
func (t *IET) Intervals() []Interval {
	out := make([]Interval, len(t.top))
	for i, l := range t.top {
		out[i] = Interval{Label: l, Length: t.lengths[l]}
	}

	return out
}

// Permutation returns perm with perm[i] the bottom position of the i-th
// top interval.
func (t *IET) Permutation() []int {
	pos := make(map[string]int, len(t.bottom))
	for j, l := range t.bottom {
		pos[l] = j
	}
	perm := make([]int, len(t.top))
	for i, l := range t.top {
		perm[i] = pos[l]
	}

	return perm
}

// Translations returns, per label, the amount t(label) such that the map
// sends x to x + t(label) on that interval: the total length left of the
// label in the bottom row minus the same in the top row.
func (t *IET) Translations() map[string]algebraic.Number {
	out := make(map[string]algebraic.Number, len(t.top))
	var acc algebraic.Number
	for _, l := range t.bottom {
		out[l] = acc
		acc = acc.Add(t.lengths[l])
	}
	acc = algebraic.Number{}
	for _, l := range t.top {
		out[l] = out[l].Sub(acc)
		acc = acc.Add(t.lengths[l])
	}

	return out
}

// Apply evaluates the exchange at x ∈ [0, L).
//
// Errors:
//   - ErrOutOfDomain when x < 0 or x ≥ L.
func (t *IET) Apply(x algebraic.Number) (algebraic.Number, error) {
	if x.Sign() < 0 {
		return algebraic.Number{}, fmt.Errorf("%w: %s < 0", ErrOutOfDomain, x)
	}
	tr := t.Translations()
	var right algebraic.Number
	for _, l := range t.top {
		right = right.Add(t.lengths[l])
		if x.Less(right) {
			return x.Add(tr[l]), nil
		}
	}

	return algebraic.Number{}, fmt.Errorf("%w: %s ≥ %s", ErrOutOfDomain, x, right)
}

// cuts returns every k in [1, n) where the first k top labels and the first
// k bottom labels form the same set.
func (t *IET) cuts() []int {
	var out []int
	pending := make(map[string]int, len(t.top))
	for k := 0; k < len(t.top)-1; k++ {
		pending[t.top[k]]++
		if pending[t.top[k]] == 0 {
			delete(pending, t.top[k])
		}
		pending[t.bottom[k]]--
		if pending[t.bottom[k]] == 0 {
			delete(pending, t.bottom[k])
		}
		if len(pending) == 0 {
			out = append(out, k+1)
		}
	}

	return out
}

// Irreducible reports whether no proper prefix of the top row is mapped
// onto itself.
func (t *IET) Irreducible() bool { return len(t.cuts()) == 0 }

// Split cuts t at every invariant prefix and returns the irreducible blocks
// left to right. An irreducible t is returned as the single block.
func (t *IET) Split() []*IET {
	cuts := t.cuts()
	if len(cuts) == 0 {
		return []*IET{t}
	}
	cuts = append(cuts, len(t.top))
	out := make([]*IET, 0, len(cuts))
	start := 0
	for _, end := range cuts {
		b := &IET{
			top:     append([]string(nil), t.top[start:end]...),
			bottom:  append([]string(nil), t.bottom[start:end]...),
			lengths: make(map[string]algebraic.Number, end-start),
			field:   t.field,
		}
		for _, l := range b.top {
			b.lengths[l] = t.lengths[l]
		}
		out = append(out, b)
		start = end
	}

	return out
}

// String prints both rows followed by the lengths in top order, e.g.
// "[A B] / [B A] {A: 1, B: (a ~ 1.4142136)}".
func (t *IET) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] / [%s] {", strings.Join(t.top, " "), strings.Join(t.bottom, " "))
	for i, l := range t.top {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", l, t.lengths[l])
	}
	sb.WriteString("}")

	return sb.String()
}
