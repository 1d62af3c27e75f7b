// Package iet represents interval exchange transformations with exact
// algebraic lengths.
//
// Overview:
//
//   - An IET cuts [0, L) into labelled intervals in a "top" order and
//     reassembles them in a "bottom" order. The two rows together are the
//     permutation; each label carries one length shared by both rows.
//   - Lengths are algebraic.Number values of a single real number field
//     (rationals mix with any field).
//   - Values are immutable. Every accessor returns copies and every
//     transformation (see package rauzy) builds a new IET.
//
// Construction:
//
//   - New(labels, lengths, bottom): top order with lengths, plus the bottom
//     order of the same labels.
//   - NewFromPermutation(labels, lengths, perm): perm[i] is the bottom
//     position of the i-th top interval.
//   - NewRows(top, bottom): lengths supplied per row; they must agree.
//   - Assemble(top, bottom, lengths): rows plus a length map, used by the
//     induction engine.
//
// Queries:
//
//   - Len, TotalLength, TopLast, BottomLast, Top, Bottom, Length.
//   - Translations: x ↦ x + t(label) on each interval.
//   - Irreducible / Split: invariant prefixes (same label set in the first
//     k positions of both rows) cut the IET into independent blocks.
//   - Apply: exact evaluation at a point of [0, L).
//
// Error handling (sentinel errors):
//
//   - ErrInvalidPermutation: rows are empty, contain duplicates or an empty
//     label, or do not hold the same label set.
//   - ErrInvalidLength: a length is ≤ 0, missing, or given for an unknown
//     label.
//   - ErrLengthMismatch: per-row lengths disagree (NewRows).
//   - ErrOutOfDomain: Apply outside [0, L).
//
// Complexity: construction and every query are O(n) comparisons of
// algebraic numbers, n = Len().
package iet
