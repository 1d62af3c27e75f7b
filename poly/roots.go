// SPDX-License-Identifier: MIT

package poly

import "math/big"

// RootInterval isolates a single real root r of some polynomial:
// Lo < r ≤ Hi, or r == Lo == Hi when the root is known exactly (Exact).
type RootInterval struct {
	Lo, Hi *big.Rat
}

// Exact reports whether the interval has collapsed to the root itself.
func (iv RootInterval) Exact() bool { return iv.Lo.Cmp(iv.Hi) == 0 }

// Width returns Hi - Lo.
func (iv RootInterval) Width() *big.Rat { return new(big.Rat).Sub(iv.Hi, iv.Lo) }

// Mid returns (Lo + Hi) / 2.
func (iv RootInterval) Mid() *big.Rat { return midpoint(iv.Lo, iv.Hi) }

func midpoint(lo, hi *big.Rat) *big.Rat {
	m := new(big.Rat).Add(lo, hi)

	return m.Quo(m, big.NewRat(2, 1))
}

// Sturm is the Sturm sequence p0 = p, p1 = p', p(k+1) = -(p(k-1) mod p(k)).
// It counts distinct real roots of p on half-open intervals.
type Sturm struct {
	seq []Poly
}

// NewSturm builds the Sturm sequence of p. p must be non-constant.
//
// Complexity: O(deg(p)^3) rational operations.
func NewSturm(p Poly) Sturm {
	seq := []Poly{p, p.Derivative()}
	for {
		a, b := seq[len(seq)-2], seq[len(seq)-1]
		if b.IsZero() {
			seq = seq[:len(seq)-1]

			break
		}
		r := a.Mod(b)
		if r.IsZero() {
			break
		}
		seq = append(seq, r.Neg())
	}

	return Sturm{seq: seq}
}

// variations counts sign changes of the sequence at x, zeros dropped.
func (s Sturm) variations(x *big.Rat) int {
	n, prev := 0, 0
	for _, p := range s.seq {
		sg := p.SignAt(x)
		if sg == 0 {
			continue
		}
		if prev != 0 && sg != prev {
			n++
		}
		prev = sg
	}

	return n
}

// variationsInf counts sign changes at +∞ (positive) or −∞.
func (s Sturm) variationsInf(positive bool) int {
	n, prev := 0, 0
	for _, p := range s.seq {
		sg := p.c[len(p.c)-1].Sign()
		if !positive && p.Degree()%2 == 1 {
			sg = -sg
		}
		if prev != 0 && sg != prev {
			n++
		}
		prev = sg
	}

	return n
}

// Count returns the number of distinct real roots in (lo, hi].
// A nil lo stands for −∞ and a nil hi for +∞.
func (s Sturm) Count(lo, hi *big.Rat) int {
	var vlo, vhi int
	if lo == nil {
		vlo = s.variationsInf(false)
	} else {
		vlo = s.variations(lo)
	}
	if hi == nil {
		vhi = s.variationsInf(true)
	} else {
		vhi = s.variations(hi)
	}

	return vlo - vhi
}

// CountAll returns the number of distinct real roots.
func (s Sturm) CountAll() int { return s.Count(nil, nil) }

// RootBound returns B such that every complex root r of p satisfies |r| < B
// (Cauchy's bound 1 + max|c_i / c_n|).
func (p Poly) RootBound() *big.Rat {
	b := new(big.Rat)
	lead := p.c[len(p.c)-1]
	var t big.Rat
	for i := 0; i < len(p.c)-1; i++ {
		t.Quo(p.c[i], lead)
		t.Abs(&t)
		if t.Cmp(b) > 0 {
			b.Set(&t)
		}
	}

	return b.Add(b, big.NewRat(1, 1))
}

// Isolate returns isolating intervals for every distinct real root of p in
// increasing order. p must have degree ≥ 1.
//
// Implementation:
//   - Stage 1: Sturm sequence and Cauchy bound B; all roots lie in (−B, B].
//   - Stage 2: depth-first bisection of (lo, hi] keeping sub-intervals with
//     a positive root count; a count of one yields an interval, collapsed to
//     an exact point when hi itself is a root.
//
// Complexity: O(R · log(B/sep) · deg^2) where sep is the root separation.
func Isolate(p Poly) []RootInterval {
	if p.Degree() < 1 {
		return nil
	}
	s := NewSturm(p)
	b := p.RootBound()
	type frame struct {
		lo, hi *big.Rat
		n      int
	}
	lo := new(big.Rat).Neg(b)
	stack := []frame{{lo: lo, hi: b, n: s.Count(lo, b)}}
	var out []RootInterval
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case f.n == 0:
			continue
		case f.n == 1:
			if p.SignAt(f.hi) == 0 {
				out = append(out, RootInterval{Lo: new(big.Rat).Set(f.hi), Hi: new(big.Rat).Set(f.hi)})
			} else {
				out = append(out, RootInterval{Lo: f.lo, Hi: f.hi})
			}
			continue
		}
		mid := midpoint(f.lo, f.hi)
		left := s.Count(f.lo, mid)
		// right half first so the left half is popped (and emitted) first
		stack = append(stack, frame{lo: mid, hi: f.hi, n: f.n - left}, frame{lo: f.lo, hi: mid, n: left})
	}

	return out
}

// Refine narrows iv, an isolating interval of a root of p, until its width
// is at most maxWidth or the root is found exactly.
func Refine(p Poly, iv RootInterval, maxWidth *big.Rat) RootInterval {
	if iv.Exact() {
		return iv
	}
	s := NewSturm(p)
	lo, hi := new(big.Rat).Set(iv.Lo), new(big.Rat).Set(iv.Hi)
	if p.SignAt(hi) == 0 {
		return RootInterval{Lo: hi, Hi: new(big.Rat).Set(hi)}
	}
	for new(big.Rat).Sub(hi, lo).Cmp(maxWidth) > 0 {
		mid := midpoint(lo, hi)
		if p.SignAt(mid) == 0 && s.Count(lo, mid) == 1 {
			return RootInterval{Lo: mid, Hi: new(big.Rat).Set(mid)}
		}
		if s.Count(lo, mid) == 1 {
			hi = mid
		} else {
			lo = mid
		}
	}

	return RootInterval{Lo: lo, Hi: hi}
}

// EvalInterval returns a closed enclosure [elo, ehi] of p over [lo, hi]
// using interval Horner evaluation. The enclosure is rigorous and shrinks
// to the exact value as hi - lo → 0.
func (p Poly) EvalInterval(lo, hi *big.Rat) (*big.Rat, *big.Rat) {
	if p.IsZero() {
		return new(big.Rat), new(big.Rat)
	}
	n := len(p.c) - 1
	alo, ahi := new(big.Rat).Set(p.c[n]), new(big.Rat).Set(p.c[n])
	for i := n - 1; i >= 0; i-- {
		alo, ahi = mulInterval(alo, ahi, lo, hi)
		alo.Add(alo, p.c[i])
		ahi.Add(ahi, p.c[i])
	}

	return alo, ahi
}

// mulInterval multiplies the closed intervals [a, b] and [c, d].
func mulInterval(a, b, c, d *big.Rat) (*big.Rat, *big.Rat) {
	products := [4]*big.Rat{
		new(big.Rat).Mul(a, c),
		new(big.Rat).Mul(a, d),
		new(big.Rat).Mul(b, c),
		new(big.Rat).Mul(b, d),
	}
	lo, hi := products[0], products[0]
	for _, v := range products[1:] {
		if v.Cmp(lo) < 0 {
			lo = v
		}
		if v.Cmp(hi) > 0 {
			hi = v
		}
	}

	return new(big.Rat).Set(lo), new(big.Rat).Set(hi)
}
