// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"math/big"
	"sort"
)

// DefaultFactorBudget bounds the number of interpolation candidates
// FactorWithRoot may try across all degrees.
const DefaultFactorBudget = 1 << 16

// maxPointValue caps |p(x)| at the evaluation points; divisor enumeration
// by trial division is linear in sqrt of this value.
const maxPointValue = 1 << 40

// FactorWithRoot returns the irreducible factor of p over ℚ that vanishes at
// the root isolated by iv. The result is primitive with positive leading
// coefficient.
//
// Contracts:
//   - p has degree ≥ 1 and iv isolates one of its real roots.
//   - budget > 0 bounds the total number of Kronecker candidates tried.
//
// Implementation:
//   - Stage 1: an exact root yields the linear factor directly.
//   - Stage 2: reduce to the square-free primitive part.
//   - Stage 3: repeatedly look for any nontrivial factor g of degree
//     d ≤ deg/2 (Kronecker: g(x_i) divides p(x_i) at d+1 integer points),
//     and keep whichever of g, p/g still has a root in iv (Sturm count).
//   - Stage 4: stop when no factor exists: the survivor is irreducible.
//
// Errors:
//   - ErrFactorBudget when candidates or point values exceed the budget.
//
// Complexity: exponential in the number of divisors of p at the sample
// points; negligible for the small fields IET lengths live in.
func FactorWithRoot(p Poly, iv RootInterval, budget int) (Poly, error) {
	if p.Degree() < 1 {
		return Poly{}, fmt.Errorf("poly: constant polynomial has no roots")
	}
	if iv.Exact() {
		return New(new(big.Rat).Neg(iv.Lo), big.NewRat(1, 1)).Primitive(), nil
	}
	cur := p.SquareFree().Primitive()
	remaining := budget
	for cur.Degree() > 1 {
		g, found, err := splitOnce(cur, &remaining)
		if err != nil {
			return Poly{}, err
		}
		if !found {
			break
		}
		h, _ := cur.DivMod(g)
		if NewSturm(g).Count(iv.Lo, iv.Hi) == 1 {
			cur = g.Primitive()
		} else {
			cur = h.Primitive()
		}
	}

	return cur, nil
}

// splitOnce finds some nontrivial factor of the primitive square-free f.
func splitOnce(f Poly, budget *int) (Poly, bool, error) {
	for d := 1; d <= f.Degree()/2; d++ {
		g, ok, err := kroneckerFactor(f, d, budget)
		if err != nil || ok {
			return g, ok, err
		}
	}

	return Poly{}, false, nil
}

type samplePoint struct {
	x int64
	v int64 // f(x), nonzero
}

// kroneckerFactor searches a factor of f of exact degree d.
func kroneckerFactor(f Poly, d int, budget *int) (Poly, bool, error) {
	var pts []samplePoint
	for k := int64(0); len(pts) < 3*(d+1) && k <= int64(4*(d+2)); k++ {
		xs := []int64{k, -k}
		if k == 0 {
			xs = xs[:1]
		}
		for _, x := range xs {
			v := f.Eval(new(big.Rat).SetInt64(x))
			if v.Sign() == 0 {
				return FromInt64(-x, 1), true, nil
			}
			if !v.IsInt() || !v.Num().IsInt64() {
				continue
			}
			n := v.Num().Int64()
			if n > maxPointValue || n < -maxPointValue {
				continue
			}
			pts = append(pts, samplePoint{x: x, v: n})
		}
	}
	if len(pts) < d+1 {
		return Poly{}, false, ErrFactorBudget
	}
	sort.SliceStable(pts, func(i, j int) bool { return absInt64(pts[i].v) < absInt64(pts[j].v) })
	pts = pts[:d+1]

	divs := make([][]int64, len(pts))
	total := 1
	for i, pt := range pts {
		divs[i] = divisors(absInt64(pt.v))
		radix := len(divs[i])
		if i > 0 {
			radix *= 2
		}
		if total > *budget/radix {
			return Poly{}, false, ErrFactorBudget
		}
		total *= radix
	}
	*budget -= total

	xs := make([]*big.Rat, len(pts))
	for i, pt := range pts {
		xs[i] = new(big.Rat).SetInt64(pt.x)
	}
	ys := make([]*big.Rat, len(pts))
	counter := make([]int, len(pts))
	for {
		for i := range pts {
			k := counter[i]
			if i == 0 {
				ys[i] = new(big.Rat).SetInt64(divs[i][k])
				continue
			}
			sign := int64(1)
			if k >= len(divs[i]) {
				sign, k = -1, k-len(divs[i])
			}
			ys[i] = new(big.Rat).SetInt64(sign * divs[i][k])
		}
		if g := interpolate(xs, ys); g.Degree() == d {
			if _, ok := g.IntCoeffs(); ok && f.Mod(g).IsZero() {
				return g.Primitive(), true, nil
			}
		}
		if !advance(counter, divs) {
			return Poly{}, false, nil
		}
	}
}

// advance steps the mixed-radix counter; false once it wraps around.
func advance(counter []int, divs [][]int64) bool {
	for i := range counter {
		radix := len(divs[i])
		if i > 0 {
			radix *= 2
		}
		counter[i]++
		if counter[i] < radix {
			return true
		}
		counter[i] = 0
	}

	return false
}

// interpolate returns the polynomial of degree < len(xs) through (xs[i], ys[i])
// via Newton divided differences.
func interpolate(xs, ys []*big.Rat) Poly {
	n := len(xs)
	dd := make([]*big.Rat, n)
	for i := range ys {
		dd[i] = new(big.Rat).Set(ys[i])
	}
	for j := 1; j < n; j++ {
		for i := n - 1; i >= j; i-- {
			num := new(big.Rat).Sub(dd[i], dd[i-1])
			den := new(big.Rat).Sub(xs[i], xs[i-j])
			dd[i] = num.Quo(num, den)
		}
	}
	g := Constant(dd[n-1])
	for i := n - 2; i >= 0; i-- {
		g = g.Mul(New(new(big.Rat).Neg(xs[i]), big.NewRat(1, 1))).Add(Constant(dd[i]))
	}

	return g
}

// divisors lists the positive divisors of n > 0 in increasing order.
func divisors(n int64) []int64 {
	var small, large []int64
	for k := int64(1); k*k <= n; k++ {
		if n%k != 0 {
			continue
		}
		small = append(small, k)
		if k*k != n {
			large = append(large, n/k)
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}

	return small
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
