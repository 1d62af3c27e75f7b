// SPDX-License-Identifier: MIT

package boshernitzan

import "math/big"

// phaseOne returns min Σ a over {A n + a = b, n ≥ 0, a ≥ 0} for b ≥ 0, the
// phase-one optimum of the exact simplex method. The system A n = b,
// n ≥ 0 is feasible iff the result is zero.
//
// Implementation:
//   - dense tableau over big.Rat with one artificial variable per row;
//   - Bland's rule (smallest entering index, ties in the ratio test broken
//     by smallest basic index) so the method cannot cycle.
//
// Complexity: exponential in the worst case, polynomial in practice; the
// tableau has len(A) rows and len(A[0]) + len(A) columns.
func phaseOne(a [][]*big.Rat, b []*big.Rat) *big.Rat {
	m := len(a)
	if m == 0 {
		return new(big.Rat)
	}
	n := len(a[0])
	cols := n + m
	tab := make([][]*big.Rat, m+1)
	for i := range tab {
		tab[i] = make([]*big.Rat, cols+1)
		for j := range tab[i] {
			tab[i][j] = new(big.Rat)
		}
	}
	basis := make([]int, m)
	obj := tab[m]
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			tab[i][j].Set(a[i][j])
			obj[j].Sub(obj[j], a[i][j])
		}
		tab[i][n+i].SetInt64(1)
		tab[i][cols].Set(b[i])
		obj[cols].Sub(obj[cols], b[i])
		basis[i] = n + i
	}

	ratio, best := new(big.Rat), new(big.Rat)
	for {
		enter := -1
		for j := 0; j < cols; j++ {
			if obj[j].Sign() < 0 {
				enter = j

				break
			}
		}
		if enter < 0 {
			break
		}
		leave := -1
		for i := 0; i < m; i++ {
			if tab[i][enter].Sign() <= 0 {
				continue
			}
			ratio.Quo(tab[i][cols], tab[i][enter])
			if leave < 0 {
				leave = i
				best.Set(ratio)

				continue
			}
			if c := ratio.Cmp(best); c < 0 || (c == 0 && basis[i] < basis[leave]) {
				leave = i
				best.Set(ratio)
			}
		}
		if leave < 0 {
			// unbounded; impossible for a phase-one objective bounded below by 0
			break
		}
		pivot(tab, leave, enter)
		basis[leave] = enter
	}

	return new(big.Rat).Neg(obj[cols])
}

func pivot(tab [][]*big.Rat, r, c int) {
	p := new(big.Rat).Set(tab[r][c])
	for j := range tab[r] {
		tab[r][j].Quo(tab[r][j], p)
	}
	f, t := new(big.Rat), new(big.Rat)
	for i := range tab {
		if i == r || tab[i][c].Sign() == 0 {
			continue
		}
		f.Set(tab[i][c])
		for j := range tab[i] {
			tab[i][j].Sub(tab[i][j], t.Mul(f, tab[r][j]))
		}
	}
}

// rank returns the dimension of the ℚ-span of the vectors.
func rank(vecs [][]*big.Rat) int {
	rows := make([][]*big.Rat, len(vecs))
	for i, v := range vecs {
		rows[i] = make([]*big.Rat, len(v))
		for j, x := range v {
			rows[i][j] = new(big.Rat).Set(x)
		}
	}
	if len(rows) == 0 {
		return 0
	}
	r := 0
	t := new(big.Rat)
	for col := 0; col < len(rows[0]) && r < len(rows); col++ {
		p := -1
		for i := r; i < len(rows); i++ {
			if rows[i][col].Sign() != 0 {
				p = i

				break
			}
		}
		if p < 0 {
			continue
		}
		rows[r], rows[p] = rows[p], rows[r]
		for i := r + 1; i < len(rows); i++ {
			if rows[i][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Quo(rows[i][col], rows[r][col])
			for j := col; j < len(rows[i]); j++ {
				rows[i][j].Sub(rows[i][j], t.Mul(f, rows[r][j]))
			}
		}
		r++
	}

	return r
}
