// SPDX-License-Identifier: MIT

// Package algebraic implements exact real algebraic numbers: elements of a
// real embedded number field K = ℚ(α), where α is a chosen real root of an
// integer polynomial.
//
// 🚀 What is a real embedded number field?
//
//	A number field ℚ[x]/(m) together with one real root α of m. Every
//	element is a polynomial in α with rational coefficients of degree
//	< deg m, and the embedding gives every element a position on the real
//	line, so elements can be compared exactly.
//
// ✨ Key features:
//   - NewField(coeffs, rootIndex) picks the rootIndex-th real root (in
//     increasing order) of any nonzero integer polynomial. The field always
//     works modulo the minimal polynomial of α, recovered at construction.
//   - Number arithmetic (Add, Sub, Mul, Div, Neg) is exact and allocation
//     based: values are immutable.
//   - Sign/Cmp/Equal never trust an approximation alone: a reduced nonzero
//     element cannot vanish at α (m is irreducible), and the sign is read
//     off a rigorous rational interval enclosure refined by bisection.
//   - Floor/Ceil (exact integers), FloorPrec/CeilPrec (dyadic bounds at any
//     precision), Enclose, Float64 approximations.
//   - Hash is a BLAKE3 digest of the canonical representation and agrees
//     with Equal.
//   - An optional SignCache, passed explicitly with WithSignCache, memoizes
//     sign decisions behind a single mutex.
//
// ⚙️ Usage:
//
//	K, err := algebraic.NewField([]int64{-2, 0, 1}, 1) // ℚ(√2), α = +√2
//	a := K.Gen()
//	b := a.Add(algebraic.Int(1))   // (a + 1 ~ 2.4142136)
//	c, err := algebraic.Int(1).Div(a)  // (1/2*a ~ 0.70710678)
//	b.Cmp(algebraic.Int(2))        // 1
//
// Mixing elements of two different non-rational fields is a programmer
// error and panics with ErrFieldMismatch, the same way math/big panics on
// division by zero; CommonField validates a set of numbers up front.
// Rational numbers (Int, Rational, FromRat) mix with every field.
package algebraic
