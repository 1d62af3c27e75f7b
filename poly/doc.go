// SPDX-License-Identifier: MIT

// Package poly is the exact polynomial kernel underneath ietx/algebraic.
//
// It provides dense univariate polynomials over ℚ (math/big.Rat) together
// with the handful of algorithms an exact real-algebraic number layer needs:
//
//   - Ring arithmetic: Add, Sub, Mul, Scale, DivMod, Mod, GCD, InvMod.
//   - Normal forms: Monic, Primitive (content-free ℤ[x] with positive lead),
//     SquareFree (p / gcd(p, p')).
//   - Evaluation: exact Eval/SignAt at rationals, and EvalInterval — an
//     interval Horner scheme over closed rational intervals used for
//     rigorous sign enclosures.
//   - Real roots: Sturm sequences (Count on half-open intervals), Isolate
//     (disjoint isolating intervals in increasing order) and Refine.
//   - Factor search: FactorWithRoot returns the irreducible factor of an
//     integer polynomial carrying a given isolated root (Kronecker-style
//     search, budgeted).
//
// Design principles:
//   - Values are immutable: every operation returns a fresh Poly; callers
//     never observe shared *big.Rat coefficients.
//   - No floating point anywhere in this package.
//   - Deterministic: no randomness, no map iteration in outputs.
//
// Errors:
//   - ErrFactorBudget — FactorWithRoot exhausted its candidate budget.
//
// Division by the zero polynomial is a programmer error and panics, in the
// same way math/big panics on division by zero.
package poly
