// SPDX-License-Identifier: MIT

// Package boshernitzan certifies minimality or periodicity of interval
// exchange transformations met along a Rauzy induction path.
//
// Overview:
//
//   - A periodic trajectory that visits interval i exactly n_i times returns
//     to its start, so its total displacement Σ n_i t_i vanishes (t_i are the
//     translations). Writing every t_i in coordinates over the power basis
//     1, α, …, α^(d-1) of the length field turns this into d rational
//     equations. If the cone {n ≥ 0, Σ n_i = 1, Σ n_i c(t_i) = 0} is empty,
//     no trajectory can close up and the IET is Minimal. Emptiness is
//     decided by the phase-one optimum (Residual) of an exact big.Rat
//     simplex with Bland's rule; a positive optimum is the certificate.
//   - Lengths spanning a ℚ-space of dimension 1 (rational lengths up to a
//     common factor) are never certified Minimal: such IETs are always
//     eventually periodic.
//   - A Certifier also keeps a bounded window of normalized states (rows and
//     lengths / total). Returning to a state with a smaller total means the
//     induction is self-similar and never stops, so the IET satisfies the
//     Keane condition (Minimal, SelfSimilar). Returning with the same total
//     is Periodic.
//   - A single interval mapped onto itself is a cylinder: Periodic.
//
// Verdicts other than Periodic and Minimal are Undetermined; the caller
// keeps inducting and decides when to give up.
//
// Options:
//
//   - WithWindow(n): states remembered (DefaultWindow, 0 disables).
//   - WithCheckEvery(k): solve the displacement system every k-th query.
//
// Complexity: one query builds a (d+1) × (n + d + 1) tableau, n = number of
// intervals, d = field degree.
package boshernitzan
