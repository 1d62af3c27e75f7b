// SPDX-License-Identifier: MIT

// Package rauzy implements (right) Rauzy induction on interval exchange
// transformations with exact lengths.
//
// 🚀 One step
//
//	Let α be the last top label and β the last bottom label.
//	  - λα > λβ (top wins):    λα -= λβ and β moves right after α in the
//	                           bottom row.
//	  - λα < λβ (bottom wins): λβ -= λα and α moves right after β in the
//	                           top row.
//	  - λα == λβ:              a saddle connection; no choice is made.
//	The result is the first-return map of the IET to [0, L - min(λα, λβ)).
//
// ✨ Key features:
//   - Induce performs exactly one step and returns a new IET plus a Step.
//   - Zorich performs, in one call, every consecutive step of the same type:
//     whole loser cycles are skipped with one exact Floor, so an IET whose
//     lengths are wildly unbalanced costs a handful of arithmetic operations
//     instead of millions of steps.
//   - Collapse resolves a saddle connection: a label mapped onto itself is a
//     cylinder and is removed, otherwise the top label is merged into the
//     bottom one. The interval count drops by one.
//
// Error handling:
//   - *ConnectionError (matches ErrSaddleConnection) carries both labels.
//   - ErrDegenerateIET when fewer than two intervals remain.
//
// The engine is stateless and never iterates on its own beyond one
// acceleration; the driver in package decompose owns the loop.
package rauzy
