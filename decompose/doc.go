// SPDX-License-Identifier: MIT

// Package decompose partitions an interval exchange transformation into
// periodic and minimal components.
//
// 🚀 How it works
//
//	The driver keeps an explicit work list of residual IETs ("branches").
//	Each branch alternates between Classifying (package boshernitzan) and
//	Reducing (package rauzy) until it is certified or runs out of steps:
//
//	  Classifying ──Periodic/Minimal──▶ Done (component)
//	      │ Undetermined, steps < bound
//	      ▼
//	  Reducing ──step──▶ Classifying
//	      │ saddle connection
//	      ▼
//	  collapse + split ──▶ new branches in the work list
//
//	Every interval of a branch carries a tower: its return time h and the
//	original labels visited before returning. Component lengths are
//	Σ λ·h, so the lengths of all components add up to the original total
//	exactly, and each cylinder reports its period h.
//
// ✨ Key features:
//   - Decompose / DecomposeContext: one IET, step bound per lineage, the
//     context polled once per step.
//   - Batch: independent IETs in parallel (errgroup with a worker limit).
//   - Options: WithLogger (logrus), WithZorich, WithWindow, WithCheckEvery,
//     WithWorkers.
//
// Error handling:
//   - ErrIterationBoundExceeded is informational: it is the Reason of
//     Undetermined components and Result.BoundExceeded is set; Decompose
//     itself still succeeds.
//   - ErrNilIET, ErrNegativeBound and context errors are returned.
package decompose
