// Package ietx decomposes interval exchange transformations with exact
// arithmetic in real number fields.
//
// 🚀 What is ietx?
//
//	An interval exchange transformation (IET) cuts [0, L) into labelled
//	intervals and lays them back down in another order. ietx splits such a
//	map into periodic components (finite unions of cylinders) and minimal
//	components (every orbit dense), certifying each verdict exactly:
//		• Exact numbers: ℚ(α) for a real algebraic α, signs decided rigorously
//		• IETs: labelled two-row combinatorics, translations, irreducible blocks
//		• Induction: Rauzy steps, Zorich acceleration, saddle connection collapse
//		• Certificates: an exact LP test for periodic trajectories, cylinders,
//		  recurrence of induced states
//		• Decomposition: a work-list driver, batches over a worker pool
//
// ✨ Layout:
//
//	poly/         — integer/rational polynomials, Sturm sequences, factoring
//	algebraic/    — Field and Number: exact arithmetic in ℚ(α)
//	iet/          — the IET type and its queries
//	rauzy/        — Rauzy and Zorich induction, Collapse
//	boshernitzan/ — Certify and the stateful Certifier
//	decompose/    — Decompose, DecomposeContext, Batch
//	fixture/      — YAML/JSONC input files
//	codec/        — JSON and deterministic CBOR reports
//	store/        — SQLite run history
//	cmd/ietdecomp — the command-line front end
//
// Quick ASCII example:
//
//	top     |--A--|----B----|
//	bottom  |----B----|--A--|
//
//	is the rotation of a circle of length λA + λB by λB; it is minimal when
//	λA/λB is irrational.
//
//	go get github.com/katalvlaran/ietx
package ietx
