// SPDX-License-Identifier: MIT

package boshernitzan

import (
	"math/big"
	"strings"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/iet"
	"github.com/katalvlaran/ietx/rauzy"
)

// Verdict is the outcome of a certificate query.
type Verdict int

const (
	// Undetermined means nothing could be certified yet.
	Undetermined Verdict = iota
	// Periodic means the IET is a finite union of periodic orbits.
	Periodic
	// Minimal means the IET has no periodic trajectory.
	Minimal
)

// String returns the lower-case verdict name.
func (v Verdict) String() string {
	switch v {
	case Periodic:
		return "periodic"
	case Minimal:
		return "minimal"
	default:
		return "undetermined"
	}
}

// Confidence says which argument produced a verdict.
type Confidence int

const (
	// NoConfidence accompanies Undetermined verdicts.
	NoConfidence Confidence = iota
	// NoPeriodicTrajectory: the displacement system has no nonnegative
	// solution, so no orbit can close up.
	NoPeriodicTrajectory
	// SelfSimilar: the induction returned to a rescaled copy of an earlier
	// state, so it never stops and the IET satisfies the Keane condition.
	SelfSimilar
	// Cylinder: a single interval mapped onto itself.
	Cylinder
	// Recurrent: the same state with identical lengths was observed twice.
	// Induction strictly shrinks the total length, so a caller stepping
	// between observations never sees this; it marks a state that was
	// observed again without an intervening step.
	Recurrent
)

// String returns the confidence name.
func (c Confidence) String() string {
	switch c {
	case NoPeriodicTrajectory:
		return "no-periodic-trajectory"
	case SelfSimilar:
		return "self-similar"
	case Cylinder:
		return "cylinder"
	case Recurrent:
		return "recurrent"
	default:
		return "none"
	}
}

// Certificate is the answer of one query.
type Certificate struct {
	Verdict    Verdict
	Confidence Confidence
	// Rank is the dimension of the ℚ-span of the lengths.
	Rank int
	// Residual is the phase-one optimum of the displacement system, nil when
	// the system was not solved in this query. A positive residual proves
	// that no periodic trajectory exists.
	Residual *big.Rat
	// Period is the number of elementary steps between two occurrences of a
	// recurring state; nil unless the verdict comes from the history.
	Period *big.Int
	// Scaling is the ratio of total lengths between those occurrences.
	Scaling algebraic.Number
}

// Residual returns the phase-one optimum of
//
//	Σ n_i c(t_i) = 0,  Σ n_i = 1,  n ≥ 0
//
// where t_i are the translations of t and c(·) are coordinates over the
// power basis of the field. A periodic trajectory visiting interval i
// exactly n_i times has zero total displacement Σ n_i t_i, and since the
// basis is ℚ-linearly independent every coordinate vanishes; so a positive
// residual rules out periodic trajectories (Boshernitzan, 1988).
func Residual(t *iet.IET) *big.Rat {
	tr := t.Translations()
	top := t.Top()
	d := t.Field().Degree()
	a := make([][]*big.Rat, d+1)
	b := make([]*big.Rat, d+1)
	for i := range a {
		a[i] = make([]*big.Rat, len(top))
		b[i] = new(big.Rat)
	}
	for j, l := range top {
		c := coords(tr[l], d)
		for i := 0; i < d; i++ {
			a[i][j] = c[i]
		}
		a[d][j] = big.NewRat(1, 1)
	}
	b[d].SetInt64(1)
	// phase one needs b ≥ 0, already the case
	return phaseOne(a, b)
}

// Rank returns the dimension of the ℚ-vector space spanned by the lengths
// of t. Rational lengths have rank 1.
func Rank(t *iet.IET) int {
	d := t.Field().Degree()
	vecs := make([][]*big.Rat, 0, t.Len())
	for _, l := range t.Top() {
		vecs = append(vecs, coords(t.Length(l), d))
	}

	return rank(vecs)
}

// Certify is a stateless query: cylinders are Periodic, and an IET of rank
// at least 2 with a positive residual is Minimal.
func Certify(t *iet.IET) Certificate {
	if isCylinder(t) {
		return Certificate{Verdict: Periodic, Confidence: Cylinder, Rank: 1}
	}
	cert := Certificate{Rank: Rank(t)}
	if cert.Rank < 2 {
		return cert
	}
	cert.Residual = Residual(t)
	if cert.Residual.Sign() > 0 {
		cert.Verdict, cert.Confidence = Minimal, NoPeriodicTrajectory
	}

	return cert
}

// coords pads the coordinates of rational x to the field degree d.
func coords(x algebraic.Number, d int) []*big.Rat {
	c := x.Coordinates()
	for len(c) < d {
		c = append(c, new(big.Rat))
	}

	return c
}

func isCylinder(t *iet.IET) bool {
	return t.Len() == 1
}

type snapshot struct {
	total algebraic.Number
	steps *big.Int
}

// Certifier runs Certify along an induction path and watches a bounded
// window of normalized states for recurrences. Create one per branch; it is
// not safe for concurrent use.
type Certifier struct {
	opts    Options
	queries int
	steps   *big.Int
	window  []string
	seen    map[string]snapshot
}

// New returns a Certifier configured by opts.
func New(opts ...Option) *Certifier {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Certifier{opts: o, steps: new(big.Int), seen: make(map[string]snapshot)}
}

// Reset forgets the history, e.g. after the label set changed.
func (c *Certifier) Reset() {
	c.queries = 0
	c.steps = new(big.Int)
	c.window = c.window[:0]
	clear(c.seen)
}

// Observe records that t was reached by step (nil for the initial state)
// and returns the current certificate.
//
// Implementation:
//   - Stage 1: cylinders are Periodic.
//   - Stage 2: every CheckEvery queries, the displacement system is solved
//     when the rank is at least 2; a positive residual is Minimal.
//   - Stage 3: the state (rows, lengths / total) is looked up in the
//     window. A hit with a smaller total means the induction is
//     self-similar (Minimal when the rank is at least 2). A hit with the
//     same total can only come from observing an unchanged state twice,
//     since every induction step shortens t; it is reported as Periodic
//     with Recurrent confidence.
func (c *Certifier) Observe(t *iet.IET, step *rauzy.Step) Certificate {
	if step != nil && step.Multiplicity != nil {
		c.steps.Add(c.steps, step.Multiplicity)
	}
	c.queries++
	if isCylinder(t) {
		return Certificate{Verdict: Periodic, Confidence: Cylinder, Rank: 1}
	}

	cert := Certificate{Rank: Rank(t)}
	if cert.Rank >= 2 && (c.queries-1)%c.opts.CheckEvery == 0 {
		cert.Residual = Residual(t)
		if cert.Residual.Sign() > 0 {
			cert.Verdict, cert.Confidence = Minimal, NoPeriodicTrajectory

			return cert
		}
	}
	if c.opts.Window == 0 {
		return cert
	}

	total := t.TotalLength()
	key := stateKey(t, total)
	if prev, ok := c.seen[key]; ok {
		cert.Period = new(big.Int).Sub(c.steps, prev.steps)
		cert.Scaling, _ = total.Div(prev.total)
		switch {
		case cert.Scaling.Equal(algebraic.Int(1)):
			cert.Verdict, cert.Confidence = Periodic, Recurrent
		case cert.Rank >= 2:
			cert.Verdict, cert.Confidence = Minimal, SelfSimilar
		}

		return cert
	}
	c.remember(key, snapshot{total: total, steps: new(big.Int).Set(c.steps)})

	return cert
}

func (c *Certifier) remember(key string, s snapshot) {
	if len(c.window) == c.opts.Window {
		delete(c.seen, c.window[0])
		c.window = c.window[1:]
	}
	c.window = append(c.window, key)
	c.seen[key] = s
}

// stateKey identifies rows and normalized lengths; equal normalized numbers
// have equal hashes.
func stateKey(t *iet.IET, total algebraic.Number) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Top(), "\x00"))
	sb.WriteByte('|')
	sb.WriteString(strings.Join(t.Bottom(), "\x00"))
	sb.WriteByte('|')
	for _, l := range t.Top() {
		x, _ := t.Length(l).Div(total)
		h := x.Hash()
		sb.Write(h[:])
	}

	return sb.String()
}
