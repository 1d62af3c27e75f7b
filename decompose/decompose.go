// SPDX-License-Identifier: MIT

package decompose

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/boshernitzan"
	"github.com/katalvlaran/ietx/iet"
	"github.com/katalvlaran/ietx/rauzy"
)

// state of one branch.
type state int

const (
	reducing state = iota
	classifying
	done
)

// branch is a residual IET waiting in the work list, with the tower over
// each of its intervals: heights[l] is the return time to the interval l
// and origins[l] the original labels the tower passes through.
type branch struct {
	id      int
	t       *iet.IET
	heights map[string]*big.Int
	origins map[string]map[string]struct{}
	steps   int
}

// Decompose is DecomposeContext with context.Background().
func Decompose(t *iet.IET, maxSteps int, opts ...Option) (Result, error) {
	return DecomposeContext(context.Background(), t, maxSteps, opts...)
}

// DecomposeContext partitions t into Periodic, Minimal and Undetermined
// components.
//
// Implementation:
//   - Stage 1: t is split into irreducible blocks; each block is a branch
//     in an explicit work list, with unit towers.
//   - Stage 2: each branch runs the state machine Classifying → Reducing →
//     Classifying … A Periodic or Minimal certificate ends the branch;
//     after maxSteps engine calls on its lineage it ends Undetermined
//     (ErrIterationBoundExceeded).
//   - Stage 3: an induction step grows the loser towers by the winner
//     tower. A saddle connection is collapsed (the merged tower is the
//     concatenation of both) and the result re-enters the work list as
//     irreducible blocks; a block of one interval is a cylinder.
//   - Stage 4: components are sorted by their first original label.
//
// maxSteps bounds each lineage separately: a block and the blocks split off
// from it share one budget, so an input that falls apart into n blocks may
// take up to n·maxSteps steps in total. Result.Steps counts them all.
//
// The measure Σ λ·h is preserved by every step, so component lengths add
// up to t.TotalLength() exactly. ctx is polled once per step.
//
// Errors:
//   - ErrNilIET, ErrNegativeBound on invalid arguments.
//   - ctx.Err() when ctx is done.
func DecomposeContext(ctx context.Context, t *iet.IET, maxSteps int, opts ...Option) (Result, error) {
	if t == nil {
		return Result{}, ErrNilIET
	}
	if maxSteps < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrNegativeBound, maxSteps)
	}
	o := buildOptions(opts)
	d := &driver{ctx: ctx, opts: o, maxSteps: maxSteps, log: o.Logger}

	position := make(map[string]int, t.Len())
	root := &branch{
		t:       t,
		heights: make(map[string]*big.Int, t.Len()),
		origins: make(map[string]map[string]struct{}, t.Len()),
	}
	for i, l := range t.Top() {
		position[l] = i
		root.heights[l] = big.NewInt(1)
		root.origins[l] = map[string]struct{}{l: {}}
	}
	d.push(d.split(root)...)

	for len(d.work) > 0 {
		b := d.work[0]
		d.work = d.work[1:]
		if err := d.run(b); err != nil {
			return Result{}, err
		}
	}

	for i := range d.res.Components {
		sortLabels(d.res.Components[i].Labels, position)
	}
	sort.SliceStable(d.res.Components, func(i, j int) bool {
		return position[d.res.Components[i].Labels[0]] < position[d.res.Components[j].Labels[0]]
	})

	return d.res, nil
}

type driver struct {
	ctx      context.Context
	opts     Options
	maxSteps int
	log      logrus.FieldLogger
	work     []*branch
	nextID   int
	res      Result
}

func (d *driver) push(bs ...*branch) {
	for _, b := range bs {
		b.id = d.nextID
		d.nextID++
		d.work = append(d.work, b)
	}
}

// run drives one branch until it ends or splits.
func (d *driver) run(b *branch) error {
	cert := boshernitzan.New(d.opts.Certifier...)
	log := d.log.WithField("branch", b.id)
	var last *rauzy.Step
	st := classifying
	for st != done {
		switch st {
		case classifying:
			c := cert.Observe(b.t, last)
			switch {
			case c.Verdict == boshernitzan.Periodic:
				d.emitPeriodic(b, c)
				st = done
			case c.Verdict == boshernitzan.Minimal:
				d.emit(b, Component{Tag: Minimal, Confidence: c.Confidence})
				st = done
			case b.steps >= d.maxSteps:
				d.res.BoundExceeded = true
				d.emit(b, Component{Tag: Undetermined, Reason: ErrIterationBoundExceeded})
				st = done
			default:
				st = reducing
			}

		case reducing:
			if err := d.ctx.Err(); err != nil {
				return err
			}
			next, step, err := d.induce(b.t)
			b.steps++
			d.res.Steps++
			var conn *rauzy.ConnectionError
			switch {
			case err == nil:
				grow(b, step)
				b.t, last = next, &step
				log.WithFields(logrus.Fields{
					"winner":       step.WinnerLabel,
					"side":         step.Winner,
					"multiplicity": step.Multiplicity,
				}).Debug("rauzy step")
				st = classifying
			case errors.As(err, &conn):
				log.WithFields(logrus.Fields{"top": conn.TopLabel, "bottom": conn.BottomLabel}).Debug("saddle connection")
				parts, cerr := d.collapse(b, conn)
				if cerr != nil {
					d.emit(b, Component{Tag: Undetermined, Reason: cerr})
				} else {
					d.push(parts...)
				}
				st = done
			default:
				d.emit(b, Component{Tag: Undetermined, Reason: err})
				st = done
			}
		}
	}

	return nil
}

func (d *driver) induce(t *iet.IET) (*iet.IET, rauzy.Step, error) {
	if d.opts.Zorich {
		return rauzy.Zorich(t)
	}

	return rauzy.Induce(t)
}

// grow adds Times × (winner tower) on top of every loser tower.
func grow(b *branch, step rauzy.Step) {
	hw := b.heights[step.WinnerLabel]
	ow := b.origins[step.WinnerLabel]
	for _, loss := range step.Losers {
		h := b.heights[loss.Label]
		h.Add(h, new(big.Int).Mul(loss.Times, hw))
		for l := range ow {
			b.origins[loss.Label][l] = struct{}{}
		}
	}
}

// collapse resolves a connection and returns the irreducible blocks of the
// result. A connection of an interval with itself needs no collapse: the
// interval is its own block.
func (d *driver) collapse(b *branch, conn *rauzy.ConnectionError) ([]*branch, error) {
	if conn.TopLabel == conn.BottomLabel {
		return d.split(b), nil
	}
	next, err := rauzy.Collapse(b.t, conn)
	if err != nil {
		return nil, err
	}
	a, keep := conn.TopLabel, conn.BottomLabel
	b.heights[keep].Add(b.heights[keep], b.heights[a])
	for l := range b.origins[a] {
		b.origins[keep][l] = struct{}{}
	}
	delete(b.heights, a)
	delete(b.origins, a)
	b.t = next

	return d.split(b), nil
}

// split cuts b into irreducible blocks that inherit its towers and its
// step count.
func (d *driver) split(b *branch) []*branch {
	blocks := b.t.Split()
	if len(blocks) == 1 {
		return []*branch{b}
	}
	out := make([]*branch, len(blocks))
	for i, t := range blocks {
		nb := &branch{
			t:       t,
			heights: make(map[string]*big.Int, t.Len()),
			origins: make(map[string]map[string]struct{}, t.Len()),
			steps:   b.steps,
		}
		for _, l := range t.Top() {
			nb.heights[l] = b.heights[l]
			nb.origins[l] = b.origins[l]
		}
		out[i] = nb
	}

	return out
}

func (d *driver) emitPeriodic(b *branch, c boshernitzan.Certificate) {
	comp := Component{Tag: Periodic, Confidence: c.Confidence, Cylinders: b.t.Len()}
	for _, l := range b.t.Top() {
		comp.Periods = append(comp.Periods, new(big.Int).Set(b.heights[l]))
	}
	d.emit(b, comp)
}

// emit fills labels, length and steps from the branch and records comp.
func (d *driver) emit(b *branch, comp Component) {
	seen := make(map[string]struct{})
	var length algebraic.Number
	for _, l := range b.t.Top() {
		length = length.Add(b.t.Length(l).MulInt(b.heights[l]))
		for o := range b.origins[l] {
			if _, ok := seen[o]; !ok {
				seen[o] = struct{}{}
				comp.Labels = append(comp.Labels, o)
			}
		}
	}
	comp.Length = length
	comp.Steps = b.steps
	d.res.Components = append(d.res.Components, comp)

	entry := d.log.WithFields(logrus.Fields{
		"branch": b.id,
		"tag":    comp.Tag,
		"labels": len(comp.Labels),
		"steps":  comp.Steps,
	})
	if comp.Reason != nil {
		entry = entry.WithError(comp.Reason)
	}
	entry.Info("component")
}

func sortLabels(labels []string, position map[string]int) {
	sort.Slice(labels, func(i, j int) bool { return position[labels[i]] < position[labels[j]] })
}
