// SPDX-License-Identifier: MIT

package decompose

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/ietx/iet"
)

// Input is one named job of a Batch.
type Input struct {
	Name     string
	IET      *iet.IET
	MaxSteps int
}

// Output pairs a job name with its Result.
type Output struct {
	Name   string
	Result Result
}

// Batch decomposes independent inputs in parallel, at most Options.Workers
// at a time. Outputs keep the order of inputs. The first error (an invalid
// input or ctx being done) cancels the remaining jobs and is returned.
func Batch(ctx context.Context, inputs []Input, opts ...Option) ([]Output, error) {
	o := buildOptions(opts)
	out := make([]Output, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i, in := range inputs {
		i, in := i, in
		jobOpts := make([]Option, 0, len(opts)+1)
		jobOpts = append(jobOpts, opts...)
		jobOpts = append(jobOpts, WithLogger(o.Logger.WithField("input", in.Name)))
		g.Go(func() error {
			res, err := DecomposeContext(gctx, in.IET, in.MaxSteps, jobOpts...)
			if err != nil {
				return fmt.Errorf("decompose %q: %w", in.Name, err)
			}
			out[i] = Output{Name: in.Name, Result: res}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
