// SPDX-License-Identifier: MIT

package decompose_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/boshernitzan"
	"github.com/katalvlaran/ietx/decompose"
	"github.com/katalvlaran/ietx/iet"
)

func sqrt2(t *testing.T) algebraic.Number {
	t.Helper()
	k, err := algebraic.NewField([]int64{-2, 0, 1}, 1)
	require.NoError(t, err)

	return k.Gen()
}

func build(t *testing.T, top, bottom []string, lengths ...algebraic.Number) *iet.IET {
	t.Helper()
	x, err := iet.New(top, lengths, bottom)
	require.NoError(t, err)

	return x
}

func ints(xs ...int64) []algebraic.Number {
	out := make([]algebraic.Number, len(xs))
	for i, x := range xs {
		out[i] = algebraic.Int(x)
	}

	return out
}

// checkPartition asserts the component lengths add up to the total and
// every original label is covered.
func checkPartition(t *testing.T, x *iet.IET, res decompose.Result) {
	t.Helper()
	assert.True(t, res.TotalLength().Equal(x.TotalLength()), "Σ components %s ≠ total %s", res.TotalLength(), x.TotalLength())
	covered := map[string]bool{}
	for _, c := range res.Components {
		require.NotEmpty(t, c.Labels)
		for _, l := range c.Labels {
			covered[l] = true
		}
	}
	for _, l := range x.Top() {
		assert.True(t, covered[l], "label %s not covered", l)
	}
}

func TestDecompose_SwapEqualLengths(t *testing.T) {
	x := build(t, []string{"A", "B"}, []string{"B", "A"}, ints(1, 1)...)

	res, err := decompose.Decompose(x, 100)
	require.NoError(t, err)
	require.Len(t, res.Components, 1)
	c := res.Components[0]
	assert.Equal(t, decompose.Periodic, c.Tag)
	assert.Equal(t, 1, c.Cylinders)
	require.Len(t, c.Periods, 1)
	assert.Equal(t, int64(2), c.Periods[0].Int64())
	assert.Equal(t, []string{"A", "B"}, c.Labels)
	assert.Equal(t, boshernitzan.Cylinder, c.Confidence)
	assert.False(t, res.BoundExceeded)
	checkPartition(t, x, res)
}

func TestDecompose_Reversal4IsMinimal(t *testing.T) {
	a := sqrt2(t)
	one := algebraic.Int(1)
	x := build(t, []string{"A", "B", "C", "D"}, []string{"D", "C", "B", "A"}, one, a, one, a)

	res, err := decompose.Decompose(x, 500)
	require.NoError(t, err)
	require.Len(t, res.Components, 1)
	c := res.Components[0]
	assert.Equal(t, decompose.Minimal, c.Tag)
	assert.Equal(t, []string{"A", "B", "C", "D"}, c.Labels)
	assert.Equal(t, boshernitzan.NoPeriodicTrajectory, c.Confidence)
	assert.LessOrEqual(t, c.Steps, 500)
	checkPartition(t, x, res)
}

func TestDecompose_RationalRotation(t *testing.T) {
	x := build(t, []string{"A", "B"}, []string{"B", "A"}, ints(1, 2)...)

	for _, zorich := range []bool{true, false} {
		res, err := decompose.Decompose(x, 100, decompose.WithZorich(zorich))
		require.NoError(t, err)
		require.Len(t, res.Components, 1)
		c := res.Components[0]
		assert.Equal(t, decompose.Periodic, c.Tag)
		require.Len(t, c.Periods, 1)
		assert.Equal(t, int64(3), c.Periods[0].Int64(), "rotation by 1 on a circle of length 3")
		checkPartition(t, x, res)
	}
}

// TestDecompose_TwoCylinders: B is fixed, A and C swap.
func TestDecompose_TwoCylinders(t *testing.T) {
	one := algebraic.Int(1)
	x := build(t, []string{"A", "B", "C"}, []string{"C", "B", "A"}, one, sqrt2(t), one)

	res, err := decompose.Decompose(x, 100)
	require.NoError(t, err)
	require.Len(t, res.Components, 2)
	assert.Equal(t, 2, res.Count(decompose.Periodic))

	ac, b := res.Components[0], res.Components[1]
	assert.Equal(t, []string{"A", "C"}, ac.Labels)
	assert.Equal(t, int64(2), ac.Periods[0].Int64())
	assert.True(t, ac.Length.Equal(algebraic.Int(2)))
	assert.Equal(t, []string{"B"}, b.Labels)
	assert.Equal(t, int64(1), b.Periods[0].Int64())
	checkPartition(t, x, res)
}

func TestDecompose_ReducibleInput(t *testing.T) {
	one := algebraic.Int(1)
	x := build(t, []string{"A", "B", "C", "D"}, []string{"B", "A", "D", "C"}, one, sqrt2(t), one, one)

	res, err := decompose.Decompose(x, 100)
	require.NoError(t, err)
	require.Len(t, res.Components, 2)
	assert.Equal(t, decompose.Minimal, res.Components[0].Tag)
	assert.Equal(t, []string{"A", "B"}, res.Components[0].Labels)
	assert.Equal(t, decompose.Periodic, res.Components[1].Tag)
	assert.Equal(t, []string{"C", "D"}, res.Components[1].Labels)
	checkPartition(t, x, res)
}

func TestDecompose_RationalNeverMinimal(t *testing.T) {
	cases := []struct {
		top, bottom []string
		lengths     []algebraic.Number
	}{
		{[]string{"A", "B", "C", "D"}, []string{"D", "C", "B", "A"}, ints(1, 2, 3, 5)},
		{[]string{"A", "B", "C", "D"}, []string{"D", "C", "B", "A"}, []algebraic.Number{
			algebraic.Rational(1, 3), algebraic.Rational(2, 7), algebraic.Int(1), algebraic.Rational(5, 11),
		}},
		{[]string{"A", "B", "C", "D", "E"}, []string{"E", "D", "C", "B", "A"}, ints(2, 3, 5, 7, 11)},
		{[]string{"A", "B", "C", "D", "E"}, []string{"C", "E", "B", "A", "D"}, ints(13, 1, 4, 9, 6)},
	}
	for _, tc := range cases {
		x := build(t, tc.top, tc.bottom, tc.lengths...)
		res, err := decompose.Decompose(x, decompose.DefaultMaxSteps)
		require.NoError(t, err)
		assert.Zero(t, res.Count(decompose.Minimal), "%s", x)
		assert.Zero(t, res.Count(decompose.Undetermined), "%s", x)
		checkPartition(t, x, res)
	}
}

func TestDecompose_BoundExceeded(t *testing.T) {
	x := build(t, []string{"A", "B"}, []string{"B", "A"}, ints(1, 2)...)

	res, err := decompose.Decompose(x, 0)
	require.NoError(t, err)
	require.Len(t, res.Components, 1)
	c := res.Components[0]
	assert.Equal(t, decompose.Undetermined, c.Tag)
	assert.ErrorIs(t, c.Reason, decompose.ErrIterationBoundExceeded)
	assert.True(t, res.BoundExceeded)
	checkPartition(t, x, res)
}

func TestDecompose_BoundPerLineage(t *testing.T) {
	x := build(t, []string{"A", "B", "C", "D"}, []string{"B", "A", "D", "C"}, ints(1, 100, 1, 100)...)

	res, err := decompose.Decompose(x, 5, decompose.WithZorich(false))
	require.NoError(t, err)
	require.Len(t, res.Components, 2)
	for _, c := range res.Components {
		assert.Equal(t, decompose.Undetermined, c.Tag)
		assert.Equal(t, 5, c.Steps)
	}
	assert.Equal(t, 10, res.Steps)
	checkPartition(t, x, res)
}

func TestDecompose_InvalidArguments(t *testing.T) {
	_, err := decompose.Decompose(nil, 10)
	assert.ErrorIs(t, err, decompose.ErrNilIET)

	x := build(t, []string{"A", "B"}, []string{"B", "A"}, ints(1, 2)...)
	_, err = decompose.Decompose(x, -1)
	assert.ErrorIs(t, err, decompose.ErrNegativeBound)
}

func TestDecompose_ContextCanceled(t *testing.T) {
	x := build(t, []string{"A", "B"}, []string{"B", "A"}, ints(1, 2)...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := decompose.DecomposeContext(ctx, x, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecompose_Logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	x := build(t, []string{"A", "B"}, []string{"B", "A"}, ints(1, 2)...)

	_, err := decompose.Decompose(x, 100, decompose.WithLogger(logger))
	require.NoError(t, err)

	msgs := map[string]logrus.Level{}
	for _, e := range hook.AllEntries() {
		msgs[e.Message] = e.Level
	}
	assert.Equal(t, logrus.DebugLevel, msgs["rauzy step"])
	assert.Equal(t, logrus.DebugLevel, msgs["saddle connection"])
	assert.Equal(t, logrus.InfoLevel, msgs["component"])
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { decompose.WithLogger(nil) })
	assert.Panics(t, func() { decompose.WithWorkers(0) })
	assert.Panics(t, func() { decompose.WithWindow(-1) })
	assert.Panics(t, func() { decompose.WithCheckEvery(0) })
}

func TestBatch(t *testing.T) {
	a := sqrt2(t)
	one := algebraic.Int(1)
	inputs := []decompose.Input{
		{Name: "swap", IET: build(t, []string{"A", "B"}, []string{"B", "A"}, ints(1, 1)...), MaxSteps: 10},
		{Name: "reversal", IET: build(t, []string{"A", "B", "C", "D"}, []string{"D", "C", "B", "A"}, one, a, one, a), MaxSteps: 500},
		{Name: "rotation", IET: build(t, []string{"A", "B"}, []string{"B", "A"}, one, a), MaxSteps: 500},
		{Name: "rational", IET: build(t, []string{"A", "B", "C"}, []string{"C", "A", "B"}, ints(3, 5, 7)...), MaxSteps: 500},
	}

	out, err := decompose.Batch(context.Background(), inputs, decompose.WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, out, len(inputs))
	for i, o := range out {
		assert.Equal(t, inputs[i].Name, o.Name)
		checkPartition(t, inputs[i].IET, o.Result)
	}
	assert.Equal(t, decompose.Periodic, out[0].Result.Components[0].Tag)
	assert.Equal(t, decompose.Minimal, out[1].Result.Components[0].Tag)
	assert.Equal(t, decompose.Minimal, out[2].Result.Components[0].Tag)
	assert.Zero(t, out[3].Result.Count(decompose.Minimal))
}

func TestBatch_Error(t *testing.T) {
	inputs := []decompose.Input{{Name: "broken", IET: nil, MaxSteps: 1}}

	_, err := decompose.Batch(context.Background(), inputs)
	assert.ErrorIs(t, err, decompose.ErrNilIET)
	assert.Contains(t, err.Error(), "broken")
}

func BenchmarkDecompose_Reversal4(b *testing.B) {
	k, _ := algebraic.NewField([]int64{-2, 0, 1}, 1)
	one := algebraic.Int(1)
	x, _ := iet.New([]string{"A", "B", "C", "D"}, []algebraic.Number{one, k.Gen(), one, k.Gen()}, []string{"D", "C", "B", "A"})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = decompose.Decompose(x, 500)
	}
}
