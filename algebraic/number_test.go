// SPDX-License-Identifier: MIT

package algebraic_test

import (
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ietx/algebraic"
)

// sqrt2 returns ℚ(√2) with the positive root selected.
func sqrt2(t *testing.T, opts ...algebraic.FieldOption) *algebraic.Field {
	t.Helper()
	k, err := algebraic.NewField([]int64{-2, 0, 1}, 1, opts...)
	require.NoError(t, err)

	return k
}

// cbrt2 returns ℚ(∛2); x^3 - 2 has a single real root.
func cbrt2(t *testing.T) *algebraic.Field {
	t.Helper()
	k, err := algebraic.NewField([]int64{-2, 0, 0, 1}, 0)
	require.NoError(t, err)

	return k
}

func TestNewField_InvalidPolynomial(t *testing.T) {
	cases := []struct {
		name   string
		coeffs []int64
		root   int
	}{
		{"zero", []int64{0, 0}, 0},
		{"empty", nil, 0},
		{"constant", []int64{5}, 0},
		{"no real roots", []int64{1, 0, 1}, 0},
		{"index too large", []int64{-2, 0, 1}, 2},
		{"negative index", []int64{-2, 0, 1}, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := algebraic.NewField(tc.coeffs, tc.root)
			assert.ErrorIs(t, err, algebraic.ErrInvalidPolynomial)
		})
	}
}

// TestNewField_ReducibleInput recovers x^2 - 2 from (x^2 - 2)^2 (x - 3).
func TestNewField_ReducibleInput(t *testing.T) {
	// (x^2-2)^2 = x^4 - 4x^2 + 4; times (x - 3)
	k, err := algebraic.NewField([]int64{-12, 4, 12, -4, -3, 1}, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, k.Degree())
	assert.Equal(t, "[-2 0 1]", fmt.Sprint(k.Polynomial()))
	assert.Equal(t, 1, k.RootIndex())
	assert.True(t, k.Equal(sqrt2(t)), "same minimal polynomial and root")
}

func TestNewField_RationalRoot(t *testing.T) {
	k, err := algebraic.NewField([]int64{-6, 2}, 0)
	require.NoError(t, err)

	assert.True(t, k.IsRational())
	assert.True(t, k.Gen().Equal(algebraic.Int(3)))
	assert.True(t, k.Gen().IsRational())
}

func TestArithmetic_Sqrt2(t *testing.T) {
	k := sqrt2(t)
	a := k.Gen()
	one := algebraic.Int(1)

	assert.True(t, a.Mul(a).Equal(algebraic.Int(2)))
	assert.True(t, a.Add(one).Mul(a.Sub(one)).Equal(one))

	inv, err := one.Div(a)
	require.NoError(t, err)
	assert.True(t, inv.Equal(a.MulRat(big.NewRat(1, 2))), "1/√2 = √2/2")

	_, err = a.Div(algebraic.Int(0))
	assert.ErrorIs(t, err, algebraic.ErrDivisionByZero)
	_, err = a.Sub(a).Inv()
	assert.ErrorIs(t, err, algebraic.ErrDivisionByZero)
}

func TestArithmetic_CubeRoot(t *testing.T) {
	a := cbrt2(t).Gen()

	assert.True(t, a.Mul(a).Mul(a).Equal(algebraic.Int(2)))
	inv, err := a.Inv()
	require.NoError(t, err)
	assert.True(t, inv.Mul(a).Equal(algebraic.Int(1)))
	assert.InDelta(t, math.Cbrt(2), a.Float64(), 1e-15)
}

// TestArithmetic_RingLaws checks associativity and distributivity exactly.
func TestArithmetic_RingLaws(t *testing.T) {
	for _, k := range []*algebraic.Field{sqrt2(t), cbrt2(t)} {
		a := k.Gen()
		vals := []algebraic.Number{
			a,
			a.Add(algebraic.Rational(1, 3)),
			a.Mul(a).Sub(algebraic.Int(7)),
			algebraic.Rational(-5, 2),
			a.Mul(a).MulRat(big.NewRat(3, 4)).Add(a),
		}
		for _, x := range vals {
			for _, y := range vals {
				for _, z := range vals {
					assert.True(t, x.Add(y).Add(z).Equal(x.Add(y.Add(z))), "associativity")
					assert.True(t, x.Mul(y.Add(z)).Equal(x.Mul(y).Add(x.Mul(z))), "distributivity")
					assert.True(t, x.Mul(y).Mul(z).Equal(x.Mul(y.Mul(z))), "multiplicative associativity")
				}
			}
		}
	}
}

func TestCmp_Exact(t *testing.T) {
	a := sqrt2(t).Gen()

	assert.Equal(t, 1, a.Cmp(algebraic.Int(1)))
	assert.Equal(t, -1, a.Cmp(algebraic.Rational(3, 2)))
	assert.True(t, algebraic.Rational(141, 100).Less(a))
	assert.True(t, a.Less(algebraic.Rational(142, 100)))
	assert.Equal(t, 0, a.Cmp(a.Mul(a).Mul(a).MulRat(big.NewRat(1, 2))))
	assert.Equal(t, -1, a.Neg().Sign())
}

// TestCmp_BeyondFloatPrecision separates √2 from a 26-digit truncation,
// far below float64 resolution.
func TestCmp_BeyondFloatPrecision(t *testing.T) {
	a := sqrt2(t).Gen()
	r, ok := new(big.Rat).SetString("1.41421356237309504880168872")
	require.True(t, ok)
	below := algebraic.FromRat(r)

	assert.Equal(t, 1, a.Cmp(below))
	assert.Equal(t, float64(0), a.Float64()-below.Float64(), "floats cannot tell them apart")
	assert.False(t, a.Equal(below))
}

func TestFloorCeil(t *testing.T) {
	a := sqrt2(t).Gen()

	assert.Equal(t, int64(14), a.MulInt(big.NewInt(10)).Floor().Int64())
	assert.Equal(t, int64(15), a.MulInt(big.NewInt(10)).Ceil().Int64())
	assert.Equal(t, int64(-2), a.Neg().Floor().Int64())
	assert.Equal(t, int64(2), algebraic.Int(2).Floor().Int64())
	assert.Equal(t, int64(-1), algebraic.Rational(-1, 2).Floor().Int64())
	assert.Equal(t, 0, a.FloorPrec(10).Cmp(big.NewRat(1448, 1024)))
	assert.Equal(t, 0, a.CeilPrec(10).Cmp(big.NewRat(1449, 1024)))
}

func TestEncloseAndFloat(t *testing.T) {
	a := sqrt2(t).Gen()

	lo, hi := a.Enclose(100)
	width := new(big.Rat).Sub(hi, lo)
	assert.True(t, width.Cmp(new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), 100))) <= 0)
	assert.InDelta(t, math.Sqrt2, a.Float64(), 1e-15)
}

func TestHash_CompatibleWithEqual(t *testing.T) {
	k1, k2 := sqrt2(t), sqrt2(t)
	a1, a2 := k1.Gen(), k2.Gen()

	assert.True(t, a1.Equal(a2))
	assert.Equal(t, a1.Hash(), a2.Hash())
	assert.Equal(t, a1.Mul(a1).Hash(), algebraic.Int(2).Hash())
	assert.Equal(t, k1.FromInt(7).Hash(), algebraic.Int(7).Hash())
	assert.NotEqual(t, a1.Hash(), a1.Neg().Hash())
}

func TestFieldMismatch(t *testing.T) {
	a := sqrt2(t).Gen()
	k3, err := algebraic.NewField([]int64{-3, 0, 1}, 1)
	require.NoError(t, err)
	b := k3.Gen()

	assert.Panics(t, func() { a.Add(b) })
	_, err = algebraic.CommonField(a, algebraic.Int(1), b)
	assert.ErrorIs(t, err, algebraic.ErrFieldMismatch)

	f, err := algebraic.CommonField(a, algebraic.Int(1))
	require.NoError(t, err)
	assert.True(t, f.Equal(a.Field()))
	f, err = algebraic.CommonField(algebraic.Int(1))
	require.NoError(t, err)
	assert.True(t, f.IsRational())
}

func TestParseAndString(t *testing.T) {
	k := sqrt2(t)
	a := k.Gen()

	x, err := k.Parse("1/2*a + 3")
	require.NoError(t, err)
	assert.True(t, x.Equal(a.MulRat(big.NewRat(1, 2)).Add(algebraic.Int(3))))
	assert.Equal(t, "1/2*a + 3", x.Exact())

	y, err := k.Parse("-a^2 + 0.25")
	require.NoError(t, err)
	assert.True(t, y.Equal(algebraic.Rational(-7, 4)))
	assert.Equal(t, "-7/4", y.String())

	assert.Equal(t, "(a + 1 ~ 2.4142136)", a.Add(algebraic.Int(1)).String())

	for _, bad := range []string{"", "2*", "a^x", "1/2*b", "-"} {
		_, err = k.Parse(bad)
		assert.ErrorIs(t, err, algebraic.ErrSyntax, "input %q", bad)
	}
}

func TestParse_Powers(t *testing.T) {
	k := sqrt2(t)
	a := k.Gen()

	x, err := k.Parse("a^10")
	require.NoError(t, err)
	assert.True(t, x.Equal(algebraic.Int(32)))

	x, err = k.Parse("a^2*a^3 - a")
	require.NoError(t, err)
	assert.True(t, x.Equal(a.Add(a).Add(a)))

	x, err = k.Parse(fmt.Sprintf("a^%d", algebraic.MaxParseExponent))
	require.NoError(t, err)
	assert.True(t, x.Equal(algebraic.FromBigInt(new(big.Int).Lsh(big.NewInt(1), algebraic.MaxParseExponent/2))))

	c, err := cbrt2(t).Parse("a^3 + a^0")
	require.NoError(t, err)
	assert.True(t, c.Equal(algebraic.Int(3)))

	for _, huge := range []string{
		"a^4611686018427387904",
		"a^99999999999999999999999999",
		fmt.Sprintf("a^%d*a", algebraic.MaxParseExponent),
		"a^-1",
	} {
		assert.NotPanics(t, func() {
			_, err = k.Parse(huge)
		}, huge)
		assert.ErrorIs(t, err, algebraic.ErrSyntax, huge)
	}
}

func TestCoordinates(t *testing.T) {
	a := cbrt2(t).Gen()
	x := a.Mul(a).Add(algebraic.Rational(1, 2))

	c := x.Coordinates()
	require.Len(t, c, 3)
	assert.Equal(t, 0, c[0].Cmp(big.NewRat(1, 2)))
	assert.Equal(t, 0, c[1].Sign())
	assert.Equal(t, 0, c[2].Cmp(big.NewRat(1, 1)))
	assert.Len(t, algebraic.Int(4).Coordinates(), 1)
}

func TestSignCache_HitsAndConcurrency(t *testing.T) {
	cache := algebraic.NewSignCache(0)
	a := sqrt2(t, algebraic.WithSignCache(cache)).Gen()
	x := a.Sub(algebraic.Rational(7, 5))

	assert.Equal(t, 1, x.Sign())
	assert.Equal(t, 1, x.Sign())
	st := cache.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)

	var wg sync.WaitGroup
	signs := make([]int, 32)
	for i := range signs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			signs[i] = a.Sub(algebraic.Rational(int64(i), 16)).Sign()
		}(i)
	}
	wg.Wait()
	for i, s := range signs {
		want := 1
		if float64(i)/16 > math.Sqrt2 {
			want = -1
		}
		assert.Equal(t, want, s, "i=%d", i)
	}

	cache.Reset()
	assert.Equal(t, algebraic.CacheStats{}, cache.Stats())
}

func TestFieldOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { algebraic.WithName("") })
	assert.Panics(t, func() { algebraic.WithFactorBudget(0) })
}
