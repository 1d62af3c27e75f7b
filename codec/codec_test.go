package codec_test

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/codec"
	"github.com/katalvlaran/ietx/decompose"
	"github.com/katalvlaran/ietx/iet"
)

func twoCylinders(t *testing.T) *iet.IET {
	t.Helper()
	k, err := algebraic.NewField([]int64{-2, 0, 1}, 1)
	require.NoError(t, err)
	one := algebraic.Int(1)
	x, err := iet.New([]string{"A", "B", "C"}, []algebraic.Number{one, k.Gen(), one}, []string{"C", "B", "A"})
	require.NoError(t, err)

	return x
}

var settings = codec.Settings{MaxSteps: 100, Zorich: true, Window: 64, CheckEvery: 1}

func report(t *testing.T) *codec.Report {
	t.Helper()
	x := twoCylinders(t)
	res, err := decompose.Decompose(x, 100)
	require.NoError(t, err)

	return codec.NewReport(codec.NewCaseReport("two-cylinders", x, res, settings))
}

func TestNewCaseReport(t *testing.T) {
	r := report(t)
	require.Len(t, r.Cases, 1)
	c := r.Cases[0]
	assert.Equal(t, codec.Version, r.Version)
	assert.Equal(t, []string{"-2", "0", "1"}, c.Input.Field.Polynomial)
	assert.Equal(t, "a", c.Input.Lengths["B"])
	assert.Equal(t, "1", c.Input.Lengths["A"])

	require.Len(t, c.Components, 2)
	ac := c.Components[0]
	assert.Equal(t, "periodic", ac.Tag)
	assert.Equal(t, "cylinder", ac.Confidence)
	assert.Equal(t, "2", ac.Length)
	assert.Equal(t, []string{"2"}, ac.Periods)
	assert.Equal(t, []string{"B"}, c.Components[1].Labels)
	assert.Equal(t, "a", c.Components[1].Length)
	require.NotNil(t, c.Components[1].Approx)
	assert.InDelta(t, 1.41421356, *c.Components[1].Approx, 1e-8)
	assert.Equal(t, settings, c.Settings)
}

func TestNewCaseReport_HugeLength(t *testing.T) {
	huge := algebraic.FromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(400), nil))
	x, err := iet.New([]string{"A", "B"}, []algebraic.Number{huge, huge}, []string{"B", "A"})
	require.NoError(t, err)
	res, err := decompose.Decompose(x, 10)
	require.NoError(t, err)

	r := codec.NewReport(codec.NewCaseReport("huge", x, res, settings))
	require.Len(t, r.Cases[0].Components, 1)
	assert.Nil(t, r.Cases[0].Components[0].Approx)

	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, codec.JSON, r))
	assert.NotContains(t, buf.String(), "approx")
	got, err := codec.Read(&buf, codec.JSON)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestWriteRead(t *testing.T) {
	r := report(t)
	for _, f := range []codec.Format{codec.JSON, codec.CBOR} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, codec.Write(&buf, f, r))
			got, err := codec.Read(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}

	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, codec.JSON, r))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
	assert.Contains(t, buf.String(), `"tag": "periodic"`)
}

func TestDigest_Deterministic(t *testing.T) {
	d1, err := codec.Digest(report(t))
	require.NoError(t, err)
	d2, err := codec.Digest(report(t))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	other := report(t)
	other.Cases[0].Name = "renamed"
	d3, err := codec.Digest(other)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestIETReport_Rebuild(t *testing.T) {
	x := twoCylinders(t)
	y, err := codec.NewIETReport(x).IET()
	require.NoError(t, err)
	assert.Equal(t, x.Top(), y.Top())
	assert.Equal(t, x.Bottom(), y.Bottom())
	assert.True(t, x.Field().Equal(y.Field()))
	for _, l := range x.Top() {
		assert.True(t, x.Length(l).Equal(y.Length(l)), l)
	}

	q, err := iet.New([]string{"A", "B"}, []algebraic.Number{algebraic.Rational(5, 7), algebraic.Int(2)}, []string{"B", "A"})
	require.NoError(t, err)
	qr := codec.NewIETReport(q)
	assert.Empty(t, qr.Field.Polynomial)
	q2, err := qr.IET()
	require.NoError(t, err)
	assert.True(t, q2.Length("A").Equal(algebraic.Rational(5, 7)))
}

func TestIETReport_Errors(t *testing.T) {
	r := codec.IETReport{
		Field:   codec.FieldReport{Polynomial: []string{"x"}},
		Top:     []string{"A"},
		Bottom:  []string{"A"},
		Lengths: map[string]string{"A": "1"},
	}
	_, err := r.IET()
	assert.ErrorIs(t, err, algebraic.ErrInvalidPolynomial)

	r.Field = codec.FieldReport{}
	r.Lengths["A"] = "1+"
	_, err = r.IET()
	assert.ErrorIs(t, err, algebraic.ErrSyntax)
}

func TestFormat(t *testing.T) {
	f, err := codec.ParseFormat("cbor")
	require.NoError(t, err)
	assert.Equal(t, codec.CBOR, f)

	_, err = codec.ParseFormat("xml")
	assert.ErrorIs(t, err, codec.ErrFormat)
	assert.ErrorIs(t, codec.Write(&bytes.Buffer{}, codec.Format(7), &codec.Report{}), codec.ErrFormat)
	assert.Equal(t, "Format(7)", codec.Format(7).String())
}
