package fixture_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/fixture"
	"github.com/katalvlaran/ietx/iet"
)

const yamlDoc = `
fields:
  sqrt2: {poly: [-2, 0, 1], root: 1, name: s}
iets:
  - name: rotation
    field: sqrt2
    top: [A, B]
    bottom: [B, A]
    lengths: {A: 1, B: s}
    max_steps: 500
  - top: [A, B, C]
    bottom: [C, B, A]
    lengths: {A: 1/2, B: 0.25, C: "3"}
`

const jsoncDoc = `{
  // generator t = √2
  "fields": {"sqrt2": {"poly": [-2, 0, 1], "root": 1, "name": "t"}},
  "iets": [
    {
      "name": "reversal",
      "field": "sqrt2",
      "top": ["A", "B", "C", "D"],
      "bottom": ["D", "C", "B", "A"],
      "lengths": {"A": 1, "B": "t", "C": "2*t - 1", "D": 3,},
    },
  ],
}`

func TestParse_YAML(t *testing.T) {
	cases, err := fixture.Parse([]byte(yamlDoc), fixture.YAML)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	rot := cases[0]
	assert.Equal(t, "rotation", rot.Name)
	assert.Equal(t, 500, rot.MaxSteps)
	assert.Equal(t, []string{"B", "A"}, rot.IET.Bottom())
	assert.Equal(t, 2, rot.IET.Field().Degree())
	assert.Equal(t, "s", rot.IET.Field().Name())
	assert.InDelta(t, 1.41421356, rot.IET.Length("B").Float64(), 1e-8)

	rat := cases[1]
	assert.Equal(t, "iet-1", rat.Name)
	assert.Zero(t, rat.MaxSteps)
	assert.True(t, rat.IET.Field().IsRational())
	assert.True(t, rat.IET.Length("A").Equal(algebraic.Rational(1, 2)))
	assert.True(t, rat.IET.Length("B").Equal(algebraic.Rational(1, 4)))
	assert.True(t, rat.IET.TotalLength().Equal(algebraic.Rational(15, 4)))
}

func TestParse_JSONC(t *testing.T) {
	cases, err := fixture.Parse([]byte(jsoncDoc), fixture.JSONC)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	x := cases[0].IET
	assert.Equal(t, 4, x.Len())
	gen := x.Field().Gen()
	assert.True(t, x.Length("C").Equal(gen.Add(gen).Sub(algebraic.Int(1))))
	assert.True(t, x.Length("D").Equal(algebraic.Int(3)))
}

func TestParse_SharedSignCache(t *testing.T) {
	cache := algebraic.NewSignCache(64)
	cases, err := fixture.Parse([]byte(yamlDoc), fixture.YAML, algebraic.WithSignCache(cache))
	require.NoError(t, err)

	x := cases[0].IET
	assert.Equal(t, 1, x.Length("B").Sign())
	assert.Equal(t, 1, x.Length("B").Sign())
	assert.NotZero(t, cache.Stats().Hits)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name   string
		doc    string
		format fixture.Format
		err    error
	}{
		{"unknown key", "iets: []\nextra: 1\n", fixture.YAML, fixture.ErrFormat},
		{"mapping length", "iets:\n  - top: [A]\n    bottom: [A]\n    lengths: {A: {x: 1}}\n", fixture.YAML, fixture.ErrFormat},
		{"json unknown key", `{"iets": [], "bogus": true}`, fixture.JSONC, fixture.ErrFormat},
		{"json bool length", `{"iets": [{"top": ["A"], "bottom": ["A"], "lengths": {"A": true}}]}`, fixture.JSONC, fixture.ErrFormat},
		{"unknown field", "iets:\n  - field: nope\n    top: [A]\n    bottom: [A]\n    lengths: {A: 1}\n", fixture.YAML, fixture.ErrUnknownField},
		{"irrational without field", "iets:\n  - top: [A]\n    bottom: [A]\n    lengths: {A: a}\n", fixture.YAML, algebraic.ErrSyntax},
		{"bad polynomial", "fields:\n  k: {poly: [0], root: 0}\niets: []\n", fixture.YAML, algebraic.ErrInvalidPolynomial},
		{"bad permutation", "iets:\n  - top: [A, B]\n    bottom: [A, A]\n    lengths: {A: 1, B: 1}\n", fixture.YAML, iet.ErrInvalidPermutation},
		{"zero length", "iets:\n  - top: [A]\n    bottom: [A]\n    lengths: {A: 0}\n", fixture.YAML, iet.ErrInvalidLength},
		{"unknown format", "{}", fixture.Format(9), fixture.ErrFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.Parse([]byte(tc.doc), tc.format)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParse_ErrorOrder(t *testing.T) {
	doc := "fields:\n  zeta: {poly: [0], root: 0}\n  alpha: {poly: [1], root: 0}\n  mid: {poly: [-2, 0, 1], root: 5}\n" +
		"iets:\n  - top: [B, A]\n    bottom: [A, B]\n    lengths: {B: x, A: y}\n"
	for i := 0; i < 20; i++ {
		_, err := fixture.Parse([]byte(doc), fixture.YAML)
		require.ErrorIs(t, err, algebraic.ErrInvalidPolynomial)
		assert.Contains(t, err.Error(), `field "alpha"`)
	}

	doc = "iets:\n  - top: [B, A, C]\n    bottom: [C, A, B]\n    lengths: {C: x, B: y, A: z}\n"
	for i := 0; i < 20; i++ {
		_, err := fixture.Parse([]byte(doc), fixture.YAML)
		require.ErrorIs(t, err, algebraic.ErrSyntax)
		assert.Contains(t, err.Error(), "length of A")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	ypath := filepath.Join(dir, "cases.yml")
	jpath := filepath.Join(dir, "cases.jsonc")
	require.NoError(t, os.WriteFile(ypath, []byte(yamlDoc), 0o600))
	require.NoError(t, os.WriteFile(jpath, []byte(jsoncDoc), 0o600))

	ys, err := fixture.Load(ypath)
	require.NoError(t, err)
	assert.Len(t, ys, 2)

	js, err := fixture.Load(jpath)
	require.NoError(t, err)
	assert.Len(t, js, 1)

	_, err = fixture.Load(filepath.Join(dir, "cases.toml"))
	assert.ErrorIs(t, err, fixture.ErrFormat)

	_, err = fixture.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]fixture.Format{
		"a.yaml": fixture.YAML, "b.YML": fixture.YAML, "c.json": fixture.JSONC, "d.jsonc": fixture.JSONC,
	} {
		got, err := fixture.FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}
