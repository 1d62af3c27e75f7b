// SPDX-License-Identifier: MIT

package algebraic

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/katalvlaran/ietx/poly"
)

// Defaults for field construction.
const (
	// DefaultGeneratorName is the variable used when printing elements.
	DefaultGeneratorName = "a"

	// DefaultIsolationBits is the initial width 2^-bits of the isolating
	// interval stored in the field. Sign decisions refine further on demand.
	DefaultIsolationBits = 64

	// maxRefinements bounds bisection in a single sign decision. A reduced
	// nonzero element never vanishes at α, so hitting it is a bug.
	maxRefinements = 1 << 14
)

const (
	panicNameEmpty     = "algebraic: WithName: generator name must be non-empty"
	panicBudgetInvalid = "algebraic: WithFactorBudget: budget must be positive"
	panicNoConvergence = "algebraic: sign refinement did not converge"
)

// FieldOption configures NewField.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	name   string
	cache  *SignCache
	budget int
}

// WithName sets the generator name used by String and Parse.
// Panics on an empty name.
func WithName(name string) FieldOption {
	if name == "" {
		panic(panicNameEmpty)
	}

	return func(o *fieldOptions) { o.name = name }
}

// WithSignCache attaches an explicit sign cache to the field. Caches may be
// shared between fields and goroutines; nil disables caching.
func WithSignCache(c *SignCache) FieldOption {
	return func(o *fieldOptions) { o.cache = c }
}

// WithFactorBudget bounds the minimal-polynomial search (see
// poly.FactorWithRoot). Panics on a non-positive budget.
func WithFactorBudget(n int) FieldOption {
	if n <= 0 {
		panic(panicBudgetInvalid)
	}

	return func(o *fieldOptions) { o.budget = n }
}

// Field is a real embedded number field ℚ(α). It is immutable after
// construction and safe for concurrent use.
type Field struct {
	modulus   poly.Poly // minimal polynomial of α, primitive
	lo, hi    *big.Rat  // lo < α < hi, or lo == hi == α when α is rational
	loSign    int       // sign of modulus at lo
	rootIndex int       // index of α among the real roots of modulus
	name      string
	key       [32]byte
	cache     *SignCache
}

var rationals = newRationalField()

// Rationals returns the field ℚ (generator 0, minimal polynomial x).
func Rationals() *Field { return rationals }

func newRationalField() *Field {
	f := &Field{
		modulus: poly.X(),
		lo:      new(big.Rat),
		hi:      new(big.Rat),
		name:    DefaultGeneratorName,
	}
	f.key = fieldKey(f.modulus, 0)

	return f
}

// NewField returns ℚ(α) where α is the rootIndex-th real root, in increasing
// order, of the integer polynomial with the given coefficients (lowest
// degree first).
//
// Implementation:
//   - Stage 1: reject zero/constant polynomials; take the square-free part.
//   - Stage 2: isolate all real roots (Sturm) and select rootIndex.
//   - Stage 3: recover the minimal polynomial of α (poly.FactorWithRoot).
//   - Stage 4: refine the isolating interval to DefaultIsolationBits.
//
// Errors:
//   - ErrInvalidPolynomial (wrapped with the reason).
func NewField(coeffs []int64, rootIndex int, opts ...FieldOption) (*Field, error) {
	ints := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		ints[i] = big.NewInt(c)
	}

	return NewFieldBig(ints, rootIndex, opts...)
}

// NewFieldBig is NewField for arbitrary-size integer coefficients.
func NewFieldBig(coeffs []*big.Int, rootIndex int, opts ...FieldOption) (*Field, error) {
	o := fieldOptions{name: DefaultGeneratorName, budget: poly.DefaultFactorBudget}
	for _, opt := range opts {
		opt(&o)
	}

	p := poly.FromBigInt(coeffs...)
	if p.Degree() < 1 {
		return nil, fmt.Errorf("%w: zero or constant polynomial", ErrInvalidPolynomial)
	}
	sf := p.SquareFree().Primitive()
	roots := poly.Isolate(sf)
	if rootIndex < 0 || rootIndex >= len(roots) {
		return nil, fmt.Errorf("%w: root index %d out of range [0, %d)", ErrInvalidPolynomial, rootIndex, len(roots))
	}
	iv := roots[rootIndex]
	m, err := poly.FactorWithRoot(sf, iv, o.budget)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolynomial, err)
	}

	f := &Field{modulus: m, name: o.name, cache: o.cache}
	if m.Degree() == 1 {
		alpha := new(big.Rat).Quo(new(big.Rat).Neg(m.Coeff(0)), m.Coeff(1))
		f.lo, f.hi = alpha, new(big.Rat).Set(alpha)
	} else {
		width := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), DefaultIsolationBits))
		iv = poly.Refine(m, iv, width)
		f.lo, f.hi = iv.Lo, iv.Hi
		f.loSign = m.SignAt(f.lo)
	}
	f.rootIndex = poly.NewSturm(m).Count(nil, f.lo)
	if m.Degree() == 1 {
		f.rootIndex = 0
	}
	f.key = fieldKey(m, f.rootIndex)

	return f, nil
}

func fieldKey(m poly.Poly, rootIndex int) [32]byte {
	buf := []byte("ietx.field:")
	for _, c := range m.Coeffs() {
		buf = append(buf, c.RatString()...)
		buf = append(buf, ';')
	}
	buf = strconv.AppendInt(buf, int64(rootIndex), 10)

	return blake3.Sum256(buf)
}

// Degree returns [ℚ(α):ℚ], the degree of the minimal polynomial.
func (f *Field) Degree() int { return f.modulus.Degree() }

// Polynomial returns the minimal polynomial of the generator, lowest degree
// first, with coprime integer coefficients.
func (f *Field) Polynomial() []*big.Int {
	c, _ := f.modulus.IntCoeffs()

	return c
}

// RootIndex returns the index of the generator among the real roots of its
// minimal polynomial, in increasing order.
func (f *Field) RootIndex() int { return f.rootIndex }

// Name returns the generator name.
func (f *Field) Name() string { return f.name }

// Key identifies the field: equal keys mean equal minimal polynomial and root.
func (f *Field) Key() [32]byte { return f.key }

// Equal reports whether f and g define the same embedded field.
func (f *Field) Equal(g *Field) bool { return f.key == g.key }

// IsRational reports whether the field is ℚ itself (degree 1).
func (f *Field) IsRational() bool { return f.modulus.Degree() == 1 }

// Gen returns the generator α.
func (f *Field) Gen() Number {
	if f.IsRational() {
		return FromRat(f.lo)
	}

	return Number{field: f, c: poly.X()}
}

// FromInt embeds an integer.
func (f *Field) FromInt(n int64) Number { return makeNumber(f, poly.FromInt64(n)) }

// FromRat embeds a rational.
func (f *Field) FromRat(r *big.Rat) Number { return makeNumber(f, poly.Constant(r)) }

// FromCoordinates returns Σ c_i α^i. Coefficients beyond the degree are
// reduced modulo the minimal polynomial.
func (f *Field) FromCoordinates(c []*big.Rat) Number { return makeNumber(f, poly.New(c...)) }

// String prints the field as NumberField(minpoly, [α approx]).
func (f *Field) String() string {
	return fmt.Sprintf("NumberField(%s, [%s])", f.modulus.Format(f.name), strconv.FormatFloat(f.Gen().Float64(), 'g', 10, 64))
}

// makeNumber normalizes c into f. Numbers of rational fields carry a nil
// field and a constant representation; others are reduced modulo m.
func makeNumber(f *Field, c poly.Poly) Number {
	switch {
	case f == nil:
		return Number{c: c}
	case f.IsRational():
		return Number{c: poly.Constant(c.Eval(f.lo))}
	case c.Degree() >= f.modulus.Degree():
		c = c.Mod(f.modulus)
	}

	return Number{field: f, c: c}
}

// signOf decides the sign of c(α) for a reduced c.
//
// Implementation:
//   - constants are read directly;
//   - otherwise c(α) ≠ 0 because m is irreducible and deg c < deg m, so
//     bisecting the isolating interval of α until the interval Horner
//     enclosure of c excludes zero terminates.
func (f *Field) signOf(c poly.Poly) int {
	if c.Degree() <= 0 {
		return c.Coeff(0).Sign()
	}
	lo, hi := f.lo, f.hi
	for i := 0; ; i++ {
		elo, ehi := c.EvalInterval(lo, hi)
		if elo.Sign() > 0 {
			return 1
		}
		if ehi.Sign() < 0 {
			return -1
		}
		if i >= maxRefinements {
			panic(panicNoConvergence)
		}
		lo, hi = f.bisect(lo, hi)
	}
}

// bisect halves an isolating interval of α (deg m ≥ 2, so m has no
// rational roots and the midpoint is never a root).
func (f *Field) bisect(lo, hi *big.Rat) (*big.Rat, *big.Rat) {
	mid := new(big.Rat).Add(lo, hi)
	mid.Quo(mid, big.NewRat(2, 1))
	if f.modulus.SignAt(mid) == f.loSign {
		return mid, hi
	}

	return lo, mid
}

// enclose returns [elo, ehi] ∋ c(α) with ehi - elo ≤ width.
func (f *Field) enclose(c poly.Poly, width *big.Rat) (*big.Rat, *big.Rat) {
	if c.Degree() <= 0 {
		v := c.Coeff(0)

		return v, new(big.Rat).Set(v)
	}
	lo, hi := f.lo, f.hi
	for i := 0; ; i++ {
		elo, ehi := c.EvalInterval(lo, hi)
		if new(big.Rat).Sub(ehi, elo).Cmp(width) <= 0 {
			return elo, ehi
		}
		if i >= maxRefinements {
			panic(panicNoConvergence)
		}
		lo, hi = f.bisect(lo, hi)
	}
}
