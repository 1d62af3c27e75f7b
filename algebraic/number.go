// SPDX-License-Identifier: MIT

package algebraic

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/katalvlaran/ietx/poly"
)

// Number is an exact real algebraic number: an element of a Field, stored
// as a polynomial in the generator reduced modulo its minimal polynomial.
// The zero value is the rational number 0. Numbers are immutable values and
// safe to share between goroutines.
type Number struct {
	field *Field    // nil for rational values
	c     poly.Poly // canonical representation, deg < field degree
}

// Int returns the rational number n.
func Int(n int64) Number { return Number{c: poly.FromInt64(n)} }

// Rational returns num/den. Panics when den == 0.
func Rational(num, den int64) Number { return FromRat(big.NewRat(num, den)) }

// FromRat returns the rational number r (copied).
func FromRat(r *big.Rat) Number { return Number{c: poly.Constant(r)} }

// FromBigInt returns the integer n.
func FromBigInt(n *big.Int) Number { return Number{c: poly.FromBigInt(n)} }

// Field returns the field of x; rational numbers report Rationals().
func (x Number) Field() *Field {
	if x.field == nil {
		return rationals
	}

	return x.field
}

// IsRational reports whether x is a rational number.
func (x Number) IsRational() bool { return x.c.Degree() <= 0 }

// Rat returns x as a rational when it is one.
func (x Number) Rat() (*big.Rat, bool) {
	if !x.IsRational() {
		return nil, false
	}

	return x.c.Coeff(0), true
}

// CommonField returns the field all numbers can be combined in, or
// ErrFieldMismatch when two of them live in different non-rational fields.
func CommonField(nums ...Number) (*Field, error) {
	var f *Field
	for _, x := range nums {
		if x.IsRational() {
			continue
		}
		if f == nil {
			f = x.field

			continue
		}
		if !f.Equal(x.field) {
			return nil, fmt.Errorf("%w: %s and %s", ErrFieldMismatch, f, x.field)
		}
	}
	if f == nil {
		return rationals, nil
	}

	return f, nil
}

// unify picks the field of a binary operation. Panics with ErrFieldMismatch.
func unify(x, y Number) *Field {
	switch {
	case x.IsRational():
		return y.field
	case y.IsRational():
		return x.field
	case x.field.Equal(y.field):
		return x.field
	}
	panic(fmt.Errorf("%w: %s and %s", ErrFieldMismatch, x.field, y.field))
}

// Add returns x + y.
func (x Number) Add(y Number) Number { return makeNumber(unify(x, y), x.c.Add(y.c)) }

// Sub returns x - y.
func (x Number) Sub(y Number) Number { return makeNumber(unify(x, y), x.c.Sub(y.c)) }

// Neg returns -x.
func (x Number) Neg() Number { return Number{field: x.field, c: x.c.Neg()} }

// Mul returns x · y.
func (x Number) Mul(y Number) Number { return makeNumber(unify(x, y), x.c.Mul(y.c)) }

// MulInt returns n · x.
func (x Number) MulInt(n *big.Int) Number {
	return Number{field: x.field, c: x.c.Scale(new(big.Rat).SetInt(n))}
}

// MulRat returns r · x.
func (x Number) MulRat(r *big.Rat) Number { return Number{field: x.field, c: x.c.Scale(r)} }

// Inv returns 1/x.
//
// Errors:
//   - ErrDivisionByZero when x == 0.
func (x Number) Inv() (Number, error) {
	if x.c.IsZero() {
		return Number{}, ErrDivisionByZero
	}
	if x.IsRational() {
		return FromRat(new(big.Rat).Inv(x.c.Coeff(0))), nil
	}
	s, ok := poly.InvMod(x.c, x.field.modulus)
	if !ok {
		// unreachable for an irreducible modulus and a reduced nonzero x
		return Number{}, fmt.Errorf("%w: %s is not invertible", ErrDivisionByZero, x)
	}

	return Number{field: x.field, c: s}, nil
}

// Div returns x / y.
//
// Errors:
//   - ErrDivisionByZero when y == 0.
func (x Number) Div(y Number) (Number, error) {
	inv, err := y.Inv()
	if err != nil {
		return Number{}, err
	}

	return x.Mul(inv), nil
}

// Sign returns -1, 0 or +1. The decision is exact: zero is recognized on the
// canonical representation, and nonzero signs are read from a rigorous
// enclosure (see Field.signOf). A field-level SignCache is consulted first.
func (x Number) Sign() int {
	if x.IsRational() {
		return x.c.Coeff(0).Sign()
	}
	f := x.field
	if f.cache == nil {
		return f.signOf(x.c)
	}
	key := x.Hash()
	if s, ok := f.cache.lookup(key); ok {
		return s
	}
	s := f.signOf(x.c)
	f.cache.store(key, s)

	return s
}

// IsZero reports x == 0.
func (x Number) IsZero() bool { return x.c.IsZero() }

// Cmp compares x and y exactly: -1 if x < y, 0 if x == y, +1 if x > y.
func (x Number) Cmp(y Number) int { return x.Sub(y).Sign() }

// Equal reports x == y.
func (x Number) Equal(y Number) bool { return x.Sub(y).IsZero() }

// Less reports x < y.
func (x Number) Less(y Number) bool { return x.Cmp(y) < 0 }

// Enclose returns rationals lo ≤ x ≤ hi with hi - lo ≤ 2^-bits.
func (x Number) Enclose(bits uint) (*big.Rat, *big.Rat) {
	width := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), bits))
	if x.IsRational() {
		v := x.c.Coeff(0)

		return v, new(big.Rat).Set(v)
	}

	return x.field.enclose(x.c, width)
}

// Float64 returns the nearest float64 to a 60-bit enclosure midpoint.
func (x Number) Float64() float64 {
	lo, hi := x.Enclose(60)
	mid := new(big.Rat).Add(lo, hi)
	mid.Quo(mid, big.NewRat(2, 1))
	f, _ := mid.Float64()

	return f
}

// Floor returns the largest integer ≤ x, decided exactly.
func (x Number) Floor() *big.Int {
	if r, ok := x.Rat(); ok {
		return floorRat(r)
	}
	lo, _ := x.Enclose(1)
	n := floorRat(lo)
	next := new(big.Int).Add(n, big.NewInt(1))
	// the enclosure is narrower than 1, so floor(x) ∈ {n, n+1}
	if x.Cmp(FromBigInt(next)) >= 0 {
		return next
	}

	return n
}

// Ceil returns the smallest integer ≥ x, decided exactly.
func (x Number) Ceil() *big.Int { return new(big.Int).Neg(x.Neg().Floor()) }

// FloorPrec returns ⌊x·2^bits⌋ / 2^bits, the largest dyadic of that
// precision not above x.
func (x Number) FloorPrec(bits uint) *big.Rat {
	scale := new(big.Int).Lsh(big.NewInt(1), bits)
	n := x.MulInt(scale).Floor()

	return new(big.Rat).SetFrac(n, scale)
}

// CeilPrec returns ⌈x·2^bits⌉ / 2^bits.
func (x Number) CeilPrec(bits uint) *big.Rat {
	scale := new(big.Int).Lsh(big.NewInt(1), bits)
	n := x.MulInt(scale).Ceil()

	return new(big.Rat).SetFrac(n, scale)
}

func floorRat(r *big.Rat) *big.Int {
	// big.Int.Div is Euclidean: it rounds toward −∞ for a positive divisor.
	return new(big.Int).Div(r.Num(), r.Denom())
}

// Coordinates returns the coefficients of x in the power basis
// 1, α, …, α^(d-1) of its field, d = Field().Degree().
func (x Number) Coordinates() []*big.Rat {
	d := x.Field().Degree()
	out := make([]*big.Rat, d)
	for i := range out {
		out[i] = x.c.Coeff(i)
	}

	return out
}

// Hash returns a BLAKE3 digest of the canonical representation. Equal
// numbers have equal hashes: rationals hash their value alone, irrational
// numbers hash their field key and coordinates.
func (x Number) Hash() [32]byte {
	var buf []byte
	if x.IsRational() {
		buf = append([]byte("ietx.q:"), x.c.Coeff(0).RatString()...)

		return blake3.Sum256(buf)
	}
	key := x.field.Key()
	buf = append([]byte("ietx.k:"), key[:]...)
	for _, c := range x.c.Coeffs() {
		buf = append(buf, c.RatString()...)
		buf = append(buf, ';')
	}

	return blake3.Sum256(buf)
}

// String prints rationals exactly and irrationals as "(a + 1 ~ 2.4142136)".
func (x Number) String() string {
	if r, ok := x.Rat(); ok {
		return r.RatString()
	}

	return fmt.Sprintf("(%s ~ %s)", x.c.Format(x.field.name), strconv.FormatFloat(x.Float64(), 'g', 8, 64))
}

// Exact prints the canonical representation without an approximation, in a
// form Field.Parse reads back.
func (x Number) Exact() string {
	if r, ok := x.Rat(); ok {
		return r.RatString()
	}

	return x.c.Format(x.field.name)
}
