// SPDX-License-Identifier: MIT

package poly

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrFactorBudget is returned by FactorWithRoot when the candidate budget is
// exhausted before the factor carrying the root could be certified.
var ErrFactorBudget = errors.New("poly: factor search budget exceeded")

const panicZeroDivisor = "poly: division by the zero polynomial"

// Poly is a dense univariate polynomial with rational coefficients.
// c[i] is the coefficient of x^i and the leading coefficient is never zero;
// the zero polynomial has no coefficients and degree -1.
type Poly struct {
	c []*big.Rat
}

// New builds a polynomial from coefficients in increasing degree order.
// nil entries are read as zero. Inputs are copied.
func New(coeffs ...*big.Rat) Poly {
	c := make([]*big.Rat, len(coeffs))
	for i, r := range coeffs {
		c[i] = new(big.Rat)
		if r != nil {
			c[i].Set(r)
		}
	}

	return trim(c)
}

// FromInt64 builds a polynomial with integer coefficients, lowest degree first.
func FromInt64(coeffs ...int64) Poly {
	c := make([]*big.Rat, len(coeffs))
	for i, v := range coeffs {
		c[i] = new(big.Rat).SetInt64(v)
	}

	return trim(c)
}

// FromBigInt builds a polynomial with integer coefficients, lowest degree first.
func FromBigInt(coeffs ...*big.Int) Poly {
	c := make([]*big.Rat, len(coeffs))
	for i, v := range coeffs {
		c[i] = new(big.Rat)
		if v != nil {
			c[i].SetInt(v)
		}
	}

	return trim(c)
}

// Constant returns the degree-0 polynomial r (or zero when r == 0).
func Constant(r *big.Rat) Poly { return New(r) }

// X returns the polynomial x.
func X() Poly { return FromInt64(0, 1) }

// trim drops trailing zero coefficients in place.
func trim(c []*big.Rat) Poly {
	n := len(c)
	for n > 0 && c[n-1].Sign() == 0 {
		n--
	}

	return Poly{c: c[:n]}
}

// Degree returns the degree of p; the zero polynomial has degree -1.
func (p Poly) Degree() int { return len(p.c) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool { return len(p.c) == 0 }

// Coeff returns a copy of the coefficient of x^i (zero outside the support).
func (p Poly) Coeff(i int) *big.Rat {
	if i < 0 || i >= len(p.c) {
		return new(big.Rat)
	}

	return new(big.Rat).Set(p.c[i])
}

// Coeffs returns copies of all coefficients, lowest degree first.
func (p Poly) Coeffs() []*big.Rat {
	out := make([]*big.Rat, len(p.c))
	for i, r := range p.c {
		out[i] = new(big.Rat).Set(r)
	}

	return out
}

// Lead returns a copy of the leading coefficient (zero for the zero polynomial).
func (p Poly) Lead() *big.Rat {
	if p.IsZero() {
		return new(big.Rat)
	}

	return new(big.Rat).Set(p.c[len(p.c)-1])
}

// Equal reports coefficient-wise equality.
func (p Poly) Equal(q Poly) bool {
	if len(p.c) != len(q.c) {
		return false
	}
	for i := range p.c {
		if p.c[i].Cmp(q.c[i]) != 0 {
			return false
		}
	}

	return true
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	n := max(len(p.c), len(q.c))
	c := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		c[i] = new(big.Rat)
		if i < len(p.c) {
			c[i].Add(c[i], p.c[i])
		}
		if i < len(q.c) {
			c[i].Add(c[i], q.c[i])
		}
	}

	return trim(c)
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

// Neg returns -p.
func (p Poly) Neg() Poly {
	c := make([]*big.Rat, len(p.c))
	for i, r := range p.c {
		c[i] = new(big.Rat).Neg(r)
	}

	return Poly{c: c}
}

// Scale returns r·p.
func (p Poly) Scale(r *big.Rat) Poly {
	c := make([]*big.Rat, len(p.c))
	for i, v := range p.c {
		c[i] = new(big.Rat).Mul(v, r)
	}

	return trim(c)
}

// Mul returns p·q (schoolbook, O(deg p · deg q)).
func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Poly{}
	}
	c := make([]*big.Rat, len(p.c)+len(q.c)-1)
	for i := range c {
		c[i] = new(big.Rat)
	}
	var t big.Rat
	for i, a := range p.c {
		for j, b := range q.c {
			c[i+j].Add(c[i+j], t.Mul(a, b))
		}
	}

	return trim(c)
}

// DivMod returns quotient and remainder of Euclidean division p = quo·q + rem
// with deg rem < deg q.
//
// Panics when q is the zero polynomial.
//
// Complexity: O(deg p · deg q).
func (p Poly) DivMod(q Poly) (quo, rem Poly) {
	if q.IsZero() {
		panic(panicZeroDivisor)
	}
	r := p.Coeffs()
	dq := q.Degree()
	if len(r)-1 < dq {
		return Poly{}, trim(r)
	}
	qc := make([]*big.Rat, len(r)-dq)
	for i := range qc {
		qc[i] = new(big.Rat)
	}
	lead := q.c[dq]
	var t big.Rat
	for i := len(r) - 1; i >= dq; i-- {
		if r[i].Sign() == 0 {
			continue
		}
		f := new(big.Rat).Quo(r[i], lead)
		qc[i-dq] = f
		for j := 0; j <= dq; j++ {
			r[i-dq+j].Sub(r[i-dq+j], t.Mul(f, q.c[j]))
		}
	}

	return trim(qc), trim(r[:dq])
}

// Mod returns p mod q.
func (p Poly) Mod(q Poly) Poly {
	_, r := p.DivMod(q)

	return r
}

// Monic returns p divided by its leading coefficient (zero stays zero).
func (p Poly) Monic() Poly {
	if p.IsZero() {
		return p
	}

	return p.Scale(new(big.Rat).Inv(p.c[len(p.c)-1]))
}

// GCD returns the monic greatest common divisor of p and q.
// GCD(0, 0) is the zero polynomial.
func GCD(p, q Poly) Poly {
	a, b := p, q
	for !b.IsZero() {
		a, b = b, a.Mod(b)
	}

	return a.Monic()
}

// InvMod returns s with s·p ≡ 1 (mod m) and deg s < deg m, or false when
// gcd(p, m) is not constant.
//
// Implementation: extended Euclid keeping only the cofactor of p.
func InvMod(p, m Poly) (Poly, bool) {
	if m.Degree() < 1 {
		return Poly{}, false
	}
	r0, r1 := m, p.Mod(m)
	s0, s1 := Poly{}, FromInt64(1)
	for !r1.IsZero() {
		q, r := r0.DivMod(r1)
		r0, r1 = r1, r
		s0, s1 = s1, s0.Sub(q.Mul(s1))
	}
	if r0.Degree() != 0 {
		return Poly{}, false
	}

	return s0.Scale(new(big.Rat).Inv(r0.c[0])).Mod(m), true
}

// Derivative returns p'.
func (p Poly) Derivative() Poly {
	if len(p.c) <= 1 {
		return Poly{}
	}
	c := make([]*big.Rat, len(p.c)-1)
	for i := 1; i < len(p.c); i++ {
		c[i-1] = new(big.Rat).Mul(p.c[i], new(big.Rat).SetInt64(int64(i)))
	}

	return trim(c)
}

// SquareFree returns p / gcd(p, p'), which has the same roots as p, each simple.
func (p Poly) SquareFree() Poly {
	if p.Degree() < 1 {
		return p
	}
	g := GCD(p, p.Derivative())
	q, _ := p.DivMod(g)

	return q
}

// Primitive returns the unique integer multiple of p with coprime integer
// coefficients and a positive leading coefficient.
func (p Poly) Primitive() Poly {
	if p.IsZero() {
		return p
	}
	lcm := big.NewInt(1)
	var g big.Int
	for _, r := range p.c {
		d := r.Denom()
		g.GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, &g))
	}
	ints := make([]*big.Int, len(p.c))
	content := new(big.Int)
	for i, r := range p.c {
		v := new(big.Int).Mul(r.Num(), new(big.Int).Quo(lcm, r.Denom()))
		ints[i] = v
		content.GCD(nil, nil, content, new(big.Int).Abs(v))
	}
	if p.c[len(p.c)-1].Sign() < 0 {
		content.Neg(content)
	}
	for _, v := range ints {
		v.Quo(v, content)
	}

	return FromBigInt(ints...)
}

// IntCoeffs returns the coefficients as integers, or false when some
// coefficient is not integral.
func (p Poly) IntCoeffs() ([]*big.Int, bool) {
	out := make([]*big.Int, len(p.c))
	for i, r := range p.c {
		if !r.IsInt() {
			return nil, false
		}
		out[i] = new(big.Int).Set(r.Num())
	}

	return out, true
}

// Eval returns p(x) exactly (Horner).
func (p Poly) Eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p.c) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p.c[i])
	}

	return acc
}

// SignAt returns the sign of p(x).
func (p Poly) SignAt(x *big.Rat) int { return p.Eval(x).Sign() }

// String formats p in the variable x, highest degree first.
func (p Poly) String() string { return p.Format("x") }

// Format prints p in the given variable name, e.g. "x^2 - 2" or "1/2*a + 3".
func (p Poly) Format(name string) string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	first := true
	for i := len(p.c) - 1; i >= 0; i-- {
		r := p.c[i]
		if r.Sign() == 0 {
			continue
		}
		abs := new(big.Rat).Abs(r)
		switch {
		case first && r.Sign() < 0:
			sb.WriteString("-")
		case !first && r.Sign() < 0:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		}
		first = false
		coef := abs.RatString()
		switch {
		case i == 0:
			sb.WriteString(coef)
		case coef == "1":
			sb.WriteString(monomial(name, i))
		default:
			sb.WriteString(coef)
			sb.WriteString("*")
			sb.WriteString(monomial(name, i))
		}
	}

	return sb.String()
}

func monomial(name string, i int) string {
	if i == 1 {
		return name
	}

	return fmt.Sprintf("%s^%d", name, i)
}
