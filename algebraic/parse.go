// SPDX-License-Identifier: MIT

package algebraic

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/katalvlaran/ietx/poly"
)

// Parse reads a polynomial expression in the generator, such as
// "1/2*a + 3", "-a^2 + 0.25" or "7". Terms are products of rationals
// (integers, fractions, decimals) and powers of the generator name.
// Rationals parse in every field.
//
// Errors:
//   - ErrSyntax (wrapped with the offending term), also for powers of the
//     generator above MaxParseExponent.
func (f *Field) Parse(s string) (Number, error) {
	src := strings.ReplaceAll(s, " ", "")
	if src == "" {
		return Number{}, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	acc := poly.Poly{}
	for _, term := range splitTerms(src) {
		t, err := f.parseTerm(term)
		if err != nil {
			return Number{}, err
		}
		acc = acc.Add(t)
	}

	return makeNumber(f, acc), nil
}

// splitTerms cuts at top-level '+' and '-' while keeping the sign with the
// term. A sign right after '^', '*' or '/' belongs to the operand.
func splitTerms(s string) []string {
	var out []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] != '+' && s[i] != '-' {
			continue
		}
		switch s[i-1] {
		case '^', '*', '/':
			continue
		}
		out = append(out, s[start:i])
		start = i
	}

	return append(out, s[start:])
}

// MaxParseExponent bounds the total power of the generator in one term.
// Coefficients of α^k grow linearly in k, so larger powers are rejected
// rather than computed.
const MaxParseExponent = 1 << 12

func (f *Field) parseTerm(term string) (poly.Poly, error) {
	sign := big.NewRat(1, 1)
	body := term
	switch {
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	case strings.HasPrefix(body, "-"):
		sign.Neg(sign)
		body = body[1:]
	}
	if body == "" {
		return poly.Poly{}, fmt.Errorf("%w: dangling sign in %q", ErrSyntax, term)
	}
	coef := new(big.Rat).Set(sign)
	deg := new(big.Int)
	for _, factor := range strings.Split(body, "*") {
		switch {
		case factor == f.name:
			deg.Add(deg, big.NewInt(1))
		case strings.HasPrefix(factor, f.name+"^"):
			k, ok := new(big.Int).SetString(factor[len(f.name)+1:], 10)
			if !ok || k.Sign() < 0 {
				return poly.Poly{}, fmt.Errorf("%w: bad exponent in %q", ErrSyntax, term)
			}
			deg.Add(deg, k)
		default:
			r, ok := new(big.Rat).SetString(factor)
			if !ok {
				return poly.Poly{}, fmt.Errorf("%w: bad factor %q in %q", ErrSyntax, factor, term)
			}
			coef.Mul(coef, r)
		}
	}

	if deg.Cmp(big.NewInt(MaxParseExponent)) > 0 {
		return poly.Poly{}, fmt.Errorf("%w: exponent above %d in %q", ErrSyntax, MaxParseExponent, term)
	}

	return f.genPow(deg).Scale(coef), nil
}

// genPow returns x^k reduced modulo the minimal polynomial, by repeated
// squaring, so the exponent never sizes an allocation.
func (f *Field) genPow(k *big.Int) poly.Poly {
	acc := poly.FromInt64(1)
	base := poly.X().Mod(f.modulus)
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			acc = acc.Mul(base).Mod(f.modulus)
		}
		base = base.Mul(base).Mod(f.modulus)
	}

	return acc
}
