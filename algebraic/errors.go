// SPDX-License-Identifier: MIT

package algebraic

import "errors"

// Every message is prefixed with "algebraic: ". Return sentinels directly or
// wrap them with fmt.Errorf("ctx: %w", ErrX); callers match with errors.Is.
var (
	// ErrInvalidPolynomial is returned by NewField when the polynomial is zero
	// or constant, when the root index is outside [0, #real roots), or when
	// the minimal polynomial of the chosen root cannot be certified.
	ErrInvalidPolynomial = errors.New("algebraic: invalid polynomial")

	// ErrDivisionByZero is returned by Div and Inv when the divisor equals zero.
	ErrDivisionByZero = errors.New("algebraic: division by zero")

	// ErrFieldMismatch signals that two numbers live in different
	// non-rational fields and cannot be combined.
	ErrFieldMismatch = errors.New("algebraic: numbers belong to different fields")

	// ErrSyntax is returned by Field.Parse for malformed input.
	ErrSyntax = errors.New("algebraic: invalid number syntax")
)
