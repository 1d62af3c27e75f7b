package iet

import "errors"

var (
	// ErrInvalidPermutation indicates that the rows are not a bijection on
	// one label set.
	ErrInvalidPermutation = errors.New("iet: invalid permutation")

	// ErrInvalidLength indicates a non-positive, missing or unknown length.
	ErrInvalidLength = errors.New("iet: invalid length")

	// ErrLengthMismatch indicates that the top and bottom rows disagree on
	// lengths or on the total.
	ErrLengthMismatch = errors.New("iet: top and bottom lengths differ")

	// ErrOutOfDomain is returned by Apply for points outside [0, L).
	ErrOutOfDomain = errors.New("iet: point outside the domain")
)
