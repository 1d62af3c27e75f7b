package codec

import (
	"fmt"
	"math"
	"math/big"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/decompose"
	"github.com/katalvlaran/ietx/iet"
)

// Version of the report layout.
const Version = 1

// Report is the top-level document written by the CLI.
type Report struct {
	Version int          `json:"version" cbor:"1,keyasint"`
	Cases   []CaseReport `json:"cases" cbor:"2,keyasint"`
}

// FieldReport identifies ℚ(α). Polynomial is empty for ℚ.
type FieldReport struct {
	Polynomial []string `json:"polynomial,omitempty" cbor:"1,keyasint,omitempty"`
	Root       int      `json:"root" cbor:"2,keyasint"`
	Name       string   `json:"name,omitempty" cbor:"3,keyasint,omitempty"`
}

// IETReport is an input IET with exact lengths.
type IETReport struct {
	Field   FieldReport       `json:"field" cbor:"1,keyasint"`
	Top     []string          `json:"top" cbor:"2,keyasint"`
	Bottom  []string          `json:"bottom" cbor:"3,keyasint"`
	Lengths map[string]string `json:"lengths" cbor:"4,keyasint"`
}

// ComponentReport mirrors decompose.Component.
type ComponentReport struct {
	Labels     []string `json:"labels" cbor:"1,keyasint"`
	Tag        string   `json:"tag" cbor:"2,keyasint"`
	Length     string   `json:"length" cbor:"3,keyasint"`
	Approx     *float64 `json:"approx,omitempty" cbor:"4,keyasint,omitempty"`
	Cylinders  int      `json:"cylinders,omitempty" cbor:"5,keyasint,omitempty"`
	Periods    []string `json:"periods,omitempty" cbor:"6,keyasint,omitempty"`
	Confidence string   `json:"confidence,omitempty" cbor:"7,keyasint,omitempty"`
	Reason     string   `json:"reason,omitempty" cbor:"8,keyasint,omitempty"`
	Steps      int      `json:"steps" cbor:"9,keyasint"`
}

// Settings are the driver options a case was decomposed with. Two runs
// of the same input agree only when their settings do.
type Settings struct {
	MaxSteps   int  `json:"max_steps" cbor:"1,keyasint"`
	Zorich     bool `json:"zorich" cbor:"2,keyasint"`
	Window     int  `json:"window" cbor:"3,keyasint"`
	CheckEvery int  `json:"check_every" cbor:"4,keyasint"`
}

// CaseReport is one decomposed input.
type CaseReport struct {
	Name          string            `json:"name" cbor:"1,keyasint"`
	Input         IETReport         `json:"input" cbor:"2,keyasint"`
	Steps         int               `json:"steps" cbor:"3,keyasint"`
	BoundExceeded bool              `json:"bound_exceeded,omitempty" cbor:"4,keyasint,omitempty"`
	Components    []ComponentReport `json:"components" cbor:"5,keyasint"`
	Settings      Settings          `json:"settings" cbor:"6,keyasint"`
}

// NewReport wraps case reports in a versioned document.
func NewReport(cases ...CaseReport) *Report {
	return &Report{Version: Version, Cases: cases}
}

// NewIETReport captures t.
func NewIETReport(t *iet.IET) IETReport {
	r := IETReport{
		Field:   NewFieldReport(t.Field()),
		Top:     t.Top(),
		Bottom:  t.Bottom(),
		Lengths: make(map[string]string, t.Len()),
	}
	for l, x := range t.Lengths() {
		r.Lengths[l] = x.Exact()
	}

	return r
}

// NewFieldReport captures k; nil and ℚ give the zero FieldReport.
func NewFieldReport(k *algebraic.Field) FieldReport {
	if k == nil || k.IsRational() {
		return FieldReport{}
	}
	r := FieldReport{Root: k.RootIndex(), Name: k.Name()}
	for _, c := range k.Polynomial() {
		r.Polynomial = append(r.Polynomial, c.String())
	}

	return r
}

// NewCaseReport captures an input together with its decomposition and the
// settings that produced it.
func NewCaseReport(name string, t *iet.IET, res decompose.Result, s Settings) CaseReport {
	r := CaseReport{
		Name:          name,
		Settings:      s,
		Input:         NewIETReport(t),
		Steps:         res.Steps,
		BoundExceeded: res.BoundExceeded,
		Components:    make([]ComponentReport, 0, len(res.Components)),
	}
	for _, c := range res.Components {
		cr := ComponentReport{
			Labels:    c.Labels,
			Tag:       c.Tag.String(),
			Length:    c.Length.Exact(),
			Approx:    approx(c.Length),
			Cylinders: c.Cylinders,
			Steps:     c.Steps,
		}
		for _, p := range c.Periods {
			cr.Periods = append(cr.Periods, p.String())
		}
		if c.Tag != decompose.Undetermined {
			cr.Confidence = c.Confidence.String()
		}
		if c.Reason != nil {
			cr.Reason = c.Reason.Error()
		}
		r.Components = append(r.Components, cr)
	}

	return r
}

// approx is the float64 nearest to x, or nil outside the float64 range.
func approx(x algebraic.Number) *float64 {
	f := x.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}

	return &f
}

// Field rebuilds the field; the zero FieldReport is ℚ.
func (r FieldReport) Field(opts ...algebraic.FieldOption) (*algebraic.Field, error) {
	if len(r.Polynomial) == 0 {
		return algebraic.Rationals(), nil
	}
	coeffs := make([]*big.Int, len(r.Polynomial))
	for i, s := range r.Polynomial {
		c, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: coefficient %q", algebraic.ErrInvalidPolynomial, s)
		}
		coeffs[i] = c
	}
	if r.Name != "" {
		opts = append(opts[:len(opts):len(opts)], algebraic.WithName(r.Name))
	}

	return algebraic.NewFieldBig(coeffs, r.Root, opts...)
}

// IET rebuilds the input IET.
func (r IETReport) IET(opts ...algebraic.FieldOption) (*iet.IET, error) {
	k, err := r.Field.Field(opts...)
	if err != nil {
		return nil, err
	}
	lengths := make(map[string]algebraic.Number, len(r.Lengths))
	for l, s := range r.Lengths {
		x, err := k.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("length of %s: %w", l, err)
		}
		lengths[l] = x
	}

	return iet.Assemble(r.Top, r.Bottom, lengths)
}
