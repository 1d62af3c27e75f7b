// Package fixture loads interval exchange inputs from YAML or JSONC files.
//
// A file declares named number fields and a list of IETs whose lengths are
// expressions in the generator of one of those fields:
//
//	fields:
//	  sqrt2: {poly: [-2, 0, 1], root: 1, name: a}
//	iets:
//	  - name: rotation
//	    field: sqrt2
//	    top: [A, B]
//	    bottom: [B, A]
//	    lengths: {A: 1, B: a}
//	    max_steps: 500
//
// IETs without a field take rational lengths ("3", "5/7", "0.25"). JSONC
// files carry the same structure with comments and trailing commas allowed.
package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ietx/algebraic"
	"github.com/katalvlaran/ietx/iet"
)

var (
	// ErrFormat is returned for unknown file extensions and malformed input.
	ErrFormat = errors.New("fixture: unsupported or malformed input")

	// ErrUnknownField is returned when an IET names an undeclared field.
	ErrUnknownField = errors.New("fixture: unknown field")
)

// Format selects the decoder.
type Format int

const (
	// YAML input (.yaml, .yml).
	YAML Format = iota
	// JSONC input (.json, .jsonc): JSON with comments and trailing commas.
	JSONC
)

// FieldDecl declares ℚ(α) by an integer polynomial (lowest degree first) and
// the index of α among its real roots.
type FieldDecl struct {
	Poly []int64 `yaml:"poly" json:"poly"`
	Root int     `yaml:"root" json:"root"`
	Name string  `yaml:"name,omitempty" json:"name,omitempty"`
}

// Expr is a length expression. It accepts strings and bare numbers in both
// formats.
type Expr string

// UnmarshalYAML keeps the scalar text as written.
func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: length must be a scalar", ErrFormat, node.Line)
	}
	*e = Expr(node.Value)

	return nil
}

// UnmarshalJSON accepts a JSON string or number.
func (e *Expr) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = Expr(s)

		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: length %s", ErrFormat, data)
	}
	*e = Expr(n.String())

	return nil
}

// Entry declares one IET.
type Entry struct {
	Name     string          `yaml:"name" json:"name"`
	Field    string          `yaml:"field,omitempty" json:"field,omitempty"`
	Top      []string        `yaml:"top" json:"top"`
	Bottom   []string        `yaml:"bottom" json:"bottom"`
	Lengths  map[string]Expr `yaml:"lengths" json:"lengths"`
	MaxSteps int             `yaml:"max_steps,omitempty" json:"max_steps,omitempty"`
}

// File is the decoded document.
type File struct {
	Fields map[string]FieldDecl `yaml:"fields" json:"fields"`
	IETs   []Entry              `yaml:"iets" json:"iets"`
}

// Case is a ready-to-run input. MaxSteps is 0 when the file sets none.
type Case struct {
	Name     string
	IET      *iet.IET
	MaxSteps int
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json", ".jsonc":
		return JSONC, nil
	}

	return 0, fmt.Errorf("%w: extension of %s", ErrFormat, path)
}

// Decode parses data without building anything. Unknown keys are rejected.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	case JSONC:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: format %d", ErrFormat, format)
	}

	return &f, nil
}

// Parse decodes data and builds every case. Field options (for example a
// shared algebraic.SignCache) apply to every declared field.
func Parse(data []byte, format Format, opts ...algebraic.FieldOption) ([]Case, error) {
	f, err := Decode(data, format)
	if err != nil {
		return nil, err
	}

	return f.Build(opts...)
}

// Load reads and parses a file, choosing the format by extension.
func Load(path string, opts ...algebraic.FieldOption) ([]Case, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cases, err := Parse(data, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cases, nil
}

// Build constructs the fields in name order, then the IETs in file order,
// so the first error reported does not depend on map iteration.
func (f *File) Build(opts ...algebraic.FieldOption) ([]Case, error) {
	fields := make(map[string]*algebraic.Field, len(f.Fields))
	for _, name := range sortedKeys(f.Fields) {
		fd := f.Fields[name]
		fo := append([]algebraic.FieldOption(nil), opts...)
		if fd.Name != "" {
			fo = append(fo, algebraic.WithName(fd.Name))
		}
		k, err := algebraic.NewField(fd.Poly, fd.Root, fo...)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = k
	}

	out := make([]Case, 0, len(f.IETs))
	for i, s := range f.IETs {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("iet-%d", i)
		}
		var k *algebraic.Field
		if s.Field != "" {
			var ok bool
			if k, ok = fields[s.Field]; !ok {
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownField, s.Field, name)
			}
		}
		lengths := make(map[string]algebraic.Number, len(s.Lengths))
		for _, l := range sortedKeys(s.Lengths) {
			x, err := parseLength(k, string(s.Lengths[l]))
			if err != nil {
				return nil, fmt.Errorf("%q: length of %s: %w", name, l, err)
			}
			lengths[l] = x
		}
		t, err := iet.Assemble(s.Top, s.Bottom, lengths)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		out = append(out, Case{Name: name, IET: t, MaxSteps: s.MaxSteps})
	}

	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func parseLength(k *algebraic.Field, s string) (algebraic.Number, error) {
	if k != nil {
		return k.Parse(s)
	}
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return algebraic.Number{}, fmt.Errorf("%w: %q is not rational", algebraic.ErrSyntax, s)
	}

	return algebraic.FromRat(r), nil
}
