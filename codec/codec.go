// Package codec serializes decomposition reports as JSON or as
// deterministic CBOR.
//
// Exact numbers travel as strings in the generator of their field
// ("2*a - 1", "5/7"), next to a float approximation for humans. CBOR output
// uses Core Deterministic Encoding (RFC 8949 §4.2), so equal reports have
// equal bytes and Digest is stable.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// ErrFormat is returned for an unknown Format.
var ErrFormat = errors.New("codec: unknown format")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Format selects the wire format.
type Format int

const (
	// JSON is indented JSON, one document per report.
	JSON Format = iota
	// CBOR is Core Deterministic CBOR.
	CBOR
)

// String returns "json" or "cbor".
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrFormat, s)
}

// Marshal encodes v to deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Digest is the BLAKE3 hash of the deterministic CBOR encoding of v.
func Digest(v any) ([32]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return [32]byte{}, err
	}

	return blake3.Sum256(data), nil
}

// Write encodes r to w. JSON output is indented and ends with a newline.
func Write(w io.Writer, format Format, r *Report) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(r)
	case CBOR:
		return encMode.NewEncoder(w).Encode(r)
	}

	return fmt.Errorf("%w: %d", ErrFormat, int(format))
}

// Read decodes one report from r.
func Read(r io.Reader, format Format) (*Report, error) {
	var rep Report
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&rep); err != nil {
			return nil, err
		}
	case CBOR:
		if err := decMode.NewDecoder(r).Decode(&rep); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrFormat, int(format))
	}

	return &rep, nil
}
