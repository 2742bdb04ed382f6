package sdbmap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type identifies the declared type of a domain attribute. SimpleDB stores
// every value as a UTF-8 string, so each type defines a string representation
// whose lexicographic order matches the type's natural order.
type Type int

const (
	// TypeString is a plain string of at most MaxValueLength bytes. It is the
	// zero value, and the type assumed for attributes missing from the schema.
	TypeString Type = iota

	// TypeText is a string of arbitrary length, stored as an ordered set of
	// indexed chunks across multiple values of the same attribute.
	TypeText

	// TypeInt is a signed 64-bit integer, stored as a 20-digit zero-padded
	// decimal with a bias offset so that string order equals numeric order.
	TypeInt

	// TypeTime is an absolute point in time, stored as a fixed-width UTC
	// timestamp so that string order equals chronological order.
	TypeTime

	// TypeJSON is a free-form structured value, serialized with encoding/json
	// and chunked like TypeText when oversized.
	TypeJSON

	// TypeStringSet is a multi-valued collection of plain strings. SimpleDB
	// does not preserve the order of values within an attribute, so callers
	// must treat the decoded collection as a set.
	TypeStringSet
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeText:
		return "text"
	case TypeInt:
		return "int"
	case TypeTime:
		return "time"
	case TypeJSON:
		return "json"
	case TypeStringSet:
		return "string set"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

const (
	// MaxValueLength is the SimpleDB limit on a single attribute value, in bytes.
	MaxValueLength = 1024

	// chunk values carry a "%03d:" header, so the payload is slightly smaller.
	chunkHeaderSize  = 4
	chunkPayloadSize = MaxValueLength - chunkHeaderSize
	maxChunks        = 1000

	intEncodedWidth = 20

	// timeFormat renders in UTC only, so the zone always prints as "Z" and
	// encoded timestamps sort chronologically.
	timeFormat = "2006-01-02T15:04:05.000000000Z0700"
)

// intSignBit flipped on the two's complement bit pattern maps the full signed
// range onto [0, 2^64), preserving order.
const intSignBit = uint64(1) << 63

func encodeInt(v int64) string {
	return fmt.Sprintf("%0*d", intEncodedWidth, uint64(v)^intSignBit)
}

func decodeInt(s string) (int64, error) {
	if len(s) != intEncodedWidth {
		return 0, &FormatError{Type: TypeInt, Value: s, Err: fmt.Errorf("want %d digits, got %d", intEncodedWidth, len(s))}
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &FormatError{Type: TypeInt, Value: s, Err: err}
	}
	return int64(u ^ intSignBit), nil
}

func encodeTime(v time.Time) string {
	return v.UTC().Format(timeFormat)
}

func decodeTime(s string) (time.Time, error) {
	ts, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, &FormatError{Type: TypeTime, Value: s, Err: err}
	}
	return ts, nil
}

// chunkText splits s into indexed chunks, each small enough to store as a
// single SimpleDB value. Every text value is chunked, even when it fits in
// one chunk, so decoding never has to guess whether a header is present.
func chunkText(s string) ([]string, error) {
	if len(s) > chunkPayloadSize*maxChunks {
		return nil, fmt.Errorf("sdbmap: text value of %d bytes exceeds %d chunks: %w", len(s), maxChunks, ErrInvalidParameter)
	}
	chunks := make([]string, 0, len(s)/chunkPayloadSize+1)
	for i := 0; ; i++ {
		end := (i + 1) * chunkPayloadSize
		if end >= len(s) {
			chunks = append(chunks, fmt.Sprintf("%03d:%s", i, s[i*chunkPayloadSize:]))
			return chunks, nil
		}
		chunks = append(chunks, fmt.Sprintf("%03d:%s", i, s[i*chunkPayloadSize:end]))
	}
}

// dechunkText reassembles a text value from its chunks, which may arrive in
// any order. A missing, duplicate, or out-of-range chunk index means the
// stored value is corrupt.
func dechunkText(values []string) (string, error) {
	parts := make([]string, len(values))
	seen := make([]bool, len(values))
	for _, v := range values {
		if len(v) < chunkHeaderSize || v[3] != ':' {
			return "", fmt.Errorf("chunk %q has no index header", v)
		}
		idx, err := strconv.Atoi(v[:3])
		if err != nil {
			return "", fmt.Errorf("chunk %q has no index header", v)
		}
		if idx >= len(values) {
			return "", fmt.Errorf("chunk index %d out of range for %d chunks", idx, len(values))
		}
		if seen[idx] {
			return "", fmt.Errorf("duplicate chunk index %d", idx)
		}
		seen[idx] = true
		parts[idx] = v[chunkHeaderSize:]
	}
	return strings.Join(parts, ""), nil
}

// encodeValues converts a decoded attribute value into the string values to
// store. A nil value encodes to no values at all, keeping "is null"
// predicates meaningful; it never encodes to an empty string.
func encodeValues(t Type, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, encodeTypeError(t, v)
		}
		if len(s) > MaxValueLength {
			return nil, fmt.Errorf("sdbmap: string value of %d bytes exceeds %d: %w", len(s), MaxValueLength, ErrInvalidParameter)
		}
		return []string{s}, nil
	case TypeText:
		s, ok := v.(string)
		if !ok {
			return nil, encodeTypeError(t, v)
		}
		return chunkText(s)
	case TypeInt:
		switch n := v.(type) {
		case int:
			return []string{encodeInt(int64(n))}, nil
		case int64:
			return []string{encodeInt(n)}, nil
		default:
			return nil, encodeTypeError(t, v)
		}
	case TypeTime:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, encodeTypeError(t, v)
		}
		return []string{encodeTime(ts)}, nil
	case TypeJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("sdbmap: cannot serialize json value: %w", err)
		}
		return chunkText(string(b))
	case TypeStringSet:
		elems, ok := v.([]string)
		if !ok {
			return nil, encodeTypeError(t, v)
		}
		values := make([]string, 0, len(elems))
		for _, s := range elems {
			if len(s) > MaxValueLength {
				return nil, fmt.Errorf("sdbmap: string set element of %d bytes exceeds %d: %w", len(s), MaxValueLength, ErrInvalidParameter)
			}
			values = append(values, s)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("sdbmap: unknown attribute type %s: %w", t, ErrInvalidParameter)
	}
}

func encodeTypeError(t Type, v any) error {
	return fmt.Errorf("sdbmap: cannot encode %T as %s: %w", v, t, ErrInvalidParameter)
}

// encodeLiteral converts a predicate literal into the single stored string it
// is compared against. Multi-chunk text and set values cannot appear as
// comparison literals.
func encodeLiteral(t Type, v any) (string, error) {
	if t == TypeStringSet {
		// Predicates compare against individual set elements.
		t = TypeString
	}
	values, err := encodeValues(t, v)
	if err != nil {
		return "", err
	}
	if len(values) != 1 {
		return "", fmt.Errorf("sdbmap: literal does not encode to a single value: %w", ErrInvalidParameter)
	}
	return values[0], nil
}

// decodeGroup converts the stored values of one attribute back into a decoded
// value: a scalar for single-valued scalar types, a reassembled string for
// chunked types, and an ordered sequence otherwise.
func decodeGroup(t Type, values []string) (any, error) {
	switch t {
	case TypeText:
		return dechunkText(values)
	case TypeJSON:
		s, err := dechunkText(values)
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, &FormatError{Type: TypeJSON, Value: s, Err: err}
		}
		return v, nil
	case TypeStringSet:
		out := make([]string, len(values))
		copy(out, values)
		return out, nil
	default:
		if len(values) == 1 {
			return decodeScalar(t, values[0])
		}
		out := make([]any, 0, len(values))
		for _, s := range values {
			v, err := decodeScalar(t, s)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}

func decodeScalar(t Type, s string) (any, error) {
	switch t {
	case TypeInt:
		return decodeInt(s)
	case TypeTime:
		return decodeTime(s)
	default:
		return s, nil
	}
}
