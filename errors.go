package sdbmap

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound is returned by point lookups when the item has no
	// attributes in the domain. It is a normal outcome, not a transport failure.
	ErrItemNotFound = errors.New("sdbmap: item not found")

	// ErrInvalidParameter is returned when a select expression cannot be
	// compiled from the provided specification (bad operator arity, bad limit,
	// unencodable literal). It is raised before any network call.
	ErrInvalidParameter = errors.New("sdbmap: invalid parameter")

	// ErrInvalidOrdering is returned when a sort attribute is not constrained
	// by any predicate in the where clause. SimpleDB rejects such expressions,
	// so the compiler refuses them up front.
	ErrInvalidOrdering = errors.New("sdbmap: sort attribute not constrained by predicate")

	// Done is returned by [Cursor.Next] when the result set is exhausted.
	Done = errors.New("sdbmap: no more items")
)

// FormatError indicates a stored string value that does not parse as its
// declared attribute type.
type FormatError struct {
	Type  Type   // the declared attribute type
	Value string // the offending stored representation
	Err   error  // underlying parse error, if any
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sdbmap: malformed %s value %q: %v", e.Type, e.Value, e.Err)
	}
	return fmt.Sprintf("sdbmap: malformed %s value %q", e.Type, e.Value)
}

func (e *FormatError) Unwrap() error { return e.Err }

// CorruptValueError tags a decoding failure with the item and attribute it
// occurred on. It wraps the underlying [FormatError] or chunking error.
type CorruptValueError struct {
	ItemName  string
	Attribute string
	Err       error
}

func (e *CorruptValueError) Error() string {
	return fmt.Sprintf("sdbmap: corrupt value for attribute %q on item %q: %v", e.Attribute, e.ItemName, e.Err)
}

func (e *CorruptValueError) Unwrap() error { return e.Err }
