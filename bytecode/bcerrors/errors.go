// Package bcerrors defines the error taxonomy shared by the codec. Callers
// should use errors.As against these types rather than matching on message
// text.
package bcerrors

import "fmt"

// Malformed reports a violated structural invariant in the input: bad
// magic, unknown type tag, negative value where unsigned was expected, or
// an out-of-range reference.
type Malformed struct {
	Message string
}

func (e *Malformed) Error() string { return "malformed bytecode: " + e.Message }

// NewMalformed builds a Malformed error with a formatted message.
func NewMalformed(format string, args ...interface{}) error {
	return &Malformed{Message: fmt.Sprintf(format, args...)}
}

// UnsupportedVersion reports a version byte outside the supported range.
type UnsupportedVersion struct {
	Version, Min, Max int
}

func (e *UnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported version %d (supported range is [%d, %d])", e.Version, e.Min, e.Max)
}

// ValueOutOfBounds reports a value the writer cannot represent in a
// variable-length integer encoding.
type ValueOutOfBounds struct {
	Value, Limit int64
}

func (e *ValueOutOfBounds) Error() string {
	return fmt.Sprintf("value %d exceeds the representable limit of %d", e.Value, e.Limit)
}

// Utf8 reports a string pool entry that is not valid UTF-8.
type Utf8 struct {
	Index int
}

func (e *Utf8) Error() string {
	return fmt.Sprintf("string pool entry %d is not valid utf-8", e.Index)
}
