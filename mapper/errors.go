package mapper

import (
	"fmt"
	"reflect"

	"config-mapper/internal/common"
)

// InvalidValueError reports a value that failed validation or conversion,
// or a required value that is missing.
type InvalidValueError struct {
	Path       string
	Value      any
	Reason     string
	Suggestion string
	Err        error
}

func (e *InvalidValueError) Error() string {
	msg := "invalid value"
	if e.Path != "" {
		msg += " at " + e.Path
	}

	msg += ": " + e.Reason
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// Location returns the path of the offending property.
func (e *InvalidValueError) Location() string {
	return e.Path
}

// UnsupportedSchemaError reports a type with neither a schema nor an
// adapter that is not a scalar either.
type UnsupportedSchemaError struct {
	Path   string
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedSchemaError) Error() string {
	msg := "unsupported type " + common.TypeName(e.Type)
	if e.Path != "" {
		msg += " at " + e.Path
	}

	return msg + ": " + e.Reason
}

// Location returns the path of the offending value.
func (e *UnsupportedSchemaError) Location() string {
	return e.Path
}
