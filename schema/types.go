package schema

import (
	"fmt"
	"reflect"

	"config-mapper/internal/common"
	"config-mapper/validation"
)

// Configurable marks a struct as configurable when embedded by value.
type Configurable struct{}

func (Configurable) configurable() {}

type marker interface {
	configurable()
}

var (
	markerType      = reflect.TypeFor[Configurable]()
	markerInterface = reflect.TypeFor[marker]()
)

// MarkerType returns the reflect type of Configurable.
func MarkerType() reflect.Type {
	return markerType
}

// Property describes one declared, non-excluded field.
type Property struct {
	// Key is the effective key after alias, path override or naming strategy.
	Key string
	// Name is the Go field name.
	Name string
	// Alias is the explicit key from the conf tag.
	Alias string
	// NameOverride comes from the confname tag.
	NameOverride string
	// PathOverride comes from the confpath tag.
	PathOverride string
	// Type is the declared field type.
	Type reflect.Type
	// Owner is the struct type declaring the field.
	Owner reflect.Type
	// Index addresses the field from the schema's root type.
	Index []int

	Validator validation.Validator

	Optional bool
	Constant bool
	Virtual  bool
	Silent   bool

	Description string
	Examples    []string
}

// OverrideKey returns the explicit name override, or Key without one.
func (p *Property) OverrideKey() string {
	if p.NameOverride != "" {
		return p.NameOverride
	}

	return p.Key
}

// LegacyKey returns the path override when it differs from Key.
func (p *Property) LegacyKey() (string, bool) {
	if p.PathOverride == "" || p.PathOverride == p.Key {
		return "", false
	}

	return p.PathOverride, true
}

func (p *Property) String() string {
	return fmt.Sprintf("%s.%s (%s)", common.TypeName(p.Owner), p.Name, p.Key)
}

// TypeSchema is the ordered property list of a configurable type.
// It is immutable once returned by a Discoverer.
type TypeSchema struct {
	Type        reflect.Type
	Description string
	Properties  []*Property
}

// Lookup returns the first property with the given key.
func (s *TypeSchema) Lookup(key string) (*Property, bool) {
	for _, p := range s.Properties {
		if p.Key == key {
			return p, true
		}
	}

	return nil, false
}

// LookupLegacy returns the first property whose legacy key is key.
func (s *TypeSchema) LookupLegacy(key string) (*Property, bool) {
	for _, p := range s.Properties {
		if legacy, ok := p.LegacyKey(); ok && legacy == key {
			return p, true
		}
	}

	return nil, false
}

// Keys returns the effective keys in schema order, duplicates removed.
func (s *TypeSchema) Keys() []string {
	keys := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		keys = append(keys, p.Key)
	}

	return common.Dedup(keys)
}

// Len returns the number of properties.
func (s *TypeSchema) Len() int {
	return len(s.Properties)
}

func (s *TypeSchema) String() string {
	return common.TypeName(s.Type)
}

// SchemaError reports a type that cannot be scanned.
type SchemaError struct {
	Type   reflect.Type
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := "schema " + common.TypeName(e.Type)
	if e.Field != "" {
		msg += ": field " + e.Field
	}

	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
