package schema

import "reflect"

// Accessor reads and writes property values on an addressable struct.
type Accessor interface {
	Get(owner reflect.Value, p *Property) reflect.Value
	Set(owner reflect.Value, p *Property, value reflect.Value)
}

// ReflectAccessor walks Property.Index with reflection.
type ReflectAccessor struct{}

func (ReflectAccessor) Get(owner reflect.Value, p *Property) reflect.Value {
	return owner.FieldByIndex(p.Index)
}

func (ReflectAccessor) Set(owner reflect.Value, p *Property, value reflect.Value) {
	owner.FieldByIndex(p.Index).Set(value)
}
