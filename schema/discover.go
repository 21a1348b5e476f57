package schema

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"config-mapper/naming"
	"config-mapper/validation"
)

// Tag names read by discovery.
const (
	TagConf     = "conf"
	TagName     = "confname"
	TagPath     = "confpath"
	TagValidate = "validate"
	TagDesc     = "desc"
	TagExample  = "example"
)

var ErrNotConfigurable = errors.New("type is not configurable")

// Options configure a Discoverer.
type Options struct {
	// Validators parses validate tags; nil uses validation.NewRegistry().
	Validators *validation.Registry
	// Naming derives keys for fields without alias or path override.
	Naming naming.Strategy
	// Configurable lists struct types treated as configurable without
	// embedding the marker.
	Configurable []reflect.Type
	// OnBuild is called once per schema that enters the cache.
	OnBuild func(*TypeSchema)
}

// Discoverer builds and memoizes schemas. It is safe for concurrent use.
type Discoverer struct {
	validators *validation.Registry
	naming     naming.Strategy
	extra      map[reflect.Type]struct{}
	onBuild    func(*TypeSchema)

	cache sync.Map // reflect.Type -> *TypeSchema
}

// NewDiscoverer creates a discoverer with an empty cache.
func NewDiscoverer(opts Options) *Discoverer {
	d := &Discoverer{
		validators: opts.Validators,
		naming:     opts.Naming,
		extra:      make(map[reflect.Type]struct{}, len(opts.Configurable)),
		onBuild:    opts.OnBuild,
	}

	if d.validators == nil {
		d.validators = validation.NewRegistry()
	}

	for _, t := range opts.Configurable {
		d.extra[deref(t)] = struct{}{}
	}

	return d
}

// IsConfigurable reports whether t (after pointer dereference) has a schema.
func (d *Discoverer) IsConfigurable(t reflect.Type) bool {
	return d.isConfigurable(deref(t), 0)
}

func (d *Discoverer) isConfigurable(t reflect.Type, depth int) bool {
	if t.Kind() != reflect.Struct || depth > 8 {
		return false
	}

	if _, ok := d.extra[t]; ok {
		return true
	}

	if t == markerType || reflect.PointerTo(t).Implements(markerInterface) {
		return true
	}

	// Two configurable bases make the promoted marker method ambiguous.
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous && d.isConfigurable(deref(f.Type), depth+1) {
			return true
		}
	}

	return false
}

// Discover returns the cached schema of t, building it on first use.
// Concurrent first calls may build twice; the first stored schema wins.
func (d *Discoverer) Discover(t reflect.Type) (*TypeSchema, error) {
	t = deref(t)

	if cached, ok := d.cache.Load(t); ok {
		return cached.(*TypeSchema), nil
	}

	if !d.IsConfigurable(t) {
		return nil, &SchemaError{Type: t, Reason: "cannot discover", Err: ErrNotConfigurable}
	}

	ts, err := d.build(t)
	if err != nil {
		return nil, err
	}

	actual, loaded := d.cache.LoadOrStore(t, ts)
	if !loaded && d.onBuild != nil {
		d.onBuild(ts)
	}

	return actual.(*TypeSchema), nil
}

func (d *Discoverer) build(root reflect.Type) (*TypeSchema, error) {
	ts := &TypeSchema{Type: root}

	var prefix []int

	for level := root; level != nil; {
		own, super, superIndex, desc, err := d.scanLevel(level, prefix)
		if err != nil {
			return nil, err
		}

		if ts.Description == "" {
			ts.Description = desc
		}

		ts.Properties = append(ts.Properties, own...)

		level = super
		prefix = append(slices.Clone(prefix), superIndex)
	}

	return ts, nil
}

// scanLevel collects the own properties of t and locates its configurable base.
func (d *Discoverer) scanLevel(t reflect.Type, prefix []int) (
	own []*Property, super reflect.Type, superIndex int, desc string, err error,
) {
	seen := make(map[string]string)

	for i := range t.NumField() {
		f := t.Field(i)

		if f.Anonymous {
			ft := f.Type
			switch {
			case ft == markerType:
				desc = f.Tag.Get(TagDesc)
			case ft.Kind() == reflect.Pointer && d.IsConfigurable(ft):
				return nil, nil, 0, "", &SchemaError{
					Type: t, Field: f.Name, Reason: "configurable base must be embedded by value",
				}
			case d.IsConfigurable(ft):
				if super != nil {
					return nil, nil, 0, "", &SchemaError{
						Type:   t,
						Field:  f.Name,
						Reason: "more than one configurable base (" + super.Name() + ", " + ft.Name() + ")",
					}
				}

				super, superIndex = ft, i
			}

			continue
		}

		if !f.IsExported() {
			continue
		}

		p, skip, perr := d.property(t, f, append(slices.Clone(prefix), i))
		if perr != nil {
			return nil, nil, 0, "", perr
		}

		if skip {
			continue
		}

		if prev, dup := seen[p.Key]; dup {
			return nil, nil, 0, "", &SchemaError{
				Type: t, Field: f.Name, Reason: "duplicate key " + quote(p.Key) + " also used by " + prev,
			}
		}

		seen[p.Key] = f.Name
		own = append(own, p)
	}

	return own, super, superIndex, desc, nil
}

func (d *Discoverer) property(owner reflect.Type, f reflect.StructField, index []int) (*Property, bool, error) {
	conf, hasConf := f.Tag.Lookup(TagConf)
	if hasConf && strings.TrimSpace(conf) == "-" {
		return nil, true, nil
	}

	p := &Property{
		Name:         f.Name,
		NameOverride: strings.TrimSpace(f.Tag.Get(TagName)),
		PathOverride: strings.TrimSpace(f.Tag.Get(TagPath)),
		Type:         f.Type,
		Owner:        owner,
		Index:        index,
		Description:  f.Tag.Get(TagDesc),
	}

	if hasConf {
		alias, flags, _ := strings.Cut(conf, ",")
		p.Alias = strings.TrimSpace(alias)

		for _, opt := range strings.Split(flags, ",") {
			switch strings.TrimSpace(opt) {
			case "":
			case "optional":
				p.Optional = true
			case "constant":
				p.Constant = true
			case "virtual":
				p.Virtual = true
			case "silent":
				p.Silent = true
			default:
				return nil, false, &SchemaError{
					Type: owner, Field: f.Name, Reason: "unknown conf option " + quote(strings.TrimSpace(opt)),
				}
			}
		}
	}

	switch {
	case p.Alias != "":
		p.Key = p.Alias
	case p.PathOverride != "":
		p.Key = p.PathOverride
	default:
		p.Key = d.naming.Apply(f.Name)
	}

	if examples := f.Tag.Get(TagExample); examples != "" {
		for _, ex := range strings.Split(examples, "|") {
			p.Examples = append(p.Examples, strings.TrimSpace(ex))
		}
	}

	v, err := d.validators.Parse(f.Tag.Get(TagValidate), p.Silent)
	if err != nil {
		return nil, false, &SchemaError{Type: owner, Field: f.Name, Reason: "bad validate tag", Err: err}
	}

	p.Validator = v

	return p, false, nil
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

func quote(s string) string {
	return `"` + s + `"`
}
