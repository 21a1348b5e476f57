package validation

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"config-mapper/internal/match"
)

// Factory builds a check from the text after '='. present is false when the
// tuple had no '='.
type Factory func(arg string, present bool) (Validator, error)

var identPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ParseError reports a malformed validation expression.
type ParseError struct {
	Expr       string
	Token      string
	Reason     string
	Suggestion string
	Err        error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("invalid validation expression %q", e.Expr)
	if e.Token != "" {
		msg += fmt.Sprintf(" at %q", e.Token)
	}

	msg += ": " + e.Reason
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Registry maps validator identifiers to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry preloaded with the built-in checks:
// not-null (also notnull, non-null, nonnull, not_null), not-empty,
// not-blank, range=min|max and size=min|max.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	registerBuiltins(r)

	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid validator name %q", name)
	}

	if f == nil {
		return fmt.Errorf("validator %q: nil factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = f

	return nil
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}

func (r *Registry) lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[name]

	return f, ok
}

// Parse turns expr into a validator. Empty expressions give Disabled.
func (r *Registry) Parse(expr string, silent bool) (Validator, error) {
	if strings.TrimSpace(expr) == "" {
		return Disabled{Silent: silent}, nil
	}

	var checks []Validator

	for tuple := range strings.SplitSeq(expr, ",") {
		tuple = strings.TrimSpace(tuple)
		if tuple == "" {
			return nil, &ParseError{Expr: expr, Reason: "empty tuple"}
		}

		name, arg, present := strings.Cut(tuple, "=")
		name, arg = strings.TrimSpace(name), strings.TrimSpace(arg)

		if !identPattern.MatchString(name) {
			return nil, &ParseError{Expr: expr, Token: name, Reason: "malformed identifier"}
		}

		factory, ok := r.lookup(name)
		if !ok {
			return nil, &ParseError{
				Expr:       expr,
				Token:      name,
				Reason:     "unknown validator",
				Suggestion: match.Suggest(name, r.Names()),
			}
		}

		check, err := factory(arg, present)
		if err != nil {
			return nil, &ParseError{Expr: expr, Token: tuple, Reason: err.Error(), Err: err}
		}

		checks = append(checks, check)
	}

	return NewAggregated(expr, silent, checks...), nil
}

// MustParse is like Parse but panics on error.
func (r *Registry) MustParse(expr string) Validator {
	v, err := r.Parse(expr, false)
	if err != nil {
		panic(err)
	}

	return v
}
