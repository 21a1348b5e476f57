package validation

import (
	"strings"
	"sync/atomic"
)

// Validator checks a single value.
type Validator interface {
	// Check reports whether value passes.
	Check(value any) bool
	// Message describes the last failure.
	Message() string
}

// Evaluator is implemented by validators that can report a failure message
// without keeping per-call state.
type Evaluator interface {
	Evaluate(value any) (bool, string)
}

// Evaluate runs v against value and returns the failure message.
// Validators implementing Evaluator are safe to share between goroutines.
func Evaluate(v Validator, value any) (bool, string) {
	if e, ok := v.(Evaluator); ok {
		return e.Evaluate(value)
	}

	if v.Check(value) {
		return true, ""
	}

	return false, v.Message()
}

// IsSilent reports whether failures of v are meant to be swallowed.
func IsSilent(v Validator) bool {
	switch t := v.(type) {
	case *Aggregated:
		return t.Silent
	case Disabled:
		return t.Silent
	default:
		return false
	}
}

// Disabled always passes.
type Disabled struct {
	Silent bool
}

func (Disabled) Check(any) bool { return true }

func (Disabled) Message() string { return "" }

func (Disabled) Evaluate(any) (bool, string) { return true, "" }

// Aggregated runs an ordered list of checks and stops at the first failure.
type Aggregated struct {
	// Expr is the source expression.
	Expr string
	// Silent marks failures as recoverable; the mapper consults it,
	// the validator itself does not.
	Silent bool

	checks []Validator
	last   atomic.Pointer[string]
}

// NewAggregated wraps checks in order.
func NewAggregated(expr string, silent bool, checks ...Validator) *Aggregated {
	return &Aggregated{Expr: expr, Silent: silent, checks: checks}
}

// Len returns the number of checks.
func (a *Aggregated) Len() int {
	return len(a.checks)
}

// Evaluate runs the checks without touching Message.
func (a *Aggregated) Evaluate(value any) (bool, string) {
	for _, c := range a.checks {
		if ok, msg := Evaluate(c, value); !ok {
			return false, msg
		}
	}

	return true, ""
}

// Check runs the checks and remembers the first failing message.
func (a *Aggregated) Check(value any) bool {
	ok, msg := a.Evaluate(value)
	a.last.Store(&msg)

	return ok
}

// Message returns the message stored by the last Check.
func (a *Aggregated) Message() string {
	if msg := a.last.Load(); msg != nil {
		return *msg
	}

	return ""
}

func (a *Aggregated) String() string {
	return strings.TrimSpace(a.Expr)
}
