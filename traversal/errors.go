package traversal

import (
	"errors"
	"fmt"
)

// Located is implemented by errors that already carry a traversal path.
type Located interface {
	error
	Location() string
}

// ContextError wraps a failure with the path at which it happened.
type ContextError struct {
	Path    string
	Context *Context
	Err     error
}

func (e *ContextError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("at %s: %v", e.Path, e.Err)
}

func (e *ContextError) Unwrap() error {
	return e.Err
}

func (e *ContextError) Location() string {
	return e.Path
}

// InjectionError reports a failing injector hook.
type InjectionError struct {
	ContextError

	Injector string
	Hook     string
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("injector %s (%s): %s", e.Injector, e.Hook, e.ContextError.Error())
}

func (e *InjectionError) Unwrap() error {
	return &e.ContextError
}

// Enrich attaches the current path to err unless err is already located.
func Enrich(ctx *Context, err error) error {
	if err == nil {
		return nil
	}

	var located Located
	if errors.As(err, &located) {
		return err
	}

	return ctx.wrap(err)
}

func (c *Context) wrap(err error) error {
	return &ContextError{Path: c.Path(), Context: c, Err: err}
}
