package traversal

import (
	"errors"
	"strings"

	"config-mapper/internal/common"
)

var (
	ErrNegativeIndex    = errors.New("negative scope index")
	ErrIndexOutOfRange  = errors.New("scope index out of range")
	ErrStackLocked      = errors.New("scope stack cannot change inside an injector hook")
	ErrUnsupportedScope = errors.New("unsupported scope")
)

// Mode is the direction of a traversal.
type Mode int

const (
	ModeNormalize Mode = iota
	ModeDenormalize
)

func (m Mode) String() string {
	switch m {
	case ModeNormalize:
		return "normalize"
	case ModeDenormalize:
		return "denormalize"
	default:
		return common.UnknownStr
	}
}

// PathKind selects which key a property scope contributes to a path.
type PathKind int

const (
	// PathKey uses the effective key.
	PathKey PathKind = iota
	// PathMember uses the Go field name.
	PathMember
	// PathOverride uses the explicit name override, else the effective key.
	PathOverride
)

// Context tracks the scope stack of one normalize or denormalize call.
// It must not be shared between goroutines.
type Context struct {
	mode      Mode
	scopes    []Scope
	injectors []Injector
	inHook    bool
}

// New creates a context whose injectors run in the given order.
func New(mode Mode, injectors ...Injector) *Context {
	return &Context{mode: mode, injectors: injectors}
}

// Mode returns the traversal direction.
func (c *Context) Mode() Mode {
	return c.mode
}

// Depth returns the number of entered scopes.
func (c *Context) Depth() int {
	return len(c.scopes)
}

// EnterScope pushes s, running before and after hooks around the push.
func (c *Context) EnterScope(s Scope) error {
	if c.inHook {
		return c.wrap(ErrStackLocked)
	}

	if s == nil {
		return c.wrap(ErrUnsupportedScope)
	}

	if err := c.run(hookBeforeEnter, s); err != nil {
		return err
	}

	c.scopes = append(c.scopes, s)

	return c.run(hookAfterEnter, s)
}

// ExitScope pops the top scope. On an empty stack it does nothing.
func (c *Context) ExitScope() error {
	if c.inHook {
		return c.wrap(ErrStackLocked)
	}

	if len(c.scopes) == 0 {
		return nil
	}

	top := c.scopes[len(c.scopes)-1]
	if err := c.run(hookBeforeExit, top); err != nil {
		return err
	}

	c.scopes = c.scopes[:len(c.scopes)-1]

	return c.run(hookAfterExit, top)
}

// Scope returns the n-th most recently entered scope; 0 is the top.
func (c *Context) Scope(n int) (Scope, error) {
	if n < 0 {
		return nil, ErrNegativeIndex
	}

	if n >= len(c.scopes) {
		return nil, ErrIndexOutOfRange
	}

	return c.scopes[len(c.scopes)-1-n], nil
}

// Top returns the current scope, or nil at depth 0.
func (c *Context) Top() Scope {
	if len(c.scopes) == 0 {
		return nil
	}

	return c.scopes[len(c.scopes)-1]
}

// Path renders the stack as "servers[0].listen.port".
func (c *Context) Path() string {
	return c.BuildPath(PathKey, ".")
}

// BuildPath renders the stack with the given key flavor and separator.
func (c *Context) BuildPath(kind PathKind, sep string) string {
	var b strings.Builder

	for _, s := range c.scopes {
		seg := s.Segment(kind)
		if _, ok := s.(*PropertyScope); ok && b.Len() > 0 {
			b.WriteString(sep)
		}

		b.WriteString(seg)
	}

	return b.String()
}
