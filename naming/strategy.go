// Package naming turns Go field names into configuration keys.
package naming

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"config-mapper/internal/common"
)

// Strategy selects how a declared member name becomes an effective key.
type Strategy int

const (
	Identity   Strategy = iota // Name stays as declared
	LowerCamel                 // MaxIdleConns -> maxIdleConns
	Kebab                      // MaxIdleConns -> max-idle-conns
	Snake                      // MaxIdleConns -> max_idle_conns
	UpperSnake                 // MaxIdleConns -> MAX_IDLE_CONNS
	Train                      // MaxIdleConns -> Max-Idle-Conns
)

var strategyNames = map[Strategy]string{
	Identity:   "identity",
	LowerCamel: "lower-camel",
	Kebab:      "kebab",
	Snake:      "snake",
	UpperSnake: "upper-snake",
	Train:      "train",
}

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}

	return common.UnknownStr
}

// Parse resolves a strategy from its configuration name; "" means Identity.
func Parse(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Identity, nil
	}

	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}

	return Identity, fmt.Errorf("unknown naming strategy %q", name)
}

// Apply transforms a declared member name.
func (s Strategy) Apply(name string) string {
	if s == Identity {
		return name
	}

	tokens := Tokenize(name)

	switch s {
	case LowerCamel:
		for i, t := range tokens {
			if i == 0 {
				tokens[i] = strings.ToLower(t)
			} else {
				tokens[i] = capitalize(t)
			}
		}
		return strings.Join(tokens, "")
	case Kebab:
		return strings.ToLower(strings.Join(tokens, "-"))
	case Snake:
		return strings.ToLower(strings.Join(tokens, "_"))
	case UpperSnake:
		return strings.ToUpper(strings.Join(tokens, "_"))
	case Train:
		for i, t := range tokens {
			tokens[i] = capitalize(t)
		}
		return strings.Join(tokens, "-")
	default:
		return name
	}
}

func capitalize(token string) string {
	r, size := utf8.DecodeRuneInString(token)
	if r == utf8.RuneError {
		return token
	}

	return string(unicode.ToUpper(r)) + strings.ToLower(token[size:])
}
