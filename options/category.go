// Package options holds the scalar coercion categories an engine may allow
// when a tree value does not already have the exact shape of its target.
package options

import (
	"fmt"
	"strings"
)

type CategoryEnum int

const (
	CategorySafeNumber    CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                           // int, uint, float with precision loss
	CategoryTextNumber                             // int, uint, float <-> string: textual number representation
	CategoryNumericBool                            // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                            // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                               // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                              // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                               // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                            // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                                // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryTextMarshaler                          // string <-> encoding.TextMarshaler/TextUnmarshaler implementations
	CategorySafeArray                              // sequence -> array: sequence fits into the array
	CategoryUnsafeArray                            // sequence -> array: longer sequences are cut to the array length

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected
)

// CategoryDefault is used by engines that do not configure coercion explicitly.
const CategoryDefault = CategorySafeNumber | CategoryTextNumber | CategoryTextualBool |
	CategoryDatetime | CategoryDuration | CategoryTextMarshaler | CategorySafeArray

var categoryNames = []struct {
	name string
	cat  CategoryEnum
}{
	{"safe-number", CategorySafeNumber},
	{"unsafe-number", CategoryUnsafeNumber},
	{"text-number", CategoryTextNumber},
	{"numeric-bool", CategoryNumericBool},
	{"textual-bool", CategoryTextualBool},
	{"datetime", CategoryDatetime},
	{"timestamp", CategoryTimestamp},
	{"duration", CategoryDuration},
	{"nanoseconds", CategoryNanoseconds},
	{"seconds", CategorySeconds},
	{"text-marshaler", CategoryTextMarshaler},
	{"safe-array", CategorySafeArray},
	{"unsafe-array", CategoryUnsafeArray},
}

// Has reports whether every category in other is enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// String lists the enabled categories by name, joined with "|".
func (c CategoryEnum) String() string {
	if c == CategoryNone {
		return "none"
	}

	var parts []string
	for _, n := range categoryNames {
		if c.Has(n.cat) {
			parts = append(parts, n.name)
		}
	}

	return strings.Join(parts, "|")
}

// ParseCategories combines named categories. "all" and "none" are accepted as well.
func ParseCategories(names ...string) (CategoryEnum, error) {
	var out CategoryEnum

names:
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "all":
			out |= CategoryAll
			continue
		case "none", "":
			continue
		}

		for _, n := range categoryNames {
			if n.name == name {
				out |= n.cat
				continue names
			}
		}

		return CategoryNone, fmt.Errorf("unknown coercion category %q", raw)
	}

	return out, nil
}
