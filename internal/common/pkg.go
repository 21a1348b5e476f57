package common

import (
	"path"
	"reflect"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// TypeName renders a reflect.Type the way it would be written in the declaring
// package's importer: "alias.Name" for named types, the reflect string otherwise.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}

	return PkgAlias(t.PkgPath()) + "." + t.Name()
}

// SplitFuncName splits a runtime function name such as
// "github.com/acme/conv.Parse" into the package alias "conv" and "Parse".
// Methods and closures keep their suffix: "conv.(*T).M", "conv.Parse.func1".
func SplitFuncName(full string) (alias, name string) {
	_, last := path.Split(full)

	alias, name, ok := strings.Cut(last, ".")
	if !ok {
		return "", last
	}

	return alias, name
}
