// Package schema discovers the configurable properties of struct types.
//
// A struct is configurable when it embeds Configurable, directly or through
// a configurable base, or when it is registered explicitly. Properties come
// from exported fields and their tags:
//
//	type Listener struct {
//		schema.Configurable `desc:"network listener"`
//
//		Host string `conf:"host,optional" desc:"bind address"`
//		Port int    `validate:"range=1|65535" example:"80|8080"`
//		Old  string `conf:"-"`
//	}
//
// The conf tag holds an alias followed by flags: optional, constant,
// virtual, silent. confname sets an explicit name override and confpath a
// path override that doubles as legacy fallback key.
//
// A schema lists the type's own properties first and then those of each
// configurable base, outermost last.
package schema
