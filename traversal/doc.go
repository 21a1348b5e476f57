// Package traversal tracks where a conversion is inside a nested value.
//
// A Context holds a stack of PropertyScope and ElementScope entries and
// renders it as a path such as "servers[0].listen.port". Injectors hook
// into every push and pop, in registration order.
package traversal
