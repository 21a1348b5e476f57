// Package diagnostic collects the non-fatal findings of a single
// denormalization: validation failures swallowed in silent mode,
// required values left at their default, and unknown keys ignored
// outside strict mode.
package diagnostic
