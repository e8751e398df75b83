// Package timer defines the timer record, the ordered timer list, and the
// pure handlers that derive a new list from an old one.
//
// A List is never mutated in place. Every handler either returns the input
// list unchanged (the intent named no timer) or a freshly allocated slice
// holding copies of the affected records. Callers may keep older lists
// around as stable versions.
//
// Handlers never fail. An intent that names an unknown timer ID is a
// silent no-op.
package timer
