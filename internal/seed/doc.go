// Package seed loads the timer list an engine starts with.
//
// Seed files are YAML (.yaml, .yml) or CUE (.cue). Both describe the same
// document:
//
//	timers:
//	  - title: Clean Bedroom
//	    project: House Chores
//	    elapsed: 1126099
//	    running: false
//
// IDs are optional; timers without one get an ID from the generator passed
// to Load. CUE files are unified with a built-in schema, so type errors
// and negative elapsed values are reported with file positions.
package seed
