// Package harness runs timer scenarios against a live engine.
//
// A scenario is a YAML file naming an initial list, a sequence of steps
// (create, edit, remove, toggle, tick) and assertions on the final list.
// Each step is submitted to a real engine.Engine and the harness waits for
// the resulting change before moving on, so the recorded trace is the
// engine's own output, not a simulation of it.
//
// Determinism: created timers get IDs "t1", "t2", ... in creation order,
// initial timers without an explicit ID get "s1", "s2", ..., and ticks are
// fired by hand through a manual ticker. Traces are therefore stable
// enough for golden file comparison (see RunWithGolden).
//
// Example scenario:
//
//	name: start_and_tick
//	description: A started timer gains one interval per tick
//	initial:
//	  - id: a
//	    title: Mow the lawn
//	    project: House Chores
//	steps:
//	  - intent: toggle
//	    id: a
//	  - intent: tick
//	    count: 3
//	assertions:
//	  - type: timer
//	    id: a
//	    expect:
//	      elapsed: 3000
//	      running: true
package harness
