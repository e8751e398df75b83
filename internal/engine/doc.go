// Package engine owns the timer list and applies intents to it.
//
// The engine is the application's state container: it holds the current
// timer list version, accepts intents from any goroutine, and applies them
// one at a time on a single goroutine.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// All handler invocations happen in Engine.Run. Two intents never execute
// concurrently, so the handlers in package timer need no locking.
//
// Intent Processing Flow:
//  1. Submit* (or the tick driver) enqueues an Intent on a FIFO queue
//  2. Run dequeues intents one at a time, in enqueue order
//  3. Apply derives the next timer list from the current one
//  4. The new version is published (Snapshot) and observers are notified
//
// Tick Driver:
// A TickDriver is started when Run begins and stopped when Run tears down.
// Each firing enqueues exactly one tick intent. Once teardown begins no
// further tick is applied, even one already sitting in the queue.
//
// Versions:
// Every applied intent bumps a monotonic logical Clock. Observers and
// readers see the version alongside the list.
package engine
