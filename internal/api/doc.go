// Package api exposes the timer engine over HTTP.
//
// Reads return the current list version. Writes are fire-and-forget: the
// intent is queued and the handler answers 202 Accepted without waiting
// for it to be applied. Clients that need to see the result either poll
// GET /timers (the version increases by one per applied intent) or stream
// GET /events, which sends one server-sent event per list replacement.
package api
