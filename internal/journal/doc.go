// Package journal records applied timer intents in SQLite.
//
// The journal is an audit log, not live persistence: a running engine never
// reads it back. Each engine run opens a session that stores the initial
// timer list, then appends one row per applied intent together with the
// digest of the list that intent produced. Replay re-applies a session's
// intents offline and checks every digest, which proves the log is
// complete and the handlers deterministic.
//
// Payloads and the initial list are CBOR encoded with integer keys, using
// canonical (sorted) map ordering so identical values give identical bytes.
package journal
