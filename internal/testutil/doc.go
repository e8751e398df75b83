// Package testutil holds deterministic stand-ins for wall-clock time,
// recurring wakeups and ID generation, shared by the package tests.
//
// Nothing here imports engine; callers adapt the types at the call site,
// e.g.
//
//	src := testutil.NewTickerSource()
//	eng := engine.New(nil, engine.WithTicker(func(d time.Duration) engine.Ticker {
//		return src.New(d)
//	}))
package testutil
