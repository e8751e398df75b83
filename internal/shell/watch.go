package shell

import (
	"fmt"
	"io"

	"github.com/roach88/timers/internal/engine"
)

// ChangePrinter returns an observer that echoes user-driven replacements
// to w. Ticks are skipped; they would flood the prompt once a second.
func ChangePrinter(w io.Writer) engine.Observer {
	return engine.ObserverFunc(func(c engine.Change) {
		if c.Intent.Kind == engine.IntentTick {
			return
		}
		fmt.Fprintf(w, "[v%d] %s %s (%d timers)\n",
			c.Version, c.Intent.Kind, shortID(c.Intent.TimerID), len(c.Timers))
	})
}
