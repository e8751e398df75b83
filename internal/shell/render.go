package shell

import (
	"fmt"
	"io"

	"github.com/roach88/timers/internal/timer"
)

// shortIDLen is how much of an ID the list view prints.
const shortIDLen = 8

// WriteList renders l as a fixed-width table, one timer per line, in list
// order. Running timers are marked with '*'.
func WriteList(w io.Writer, l timer.List) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No timers.")
		return
	}
	fmt.Fprintf(w, "  %-8s  %-24s  %-20s  %10s\n", "ID", "TITLE", "PROJECT", "ELAPSED")
	for _, t := range l {
		mark := " "
		if t.IsRunning {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-8s  %-24s  %-20s  %10s\n",
			mark, shortID(t.ID), t.Title, t.Project, timer.FormatElapsed(t.Elapsed))
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
