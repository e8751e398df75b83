package timer

import "fmt"

// FormatElapsed renders milliseconds as HH:MM:SS. Hours are not wrapped,
// so long-running timers show e.g. "313:40:33".
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
