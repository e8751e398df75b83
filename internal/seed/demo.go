package seed

import "github.com/roach88/timers/internal/timer"

// Demo returns the built-in sample list used by --demo.
func Demo(gen timer.IDGenerator) timer.List {
	f := &File{Timers: []Entry{
		{Title: "Clean Bedroom", Project: "House Chores", Elapsed: 1126099},
		{Title: "Clean Kitty Litter", Project: "Pet Maintenance", Elapsed: 9233498, Running: true},
		{Title: "Remove Pizza Stain from Walls", Project: "Pizza Pizzazz", Elapsed: 4426439, Running: true},
		{Title: "Destroy Wasp Nest", Project: "Pest Maintenance", Elapsed: 1129233498, Running: true},
	}}

	// Entries carry no IDs and valid elapsed values, so Build cannot fail.
	l, _ := Build("demo", f, gen)
	return l
}
