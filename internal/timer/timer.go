package timer

// Timer is one trackable task.
type Timer struct {
	// ID is assigned once by the Factory and never changes.
	ID string `json:"id" yaml:"id"`

	Title   string `json:"title" yaml:"title"`
	Project string `json:"project" yaml:"project"`

	// Elapsed is accumulated running time in milliseconds.
	Elapsed int64 `json:"elapsed" yaml:"elapsed"`

	IsRunning bool `json:"isRunning" yaml:"is_running"`
}

// List is an ordered timer collection, most recently created first.
type List []Timer

// Len returns the number of timers in the list.
func (l List) Len() int {
	return len(l)
}

// Find returns the timer with the given ID.
func (l List) Find(id string) (Timer, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Timer{}, false
	}
	return l[i], true
}

// IDs returns the timer IDs in list order.
func (l List) IDs() []string {
	ids := make([]string, len(l))
	for i, t := range l {
		ids[i] = t.ID
	}
	return ids
}

// Running returns how many timers are currently running.
func (l List) Running() int {
	n := 0
	for _, t := range l {
		if t.IsRunning {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no backing array with l.
func (l List) Clone() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

func (l List) indexOf(id string) int {
	for i, t := range l {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Factory builds new timers.
//
// Thread-safety: Factory is as safe as its IDGenerator. Both generators in
// this package are safe for concurrent use.
type Factory struct {
	ids IDGenerator
}

// NewFactory returns a factory drawing IDs from gen. A nil gen falls back
// to UUIDGenerator.
func NewFactory(gen IDGenerator) *Factory {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Factory{ids: gen}
}

// Create returns a stopped timer with zero elapsed time and a fresh ID.
// Title and project are taken as given; empty values are allowed.
func (f *Factory) Create(title, project string) Timer {
	return Timer{
		ID:        f.ids.Generate(),
		Title:     title,
		Project:   project,
		Elapsed:   0,
		IsRunning: false,
	}
}
