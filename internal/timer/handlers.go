package timer

// DefaultTickDelta is the elapsed time added per tick, in milliseconds.
const DefaultTickDelta int64 = 1000

// CreatePayload carries the form values for a new timer.
type CreatePayload struct {
	Title   string `json:"title"`
	Project string `json:"project"`
}

// EditPayload carries replacement form values for an existing timer.
type EditPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Project string `json:"project"`
}

// Create returns a new list with a freshly made timer prepended.
// The created timer is returned alongside so callers can record its ID.
func Create(l List, f *Factory, p CreatePayload) (List, Timer) {
	t := f.Create(p.Title, p.Project)

	out := make(List, 0, len(l)+1)
	out = append(out, t)
	out = append(out, l...)
	return out, t
}

// Edit returns a list where the timer matching p.ID has its title and
// project overwritten. Elapsed time and running state are kept.
// An unknown ID returns l unchanged.
func Edit(l List, p EditPayload) List {
	i := l.indexOf(p.ID)
	if i < 0 {
		return l
	}

	out := l.Clone()
	out[i].Title = p.Title
	out[i].Project = p.Project
	return out
}

// Remove returns a list without the timer matching id.
// An unknown ID returns l unchanged.
func Remove(l List, id string) List {
	i := l.indexOf(id)
	if i < 0 {
		return l
	}

	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	return out
}

// Toggle returns a list where the timer matching id has its running flag
// flipped. Start and stop are the same operation.
// An unknown ID returns l unchanged.
func Toggle(l List, id string) List {
	i := l.indexOf(id)
	if i < 0 {
		return l
	}

	out := l.Clone()
	out[i].IsRunning = !out[i].IsRunning
	return out
}

// Tick returns a list where every running timer has delta milliseconds
// added to its elapsed time. Stopped timers keep their values.
// A non-positive delta, or a list with nothing running, returns l unchanged.
func Tick(l List, delta int64) List {
	if delta <= 0 || l.Running() == 0 {
		return l
	}

	out := l.Clone()
	for i := range out {
		if out[i].IsRunning {
			out[i].Elapsed += delta
		}
	}
	return out
}
