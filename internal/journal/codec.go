package journal

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR decoder mode: %v", err))
	}
}

// intentPayload is the stored form of the intent fields not kept in
// their own columns.
type intentPayload struct {
	Title   string `cbor:"1,keyasint,omitempty"`
	Project string `cbor:"2,keyasint,omitempty"`
	Delta   int64  `cbor:"3,keyasint,omitempty"`
}

// storedTimer is the stored form of one timer in a session's initial list.
type storedTimer struct {
	ID        string `cbor:"1,keyasint"`
	Title     string `cbor:"2,keyasint,omitempty"`
	Project   string `cbor:"3,keyasint,omitempty"`
	Elapsed   int64  `cbor:"4,keyasint,omitempty"`
	IsRunning bool   `cbor:"5,keyasint,omitempty"`
}

func encodePayload(in engine.Intent) ([]byte, error) {
	data, err := encMode.Marshal(intentPayload{
		Title:   in.Title,
		Project: in.Project,
		Delta:   in.Delta,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

func decodePayload(data []byte, in *engine.Intent) error {
	var p intentPayload
	if err := decMode.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	in.Title = p.Title
	in.Project = p.Project
	in.Delta = p.Delta
	return nil
}

func encodeTimers(l timer.List) ([]byte, error) {
	stored := make([]storedTimer, len(l))
	for i, t := range l {
		stored[i] = storedTimer(t)
	}
	data, err := encMode.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode timers: %w", err)
	}
	return data, nil
}

func decodeTimers(data []byte) (timer.List, error) {
	var stored []storedTimer
	if err := decMode.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode timers: %w", err)
	}
	l := make(timer.List, len(stored))
	for i, s := range stored {
		l[i] = timer.Timer(s)
	}
	return l, nil
}
