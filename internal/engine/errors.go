package engine

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by Run when the engine loop was already started.
var ErrAlreadyRunning = errors.New("engine already running")

// IntentError reports an intent the engine cannot interpret.
//
// Intents that name unknown timers are not errors; they are silent no-ops.
// IntentError only covers malformed intents, such as an unknown Kind,
// which indicate a programming error in the caller.
type IntentError struct {
	Kind    IntentKind
	Message string
}

// Error implements the error interface.
func (e *IntentError) Error() string {
	return fmt.Sprintf("intent %s: %s", e.Kind, e.Message)
}

// NewIntentError creates an IntentError.
func NewIntentError(kind IntentKind, message string) *IntentError {
	return &IntentError{Kind: kind, Message: message}
}

// IsIntentError reports whether err is, or wraps, an IntentError.
func IsIntentError(err error) bool {
	var ie *IntentError
	return errors.As(err, &ie)
}
