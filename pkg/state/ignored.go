package state

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/realm-engine/pkg/tags"
)

// Ignored reports a command that left the state unchanged, and why. Handlers return it
// as an error value; callers log it and carry on.
type Ignored struct {
	Command tags.Kind
	Reason  string
}

func (e *Ignored) Error() string {
	return fmt.Sprintf("%s ignored: %s", e.Command, e.Reason)
}

func ignore(kind tags.Kind, format string, args ...any) *Ignored {
	return &Ignored{Command: kind, Reason: fmt.Sprintf(format, args...)}
}

// IsIgnored reports whether err is (or wraps) an *Ignored.
func IsIgnored(err error) bool {
	var ig *Ignored
	return errors.As(err, &ig)
}

// Errors returned by player actions.
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrQuestNotFound = errors.New("quest not found")
	ErrSlotNotFound  = errors.New("equipment slot not found")
	ErrNotEquipment  = errors.New("item is not equipment")
	ErrLevelTooLow   = errors.New("level too low for item")
	ErrInvalidAmount = errors.New("invalid quantity")
	ErrNotFound      = errors.New("entry not found")
	ErrInvalidStatus = errors.New("quest is not awaiting acceptance")
	ErrEmptyName     = errors.New("name must not be empty")
	ErrNotConsumable = errors.New("item cannot be used")
	ErrSlotEmpty     = errors.New("equipment slot is empty")
)
