package synthesis

import (
	"fmt"
	"strings"
)

// Mode selects how passages are fed to the completer.
type Mode int

const (
	// ModeCompact answers from all passages in a single call.
	ModeCompact Mode = iota
	// ModeRefine answers batch by batch, refining the previous reply.
	ModeRefine
)

func (m Mode) String() string {
	switch m {
	case ModeCompact:
		return "compact"
	case ModeRefine:
		return "refine"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name ("compact" or "refine") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compact":
		return ModeCompact, nil
	case "refine":
		return ModeRefine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
