package processing

import (
	"fmt"
	"strings"
	"time"

	"github.com/spacesedan/firebird/internal/models"
)

// WindowPolicy decides when a campaign is due for deactivation.
type WindowPolicy int

const (
	// WindowExpireAfterEnd evaluates campaigns inside [start, end) and retires
	// them once end has passed.
	WindowExpireAfterEnd WindowPolicy = iota
	// WindowLegacyInverted retires a campaign while its end is still ahead
	// and evaluates it afterwards. Kept to replay runs of the old scheduler.
	WindowLegacyInverted
)

func (p WindowPolicy) String() string {
	switch p {
	case WindowLegacyInverted:
		return "legacy"
	default:
		return "expire"
	}
}

func ParseWindowPolicy(s string) (WindowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "expire":
		return WindowExpireAfterEnd, nil
	case "legacy":
		return WindowLegacyInverted, nil
	default:
		return 0, fmt.Errorf("unknown window policy %q (want expire or legacy)", s)
	}
}

type windowState int

const (
	windowOpen windowState = iota
	windowExpired
	windowNotStarted
)

func checkWindow(policy WindowPolicy, c models.Campaign, now time.Time) windowState {
	end := c.End()
	if policy == WindowLegacyInverted {
		if end.After(now) {
			return windowExpired
		}
		return windowOpen
	}

	switch {
	case !now.Before(end):
		return windowExpired
	case now.Before(c.Start):
		return windowNotStarted
	default:
		return windowOpen
	}
}
