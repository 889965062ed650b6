package requests

import (
	"fmt"
	"time"
)

// Remaining is the derived display state for a confirmation window.
type Remaining struct {
	Text   string `json:"text"`
	Urgent bool   `json:"urgent"`
}

// Urgency thresholds for the confirmation countdown. Under two hours the text
// switches to minute precision; under six hours the entry is flagged urgent.
const (
	minutePrecisionWindow = 2 * time.Hour
	urgentWindow          = 6 * time.Hour
)

// TimeRemaining maps an expiry timestamp to its countdown text and urgency
// flag. Pure; callers must re-evaluate on every poll tick since "now" moves.
func TimeRemaining(expiresAt, now time.Time) Remaining {
	left := expiresAt.Sub(now)
	if left <= 0 {
		return Remaining{Text: "Expired", Urgent: true}
	}

	switch {
	case left < minutePrecisionWindow:
		return Remaining{Text: fmt.Sprintf("%d min left", int(left.Minutes())), Urgent: true}
	case left < urgentWindow:
		return Remaining{Text: fmt.Sprintf("%d hr left", int(left.Hours())), Urgent: true}
	default:
		return Remaining{Text: fmt.Sprintf("%d hr left", int(left.Hours())), Urgent: false}
	}
}
