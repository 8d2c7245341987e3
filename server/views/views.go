// Package views renders the signup board as HTML.
//
// Components are written in views.templ; run `templ generate` after
// editing it. Full page loads get Page; HTMX requests get Board, which
// swaps in place. Card markup comes from board.CardHTML so backend text is
// escaped the same way everywhere.
package views

import (
	"strconv"
	"time"
)

// Props carries per-request rendering settings.
type Props struct {
	// CSRFField is a hidden input holding the CSRF token, empty when CSRF
	// protection is off. It is written unescaped.
	CSRFField string
	// HideMessageAfter is how long a status message stays on screen before
	// the browser fetches the empty message area. Zero keeps it showing.
	HideMessageAfter time.Duration
	// PollInterval makes the browser re-fetch the activity list. Zero
	// disables polling.
	PollInterval time.Duration
}

// htmxDelay formats d as an htmx time value, e.g. "5s" or "250ms".
func htmxDelay(d time.Duration) string {
	if d%time.Second == 0 {
		return strconv.FormatInt(int64(d/time.Second), 10) + "s"
	}
	return strconv.FormatInt(max(d.Milliseconds(), 1), 10) + "ms"
}

func hideTrigger(d time.Duration) string {
	return "load delay:" + htmxDelay(d)
}

func pollTrigger(d time.Duration) string {
	return "every " + htmxDelay(d)
}
