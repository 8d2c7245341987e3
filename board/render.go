package board

import (
	"fmt"
	"strconv"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML replaces &, <, >, " and ' with their entities. It is the only
// sanitization applied to backend text before it is written into the page.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// OptionLabel is the text of a select entry.
func OptionLabel(name string, spotsLeft int) string {
	return fmt.Sprintf("%s (%d spots left)", name, spotsLeft)
}

// CardHTML returns the markup of an activity card.
func CardHTML(c Card) string {
	var b strings.Builder
	b.WriteString(`<div class="activity-card">`)
	b.WriteString(`<h4>` + EscapeHTML(c.Name) + `</h4>`)
	b.WriteString(`<p>` + EscapeHTML(c.Description) + `</p>`)
	b.WriteString(`<p><strong>Schedule:</strong> ` + EscapeHTML(c.Schedule) + `</p>`)
	b.WriteString(`<p><strong>Availability:</strong> ` + strconv.Itoa(c.SpotsLeft) + ` spots left</p>`)
	b.WriteString(`<div class="participants">`)
	b.WriteString(`<h5>Participants <span class="count">` + strconv.Itoa(len(c.Participants)) + `</span></h5>`)
	b.WriteString(RosterHTML(c.Participants))
	b.WriteString(`</div></div>`)
	return b.String()
}

// RosterHTML returns the participant list, or the empty-roster notice.
func RosterHTML(participants []Participant) string {
	if len(participants) == 0 {
		return `<p class="no-participants">` + NoParticipantsText + `</p>`
	}

	var b strings.Builder
	b.WriteString(`<ul class="participants-list">`)
	for _, p := range participants {
		b.WriteString(`<li><span class="avatar">` + EscapeHTML(p.Initials) + `</span>`)
		b.WriteString(`<span class="participant-email">` + EscapeHTML(p.Email) + `</span></li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}
