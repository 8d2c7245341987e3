package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nomis52/signupboard/board"
)

// printBoard writes the board as plain text.
func printBoard(w io.Writer, s board.Snapshot) {
	if s.Notice != "" {
		fmt.Fprintln(w, s.Notice)
		return
	}
	if len(s.Cards) == 0 {
		fmt.Fprintln(w, "No activities")
		return
	}

	for i, c := range s.Cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, c.Name)
		fmt.Fprintf(w, "  %s\n", c.Description)
		fmt.Fprintf(w, "  Schedule: %s\n", c.Schedule)
		fmt.Fprintf(w, "  Availability: %d spots left\n", c.SpotsLeft)
		fmt.Fprintf(w, "  Participants (%d):", len(c.Participants))
		if len(c.Participants) == 0 {
			fmt.Fprintf(w, " %s\n", board.NoParticipantsText)
			continue
		}
		fmt.Fprintln(w)
		for _, p := range c.Participants {
			fmt.Fprintf(w, "    [%s] %s\n", p.Initials, p.Email)
		}
	}
}

// printMessage writes the status message, if one is showing.
func printMessage(w io.Writer, m board.Message) {
	if !m.Visible {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(m.Mode)), m.Text)
}
