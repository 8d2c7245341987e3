package board

// Texts shown to the user.
const (
	PlaceholderOptionLabel = "-- Select an activity --"
	NoParticipantsText     = "No participants yet"
	LoadFailedText         = "Failed to load activities. Please try again later."
	SignupFailedText       = "Failed to sign up. Please try again."
	GenericErrorText       = "An error occurred"
)

// MessageMode selects how a status message is styled.
type MessageMode string

const (
	ModeSuccess MessageMode = "success"
	ModeError   MessageMode = "error"
)

// MessageID identifies one showing of a status message.
type MessageID string

// Participant is one roster row.
type Participant struct {
	Initials string `json:"initials"`
	Email    string `json:"email"`
}

// Card is the rendered form of one activity. Text fields hold the raw
// backend values; escaping happens when the card is written out as HTML.
type Card struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Schedule     string        `json:"schedule"`
	SpotsLeft    int           `json:"spots_left"`
	Participants []Participant `json:"participants"`
}

// Option is one entry of the activity select.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PlaceholderOption is the "no selection" entry every select starts with.
var PlaceholderOption = Option{Value: "", Label: PlaceholderOptionLabel}

// ActivitiesList is the container the activity cards are rendered into.
type ActivitiesList interface {
	// ShowCards clears the container and fills it with cards.
	ShowCards(cards []Card)
	// ShowNotice clears the container and shows a single notice instead.
	ShowNotice(text string)
}

// ActivitySelect is the selectable list of activities.
type ActivitySelect interface {
	// SetOptions resets the select to the placeholder followed by options.
	SetOptions(options []Option)
}

// SignupForm is the form a user signs up with.
type SignupForm interface {
	// Values returns the current email and selected activity.
	Values() (email, activityName string)
	// Reset clears both fields.
	Reset()
}

// MessageArea is the status area shown after a signup attempt.
type MessageArea interface {
	// Show makes a message visible and returns its ID.
	Show(mode MessageMode, text string) MessageID
	// Hide hides whatever message is showing. id names the message the
	// caller meant to hide.
	Hide(id MessageID)
}
