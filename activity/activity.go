package activity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidShape is returned when the backend document does not match the
// expected activity collection shape.
var ErrInvalidShape = errors.New("invalid activity collection shape")

// Activity is a single signup-able activity.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns the remaining capacity. It is not clamped at zero.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Entry pairs an activity with its name, which is the collection key.
type Entry struct {
	Name     string   `json:"name"`
	Activity Activity `json:"activity"`
}

// Collection is the full set of activities in backend document order.
type Collection []Entry

// Names returns the activity names in order.
func (c Collection) Names() []string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the activity with the given name.
func (c Collection) Lookup(name string) (Activity, bool) {
	for _, e := range c {
		if e.Name == name {
			return e.Activity, true
		}
	}
	return Activity{}, false
}

// SignupRequest is a registration of an email for a named activity.
type SignupRequest struct {
	Activity string
	Email    string
}

// SignupResult is the backend's answer to a successful signup.
type SignupResult struct {
	Message string `json:"message"`
}

// wireActivity mirrors Activity with pointer fields so that missing keys can
// be told apart from zero values.
type wireActivity struct {
	Description     *string   `json:"description"`
	Schedule        *string   `json:"schedule"`
	MaxParticipants *int      `json:"max_participants"`
	Participants    *[]string `json:"participants"`
}

func (w wireActivity) validate() error {
	switch {
	case w.Description == nil:
		return fmt.Errorf("missing description")
	case w.Schedule == nil:
		return fmt.Errorf("missing schedule")
	case w.MaxParticipants == nil:
		return fmt.Errorf("missing max_participants")
	case w.Participants == nil:
		return fmt.Errorf("missing participants")
	}
	return nil
}

// SyntaxError reports a document that is not valid JSON.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("decoding activity collection: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// DecodeCollection reads a JSON object mapping activity names to activities.
// Entries keep the order in which their keys appear in the document. A
// document that is not JSON yields a *SyntaxError; a well-formed document of
// the wrong shape yields an error wrapping ErrInvalidShape.
func DecodeCollection(r io.Reader) (Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}
	if !json.Valid(data) {
		return nil, &SyntaxError{Err: errors.New("invalid JSON document")}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: document is not an object", ErrInvalidShape)
	}

	collection := Collection{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &SyntaxError{Err: err}
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", ErrInvalidShape, tok)
		}

		var wire wireActivity
		if err := dec.Decode(&wire); err != nil {
			return nil, fmt.Errorf("%w: activity %q: %v", ErrInvalidShape, name, err)
		}
		if err := wire.validate(); err != nil {
			return nil, fmt.Errorf("%w: activity %q: %v", ErrInvalidShape, name, err)
		}

		entry := Entry{
			Name: name,
			Activity: Activity{
				Description:     *wire.Description,
				Schedule:        *wire.Schedule,
				MaxParticipants: *wire.MaxParticipants,
				Participants:    *wire.Participants,
			},
		}
		// A repeated key replaces the earlier value but keeps its position.
		if i, dup := seen[name]; dup {
			collection[i] = entry
			continue
		}
		seen[name] = len(collection)
		collection = append(collection, entry)
	}

	return collection, nil
}
