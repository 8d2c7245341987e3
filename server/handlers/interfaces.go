// Package handlers provides HTTP handlers for the signupboard server.
//
// Each handler is in its own file and implements http.Handler.
// Handlers use interfaces to access server dependencies, avoiding
// circular imports.
package handlers

import (
	"context"

	"github.com/nomis52/signupboard/board"
	"github.com/nomis52/signupboard/config"
	"github.com/nomis52/signupboard/logging"
	"github.com/nomis52/signupboard/server/types"
)

// ConfigProvider provides access to the current configuration.
type ConfigProvider interface {
	Config() *config.Config
}

// Reloader can reload its configuration.
type Reloader interface {
	Reload() error
}

// BoardLoader refreshes the board from the backend.
type BoardLoader interface {
	Load(ctx context.Context) error
}

// SignupSubmitter submits one visitor's signup form.
type SignupSubmitter interface {
	Submit(ctx context.Context, form *board.Form) board.Outcome
}

// BoardState is the activity board shared by every visitor.
type BoardState interface {
	Snapshot() board.Snapshot
}

// PropertiesProvider describes the running server.
type PropertiesProvider interface {
	Properties() types.ServerProperties
}

// EventSource returns recently logged events.
type EventSource interface {
	Entries(component string) []logging.LogEntry
}
