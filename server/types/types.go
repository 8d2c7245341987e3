// Package types provides shared types for the server package and its subpackages.
package types

import (
	"time"

	"github.com/nomis52/signupboard/buildinfo"
)

// ServerProperties holds metadata about the running server instance.
type ServerProperties struct {
	Build     buildinfo.Properties `json:"build"`
	StartedAt time.Time            `json:"started_at"`
	Hostname  string               `json:"hostname"`
	// BackendURL is the activities API the board is reading from.
	BackendURL string `json:"backend_url"`
	// NextRefresh is the next scheduled background refresh, if any.
	NextRefresh *time.Time `json:"next_refresh,omitempty"`
}
