package gcal

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// DefaultScopes are the Google OAuth scopes required for availability
// checks and event booking.
var DefaultScopes = []string{calendar.CalendarScope}

// TokenProvider is an interface for providing OAuth token sources for the
// Calendar API. This abstraction allows different credential sources
// (service account files, workload identity, static tokens in tests).
type TokenProvider interface {
	// TokenSource returns a token source valid for the configured scopes.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// FileTokenProvider provides tokens from a service account key file on
// disk. The file is read on every call, so the key can be rotated while
// the service is running.
type FileTokenProvider struct {
	// Path is the location of the service account JSON key file.
	Path string

	// Scopes overrides DefaultScopes when non-empty.
	Scopes []string
}

// NewFileTokenProvider creates a provider that reads the service account
// key at path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{Path: path}
}

// TokenSource loads the key file and builds a JWT token source from it.
func (p *FileTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	scopes := p.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account file %s: %w", p.Path, err)
	}

	return conf.TokenSource(ctx), nil
}
