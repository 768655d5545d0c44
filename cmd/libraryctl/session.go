package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/infrastructure/backend"
)

// persistedCookie is the subset of http.Cookie worth keeping between runs.
type persistedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "libraryctl", "session.json"), nil
}

// restoreSession loads the persisted session cookie, if any, into the
// client's jar. Corrupt or missing state just means starting logged out.
func restoreSession(client *backend.Client, log zerolog.Logger) {
	path, err := sessionPath()
	if err != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var saved []persistedCookie
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Debug().Err(err).Msg("discarding unreadable session state")
		return
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, pc := range saved {
		cookies = append(cookies, &http.Cookie{
			Name:    pc.Name,
			Value:   pc.Value,
			Path:    pc.Path,
			Expires: pc.Expires,
		})
	}
	client.RestoreSessionCookies(cookies)
}

// saveSession writes the client's current cookies back to disk so the next
// invocation stays logged in.
func saveSession(client *backend.Client, log zerolog.Logger) {
	path, err := sessionPath()
	if err != nil {
		return
	}
	cookies := client.SessionCookies()
	saved := make([]persistedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, persistedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Debug().Err(err).Msg("cannot create session dir")
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Debug().Err(err).Msg("cannot persist session")
	}
}
