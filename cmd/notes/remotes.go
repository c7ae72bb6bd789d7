package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// RemotesConfig holds all named remotes and tracks which one is active.
type RemotesConfig struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

// Remote is a named server profile. Session is the login cookie value saved
// by "notes login" and cleared by "notes logout".
type Remote struct {
	URL     string `toml:"url"`
	Session string `toml:"session,omitempty"`
	NATSURL string `toml:"nats_url,omitempty"`
}

func remoteConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "notes")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "remotes.toml"), nil
}

func loadRemotesConfig() (RemotesConfig, error) {
	path, err := remoteConfigPath()
	if err != nil {
		return RemotesConfig{}, err
	}
	var cfg RemotesConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return RemotesConfig{Remotes: map[string]Remote{}}, nil
		}
		return RemotesConfig{}, err
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]Remote{}
	}
	return cfg, nil
}

func saveRemotesConfig(cfg RemotesConfig) error {
	path, err := remoteConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// defaultRemoteName is used when no remote is configured and a session must
// still be saved for --server.
const defaultRemoteName = "default"

// target is the server a command talks to.
type target struct {
	Name    string // remote name the session is saved under
	URL     string
	Session string
	NATSURL string
}

// resolveTarget picks the remote named by --remote, else the active one,
// else "default". A --server flag or NOTES_SERVER overrides its URL; the
// saved session is only reused when the URL is unchanged.
func resolveTarget(cfg RemotesConfig, remoteName, serverURL string) (target, error) {
	name := remoteName
	if name == "" {
		name = cfg.Active
	}
	if name == "" {
		name = defaultRemoteName
	}

	r, ok := cfg.Remotes[name]
	if !ok && remoteName != "" {
		return target{}, fmt.Errorf("remote %q not found", remoteName)
	}

	t := target{Name: name, URL: r.URL, Session: r.Session, NATSURL: r.NATSURL}
	if serverURL != "" && serverURL != r.URL {
		t.URL = serverURL
		t.Session = ""
	}
	if t.URL == "" {
		t.URL = defaultServerURL
	}
	return t, nil
}

// saveSession stores the session token for t, creating the remote when it
// does not exist yet. An empty token clears the saved session.
func saveSession(t target, token string) error {
	cfg, err := loadRemotesConfig()
	if err != nil {
		return err
	}
	r := cfg.Remotes[t.Name]
	if r.URL != "" && r.URL != t.URL && token != "" {
		// The session belongs to a different server than the saved remote.
		return fmt.Errorf("remote %q points at %s, not %s; add a remote for this server first", t.Name, r.URL, t.URL)
	}
	if r.URL == "" {
		r.URL = t.URL
	}
	r.Session = token
	cfg.Remotes[t.Name] = r
	if cfg.Active == "" {
		cfg.Active = t.Name
	}
	return saveRemotesConfig(cfg)
}
