// Package prefs remembers where the user left the UI between runs.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const stateFile = "state.json"

// State is the UI position restored on startup.
type State struct {
	Page         int    `json:"page"`
	WikiType     string `json:"wiki_type,omitempty"`
	WikiTable    bool   `json:"wiki_table,omitempty"`
	InstanceType string `json:"instance_type,omitempty"`
}

func statePath() (string, error) {
	dir := os.Getenv("SHEETDESK_STATE_DIR")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "sheetdesk")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFile), nil
}

func SaveState(s State) error {
	path, err := statePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadState returns the zero State when nothing was saved.
func LoadState() (State, error) {
	path, err := statePath()
	if err != nil {
		return State{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}
	return s, nil
}
