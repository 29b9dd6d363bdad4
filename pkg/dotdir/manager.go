// Package dotdir resolves the recall state directory. It holds config.toml,
// the file backends' knowledge.json and history.json, and the SQLite database
// used by "recall serve".
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName = ".recall"

	// HomeEnv names a state directory that wins over any project directory.
	HomeEnv = "RECALL_HOME"
)

// Manager resolves and creates the state directory.
type Manager struct {
	getwd   func() (string, error)
	homeDir func() (string, error)
}

func NewManager() *Manager {
	return &Manager{getwd: os.Getwd, homeDir: os.UserHomeDir}
}

// Target returns the absolute state directory, creating it when missing.
// The first match wins:
//  1. overrideDir (the --config-dir flag)
//  2. $RECALL_HOME
//  3. the nearest .recall/ in the working directory or one of its parents,
//     so commands run from a subdirectory share the project's state
//  4. ~/.recall/
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating recall directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}
	if env := os.Getenv(HomeEnv); env != "" {
		return env, nil
	}

	cwd, err := m.getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if project, ok := findProjectDir(cwd); ok {
		return project, nil
	}

	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// findProjectDir walks from start up to the filesystem root looking for a
// .recall directory.
func findProjectDir(start string) (string, bool) {
	for dir := start; ; {
		candidate := filepath.Join(dir, dirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
