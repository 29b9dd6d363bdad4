package dotdir

import "path/filepath"

const (
	knowledgeFile = "knowledge.json"
	historyFile   = "history.json"
	sqliteFile    = "recall.sqlite"
)

// KnowledgePath returns the default knowledge store file inside the target
// .recall/ directory.
func (m *Manager) KnowledgePath(overrideDir string) (string, error) {
	return m.file(overrideDir, knowledgeFile)
}

// HistoryPath returns the default history file inside the target .recall/
// directory.
func (m *Manager) HistoryPath(overrideDir string) (string, error) {
	return m.file(overrideDir, historyFile)
}

// SQLitePath returns the default server database inside the target .recall/
// directory.
func (m *Manager) SQLitePath(overrideDir string) (string, error) {
	return m.file(overrideDir, sqliteFile)
}

func (m *Manager) file(overrideDir, name string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
