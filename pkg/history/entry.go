package history

import "time"

// Entry is one message in the conversation log.
type Entry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Normalize fills a missing timestamp with the current time.
func (e *Entry) Normalize() {
	if e.Timestamp == "" {
		e.Timestamp = formatTimestamp(time.Now())
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
