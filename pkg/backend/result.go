package backend

// Source identifies where a load was served from or where a write landed.
type Source int

const (
	// SourceNone means nothing was read or written.
	SourceNone Source = iota
	SourceMemory
	SourceFile
	SourceRemote
	// SourceFallback means the remote backend failed and the local fallback
	// served the call instead.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceMemory:
		return "memory"
	case SourceFile:
		return "file"
	case SourceRemote:
		return "remote"
	case SourceFallback:
		return "fallback"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode as
// SourceNone.
func (s *Source) UnmarshalText(text []byte) error {
	switch string(text) {
	case "memory":
		*s = SourceMemory
	case "file":
		*s = SourceFile
	case "remote":
		*s = SourceRemote
	case "fallback":
		*s = SourceFallback
	default:
		*s = SourceNone
	}
	return nil
}

// Outcome is shared by load and persist results.
type Outcome struct {
	Source Source

	// Err describes why the call degraded, if it did. It is informational:
	// the call itself still completed.
	Err error
}

// Degraded reports whether the call hit a failure along the way.
func (o Outcome) Degraded() bool {
	return o.Err != nil
}

// LoadResult carries the records a backend produced.
type LoadResult[T any] struct {
	Outcome
	Records []T
}

// PersistResult reports where a write landed.
type PersistResult struct {
	Outcome
}

// Persisted builds a PersistResult.
func Persisted(source Source, err error) PersistResult {
	return PersistResult{Outcome{Source: source, Err: err}}
}

// Loaded builds a LoadResult.
func Loaded[T any](records []T, source Source, err error) LoadResult[T] {
	return LoadResult[T]{Outcome: Outcome{Source: source, Err: err}, Records: records}
}
