package config

const (
	defaultBackend      = "memory"
	defaultCloudTimeout = 5.0

	defaultServerListen  = ":8081"
	defaultServerStorage = "memory"

	defaultEventStreamProvider = "nop"
	defaultEventStreamTopic    = "recall.persisted"
)

var defaultSuffixes = []string{".txt", ".md"}

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Knowledge: KnowledgeConfig{
			BackendConfig: BackendConfig{
				Backend:      defaultBackend,
				CloudTimeout: defaultCloudTimeout,
			},
			Suffixes: append([]string(nil), defaultSuffixes...),
		},
		History: BackendConfig{
			Backend:      defaultBackend,
			CloudTimeout: defaultCloudTimeout,
		},
		Server: ServerConfig{
			Listen:  defaultServerListen,
			Storage: defaultServerStorage,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
	}
}
