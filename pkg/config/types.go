package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/papercomputeco/recall/pkg/backend"
)

// Config represents the persistent recall configuration stored as config.toml
// in the .recall/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Knowledge   KnowledgeConfig   `toml:"knowledge"`
	History     BackendConfig     `toml:"history"`
	Server      ServerConfig      `toml:"server"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// BackendConfig selects where a store persists. It is shared by the
// knowledge and history sections.
type BackendConfig struct {
	Backend    string `toml:"backend,omitempty"`
	FilePath   string `toml:"file_path,omitempty"`
	CloudURL   string `toml:"cloud_url,omitempty"`
	CloudToken string `toml:"cloud_token,omitempty"`

	// CloudTimeout is in seconds.
	CloudTimeout float64 `toml:"cloud_timeout,omitempty"`

	FallbackPath string `toml:"fallback_path,omitempty"`
}

// KnowledgeConfig holds knowledge store settings.
type KnowledgeConfig struct {
	BackendConfig

	// SourceDir is the directory ingested by "recall ingest" and "recall watch".
	SourceDir string   `toml:"source_dir,omitempty"`
	Suffixes  []string `toml:"suffixes,omitempty"`
}

// ServerConfig holds settings for the reference remote backend service.
type ServerConfig struct {
	Listen      string `toml:"listen,omitempty"`
	Storage     string `toml:"storage,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
	Token       string `toml:"token,omitempty"`
}

// EventStreamConfig holds persist event publishing settings.
type EventStreamConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{}

func init() {
	addBackendKeys("knowledge", func(c *Config) *BackendConfig { return &c.Knowledge.BackendConfig })
	addBackendKeys("history", func(c *Config) *BackendConfig { return &c.History })

	configKeys["knowledge.source_dir"] = configKeyInfo{
		get: func(c *Config) string { return c.Knowledge.SourceDir },
		set: func(c *Config, v string) error { c.Knowledge.SourceDir = v; return nil },
	}
	configKeys["knowledge.suffixes"] = configKeyInfo{
		get: func(c *Config) string { return strings.Join(c.Knowledge.Suffixes, ",") },
		set: func(c *Config, v string) error { c.Knowledge.Suffixes = splitList(v); return nil },
	}

	configKeys["server.listen"] = configKeyInfo{
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	}
	configKeys["server.storage"] = configKeyInfo{
		get: func(c *Config) string { return c.Server.Storage },
		set: func(c *Config, v string) error {
			if err := validateServerStorage(v); err != nil {
				return err
			}
			c.Server.Storage = v
			return nil
		},
	}
	configKeys["server.sqlite_path"] = configKeyInfo{
		get: func(c *Config) string { return c.Server.SQLitePath },
		set: func(c *Config, v string) error { c.Server.SQLitePath = v; return nil },
	}
	configKeys["server.postgres_dsn"] = configKeyInfo{
		get: func(c *Config) string { return c.Server.PostgresDSN },
		set: func(c *Config, v string) error { c.Server.PostgresDSN = v; return nil },
	}
	configKeys["server.token"] = configKeyInfo{
		get: func(c *Config) string { return c.Server.Token },
		set: func(c *Config, v string) error { c.Server.Token = v; return nil },
	}

	configKeys["eventstream.provider"] = configKeyInfo{
		get: func(c *Config) string { return c.EventStream.Provider },
		set: func(c *Config, v string) error {
			if err := validateEventStreamProvider(v); err != nil {
				return err
			}
			c.EventStream.Provider = v
			return nil
		},
	}
	configKeys["eventstream.brokers"] = configKeyInfo{
		get: func(c *Config) string { return strings.Join(c.EventStream.Brokers, ",") },
		set: func(c *Config, v string) error { c.EventStream.Brokers = splitList(v); return nil },
	}
	configKeys["eventstream.topic"] = configKeyInfo{
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	}
}

func addBackendKeys(section string, sel func(*Config) *BackendConfig) {
	configKeys[section+".backend"] = configKeyInfo{
		get: func(c *Config) string { return sel(c).Backend },
		set: func(c *Config, v string) error {
			if _, err := backend.ParseKind(v); err != nil {
				return fmt.Errorf("invalid value for %s.backend: %w", section, err)
			}
			sel(c).Backend = v
			return nil
		},
	}
	configKeys[section+".file_path"] = configKeyInfo{
		get: func(c *Config) string { return sel(c).FilePath },
		set: func(c *Config, v string) error { sel(c).FilePath = v; return nil },
	}
	configKeys[section+".cloud_url"] = configKeyInfo{
		get: func(c *Config) string { return sel(c).CloudURL },
		set: func(c *Config, v string) error { sel(c).CloudURL = v; return nil },
	}
	configKeys[section+".cloud_token"] = configKeyInfo{
		get: func(c *Config) string { return sel(c).CloudToken },
		set: func(c *Config, v string) error { sel(c).CloudToken = v; return nil },
	}
	configKeys[section+".cloud_timeout"] = configKeyInfo{
		get: func(c *Config) string {
			if sel(c).CloudTimeout == 0 {
				return ""
			}
			return strconv.FormatFloat(sel(c).CloudTimeout, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s.cloud_timeout: %w", section, err)
			}
			if f <= 0 {
				return fmt.Errorf("invalid value for %s.cloud_timeout: must be positive", section)
			}
			sel(c).CloudTimeout = f
			return nil
		},
	}
	configKeys[section+".fallback_path"] = configKeyInfo{
		get: func(c *Config) string { return sel(c).FallbackPath },
		set: func(c *Config, v string) error { sel(c).FallbackPath = v; return nil },
	}
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
