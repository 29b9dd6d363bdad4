package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/recall/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the RECALL_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (RECALL_KNOWLEDGE_BACKEND, RECALL_SERVER_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("RECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	setBackendDefaults(v, "knowledge", d.Knowledge.BackendConfig)
	v.SetDefault("knowledge.source_dir", d.Knowledge.SourceDir)
	v.SetDefault("knowledge.suffixes", d.Knowledge.Suffixes)

	setBackendDefaults(v, "history", d.History)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.storage", d.Server.Storage)
	v.SetDefault("server.sqlite_path", d.Server.SQLitePath)
	v.SetDefault("server.postgres_dsn", d.Server.PostgresDSN)
	v.SetDefault("server.token", d.Server.Token)

	v.SetDefault("eventstream.provider", d.EventStream.Provider)
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
	v.SetDefault("eventstream.topic", d.EventStream.Topic)
}

func setBackendDefaults(v *viper.Viper, section string, b BackendConfig) {
	v.SetDefault(section+".backend", b.Backend)
	v.SetDefault(section+".file_path", b.FilePath)
	v.SetDefault(section+".cloud_url", b.CloudURL)
	v.SetDefault(section+".cloud_token", b.CloudToken)
	v.SetDefault(section+".cloud_timeout", b.CloudTimeout)
	v.SetDefault(section+".fallback_path", b.FallbackPath)
}

// FromViper resolves the effective configuration from v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Version: v.GetInt("version"),
		Knowledge: KnowledgeConfig{
			BackendConfig: backendFromViper(v, "knowledge"),
			SourceDir:     v.GetString("knowledge.source_dir"),
			Suffixes:      stringList(v, "knowledge.suffixes"),
		},
		History: backendFromViper(v, "history"),
		Server: ServerConfig{
			Listen:      v.GetString("server.listen"),
			Storage:     v.GetString("server.storage"),
			SQLitePath:  v.GetString("server.sqlite_path"),
			PostgresDSN: v.GetString("server.postgres_dsn"),
			Token:       v.GetString("server.token"),
		},
		EventStream: EventStreamConfig{
			Provider: v.GetString("eventstream.provider"),
			Brokers:  stringList(v, "eventstream.brokers"),
			Topic:    v.GetString("eventstream.topic"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func backendFromViper(v *viper.Viper, section string) BackendConfig {
	return BackendConfig{
		Backend:      v.GetString(section + ".backend"),
		FilePath:     v.GetString(section + ".file_path"),
		CloudURL:     v.GetString(section + ".cloud_url"),
		CloudToken:   v.GetString(section + ".cloud_token"),
		CloudTimeout: v.GetFloat64(section + ".cloud_timeout"),
		FallbackPath: v.GetString(section + ".fallback_path"),
	}
}

// stringList reads a list that may come from TOML as an array or from the
// environment as a comma-separated string.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		out = append(out, splitList(item)...)
	}
	return out
}
