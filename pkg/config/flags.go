package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --kb-backend
// on "recall ingest", "recall search" and "recall watch").
type Flag struct {
	// Name is the long flag name (e.g. "kb-backend").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "knowledge.backend").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags to
// avoid typos or drift from one command to another.
const (
	FlagKnowledgeBackend = "kb-backend"
	FlagKnowledgeFile    = "kb-file"
	FlagKnowledgeURL     = "kb-url"
	FlagSourceDir        = "source-dir"
	FlagHistoryBackend   = "history-backend"
	FlagHistoryFile      = "history-file"
	FlagHistoryURL       = "history-url"
	FlagListen           = "listen"
	FlagStorage          = "storage"
	FlagSQLite           = "sqlite"
	FlagPostgresDSN      = "postgres-dsn"
	FlagToken            = "token"
	FlagEventStream      = "eventstream"
)

// StoreFlags are the flags shared by every command that opens a store.
var StoreFlags = FlagSet{
	FlagKnowledgeBackend: {Name: "kb-backend", ViperKey: "knowledge.backend", Description: "Knowledge store backend (memory, file, cloud)"},
	FlagKnowledgeFile:    {Name: "kb-file", ViperKey: "knowledge.file_path", Description: "Knowledge store JSON file"},
	FlagKnowledgeURL:     {Name: "kb-url", ViperKey: "knowledge.cloud_url", Description: "Knowledge store remote endpoint"},
	FlagSourceDir:        {Name: "source-dir", ViperKey: "knowledge.source_dir", Description: "Directory of documents to ingest"},
	FlagHistoryBackend:   {Name: "history-backend", ViperKey: "history.backend", Description: "History store backend (memory, file, cloud)"},
	FlagHistoryFile:      {Name: "history-file", ViperKey: "history.file_path", Description: "History JSON file"},
	FlagHistoryURL:       {Name: "history-url", ViperKey: "history.cloud_url", Description: "History remote endpoint"},
	FlagEventStream:      {Name: "eventstream", ViperKey: "eventstream.provider", Description: "Persist event publisher (nop, kafka)"},
}

// ServerFlags are the flags of the serve command.
var ServerFlags = FlagSet{
	FlagListen:      {Name: "listen", Shorthand: "l", ViperKey: "server.listen", Description: "Address for the server to listen on"},
	FlagStorage:     {Name: "storage", ViperKey: "server.storage", Description: "Server storage (memory, sqlite, postgres)"},
	FlagSQLite:      {Name: "sqlite", Shorthand: "s", ViperKey: "server.sqlite_path", Description: "Path to SQLite database"},
	FlagPostgresDSN: {Name: "postgres-dsn", ViperKey: "server.postgres_dsn", Description: "PostgreSQL connection string"},
	FlagToken:       {Name: "token", ViperKey: "server.token", Description: "Bearer token required by the /v1 routes"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddStringFlags registers every flag of fs on cmd, discarding the values;
// read them back through viper after BindRegisteredFlags.
func AddStringFlags(cmd *cobra.Command, fs FlagSet, keys ...string) {
	for _, key := range keys {
		var sink string
		AddStringFlag(cmd, fs, key, &sink)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// Keys returns the registry keys of fs.
func (fs FlagSet) Keys() []string {
	keys := make([]string, 0, len(fs))
	for k := range fs {
		keys = append(keys, k)
	}
	return keys
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// ResolveCommandConfig runs the precedence chain for cmd: it reads the
// --config-dir flag, binds every flag of each set that cmd registered and
// returns the validated configuration.
func ResolveCommandConfig(cmd *cobra.Command, sets ...FlagSet) (*Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}
	for _, fs := range sets {
		BindRegisteredFlags(v, cmd, fs, fs.Keys())
	}

	return FromViper(v)
}
