package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papercomputeco/recall/pkg/backend"
)

// Validate checks that every selector names a supported implementation and
// that each selected backend has what it needs. Paths left empty for file
// backends are filled from the .recall/ directory later, so they are not
// checked here.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Knowledge.validate("knowledge"); err != nil {
		errs = append(errs, err)
	}
	if err := c.History.validate("history"); err != nil {
		errs = append(errs, err)
	}
	if err := validateServerStorage(c.Server.Storage); err != nil {
		errs = append(errs, err)
	}
	if strings.EqualFold(c.Server.Storage, "postgres") && c.Server.PostgresDSN == "" {
		errs = append(errs, errors.New("server.postgres_dsn is required for postgres storage"))
	}
	if err := validateEventStreamProvider(c.EventStream.Provider); err != nil {
		errs = append(errs, err)
	}
	if strings.EqualFold(c.EventStream.Provider, "kafka") && len(c.EventStream.Brokers) == 0 {
		errs = append(errs, errors.New("eventstream.brokers is required for kafka"))
	}

	return errors.Join(errs...)
}

func (b BackendConfig) validate(section string) error {
	kind, err := backend.ParseKind(b.Backend)
	if err != nil {
		return fmt.Errorf("%s.backend: %w", section, err)
	}
	if kind == backend.KindCloud && strings.TrimSpace(b.CloudURL) == "" {
		return fmt.Errorf("%s.cloud_url: %w: cloud backend requires a URL", section, backend.ErrInvalidConfig)
	}
	if b.CloudTimeout < 0 {
		return fmt.Errorf("%s.cloud_timeout: must be positive", section)
	}
	return nil
}

func validateServerStorage(v string) error {
	switch strings.ToLower(v) {
	case "", "memory", "sqlite", "postgres":
		return nil
	default:
		return fmt.Errorf("unsupported server storage: %q (available: memory, sqlite, postgres)", v)
	}
}

func validateEventStreamProvider(v string) error {
	switch strings.ToLower(v) {
	case "", "nop", "none", "kafka":
		return nil
	default:
		return fmt.Errorf("unsupported eventstream provider: %q (available: nop, kafka)", v)
	}
}
