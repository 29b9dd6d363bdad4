package config

import (
	"time"

	"go.uber.org/zap"

	backendutils "github.com/papercomputeco/recall/pkg/backend/utils"
)

// BackendOptions converts the section into backend construction options.
// defaultPath is used as the file path when none is configured, which also
// makes it the cloud backend's fallback file.
func (b BackendConfig) BackendOptions(defaultPath string, logger *zap.Logger) *backendutils.Options {
	filePath := b.FilePath
	if filePath == "" {
		filePath = defaultPath
	}

	return &backendutils.Options{
		Kind:         b.Backend,
		FilePath:     filePath,
		CloudURL:     b.CloudURL,
		CloudToken:   b.CloudToken,
		CloudTimeout: time.Duration(b.CloudTimeout * float64(time.Second)),
		FallbackPath: b.FallbackPath,
		Logger:       logger,
	}
}
