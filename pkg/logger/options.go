package logger

import (
	"io"

	"go.uber.org/zap/zapcore"
)

type config struct {
	level   zapcore.Level
	json    bool
	noColor bool
	caller  bool
	writers []io.Writer
}

// Option configures a logger created with New.
type Option func(*config)

// WithDebug sets the log level to Debug when true, Info otherwise.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = zapcore.DebugLevel
		} else {
			c.level = zapcore.InfoLevel
		}
	}
}

// WithJSON switches to the JSON encoder for structured service logs.
func WithJSON(json bool) Option {
	return func(c *config) {
		c.json = json
	}
}

// WithNoColor disables ANSI level colors in console output.
func WithNoColor(noColor bool) Option {
	return func(c *config) {
		c.noColor = noColor
	}
}

// WithCaller toggles source file:line in log output. On by default.
func WithCaller(caller bool) Option {
	return func(c *config) {
		c.caller = caller
	}
}

// WithWriters sets the output writers. Defaults to os.Stderr.
func WithWriters(w ...io.Writer) Option {
	return func(c *config) {
		c.writers = w
	}
}
