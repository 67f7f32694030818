// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorAuto colors output when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"

	// FormatText renders check results for people.
	FormatText OutputFormat = "text"
	// FormatJSON renders check results as a JSON report.
	FormatJSON OutputFormat = "json"

	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

var (
	// ErrInvalidColorMode is returned for an unknown ColorMode.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidOutputFormat is returned for an unknown OutputFormat.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidLogLevel is returned for an unknown LogLevel.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidWatchConfig is wrapped by watch validation failures.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorMode selects when output is colored.
	ColorMode string

	// OutputFormat selects how check results are printed.
	OutputFormat string

	// LogLevel is the minimum level of log records.
	LogLevel string

	// InvalidValueError reports a value outside its enumeration. It unwraps
	// to the sentinel of its type.
	InvalidValueError struct {
		Field    string
		Value    string
		sentinel error
	}

	// InvalidConfigError collects every field-level problem of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the CLI configuration.
	Config struct {
		UI    UIConfig    `json:"ui" mapstructure:"ui"`
		Check CheckConfig `json:"check" mapstructure:"check"`
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		Log   LogConfig   `json:"log" mapstructure:"log"`

		// Source is the file the configuration was read from, empty when
		// only defaults and environment applied.
		Source string `json:"-" mapstructure:"-"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug logging and error chains.
		Verbose bool      `json:"verbose" mapstructure:"verbose"`
		Color   ColorMode `json:"color" mapstructure:"color"`
	}

	// CheckConfig holds defaults for 'capwire check'.
	CheckConfig struct {
		Format OutputFormat `json:"format" mapstructure:"format"`
		// AllowUnused reports unused bindings as warnings.
		AllowUnused bool `json:"allow_unused" mapstructure:"allow_unused"`
	}

	// WatchConfig configures 'capwire check --watch'.
	WatchConfig struct {
		// Debounce is how long the watcher waits for events to settle.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists doublestar globs of paths that never trigger a check.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		UI:    UIConfig{Color: ColorAuto},
		Check: CheckConfig{Format: FormatText},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
			Ignore:   []string{"**/.git/**", "**/*.swp", "**/*~"},
		},
		Log: LogConfig{Level: LevelWarn},
	}
}

// Validate checks values that may have bypassed the schema through
// environment variables.
func (c *Config) Validate() error {
	var errs []error
	if err := c.UI.Color.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Check.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, c.Watch.validate()...)
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func (c WatchConfig) validate() []error {
	var errs []error
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce %s is negative", ErrInvalidWatchConfig, c.Debounce))
	}
	for i, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("%w: watch.ignore[%d] %q is not a valid glob", ErrInvalidWatchConfig, i, pattern))
		}
	}
	return errs
}

// Validate reports whether m is a known ColorMode.
func (m ColorMode) Validate() error {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	}
	return &InvalidValueError{Field: "ui.color", Value: string(m), sentinel: ErrInvalidColorMode}
}

// Validate reports whether f is a known OutputFormat.
func (f OutputFormat) Validate() error {
	switch f {
	case FormatText, FormatJSON:
		return nil
	}
	return &InvalidValueError{Field: "check.format", Value: string(f), sentinel: ErrInvalidOutputFormat}
}

// Validate reports whether l is a known LogLevel.
func (l LogLevel) Validate() error {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return nil
	}
	return &InvalidValueError{Field: "log.level", Value: string(l), sentinel: ErrInvalidLogLevel}
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Field, e.sentinel, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return e.sentinel }

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
