package hydrator

import (
	"log/slog"
	"time"

	"github.com/jacentio/hydrator/filter"
	"github.com/jacentio/hydrator/naming"
	"github.com/jacentio/hydrator/strategy"
)

// Config holds configuration for the Hydrator.
type Config struct {
	// ByReference bypasses accessor methods and works on struct storage,
	// unexported fields included.
	// Default: false (by value)
	ByReference bool

	// DefaultByValueStrategy creates the collection strategy of associations
	// without a registered strategy, in by-value mode.
	// Default: strategy.AllowRemoveByValue
	DefaultByValueStrategy strategy.Factory

	// DefaultByReferenceStrategy is the by-reference counterpart.
	// Default: strategy.AllowRemoveByReference
	DefaultByReferenceStrategy strategy.Factory

	// NamingStrategy renames record keys. Default: none.
	NamingStrategy naming.Strategy

	// Filter selects the extracted fields. Objects implementing
	// filter.Provider supply their own. Default: none.
	Filter filter.Filter

	// Location is used to interpret date literals and Unix timestamps.
	// Default: time.UTC
	Location *time.Location

	// Logger receives debug events for skipped fields. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a by-value configuration with AllowRemove collections.
func DefaultConfig() Config {
	return Config{
		DefaultByValueStrategy:     strategy.DefaultFactory(true),
		DefaultByReferenceStrategy: strategy.DefaultFactory(false),
		Location:                   time.UTC,
	}
}

// validate fills unset values with defaults.
func (c *Config) validate() {
	if c.DefaultByValueStrategy == nil {
		c.DefaultByValueStrategy = strategy.DefaultFactory(true)
	}
	if c.DefaultByReferenceStrategy == nil {
		c.DefaultByReferenceStrategy = strategy.DefaultFactory(false)
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
