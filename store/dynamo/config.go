package dynamo

// DefaultTTLAttribute is the attribute holding the soft delete timestamp.
const DefaultTTLAttribute = "ttl"

// Config holds configuration for the Store.
type Config struct {
	// TablePrefix is prepended to every derived table name (e.g. "prod_").
	// Explicit Tables entries and Tabler names are used as is.
	TablePrefix string

	// Tables maps Go type names (e.g. "Person") to table names.
	// Types without an entry implement Tabler or get a derived name
	// ("Person" -> "people").
	Tables map[string]string

	// ConsistentRead enables strongly consistent GetItem reads.
	// Default: false (eventually consistent)
	ConsistentRead bool

	// TTLAttribute is the numeric attribute marking soft deleted items.
	// Default: "ttl"
	TTLAttribute string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTLAttribute: DefaultTTLAttribute,
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.TTLAttribute == "" {
		c.TTLAttribute = DefaultTTLAttribute
	}
	if c.Tables == nil {
		c.Tables = make(map[string]string)
	}
}
