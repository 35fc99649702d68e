package relaypager

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	EnvConnectionMaxLimit           = "RELAY_CONNECTION_MAX_LIMIT"
	EnvConnectionEnforceFirstOrLast = "RELAY_CONNECTION_ENFORCE_FIRST_OR_LAST"
)

// Config holds the defaults applied to every ConnectionField. Individual
// fields override them with FieldOption values.
type Config struct {
	// ConnectionMaxLimit is the largest page a client may request. Nil means
	// no limit.
	ConnectionMaxLimit *int `yaml:"RELAY_CONNECTION_MAX_LIMIT"`
	// ConnectionEnforceFirstOrLast requires every request to supply first or last.
	ConnectionEnforceFirstOrLast bool `yaml:"RELAY_CONNECTION_ENFORCE_FIRST_OR_LAST"`
}

// DefaultConfig returns a limit of DefaultMaxLimit records and no
// first/last enforcement.
func DefaultConfig() Config {
	return Config{
		ConnectionMaxLimit:           lo.ToPtr(DefaultMaxLimit),
		ConnectionEnforceFirstOrLast: false,
	}
}

// LoadConfig reads a YAML document on top of DefaultConfig. Keys missing from
// the document keep their defaults; `RELAY_CONNECTION_MAX_LIMIT: null`
// disables the limit.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("cannot decode relay config: %w", err)
	}

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides the configuration from environment-like lookups, e.g.
// os.LookupEnv. An empty RELAY_CONNECTION_MAX_LIMIT disables the limit.
func (c Config) ApplyEnv(lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup(EnvConnectionMaxLimit); ok {
		if v == "" {
			c.ConnectionMaxLimit = nil
		} else {
			limit, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s value '%s': %w", EnvConnectionMaxLimit, v, err)
			}
			c.ConnectionMaxLimit = &limit
		}
	}

	if v, ok := lookup(EnvConnectionEnforceFirstOrLast); ok {
		enforce, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s value '%s': %w", EnvConnectionEnforceFirstOrLast, v, err)
		}
		c.ConnectionEnforceFirstOrLast = enforce
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// maxLimit returns the configured limit, NoLimit when absent.
func (c Config) maxLimit() int {
	return lo.FromPtrOr(c.ConnectionMaxLimit, NoLimit)
}

func (c Config) validate() error {
	if c.ConnectionMaxLimit != nil && *c.ConnectionMaxLimit < 0 {
		return fmt.Errorf("%s must not be negative, got %d", EnvConnectionMaxLimit, *c.ConnectionMaxLimit)
	}

	return nil
}
