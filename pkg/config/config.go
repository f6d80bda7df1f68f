package config

import (
	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/host"
	"github.com/arthur-debert/implshard/pkg/output"
	"github.com/arthur-debert/implshard/pkg/shards"
)

// Config is the complete implshard configuration
type Config struct {
	Host   Host   `koanf:"host"`
	Output Output `koanf:"output"`
	Shards Shards `koanf:"shards"`
}

// Host configures how a load is run
type Host struct {
	Order        string `koanf:"order"`
	Seed         uint64 `koanf:"seed"`
	InstallAfter int    `koanf:"install_after"`
}

// Output configures rendering
type Output struct {
	Format string `koanf:"format"`
}

// Shards configures the shard loader
type Shards struct {
	Formats []string `koanf:"formats"`
}

// Plan returns the host plan described by the configuration
func (c *Config) Plan() (host.Plan, error) {
	order, err := host.ParseOrder(c.Host.Order)
	if err != nil {
		return host.Plan{}, err
	}
	return host.Plan{
		Order:        order,
		Seed:         c.Host.Seed,
		InstallAfter: c.Host.InstallAfter,
	}, nil
}

// OutputFormat returns the configured output format
func (c *Config) OutputFormat() (output.Format, error) {
	return output.ParseFormat(c.Output.Format)
}

// ShardFormats returns the formats the loader should decode
func (c *Config) ShardFormats() ([]shards.Format, error) {
	if len(c.Shards.Formats) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no shard formats enabled")
	}
	return shards.ParseFormats(c.Shards.Formats)
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	if _, err := c.Plan(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid host.order").
			WithDetail("value", c.Host.Order)
	}
	if _, err := c.OutputFormat(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid output.format").
			WithDetail("value", c.Output.Format)
	}
	if _, err := c.ShardFormats(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid shards.formats").
			WithDetail("value", c.Shards.Formats)
	}
	return nil
}
