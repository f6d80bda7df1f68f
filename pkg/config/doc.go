// Package config handles configuration management for implshard.
// It layers built-in defaults, the user config file, the shard root config
// file, environment variables and command-line flags, in that order.
package config
