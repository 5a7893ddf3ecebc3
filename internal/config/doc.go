// Package config loads, normalizes, and validates lectern's TOML
// configuration.
package config
