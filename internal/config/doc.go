// Package config loads, normalizes, and validates gymforge's TOML
// configuration.
package config
