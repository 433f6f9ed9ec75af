// Package config loads, normalizes, and validates gggkit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GGGPATH for the spectrum directory. The Config type centralizes the knobs
// the CLI needs: the synthetic runlog override policy, spectrum discovery
// settings, catalog location, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
