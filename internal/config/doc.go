// Package config loads, normalizes, and validates lidarcal configuration.
//
// It supplies defaults for every knob (calibration channels and background
// gate window, parse encoding and worker count, output/plot/archive paths,
// logging), expands tilde paths, reads TOML files, and honours the
// LIDARCAL_ARCHIVE and LIDARCAL_LOG_LEVEL environment fallbacks.
//
// Always obtain settings through this package so commands receive expanded
// paths and clear validation errors.
package config
