// Package config loads, normalizes, and validates lgd-hemis configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides for the
// external tool binaries (LGD_HEMIS_MINCCALC, LGD_HEMIS_EXTRACT_WM). Input and
// output roots are not configuration: the hosting plugin framework passes
// them on the command line.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
