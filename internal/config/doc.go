// Package config loads, normalizes, and validates the TOML configuration
// used by the spacedrive daemon and CLI.
//
// Configuration is discovered from an explicit --config path, then
// ~/.config/spacedrive/config.toml, then ./spacedrive.toml. Missing files are
// not an error; defaults apply. All path fields are tilde-expanded before the
// config is handed to the rest of the system.
package config
