// Package config handles configuration loading and management for unitspec.
//
// It provides functionality for:
//   - Loading configuration from .unitspec.yaml or unitspec.yaml files
//   - Default configuration values
//   - Merging file settings with command-line overrides
package config
