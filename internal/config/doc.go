// Package config loads and validates the application configuration.
//
// Configuration comes from an optional YAML file (config.yaml next to the
// binary, overridable via PNL_CONFIG_FILE) with environment variables
// prefixed PNL_ taking precedence. The package also centralizes filesystem
// path resolution so every component writes under the same directories.
package config
