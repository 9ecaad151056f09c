// Package config loads pipeline definitions and service settings.
//
// Pipeline files are YAML or JSON (with comments) lists of stage
// descriptors, optionally with ${VAR} and ${VAR:-default} environment
// expansion. Service settings load through viper with .env support and
// environment variable overrides.
package config
