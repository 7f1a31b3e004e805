// Package config defines the application configuration structure and
// loading logic. Configuration is sourced from environment variables with
// the NEXUS_ prefix, optionally layered over a config.yaml file, and
// validated before use.
package config
