// Package config loads and validates the messenger configuration.
//
// Settings come from a YAML file, an optional profile overlay
// (app-<profile>.yaml next to it) and environment variables. Each settings
// group validates itself with go-playground/validator before use.
package config
