// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// It carries the static schedule and realtime feed locations plus the list
// of user-configured station views.
package config
