// Package config handles configuration management for dockplate.
// It layers embedded TOML defaults, the user's XDG config file, a project
// dockplate.toml, DOCKPLATE_* environment variables and command-line
// overrides using koanf, then decodes the result into Config.
package config
