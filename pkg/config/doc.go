// Package config loads the gst-templates configuration.
//
// Configuration is layered with koanf: embedded TOML defaults, an optional
// TOML config file, GST_ environment variables and finally command-line
// flag overrides. The result is a plain Config value built once at startup
// and passed to each component; nothing reads configuration globally.
package config
