// Package config loads packstate's configuration.
//
// Sources are layered, later ones winning: the embedded defaults, the user
// config file (TOML), PACKSTATE_* environment variables and finally
// explicit overrides such as command-line flags.
package config
