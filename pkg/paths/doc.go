// Package paths provides centralized path handling for packstate.
//
// Locations follow the XDG Base Directory specification:
//
//   - Config: $XDG_CONFIG_HOME/packstate (config.toml)
//   - State:  $XDG_STATE_HOME/packstate (sessions/, installed.toml, packstate.log)
//   - Data:   $XDG_DATA_HOME/packstate (manifests/<ref>/manifest.yml)
//
// # Environment Variables
//
//   - PACKSTATE_CONFIG_DIR: override the config directory
//   - PACKSTATE_STATE_DIR: override the state directory
//   - PACKSTATE_DATA_DIR: override the data directory
//
// # Usage
//
//	p := paths.New()
//	cfgFile := p.ConfigFile()   // ~/.config/packstate/config.toml
//	sessions := p.SessionsDir() // ~/.local/state/packstate/sessions
package paths
