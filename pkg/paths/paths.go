package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for packstate
	EnvConfigDir = "PACKSTATE_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for packstate
	EnvStateDir = "PACKSTATE_STATE_DIR"

	// EnvDataDir overrides the XDG data directory for packstate
	EnvDataDir = "PACKSTATE_DATA_DIR"
)

// Directory and file names inside the XDG directories
const (
	// AppDirName is the directory name used under every XDG base
	AppDirName = "packstate"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// SessionsDirName holds one file per (ref, user) session
	SessionsDirName = "sessions"

	// RegistryFileName records installed packs and pages
	RegistryFileName = "installed.toml"

	// ManifestsDirName holds per-ref manifests
	ManifestsDirName = "manifests"

	// LogFileName is the name of the log file
	LogFileName = "packstate.log"
)

// Paths resolves packstate's on-disk locations
type Paths interface {
	ConfigDir() string
	ConfigFile() string
	StateDir() string
	SessionsDir() string
	RegistryFile() string
	DataDir() string
	ManifestsDir() string
	LogFilePath() string
}

type paths struct {
	configDir string
	stateDir  string
	dataDir   string
}

// New resolves the directories from the environment
func New() Paths {
	p := &paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		p.configDir = filepath.Join(base, AppDirName)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = expandHome(dir)
	} else if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		p.stateDir = filepath.Join(base, AppDirName)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		p.dataDir = expandHome(dir)
	} else if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		p.dataDir = filepath.Join(base, AppDirName)
	} else {
		p.dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	return p
}

func (p *paths) ConfigDir() string    { return p.configDir }
func (p *paths) ConfigFile() string   { return filepath.Join(p.configDir, ConfigFileName) }
func (p *paths) StateDir() string     { return p.stateDir }
func (p *paths) SessionsDir() string  { return filepath.Join(p.stateDir, SessionsDirName) }
func (p *paths) RegistryFile() string { return filepath.Join(p.stateDir, RegistryFileName) }
func (p *paths) DataDir() string      { return p.dataDir }
func (p *paths) ManifestsDir() string { return filepath.Join(p.dataDir, ManifestsDirName) }
func (p *paths) LogFilePath() string  { return filepath.Join(p.stateDir, LogFileName) }

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
