package config

import "time"

// Store backends
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config is the resolved configuration
type Config struct {
	Manifest Manifest `koanf:"manifest"`
	Registry Registry `koanf:"registry"`
	Store    Store    `koanf:"store"`
	Session  Session  `koanf:"session"`
}

// Manifest locates manifests
type Manifest struct {
	// Path is the fallback manifest used for every ref
	Path string `koanf:"path"`
	// Dir holds per-ref manifests as <dir>/<ref>/manifest.yml
	Dir string `koanf:"dir"`
}

// Registry locates the installed-pack registry
type Registry struct {
	Path string `koanf:"path"`
}

// Store selects and tunes the session store
type Store struct {
	Backend     string        `koanf:"backend"`
	Dir         string        `koanf:"dir"`
	TTL         time.Duration `koanf:"ttl"`
	MaxSessions int           `koanf:"max_sessions"`
}

// Session identifies the default session
type Session struct {
	Ref  string `koanf:"ref"`
	User string `koanf:"user"`
}
