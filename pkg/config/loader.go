package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/paths"
)

// EnvPrefix prefixes every configuration environment variable
const EnvPrefix = "PACKSTATE_"

// DefaultUser owns sessions when neither the config nor $USER names one
const DefaultUser = "default"

// Options controls Load
type Options struct {
	// ConfigFile is an explicit config file; it must exist. Empty means the
	// XDG config file, which is optional.
	ConfigFile string

	// Overrides are dotted keys applied last, e.g. "session.ref"
	Overrides map[string]interface{}

	// Paths resolves default locations. Nil uses paths.New().
	Paths paths.Paths
}

// Load builds the configuration from all sources
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	p := opts.Paths
	if p == nil {
		p = paths.New()
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file
	path, explicit := opts.ConfigFile, opts.ConfigFile != ""
	if !explicit {
		path = p.ConfigFile()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := postProcessConfig(&cfg, p); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps PACKSTATE_STORE_MAX_SESSIONS to store.max_sessions: the
// first underscore separates section from key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func postProcessConfig(cfg *Config, p paths.Paths) error {
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch cfg.Store.Backend {
	case BackendFile, BackendMemory:
	default:
		return errors.Newf(errors.ErrConfigLoad, "unknown store backend '%s'", cfg.Store.Backend).
			WithDetail("valid", []string{BackendFile, BackendMemory})
	}
	if cfg.Store.TTL < 0 {
		return errors.Newf(errors.ErrConfigLoad, "store.ttl must not be negative (%s)", cfg.Store.TTL)
	}
	if cfg.Store.MaxSessions < 0 {
		return errors.Newf(errors.ErrConfigLoad, "store.max_sessions must not be negative (%d)", cfg.Store.MaxSessions)
	}

	cfg.Store.Dir = orDefault(cfg.Store.Dir, p.SessionsDir())
	cfg.Registry.Path = orDefault(cfg.Registry.Path, p.RegistryFile())
	cfg.Manifest.Dir = orDefault(cfg.Manifest.Dir, p.ManifestsDir())
	if cfg.Manifest.Path != "" {
		cfg.Manifest.Path = paths.ExpandHome(cfg.Manifest.Path)
	}

	cfg.Session.Ref = strings.TrimSpace(cfg.Session.Ref)
	if cfg.Session.Ref == "" {
		return errors.New(errors.ErrConfigLoad, "session.ref must not be empty")
	}
	if cfg.Session.User == "" {
		cfg.Session.User = os.Getenv("USER")
	}
	if cfg.Session.User == "" {
		cfg.Session.User = DefaultUser
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return paths.ExpandHome(value)
}
