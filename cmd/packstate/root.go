package packstate

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/packstate/internal/version"
	"github.com/arthur-debert/packstate/pkg/config"
	"github.com/arthur-debert/packstate/pkg/dispatcher"
	"github.com/arthur-debert/packstate/pkg/installed"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/store"
)

// app holds the global flags and builds collaborators for commands
type app struct {
	fs afero.Fs

	verbosity  int
	configFile string
	ref        string
	user       string
	manifest   string
	jsonOutput bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{fs: afero.NewOsFs()})
}

func newRootCmd(a *app) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "packstate",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&a.ref, "ref", "r", "", MsgFlagRef)
	rootCmd.PersistentFlags().StringVarP(&a.user, "user", "u", "", MsgFlagUser)
	rootCmd.PersistentFlags().StringVarP(&a.manifest, "manifest", "m", "", MsgFlagManifest)
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, MsgFlagJSON)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "session",
		Title: "SESSION:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newSetCmd(a))
	rootCmd.AddCommand(newTitleCmd(a))
	rootCmd.AddCommand(newClearCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// loadConfig resolves the configuration, flags taking precedence
func (a *app) loadConfig() (*config.Config, error) {
	overrides := map[string]interface{}{}
	if a.ref != "" {
		overrides["session.ref"] = a.ref
	}
	if a.user != "" {
		overrides["session.user"] = a.user
	}
	if a.manifest != "" {
		overrides["manifest.path"] = a.manifest
	}

	cfg, err := config.Load(config.Options{ConfigFile: a.configFile, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// dispatcher wires a dispatcher for the configured session
func (a *app) dispatcher() (*dispatcher.Dispatcher, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch cfg.Store.Backend {
	case config.BackendMemory:
		st = store.NewMemory(cfg.Store.TTL, cfg.Store.MaxSessions)
	default:
		st = store.NewFile(a.fs, cfg.Store.Dir)
	}

	log.Debug().
		Str("ref", cfg.Session.Ref).
		Str("user", cfg.Session.User).
		Str("backend", cfg.Store.Backend).
		Msg("Session configured")

	return dispatcher.New(dispatcher.Options{
		RefID:     cfg.Session.Ref,
		UserID:    cfg.Session.User,
		Manifests: manifest.NewFileSource(a.fs, cfg.Manifest.Dir, cfg.Manifest.Path),
		Store:     st,
		Installed: installed.NewFileRegistry(a.fs, cfg.Registry.Path),
	})
}
