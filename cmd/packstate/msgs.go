package packstate

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Plan pack installs, updates and removals"
	MsgInitShort       = "Start a new session for a ref"
	MsgSetShort        = "Set the action for a pack"
	MsgTitleShort      = "Set the final title of a page"
	MsgTitleLong       = "Set the title a page will be installed under. Use it to resolve title conflicts reported by set."
	MsgClearShort      = "Discard all pending actions"
	MsgClearLong       = "Rebuild the session from the manifest and the installed-pack registry, discarding every pending action."
	MsgStatusShort     = "Show the session"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man page"
	MsgGenConfigShort  = "Print a config file template"
	MsgGenConfigLong   = "Print the default configuration with every value commented out."

	// Flags
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default is $XDG_CONFIG_HOME/packstate/config.toml)"
	MsgFlagRef      = "Ref (content source) the session works against"
	MsgFlagUser     = "User owning the session"
	MsgFlagManifest = "Manifest file used for every ref"
	MsgFlagJSON     = "Print the session as JSON"
	MsgFlagForce    = "Replace a session with pending actions"
	MsgFlagManDir   = "Directory the man pages are written to"

	// Output
	MsgSessionHeader   = "Session %s (ref: %s, user: %s)"
	MsgNoPacks         = "The manifest defines no packs."
	MsgNoPending       = "No pending actions."
	MsgPendingCount    = "%d pending action(s)."
	MsgSessionStarted  = "Started session %s for ref '%s'.\n"
	MsgSessionCleared  = "Cleared all pending actions for ref '%s'.\n"
	MsgActionSet       = "%s: %s\n"
	MsgTitleSet        = "%s/%s will be installed as '%s'\n"
	MsgWarningPrefix   = "warning: "
	MsgCycleWarning    = "dependency cycle: %s"
	MsgManWritten      = "Man pages written to %s\n"
	MsgVersionLine     = "packstate version %s\n"
	MsgVersionCommit   = "  commit: %s\n"
	MsgVersionBuilt    = "  built:  %s\n"
	MsgErrNoCommand    = "no command specified"
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrRenderStatus = "failed to render session: %w"
)

// Embedded message files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/set-long.txt
	msgSetLongRaw string
	MsgSetLong    = strings.TrimSpace(msgSetLongRaw)

	//go:embed msgs/set-example.txt
	msgSetExampleRaw string
	MsgSetExample    = strings.TrimRight(msgSetExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
