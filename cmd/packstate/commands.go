package packstate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/packstate/internal/version"
	"github.com/arthur-debert/packstate/pkg/config"
	"github.com/arthur-debert/packstate/pkg/dispatcher"
	"github.com/arthur-debert/packstate/pkg/session"
)

// run dispatches a session command and prints its outcome
func (a *app) run(cmd *cobra.Command, cmdType dispatcher.CommandType, data map[string]interface{}, summary func(*dispatcher.Outcome)) error {
	d, err := a.dispatcher()
	if err != nil {
		return err
	}
	out, err := d.Dispatch(commandContext(cmd), cmdType, data)
	if err != nil {
		return err
	}
	return a.print(cmd, out, summary)
}

func (a *app) print(cmd *cobra.Command, out *dispatcher.Outcome, summary func(*dispatcher.Outcome)) error {
	w := cmd.OutOrStdout()
	if a.jsonOutput {
		return renderJSON(w, out)
	}
	if summary != nil {
		summary(out)
	}
	renderWarnings(cmd.ErrOrStderr(), out.Warnings)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Args:    cobra.NoArgs,
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatcher.CommandInit, map[string]interface{}{"force": force}, func(out *dispatcher.Outcome) {
				fmt.Fprintf(cmd.OutOrStdout(), MsgSessionStarted, out.State.SessionID, out.State.RefID)
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "set <pack> <action>",
		Short:             MsgSetShort,
		Long:              MsgSetLong,
		Example:           MsgSetExample,
		Args:              cobra.ExactArgs(2),
		GroupID:           "session",
		ValidArgsFunction: a.setArgsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := map[string]interface{}{
				"pack_name": args[0],
				"action":    args[1],
			}
			return a.run(cmd, dispatcher.CommandSetPackAction, data, func(out *dispatcher.Outcome) {
				w := cmd.OutOrStdout()
				for _, name := range out.State.PacksWithActions() {
					p, _ := out.State.Pack(name)
					fmt.Fprintf(w, MsgActionSet, name, describeAction(p))
				}
				if len(out.State.PacksWithActions()) == 0 {
					fmt.Fprintln(w, MsgNoPending)
				}
			})
		},
	}
}

func newTitleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "title <pack> <page> <title>",
		Short:   MsgTitleShort,
		Long:    MsgTitleLong,
		Args:    cobra.ExactArgs(3),
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := map[string]interface{}{
				"pack_name":   args[0],
				"page_name":   args[1],
				"final_title": args[2],
			}
			return a.run(cmd, dispatcher.CommandSetPageTitle, data, func(out *dispatcher.Outcome) {
				fmt.Fprintf(cmd.OutOrStdout(), MsgTitleSet, args[0], args[1], args[2])
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   MsgClearShort,
		Long:    MsgClearLong,
		Args:    cobra.NoArgs,
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatcher.CommandClear, nil, func(out *dispatcher.Outcome) {
				fmt.Fprintf(cmd.OutOrStdout(), MsgSessionCleared, out.State.RefID)
			})
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Args:    cobra.NoArgs,
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			out, err := d.Status(ctx)
			if err != nil {
				return err
			}
			idx, err := d.Manifest(ctx)
			if err != nil {
				return err
			}
			for _, cycle := range idx.Cycles() {
				log.Warn().Strs("packs", cycle).Msg("Manifest contains a dependency cycle")
				out.Warnings = append(out.Warnings, fmt.Sprintf(MsgCycleWarning, strings.Join(cycle, " -> ")))
			}

			if a.jsonOutput {
				return renderJSON(cmd.OutOrStdout(), out)
			}
			if err := renderState(cmd.OutOrStdout(), out.State); err != nil {
				return err
			}
			renderWarnings(cmd.ErrOrStderr(), out.Warnings)
			return nil
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GenerateConfigContent())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, MsgVersionLine, version.Version)
			fmt.Fprintf(w, MsgVersionCommit, version.Commit)
			fmt.Fprintf(w, MsgVersionBuilt, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "PACKSTATE",
				Section: "1",
				Source:  "packstate " + version.Version,
				Manual:  "packstate manual",
			}
			if dir == "" {
				return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", MsgFlagManDir)
	return cmd
}

// setArgsCompletion completes pack names, then actions
func (a *app) setArgsCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		d, err := a.dispatcher()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		idx, err := d.Manifest(commandContext(cmd))
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return filterPrefix(idx.Names(), toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		kinds := make([]string, 0, len(session.ActionKinds))
		for _, k := range session.ActionKinds {
			kinds = append(kinds, string(k))
		}
		return filterPrefix(kinds, toComplete), cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func filterPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}

func describeAction(p *session.PackState) string {
	if reason := p.AutoSelectedReason(); reason != nil {
		return fmt.Sprintf("%s (%s)", p.Action.Kind(), *reason)
	}
	return string(p.Action.Kind())
}
