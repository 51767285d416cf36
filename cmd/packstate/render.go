package packstate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/packstate/pkg/dispatcher"
	"github.com/arthur-debert/packstate/pkg/session"
)

// jsonOutcome is the --json shape of a command result
type jsonOutcome struct {
	State    *session.State `json:"state"`
	Warnings []string       `json:"warnings"`
	Saved    bool           `json:"saved"`
}

func renderJSON(w io.Writer, out *dispatcher.Outcome) error {
	data, err := json.MarshalIndent(jsonOutcome{State: out.State, Warnings: out.Warnings, Saved: out.Saved}, "", "  ")
	if err != nil {
		return fmt.Errorf(MsgErrRenderStatus, err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintln(w, styled(w, warningStyle, MsgWarningPrefix+warning))
	}
}

// renderState prints the session as a table, one row per pack
func renderState(w io.Writer, st *session.State) error {
	fmt.Fprintln(w, styled(w, headerStyle, fmt.Sprintf(MsgSessionHeader, st.SessionID, st.RefID, st.UserID)))
	if st.Len() == 0 {
		fmt.Fprintln(w, MsgNoPacks)
		return nil
	}

	data := pterm.TableData{{"PACK", "ACTION", "VERSION", "PAGES", "REASON"}}
	for _, p := range st.Packs() {
		data = append(data, []string{
			p.Name,
			actionLabel(p),
			versionLabel(p),
			pagesLabel(p),
			reasonLabel(p),
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if !isTerminal(w) {
		table = table.WithStyle(pterm.NewStyle()).WithHeaderStyle(pterm.NewStyle()).WithSeparatorStyle(pterm.NewStyle())
	}
	out, err := table.Srender()
	if err != nil {
		return fmt.Errorf(MsgErrRenderStatus, err)
	}
	fmt.Fprintln(w, out)

	if pending := len(st.PacksWithActions()); pending == 0 {
		fmt.Fprintln(w, styled(w, mutedStyle, MsgNoPending))
	} else {
		fmt.Fprintf(w, MsgPendingCount+"\n", pending)
	}
	return nil
}

func actionLabel(p *session.PackState) string {
	switch {
	case p.Action.IsUnchanged():
		return "-"
	case p.Action.IsAuto():
		return string(p.Action.Kind()) + " (auto)"
	default:
		return string(p.Action.Kind())
	}
}

func versionLabel(p *session.PackState) string {
	if p.CurrentVersion == nil {
		return p.TargetVersion
	}
	if *p.CurrentVersion == p.TargetVersion {
		return *p.CurrentVersion
	}
	return *p.CurrentVersion + " -> " + p.TargetVersion
}

func pagesLabel(p *session.PackState) string {
	titles := make([]string, 0, len(p.Pages))
	for _, page := range p.Pages {
		if page.FinalTitle != "" && page.FinalTitle != page.Name {
			titles = append(titles, page.Name+"="+page.FinalTitle)
			continue
		}
		titles = append(titles, page.Name)
	}
	return strings.Join(titles, ", ")
}

func reasonLabel(p *session.PackState) string {
	if reason := p.AutoSelectedReason(); reason != nil {
		return *reason
	}
	return ""
}
