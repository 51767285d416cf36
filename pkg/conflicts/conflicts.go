// Package conflicts finds page title collisions among the packs a session
// is about to install or update, and against content that already exists.
package conflicts

import (
	"context"
	"fmt"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/session"
)

// ExistenceChecker reports whether content with a final title already
// exists outside the session's pending changes
type ExistenceChecker interface {
	Exists(ctx context.Context, title string) (bool, error)
}

// Detector scans a session for page title conflicts
type Detector struct {
	checker ExistenceChecker
}

// NewDetector creates a detector. A nil checker disables the existing
// content check.
func NewDetector(checker ExistenceChecker) *Detector {
	return &Detector{checker: checker}
}

// Detect returns one warning per conflict, scanning packs in manifest order
// and pages in pack order. Only packs being installed or updated are
// scanned; pages with an empty final title or that are already installed
// are skipped. Within the scan, the first page to claim a title is reported
// as its occupant.
func (d *Detector) Detect(ctx context.Context, st *session.State) ([]string, error) {
	logger := logging.ForSession("conflicts", st.RefID, st.UserID)

	var warnings []string
	occupants := make(map[string]string)

	for _, p := range st.Packs() {
		if !p.Action.Kind().AddsContent() {
			continue
		}

		for _, page := range p.Pages {
			title := page.FinalTitle
			if title == "" || page.Installed {
				continue
			}

			if first, taken := occupants[title]; taken {
				warnings = append(warnings, fmt.Sprintf(
					"Page title collision: '%s' is used by both %s and %s/%s",
					title, first, p.Name, page.Name))
			} else {
				occupants[title] = p.Name + "/" + page.Name
			}

			if d.checker == nil {
				continue
			}
			exists, err := d.checker.Exists(ctx, title)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrExistenceCheck, "failed to check whether '%s' exists", title).
					WithDetail("pack", p.Name).
					WithDetail("page", page.Name)
			}
			if exists {
				warnings = append(warnings, fmt.Sprintf(
					"Page '%s' already exists (pack: %s, page: %s)",
					title, p.Name, page.Name))
			}
		}
	}

	if len(warnings) > 0 {
		logger.Debug().Int("warnings", len(warnings)).Msg("Detected page conflicts")
	}
	return warnings, nil
}

// TitleSet is an ExistenceChecker over a fixed set of titles
type TitleSet map[string]struct{}

// NewTitleSet creates a TitleSet holding titles
func NewTitleSet(titles ...string) TitleSet {
	set := make(TitleSet, len(titles))
	for _, title := range titles {
		set[title] = struct{}{}
	}
	return set
}

// Exists implements ExistenceChecker
func (s TitleSet) Exists(ctx context.Context, title string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := s[title]
	return ok, nil
}
