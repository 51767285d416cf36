package handlers

import (
	"context"

	"github.com/arthur-debert/packstate/pkg/conflicts"
	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// SetPageTitleCommand changes where a page will be placed, typically to
// resolve a conflict.
//
// Payload: {"pack_name": "...", "page_name": "...", "final_title": "..."}
const SetPageTitleCommand = "set_page_title"

// SetPageTitle sets the final title of a page that is not installed yet and
// reruns conflict detection
type SetPageTitle struct{}

func (SetPageTitle) Command() string { return SetPageTitleCommand }

func (SetPageTitle) Handle(ctx context.Context, st *session.State, idx *manifest.Index, data map[string]interface{}, hctx Context) (*Result, error) {
	if err := requireState(st); err != nil {
		return nil, err
	}
	packName, err := requireString(data, "pack_name")
	if err != nil {
		return nil, err
	}
	pageName, err := requireString(data, "page_name")
	if err != nil {
		return nil, err
	}
	title, err := requireString(data, "final_title")
	if err != nil {
		return nil, err
	}

	pack, err := lookupPack(st, idx, packName)
	if err != nil {
		return nil, err
	}
	page, ok := pack.Page(pageName)
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidRequest, "page '%s' not found in pack '%s'", pageName, packName).
			WithDetail("pack", packName).
			WithDetail("page", pageName)
	}
	if page.Installed {
		return nil, errors.Newf(errors.ErrInvalidRequest,
			"cannot retitle '%s/%s' - already installed as '%s'", packName, pageName, page.FinalTitle).
			WithDetail("pack", packName).
			WithDetail("page", pageName)
	}

	next := st.Clone()
	nextPack, _ := next.Pack(packName)
	nextPage, _ := nextPack.Page(pageName)
	nextPage.FinalTitle = title

	warnings, err := conflicts.NewDetector(hctx.Checker).Detect(ctx, next)
	if err != nil {
		return nil, err
	}

	logger := logging.ForSession("handlers.set_page_title", st.RefID, st.UserID)
	logger.Info().
		Str("pack", packName).
		Str("page", pageName).
		Str("title", title).
		Int("warnings", len(warnings)).
		Msg("Page title set")

	return result(next, warnings), nil
}
