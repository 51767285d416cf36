package installed

import (
	"context"
	"sync"
)

// TitleChecker reports a title as existing when any installed page of the
// ref already occupies it. Titles are loaded on first use and kept once a
// load succeeds; failed loads are retried by the next call.
type TitleChecker struct {
	reg   Registry
	refID string

	mu     sync.Mutex
	titles map[string]struct{}
}

// NewTitleChecker creates a checker over the installed pages of refID
func NewTitleChecker(reg Registry, refID string) *TitleChecker {
	return &TitleChecker{reg: reg, refID: refID}
}

// Exists implements conflicts.ExistenceChecker
func (c *TitleChecker) Exists(ctx context.Context, title string) (bool, error) {
	titles, err := c.loaded(ctx)
	if err != nil {
		return false, err
	}
	_, ok := titles[title]
	return ok, nil
}

func (c *TitleChecker) loaded(ctx context.Context) (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.titles != nil {
		return c.titles, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	titles, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.titles = titles
	return titles, nil
}

func (c *TitleChecker) load(ctx context.Context) (map[string]struct{}, error) {
	_, pages, err := Snapshot(ctx, c.reg, c.refID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]struct{})
	for _, byPage := range pages {
		for _, title := range byPage {
			if title != "" {
				titles[title] = struct{}{}
			}
		}
	}
	return titles, nil
}
