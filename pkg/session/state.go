package session

import (
	"fmt"

	"github.com/google/uuid"
)

// PageState is one page a pack places
type PageState struct {
	Name string `yaml:"name" json:"name"`
	// FinalTitle is the resolved destination name; empty means not yet resolvable
	FinalTitle string `yaml:"final_title" json:"final_title"`
	// Installed is true when this page already exists as part of an installed pack
	Installed bool `yaml:"installed" json:"installed"`
}

// PackState is the session record for a single pack
type PackState struct {
	Name           string
	Action         Action
	CurrentVersion *string
	TargetVersion  string
	Installed      bool
	Pages          []PageState
	Selected       bool
}

// AutoSelectedReason returns the engine's justification, or nil for a
// manual or unchanged action.
func (p *PackState) AutoSelectedReason() *string {
	if reason, ok := p.Action.AutoReason(); ok {
		return &reason
	}
	return nil
}

// Page returns a pointer to the named page
func (p *PackState) Page(name string) (*PageState, bool) {
	for i := range p.Pages {
		if p.Pages[i].Name == name {
			return &p.Pages[i], true
		}
	}
	return nil, false
}

// NeedsUpdate reports whether the installed version differs from the target
func (p *PackState) NeedsUpdate() bool {
	return p.CurrentVersion != nil && *p.CurrentVersion != p.TargetVersion
}

// SetAction replaces the pack's action and recomputes Selected: a pack is
// selected when it will be present once pending actions are applied.
func (p *PackState) SetAction(a Action) {
	p.Action = a
	switch a.Kind() {
	case ActionInstall, ActionUpdate:
		p.Selected = true
	case ActionRemove:
		p.Selected = false
	default:
		p.Selected = p.Installed
	}
}

func (p *PackState) clone() *PackState {
	c := *p
	if p.CurrentVersion != nil {
		v := *p.CurrentVersion
		c.CurrentVersion = &v
	}
	if p.Pages != nil {
		c.Pages = make([]PageState, len(p.Pages))
		copy(c.Pages, p.Pages)
	}
	return &c
}

// State is the working set for one (ref, user) session. Pack order is
// manifest order.
type State struct {
	SessionID string
	RefID     string
	UserID    string

	order []string
	packs map[string]*PackState
}

// New creates a state holding the given packs in order
func New(refID, userID string, packs ...*PackState) *State {
	s := &State{
		SessionID: newSessionID(),
		RefID:     refID,
		UserID:    userID,
		packs:     make(map[string]*PackState, len(packs)),
	}
	for _, p := range packs {
		s.put(p)
	}
	return s
}

func newSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *State) put(p *PackState) {
	if _, exists := s.packs[p.Name]; !exists {
		s.order = append(s.order, p.Name)
	}
	s.packs[p.Name] = p
}

// Pack returns the named pack's state
func (s *State) Pack(name string) (*PackState, bool) {
	p, ok := s.packs[name]
	return p, ok
}

// Len returns the number of packs
func (s *State) Len() int {
	return len(s.order)
}

// Names returns pack names in manifest order
func (s *State) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Packs returns pack states in manifest order
func (s *State) Packs() []*PackState {
	packs := make([]*PackState, 0, len(s.order))
	for _, name := range s.order {
		packs = append(packs, s.packs[name])
	}
	return packs
}

// SetAction sets a pack's action, reporting whether the pack exists
func (s *State) SetAction(name string, a Action) bool {
	p, ok := s.packs[name]
	if !ok {
		return false
	}
	p.SetAction(a)
	return true
}

// PacksWithActions returns packs whose action is not unchanged
func (s *State) PacksWithActions() []string {
	return s.filter(func(p *PackState) bool { return !p.Action.IsUnchanged() })
}

// ManuallyActioned returns packs carrying a user-chosen action
func (s *State) ManuallyActioned() []string {
	return s.filter(func(p *PackState) bool { return p.Action.IsManual() })
}

// AutoActioned returns packs carrying an engine-chosen action
func (s *State) AutoActioned() []string {
	return s.filter(func(p *PackState) bool { return p.Action.IsAuto() })
}

func (s *State) filter(keep func(*PackState) bool) []string {
	var names []string
	for _, name := range s.order {
		if keep(s.packs[name]) {
			names = append(names, name)
		}
	}
	return names
}

// Clone returns a deep copy sharing nothing with s
func (s *State) Clone() *State {
	c := &State{
		SessionID: s.SessionID,
		RefID:     s.RefID,
		UserID:    s.UserID,
		order:     make([]string, len(s.order)),
		packs:     make(map[string]*PackState, len(s.packs)),
	}
	copy(c.order, s.order)
	for name, p := range s.packs {
		c.packs[name] = p.clone()
	}
	return c
}

// Validate checks the per-pack action/version invariants
func (s *State) Validate() error {
	for _, p := range s.Packs() {
		switch p.Action.Kind() {
		case ActionInstall:
			if p.CurrentVersion != nil {
				return fmt.Errorf("pack '%s' is marked install but version %s is installed", p.Name, *p.CurrentVersion)
			}
		case ActionUpdate:
			if p.CurrentVersion == nil {
				return fmt.Errorf("pack '%s' is marked update but is not installed", p.Name)
			}
			if *p.CurrentVersion == p.TargetVersion {
				return fmt.Errorf("pack '%s' is marked update but is already at %s", p.Name, p.TargetVersion)
			}
		case ActionRemove:
			if p.CurrentVersion == nil {
				return fmt.Errorf("pack '%s' is marked remove but is not installed", p.Name)
			}
		case ActionUnchanged:
			if p.Action.IsAuto() {
				return fmt.Errorf("pack '%s' carries an auto reason without an action", p.Name)
			}
		}
	}
	return nil
}
