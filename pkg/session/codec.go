package session

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// stateRecord is the persisted shape of a State. The action variant is
// flattened into action + auto_selected_reason.
type stateRecord struct {
	SessionID string       `yaml:"session_id" json:"session_id"`
	RefID     string       `yaml:"ref_id" json:"ref_id"`
	UserID    string       `yaml:"user_id" json:"user_id"`
	Packs     []packRecord `yaml:"packs" json:"packs"`
}

type packRecord struct {
	Name               string      `yaml:"name" json:"name"`
	Action             ActionKind  `yaml:"action" json:"action"`
	AutoSelectedReason *string     `yaml:"auto_selected_reason,omitempty" json:"auto_selected_reason"`
	CurrentVersion     *string     `yaml:"current_version" json:"current_version"`
	TargetVersion      string      `yaml:"target_version" json:"target_version"`
	Installed          bool        `yaml:"installed" json:"installed"`
	Selected           bool        `yaml:"selected" json:"selected"`
	Pages              []PageState `yaml:"pages" json:"pages"`
}

func (s *State) toRecord() stateRecord {
	rec := stateRecord{
		SessionID: s.SessionID,
		RefID:     s.RefID,
		UserID:    s.UserID,
		Packs:     make([]packRecord, 0, len(s.order)),
	}
	for _, p := range s.Packs() {
		pages := p.Pages
		if pages == nil {
			pages = []PageState{}
		}
		rec.Packs = append(rec.Packs, packRecord{
			Name:               p.Name,
			Action:             p.Action.Kind(),
			AutoSelectedReason: p.AutoSelectedReason(),
			CurrentVersion:     p.CurrentVersion,
			TargetVersion:      p.TargetVersion,
			Installed:          p.Installed,
			Selected:           p.Selected,
			Pages:              pages,
		})
	}
	return rec
}

func (s *State) fromRecord(rec stateRecord) error {
	s.SessionID = rec.SessionID
	s.RefID = rec.RefID
	s.UserID = rec.UserID
	s.order = nil
	s.packs = make(map[string]*PackState, len(rec.Packs))

	for _, pr := range rec.Packs {
		kind := ActionUnchanged
		if pr.Action != "" {
			parsed, err := ParseActionKind(string(pr.Action))
			if err != nil {
				return fmt.Errorf("pack '%s': %w", pr.Name, err)
			}
			kind = parsed
		}

		action := Manual(kind)
		if pr.AutoSelectedReason != nil {
			if kind == ActionUnchanged {
				return fmt.Errorf("pack '%s': auto_selected_reason set without an action", pr.Name)
			}
			action = Auto(kind, *pr.AutoSelectedReason)
		}

		s.put(&PackState{
			Name:           pr.Name,
			Action:         action,
			CurrentVersion: pr.CurrentVersion,
			TargetVersion:  pr.TargetVersion,
			Installed:      pr.Installed,
			Selected:       pr.Selected,
			Pages:          pr.Pages,
		})
	}
	return s.Validate()
}

// MarshalYAML implements yaml.Marshaler
func (s *State) MarshalYAML() (interface{}, error) {
	return s.toRecord(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (s *State) UnmarshalYAML(value *yaml.Node) error {
	var rec stateRecord
	if err := value.Decode(&rec); err != nil {
		return err
	}
	return s.fromRecord(rec)
}

// MarshalJSON implements json.Marshaler
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toRecord())
}

// UnmarshalJSON implements json.Unmarshaler
func (s *State) UnmarshalJSON(data []byte) error {
	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	return s.fromRecord(rec)
}
