package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResourceID is a backend identifier. The device API hands out both numeric
// and string ids, so both decode to their textual form.
type ResourceID string

func (id *ResourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ResourceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("resource id %s: %w", data, err)
	}
	*id = ResourceID(n.String())
	return nil
}

func (id ResourceID) String() string {
	return string(id)
}

// Resource is one record of a backend collection listing.
type Resource struct {
	ID         ResourceID `json:"id"`
	Name       string     `json:"name"`
	SensorType string     `json:"sensor_type,omitempty"`
}

// SwitchGroup carries its members as a JSON-encoded string.
type SwitchGroup struct {
	ID       ResourceID `json:"id,omitempty"`
	Name     string     `json:"name,omitempty"`
	Switches string     `json:"switches"`
}

type SwitchRef struct {
	SwitchType ResourceType `json:"switch_type"`
	SwitchID   ResourceID   `json:"switch_id"`
}

// ParseSwitches decodes the group's member list. An empty field means the
// group has no members.
func (g SwitchGroup) ParseSwitches() ([]SwitchRef, error) {
	if g.Switches == "" {
		return nil, nil
	}
	var refs []SwitchRef
	if err := json.Unmarshal([]byte(g.Switches), &refs); err != nil {
		return nil, fmt.Errorf("parsing switches of group %q: %w", g.Name, err)
	}
	return refs, nil
}

// UsedSwitch is a switch referenced by at least one switch group.
type UsedSwitch struct {
	Type ResourceType `json:"type"`
	ID   ResourceID   `json:"id"`
	Name string       `json:"name"`
}

func (s UsedSwitch) CompositeID() CompositeID {
	return NewCompositeID(s.Type, string(s.ID))
}

// Option pairs a composite identifier with the phrases a speaker may use
// for it. The first alias is the display name.
type Option struct {
	Value   string   `json:"value"`
	Aliases []string `json:"aliases"`
}

// NewOption drops empty aliases and keeps the rest verbatim, in order.
func NewOption(value string, aliases ...string) Option {
	kept := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if a != "" {
			kept = append(kept, a)
		}
	}
	return Option{Value: value, Aliases: kept}
}

// ToggleRequest is the body of a state change. Actor is the composite id of
// the switch that asked for it.
type ToggleRequest struct {
	State bool   `json:"state"`
	Actor string `json:"actor"`
}
