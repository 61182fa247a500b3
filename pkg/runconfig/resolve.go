package runconfig

import (
	"encoding/json"
	"sort"
)

// SwitchportSettings is the effective view of a fragment list. Fragments are
// filed by their top-level word (access, mode, trunk, general) and a later
// fragment replaces an earlier one with the same word outright; nothing is
// merged. General holds either a GeneralAllowed or a GeneralFrameType.
type SwitchportSettings struct {
	Mode    SwitchportMode
	Access  *AccessVLAN
	Trunk   *TrunkAllowed
	General Switchport
}

// ResolveSwitchports folds fragments in arrival order into their effective
// settings.
func ResolveSwitchports(fragments []Switchport) SwitchportSettings {
	var s SwitchportSettings
	for _, f := range fragments {
		switch sp := f.(type) {
		case AccessVLAN:
			s.Access = &sp
		case ModeSetting:
			s.Mode = sp.Mode
		case TrunkAllowed:
			s.Trunk = &sp
		case GeneralAllowed:
			s.General = sp
		case GeneralFrameType:
			s.General = sp
		}
	}
	return s
}

// IsZero reports whether no switchport clause was seen.
func (s SwitchportSettings) IsZero() bool {
	return s.Mode == "" && s.Access == nil && s.Trunk == nil && s.General == nil
}

func (s SwitchportSettings) tree() map[string]interface{} {
	out := map[string]interface{}{}
	if s.Mode != "" {
		out["mode"] = string(s.Mode)
	}
	for _, f := range []Switchport{s.accessFragment(), s.trunkFragment(), s.General} {
		if f == nil {
			continue
		}
		for k, v := range f.tree() {
			out[k] = v
		}
	}
	return out
}

func (s SwitchportSettings) accessFragment() Switchport {
	if s.Access == nil {
		return nil
	}
	return *s.Access
}

func (s SwitchportSettings) trunkFragment() Switchport {
	if s.Trunk == nil {
		return nil
	}
	return *s.Trunk
}

func (s SwitchportSettings) MarshalJSON() ([]byte, error)       { return json.Marshal(s.tree()) }
func (s SwitchportSettings) MarshalYAML() (interface{}, error) { return s.tree(), nil }

// VLANMembership is one VLAN an interface carries.
type VLANMembership struct {
	VLAN   int  `json:"vlan" yaml:"vlan"`
	Tagged bool `json:"tagged" yaml:"tagged"`
}

// Memberships replays fragments in order to compute which VLANs a port
// carries: access and add clauses grant VLANs, remove clauses revoke them.
// A VLAN is tagged when the clause that last granted it carried "tagged",
// or when it was granted by a trunk clause. The result is sorted by VLAN.
func Memberships(fragments []Switchport) []VLANMembership {
	granted := map[int]bool{}
	grant := func(vlans []int, tagged bool) {
		for _, v := range vlans {
			granted[v] = tagged
		}
	}
	revoke := func(vlans []int) {
		for _, v := range vlans {
			delete(granted, v)
		}
	}

	for _, f := range fragments {
		switch sp := f.(type) {
		case AccessVLAN:
			grant(sp.VLANs, sp.Tagged != nil)
		case TrunkAllowed:
			grant(sp.Add, true)
			revoke(sp.Remove)
		case GeneralAllowed:
			grant(sp.Add, sp.Tagged != nil)
			revoke(sp.Remove)
		case ModeSetting, GeneralFrameType:
		}
	}

	out := make([]VLANMembership, 0, len(granted))
	for v, tagged := range granted {
		out = append(out, VLANMembership{VLAN: v, Tagged: tagged})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VLAN < out[j].VLAN })
	return out
}
