package runconfig

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/newtron-network/swparse/pkg/util"
)

// SwitchportMode is the value of a "switchport mode" clause.
type SwitchportMode string

const (
	ModeTrunk   SwitchportMode = "trunk"
	ModeGeneral SwitchportMode = "general"
)

// ClauseKind identifies the switchport clause a fragment came from.
type ClauseKind int

const (
	ClauseAccess ClauseKind = iota
	ClauseMode
	ClauseTrunkAllowed
	ClauseGeneralAllowed
	ClauseGeneralFrameType
)

func (c ClauseKind) String() string {
	switch c {
	case ClauseAccess:
		return "access"
	case ClauseMode:
		return "mode"
	case ClauseTrunkAllowed:
		return "trunk-allowed"
	case ClauseGeneralAllowed:
		return "general-allowed"
	case ClauseGeneralFrameType:
		return "general-frame-type"
	}
	return fmt.Sprintf("clause(%d)", int(c))
}

// Switchport is one parsed "switchport ..." line. The concrete type is one of
// AccessVLAN, ModeSetting, TrunkAllowed, GeneralAllowed or GeneralFrameType.
//
// Fragments encode (JSON and YAML) to the nested layout used by existing
// consumers, keyed by the clause's top-level word:
//
//	{"mode": "trunk"}
//	{"trunk": {"allowed": {"vlans": {"add": [10, 20]}}}}
type Switchport interface {
	Clause() ClauseKind
	// key is the top-level word the fragment is filed under; fragments
	// sharing a key overwrite each other when resolved.
	key() string
	tree() map[string]interface{}
}

// AccessVLAN is "switchport access vlan <list>".
// Tagged is nil unless the word "tagged" appears on the line.
type AccessVLAN struct {
	Tagged *bool
	VLANs  []int
}

// ModeSetting is "switchport mode trunk|general".
type ModeSetting struct {
	Mode SwitchportMode
}

// TrunkAllowed is "switchport trunk allowed vlan add|remove <list>".
// Exactly one of Add and Remove is set.
type TrunkAllowed struct {
	Tagged *bool
	Add    []int
	Remove []int
}

// GeneralAllowed is "switchport general allowed vlan add|remove <list>".
// Exactly one of Add and Remove is set.
type GeneralAllowed struct {
	Tagged *bool
	Add    []int
	Remove []int
}

// GeneralFrameType is "switchport general acceptable-frame-type <type>".
type GeneralFrameType struct {
	AcceptableFrameType string
}

func (AccessVLAN) Clause() ClauseKind       { return ClauseAccess }
func (ModeSetting) Clause() ClauseKind      { return ClauseMode }
func (TrunkAllowed) Clause() ClauseKind     { return ClauseTrunkAllowed }
func (GeneralAllowed) Clause() ClauseKind   { return ClauseGeneralAllowed }
func (GeneralFrameType) Clause() ClauseKind { return ClauseGeneralFrameType }

func (AccessVLAN) key() string       { return "access" }
func (ModeSetting) key() string      { return "mode" }
func (TrunkAllowed) key() string     { return "trunk" }
func (GeneralAllowed) key() string   { return "general" }
func (GeneralFrameType) key() string { return "general" }

func (a AccessVLAN) tree() map[string]interface{} {
	body := map[string]interface{}{"vlans": a.VLANs}
	if a.Tagged != nil {
		body["tagged"] = *a.Tagged
	}
	return map[string]interface{}{"access": body}
}

func (m ModeSetting) tree() map[string]interface{} {
	return map[string]interface{}{"mode": string(m.Mode)}
}

func (t TrunkAllowed) tree() map[string]interface{} {
	return map[string]interface{}{"trunk": allowedTree(t.Tagged, t.Add, t.Remove)}
}

func (g GeneralAllowed) tree() map[string]interface{} {
	return map[string]interface{}{"general": allowedTree(g.Tagged, g.Add, g.Remove)}
}

func (g GeneralFrameType) tree() map[string]interface{} {
	return map[string]interface{}{
		"general": map[string]interface{}{"acceptable_frame_type": g.AcceptableFrameType},
	}
}

func allowedTree(tagged *bool, add, remove []int) map[string]interface{} {
	vlans := map[string]interface{}{}
	if add != nil {
		vlans["add"] = add
	}
	if remove != nil {
		vlans["remove"] = remove
	}
	body := map[string]interface{}{
		"allowed": map[string]interface{}{"vlans": vlans},
	}
	if tagged != nil {
		body["tagged"] = *tagged
	}
	return body
}

func (a AccessVLAN) MarshalJSON() ([]byte, error)       { return json.Marshal(a.tree()) }
func (m ModeSetting) MarshalJSON() ([]byte, error)      { return json.Marshal(m.tree()) }
func (t TrunkAllowed) MarshalJSON() ([]byte, error)     { return json.Marshal(t.tree()) }
func (g GeneralAllowed) MarshalJSON() ([]byte, error)   { return json.Marshal(g.tree()) }
func (g GeneralFrameType) MarshalJSON() ([]byte, error) { return json.Marshal(g.tree()) }

func (a AccessVLAN) MarshalYAML() (interface{}, error)       { return a.tree(), nil }
func (m ModeSetting) MarshalYAML() (interface{}, error)      { return m.tree(), nil }
func (t TrunkAllowed) MarshalYAML() (interface{}, error)     { return t.tree(), nil }
func (g GeneralAllowed) MarshalYAML() (interface{}, error)   { return g.tree(), nil }
func (g GeneralFrameType) MarshalYAML() (interface{}, error) { return g.tree(), nil }

// clauseRule maps a switchport phrase to the builder for its fragment.
// Rules are tried in order; the first phrase found in the line wins.
type clauseRule struct {
	phrase string
	build  func(line, phrase string) (Switchport, error)
}

var switchportClauses = []clauseRule{
	{"switchport access vlan", func(line, phrase string) (Switchport, error) {
		vlans, err := vlanList(line, phrase)
		if err != nil {
			return nil, err
		}
		return AccessVLAN{Tagged: taggedFlag(line), VLANs: vlans}, nil
	}},
	{"switchport mode trunk", func(string, string) (Switchport, error) {
		return ModeSetting{Mode: ModeTrunk}, nil
	}},
	{"switchport mode general", func(string, string) (Switchport, error) {
		return ModeSetting{Mode: ModeGeneral}, nil
	}},
	{"switchport trunk allowed vlan add", func(line, phrase string) (Switchport, error) {
		vlans, err := vlanList(line, phrase)
		if err != nil {
			return nil, err
		}
		return TrunkAllowed{Tagged: taggedFlag(line), Add: vlans}, nil
	}},
	{"switchport trunk allowed vlan remove", func(line, phrase string) (Switchport, error) {
		vlans, err := vlanList(line, phrase)
		if err != nil {
			return nil, err
		}
		return TrunkAllowed{Tagged: taggedFlag(line), Remove: vlans}, nil
	}},
	{"switchport general allowed vlan add", func(line, phrase string) (Switchport, error) {
		vlans, err := vlanList(line, phrase)
		if err != nil {
			return nil, err
		}
		return GeneralAllowed{Tagged: taggedFlag(line), Add: vlans}, nil
	}},
	{"switchport general allowed vlan remove", func(line, phrase string) (Switchport, error) {
		vlans, err := vlanList(line, phrase)
		if err != nil {
			return nil, err
		}
		return GeneralAllowed{Tagged: taggedFlag(line), Remove: vlans}, nil
	}},
	{"switchport general acceptable-frame-type", func(line, phrase string) (Switchport, error) {
		fields := strings.Fields(line)
		if len(fieldsAfter(line, phrase)) == 0 {
			return nil, util.NewFieldError("acceptable-frame-type", "missing frame type")
		}
		return GeneralFrameType{AcceptableFrameType: fields[len(fields)-1]}, nil
	}},
}

// parseSwitchport turns one switchport line into a fragment. It returns
// util.ErrUnrecognizedLine when no known clause matches, and a
// *util.FieldError when the clause matches but its arguments do not parse.
func parseSwitchport(line string) (Switchport, error) {
	for _, rule := range switchportClauses {
		if strings.Contains(line, rule.phrase) {
			return rule.build(line, rule.phrase)
		}
	}
	return nil, util.ErrUnrecognizedLine
}

// taggedFlag reports the presence of "tagged" anywhere on the line.
// The result is nil, not false, when the word is absent.
func taggedFlag(line string) *bool {
	if !strings.Contains(line, "tagged") {
		return nil
	}
	tagged := true
	return &tagged
}

// vlanList expands the VLAN list token that follows phrase. For the standard
// clauses this is token 4 of "switchport access vlan <list>" and token 6 of
// "switchport trunk allowed vlan add <list>".
func vlanList(line, phrase string) ([]int, error) {
	args := fieldsAfter(line, phrase)
	if len(args) == 0 {
		return nil, util.NewFieldError("vlan list", "missing VLAN list")
	}
	vlans, err := util.ExpandVLANList(args[0])
	if err != nil {
		return nil, util.NewFieldError("vlan list", err.Error())
	}
	return vlans, nil
}

// fieldsAfter returns the whitespace-separated tokens following the first
// occurrence of phrase in line.
func fieldsAfter(line, phrase string) []string {
	idx := strings.Index(line, phrase)
	if idx < 0 {
		return nil
	}
	return strings.Fields(line[idx+len(phrase):])
}
