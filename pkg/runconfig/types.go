// Package runconfig parses switch running-config exports into a typed model.
//
// A running-config is a flat list of directives grouped into
// "interface <kind> <designator>" ... "exit" blocks:
//
//	interface ethernet 1/g1
//	description 'uplink'
//	channel-group 1 mode auto
//	switchport mode trunk
//	switchport trunk allowed vlan add 10,20-22
//	exit
//
// Parsing is forgiving: lines that are not understood are skipped (and
// reported as diagnostics when debugging is enabled) rather than aborting the
// whole file.
package runconfig

import (
	"fmt"
	"sort"

	"github.com/newtron-network/swparse/pkg/util"
)

// InterfaceKind identifies which block type an interface record belongs to.
type InterfaceKind int

const (
	// KindNone is the dispatcher state outside of any interface block.
	KindNone InterfaceKind = iota
	KindEthernet
	KindVLAN
	KindPortChannel
)

// Kinds lists the interface kinds in display order.
var Kinds = []InterfaceKind{KindEthernet, KindVLAN, KindPortChannel}

func (k InterfaceKind) String() string {
	switch k {
	case KindEthernet:
		return "ethernet"
	case KindVLAN:
		return "vlan"
	case KindPortChannel:
		return "port-channel"
	case KindNone:
		return "none"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind as its CLI keyword, so maps keyed by kind
// encode as {"ethernet": ...}.
func (k InterfaceKind) MarshalText() ([]byte, error) {
	if k == KindNone {
		return nil, fmt.Errorf("cannot encode interface kind %q", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts the CLI keyword for a kind.
func (k *InterfaceKind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind maps a keyword (ethernet, vlan, port-channel) to its kind.
// A few common aliases are accepted.
func ParseKind(s string) (InterfaceKind, error) {
	switch s {
	case "ethernet", "eth", "e":
		return KindEthernet, nil
	case "vlan", "vl":
		return KindVLAN, nil
	case "port-channel", "port_channel", "portchannel", "po", "lag":
		return KindPortChannel, nil
	}
	return KindNone, fmt.Errorf("unknown interface kind %q (valid: ethernet, vlan, port-channel)", s)
}

// Interface is one interface record. The concrete type is one of
// *EthernetInterface, *VLANInterface or *PortChannelInterface.
type Interface interface {
	Kind() InterfaceKind
	// ID is the identifier the record is stored under in its kind bucket.
	ID() string
	// SwitchportFragments returns the switchport clauses in arrival order.
	SwitchportFragments() []Switchport
	addSwitchport(sp Switchport)
}

// ChannelGroup is the link-aggregation membership of an ethernet port.
// ID is kept as written; it is not necessarily numeric.
type ChannelGroup struct {
	ID   string `json:"id" yaml:"id"`
	Mode string `json:"mode" yaml:"mode"`
}

// EthernetInterface is a physical port.
type EthernetInterface struct {
	Identifier   string        `json:"-" yaml:"-"`
	StackMember  int           `json:"stack_member" yaml:"stack_member"`
	Port         int           `json:"port" yaml:"port"`
	Unit         string        `json:"unit,omitempty" yaml:"unit,omitempty"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	ChannelGroup *ChannelGroup `json:"channel_group,omitempty" yaml:"channel_group,omitempty"`
	Switchports  []Switchport  `json:"switchports,omitempty" yaml:"switchports,omitempty"`
}

func (e *EthernetInterface) Kind() InterfaceKind               { return KindEthernet }
func (e *EthernetInterface) ID() string                        { return e.Identifier }
func (e *EthernetInterface) SwitchportFragments() []Switchport { return e.Switchports }
func (e *EthernetInterface) addSwitchport(sp Switchport)       { e.Switchports = append(e.Switchports, sp) }

// VLANInterface is a VLAN (SVI) block. Switchports is present for symmetry;
// VLAN blocks rarely carry switchport clauses.
type VLANInterface struct {
	Identifier  string       `json:"-" yaml:"-"`
	VLAN        int          `json:"vlan" yaml:"vlan"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Switchports []Switchport `json:"switchports,omitempty" yaml:"switchports,omitempty"`
}

func (v *VLANInterface) Kind() InterfaceKind               { return KindVLAN }
func (v *VLANInterface) ID() string                        { return v.Identifier }
func (v *VLANInterface) SwitchportFragments() []Switchport { return v.Switchports }
func (v *VLANInterface) addSwitchport(sp Switchport)       { v.Switchports = append(v.Switchports, sp) }

// PortChannelInterface is a link aggregate. Channel is kept as written since
// some dialects use non-numeric labels.
type PortChannelInterface struct {
	Identifier  string       `json:"-" yaml:"-"`
	Channel     string       `json:"channel" yaml:"channel"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Switchports []Switchport `json:"switchports,omitempty" yaml:"switchports,omitempty"`
}

func (p *PortChannelInterface) Kind() InterfaceKind               { return KindPortChannel }
func (p *PortChannelInterface) ID() string                        { return p.Identifier }
func (p *PortChannelInterface) SwitchportFragments() []Switchport { return p.Switchports }
func (p *PortChannelInterface) addSwitchport(sp Switchport)       { p.Switchports = append(p.Switchports, sp) }

// Configuration is the parsed running-config: kind -> identifier -> record.
type Configuration struct {
	Interfaces map[InterfaceKind]map[string]Interface `json:"interface" yaml:"interface"`
}

// NewConfiguration returns an empty configuration.
func NewConfiguration() *Configuration {
	return &Configuration{Interfaces: make(map[InterfaceKind]map[string]Interface)}
}

// ensure returns the record for (kind, id), creating it on first sight.
func (c *Configuration) ensure(kind InterfaceKind, id string) (Interface, error) {
	bucket := c.Interfaces[kind]
	if bucket == nil {
		bucket = make(map[string]Interface)
		c.Interfaces[kind] = bucket
	}
	if rec, ok := bucket[id]; ok {
		return rec, nil
	}

	var rec Interface
	switch kind {
	case KindEthernet:
		rec = &EthernetInterface{Identifier: id}
	case KindVLAN:
		rec = &VLANInterface{Identifier: id}
	case KindPortChannel:
		rec = &PortChannelInterface{Identifier: id}
	default:
		return nil, fmt.Errorf("no record type for interface kind %s", kind)
	}
	bucket[id] = rec
	return rec, nil
}

// Get returns the record for (kind, id).
func (c *Configuration) Get(kind InterfaceKind, id string) (Interface, error) {
	if rec, ok := c.Interfaces[kind][id]; ok {
		return rec, nil
	}
	return nil, util.NewNotFoundError(kind.String()+" interface", id)
}

// Ethernet returns the ethernet record stored under id.
func (c *Configuration) Ethernet(id string) (*EthernetInterface, bool) {
	rec, ok := c.Interfaces[KindEthernet][id].(*EthernetInterface)
	return rec, ok
}

// VLAN returns the VLAN record stored under id.
func (c *Configuration) VLAN(id string) (*VLANInterface, bool) {
	rec, ok := c.Interfaces[KindVLAN][id].(*VLANInterface)
	return rec, ok
}

// PortChannel returns the port-channel record stored under id.
func (c *Configuration) PortChannel(id string) (*PortChannelInterface, bool) {
	rec, ok := c.Interfaces[KindPortChannel][id].(*PortChannelInterface)
	return rec, ok
}

// IDs returns the identifiers of one kind, sorted.
func (c *Configuration) IDs(kind InterfaceKind) []string {
	ids := make([]string, 0, len(c.Interfaces[kind]))
	for id := range c.Interfaces[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of records of one kind.
func (c *Configuration) Len(kind InterfaceKind) int {
	return len(c.Interfaces[kind])
}
