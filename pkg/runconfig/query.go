package runconfig

import "sort"

// Summary counts records per interface kind.
type Summary struct {
	Ethernet    int `json:"ethernet" yaml:"ethernet"`
	VLAN        int `json:"vlan" yaml:"vlan"`
	PortChannel int `json:"port_channel" yaml:"port_channel"`
}

// Summary returns record counts per kind.
func (c *Configuration) Summary() Summary {
	return Summary{
		Ethernet:    c.Len(KindEthernet),
		VLAN:        c.Len(KindVLAN),
		PortChannel: c.Len(KindPortChannel),
	}
}

// MemberRef names an interface carrying a VLAN.
type MemberRef struct {
	Kind   InterfaceKind `json:"kind" yaml:"kind"`
	ID     string        `json:"id" yaml:"id"`
	Tagged bool          `json:"tagged" yaml:"tagged"`
}

// VLANMembers is the ports referencing one VLAN through switchport clauses.
type VLANMembers struct {
	VLAN int `json:"vlan" yaml:"vlan"`
	// Name is the description of the matching VLAN interface, if any.
	Name    string      `json:"name,omitempty" yaml:"name,omitempty"`
	Members []MemberRef `json:"members" yaml:"members"`
}

// VLANMembers lists, for every VLAN granted by a switchport clause of an
// ethernet or port-channel interface, the interfaces that carry it. The
// result is sorted by VLAN, members by kind then identifier. VLANs are not
// checked against the VLAN interfaces that exist.
func (c *Configuration) VLANMembers() []VLANMembers {
	byVLAN := map[int][]MemberRef{}
	for _, kind := range []InterfaceKind{KindEthernet, KindPortChannel} {
		for _, id := range c.IDs(kind) {
			rec := c.Interfaces[kind][id]
			for _, m := range Memberships(rec.SwitchportFragments()) {
				byVLAN[m.VLAN] = append(byVLAN[m.VLAN], MemberRef{Kind: kind, ID: id, Tagged: m.Tagged})
			}
		}
	}

	names := map[int]string{}
	for _, rec := range c.Interfaces[KindVLAN] {
		if v, ok := rec.(*VLANInterface); ok && v.Description != "" {
			names[v.VLAN] = v.Description
		}
	}

	out := make([]VLANMembers, 0, len(byVLAN))
	for vlan, members := range byVLAN {
		out = append(out, VLANMembers{VLAN: vlan, Name: names[vlan], Members: members})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VLAN < out[j].VLAN })
	return out
}

// Members returns the identifiers of ethernet ports whose channel-group id
// equals the port-channel's channel, sorted.
func (c *Configuration) Members(portChannelID string) ([]string, error) {
	rec, err := c.Get(KindPortChannel, portChannelID)
	if err != nil {
		return nil, err
	}
	pc := rec.(*PortChannelInterface)

	var members []string
	for _, id := range c.IDs(KindEthernet) {
		eth, ok := c.Ethernet(id)
		if ok && eth.ChannelGroup != nil && eth.ChannelGroup.ID == pc.Channel {
			members = append(members, id)
		}
	}
	return members, nil
}
