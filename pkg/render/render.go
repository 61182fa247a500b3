// Package render writes parsed running-configs as JSON, YAML or text tables.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/swparse/pkg/cli"
	"github.com/newtron-network/swparse/pkg/runconfig"
	"github.com/newtron-network/swparse/pkg/util"
)

// Format selects an output encoding.
type Format string

const (
	JSON  Format = "json"
	YAML  Format = "yaml"
	Table Format = "table"
)

// Formats lists the accepted formats.
var Formats = []Format{JSON, YAML, Table}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, Table:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: json, yaml, table)", s)
}

// Renderer writes to one output in one format.
type Renderer struct {
	w        io.Writer
	format   Format
	maxWidth int
}

// New returns a renderer. Tables are fitted to w when it is a terminal.
func New(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format, maxWidth: -1}
}

// WithMaxWidth fixes the table width instead of detecting it. Zero
// disables fitting.
func (r *Renderer) WithMaxWidth(width int) *Renderer {
	r.maxWidth = width
	return r
}

// encode writes v as JSON or YAML. It reports false for the table format.
func (r *Renderer) encode(v interface{}) (bool, error) {
	switch r.format {
	case JSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case Table:
		return false, nil
	}
	return true, fmt.Errorf("unknown format %q", r.format)
}

func (r *Renderer) table(headers ...string) *cli.Table {
	t := cli.NewTableTo(r.w, headers...)
	if r.maxWidth >= 0 {
		t.WithMaxWidth(r.maxWidth)
	}
	return t
}

func (r *Renderer) heading(title string) {
	fmt.Fprintln(r.w, cli.Bold(title))
}

// Configuration writes the whole configuration. As a table it prints one
// section per interface kind that has records.
func (r *Renderer) Configuration(cfg *runconfig.Configuration) error {
	if done, err := r.encode(cfg); done {
		return err
	}

	first := true
	for _, kind := range runconfig.Kinds {
		if cfg.Len(kind) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(r.w)
		}
		first = false
		r.heading(kind.String())
		if err := r.kindTable(cfg, kind); err != nil {
			return err
		}
	}
	if first {
		fmt.Fprintln(r.w, "No interfaces found")
	}
	return nil
}

func (r *Renderer) kindTable(cfg *runconfig.Configuration, kind runconfig.InterfaceKind) error {
	switch kind {
	case runconfig.KindEthernet:
		t := r.table("ID", "MEMBER", "PORT", "UNIT", "DESCRIPTION", "LAG", "SWITCHPORT")
		for _, id := range cfg.IDs(kind) {
			eth, _ := cfg.Ethernet(id)
			lag := "-"
			if eth.ChannelGroup != nil {
				lag = eth.ChannelGroup.ID
				if eth.ChannelGroup.Mode != "" {
					lag += " (" + eth.ChannelGroup.Mode + ")"
				}
			}
			t.Row(id, strconv.Itoa(eth.StackMember), strconv.Itoa(eth.Port), dash(eth.Unit),
				dash(eth.Description), lag, SwitchportSummary(eth.Switchports))
		}
		return t.Flush()
	case runconfig.KindVLAN:
		t := r.table("ID", "VLAN", "NAME")
		for _, id := range cfg.IDs(kind) {
			v, _ := cfg.VLAN(id)
			t.Row(id, strconv.Itoa(v.VLAN), dash(v.Description))
		}
		return t.Flush()
	case runconfig.KindPortChannel:
		t := r.table("ID", "CHANNEL", "DESCRIPTION", "MEMBERS", "SWITCHPORT")
		for _, id := range cfg.IDs(kind) {
			pc, _ := cfg.PortChannel(id)
			members, err := cfg.Members(id)
			if err != nil {
				return err
			}
			t.Row(id, pc.Channel, dash(pc.Description), dash(strings.Join(members, " ")),
				SwitchportSummary(pc.Switchports))
		}
		return t.Flush()
	}
	return fmt.Errorf("no table layout for %s", kind)
}

// Interface writes a single record. JSON and YAML wrap it as
// {kind: {id: record}} so it reads like a slice of the full document.
func (r *Renderer) Interface(rec runconfig.Interface) error {
	doc := map[string]map[string]runconfig.Interface{
		rec.Kind().String(): {rec.ID(): rec},
	}
	if done, err := r.encode(doc); done {
		return err
	}

	fmt.Fprintf(r.w, "%s %s\n", cli.Bold(rec.Kind().String()), rec.ID())
	t := r.table("FIELD", "VALUE")
	switch x := rec.(type) {
	case *runconfig.EthernetInterface:
		t.Row("stack member", strconv.Itoa(x.StackMember))
		t.Row("port", strconv.Itoa(x.Port))
		t.Row("unit", dash(x.Unit))
		t.Row("description", dash(x.Description))
		if x.ChannelGroup != nil {
			t.Row("channel-group", strings.TrimSpace(x.ChannelGroup.ID+" "+x.ChannelGroup.Mode))
		}
	case *runconfig.VLANInterface:
		t.Row("vlan", strconv.Itoa(x.VLAN))
		t.Row("name", dash(x.Description))
	case *runconfig.PortChannelInterface:
		t.Row("channel", x.Channel)
		t.Row("description", dash(x.Description))
	}
	for _, sp := range rec.SwitchportFragments() {
		t.Row("switchport", ClauseText(sp))
	}
	return t.Flush()
}

// VLANs writes the VLAN membership view.
func (r *Renderer) VLANs(vlans []runconfig.VLANMembers) error {
	if done, err := r.encode(vlans); done {
		return err
	}
	if len(vlans) == 0 {
		fmt.Fprintln(r.w, "No VLAN memberships found")
		return nil
	}

	t := r.table("VLAN", "NAME", "UNTAGGED", "TAGGED")
	for _, v := range vlans {
		var untagged, tagged []string
		for _, m := range v.Members {
			name := memberName(m)
			if m.Tagged {
				tagged = append(tagged, name)
			} else {
				untagged = append(untagged, cli.Green(name))
			}
		}
		t.Row(strconv.Itoa(v.VLAN), dash(v.Name), dash(strings.Join(untagged, " ")), dash(strings.Join(tagged, " ")))
	}
	return t.Flush()
}

// LAG is one port-channel with its member ports.
type LAG struct {
	ID          string   `json:"id" yaml:"id"`
	Channel     string   `json:"channel" yaml:"channel"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Members     []string `json:"members" yaml:"members"`
}

// LAGs collects every port-channel of cfg with its members.
func LAGs(cfg *runconfig.Configuration) ([]LAG, error) {
	lags := make([]LAG, 0, cfg.Len(runconfig.KindPortChannel))
	for _, id := range cfg.IDs(runconfig.KindPortChannel) {
		pc, _ := cfg.PortChannel(id)
		members, err := cfg.Members(id)
		if err != nil {
			return nil, err
		}
		if members == nil {
			members = []string{}
		}
		lags = append(lags, LAG{ID: id, Channel: pc.Channel, Description: pc.Description, Members: members})
	}
	return lags, nil
}

// LAGs writes the port-channel membership view.
func (r *Renderer) LAGs(lags []LAG) error {
	if done, err := r.encode(lags); done {
		return err
	}
	if len(lags) == 0 {
		fmt.Fprintln(r.w, "No port-channels found")
		return nil
	}

	t := r.table("PORT-CHANNEL", "DESCRIPTION", "MEMBERS")
	for _, l := range lags {
		t.Row(l.ID, dash(l.Description), dash(strings.Join(l.Members, " ")))
	}
	return t.Flush()
}

// Summary writes record counts per kind.
func (r *Renderer) Summary(s runconfig.Summary) error {
	if done, err := r.encode(s); done {
		return err
	}
	fmt.Fprintf(r.w, "%s %d\n", cli.DotPad("ethernet", 16), s.Ethernet)
	fmt.Fprintf(r.w, "%s %d\n", cli.DotPad("vlan", 16), s.VLAN)
	fmt.Fprintf(r.w, "%s %d\n", cli.DotPad("port-channel", 16), s.PortChannel)
	return nil
}

// Diagnostics writes skipped-line notices, one per line. The output is
// always plain text.
func Diagnostics(w io.Writer, diags []runconfig.Diagnostic) {
	for _, d := range diags {
		label := cli.Yellow(d.Kind.String())
		if d.Kind == runconfig.DiagMalformed {
			label = cli.Red(d.Kind.String())
		}
		text := strings.TrimSpace(d.Text)
		if d.Kind == runconfig.DiagMalformed && d.Err != nil {
			fmt.Fprintf(w, "line %d: %s [%s] %s: %v\n", d.Line, label, d.Block, text, d.Err)
			continue
		}
		fmt.Fprintf(w, "line %d: %s [%s] %s\n", d.Line, label, d.Block, text)
	}
}

// SwitchportSummary condenses a fragment list for a table cell, e.g.
// "trunk; tagged 10,20-21". VLAN lists are the replayed memberships.
func SwitchportSummary(fragments []runconfig.Switchport) string {
	settings := runconfig.ResolveSwitchports(fragments)
	if settings.IsZero() {
		return dash("")
	}

	var parts []string
	if settings.Mode != "" {
		parts = append(parts, string(settings.Mode))
	}

	var untagged, tagged []int
	for _, m := range runconfig.Memberships(fragments) {
		if m.Tagged {
			tagged = append(tagged, m.VLAN)
		} else {
			untagged = append(untagged, m.VLAN)
		}
	}
	if len(untagged) > 0 {
		parts = append(parts, "untagged "+util.CompactRange(untagged))
	}
	if len(tagged) > 0 {
		parts = append(parts, "tagged "+util.CompactRange(tagged))
	}

	for i := len(fragments) - 1; i >= 0; i-- {
		if ft, ok := fragments[i].(runconfig.GeneralFrameType); ok {
			parts = append(parts, "frames "+ft.AcceptableFrameType)
			break
		}
	}

	if len(parts) == 0 {
		return dash("")
	}
	return strings.Join(parts, "; ")
}

// ClauseText describes a fragment in the words of the clause it came from,
// with VLAN lists compacted.
func ClauseText(sp runconfig.Switchport) string {
	switch x := sp.(type) {
	case runconfig.AccessVLAN:
		return withTagged("access vlan "+util.CompactRange(x.VLANs), x.Tagged)
	case runconfig.ModeSetting:
		return "mode " + string(x.Mode)
	case runconfig.TrunkAllowed:
		return withTagged("trunk allowed vlan "+addRemove(x.Add, x.Remove), x.Tagged)
	case runconfig.GeneralAllowed:
		return withTagged("general allowed vlan "+addRemove(x.Add, x.Remove), x.Tagged)
	case runconfig.GeneralFrameType:
		return "general acceptable-frame-type " + x.AcceptableFrameType
	}
	return fmt.Sprintf("%v", sp)
}

func addRemove(add, remove []int) string {
	if add != nil {
		return "add " + util.CompactRange(add)
	}
	return "remove " + util.CompactRange(remove)
}

func withTagged(s string, tagged *bool) string {
	if tagged != nil && *tagged {
		return s + " tagged"
	}
	return s
}

func memberName(m runconfig.MemberRef) string {
	if m.Kind == runconfig.KindPortChannel {
		return "po" + m.ID
	}
	return m.ID
}

func dash(s string) string {
	if s == "" {
		return cli.Dim("-")
	}
	return s
}
