package runconfig

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/newtron-network/swparse/internal/testutil"
	"github.com/newtron-network/swparse/pkg/util"
)

func boolPtr(b bool) *bool { return &b }

func TestParse_UplinkScenario(t *testing.T) {
	cfg := testutil.Must(ParseString(testutil.UplinkConfig))(t)

	eth, ok := cfg.Ethernet("1_0_3")
	if !ok {
		t.Fatalf("ethernet 1_0_3 not found; have %v", cfg.IDs(KindEthernet))
	}
	if eth.Description != "uplink" {
		t.Errorf("Description = %q, want %q", eth.Description, "uplink")
	}

	want := []Switchport{
		ModeSetting{Mode: ModeTrunk},
		TrunkAllowed{Add: []int{10, 20, 21, 22}},
	}
	if !reflect.DeepEqual(eth.Switchports, want) {
		t.Errorf("Switchports = %#v, want %#v", eth.Switchports, want)
	}

	if cfg.Len(KindVLAN) != 0 || cfg.Len(KindPortChannel) != 0 {
		t.Errorf("unexpected records: %+v", cfg.Summary())
	}
}

func TestParse_BlankAndCommentLinesIgnored(t *testing.T) {
	plain := []string{
		"interface ethernet 1/g1",
		"description 'a'",
		"switchport access vlan 10",
		"exit",
	}
	noisy := []string{
		"! leading comment",
		"",
		"interface ethernet 1/g1",
		"   ",
		"!inside block",
		"description 'a'",
		"  ! indented comment",
		"",
		"switchport access vlan 10",
		"exit",
		"!",
	}

	want := testutil.Must(ParseLines(plain))(t)
	got := testutil.Must(ParseLines(noisy))(t)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blank/comment lines changed the result:\n got  %#v\n want %#v", got, want)
	}
}

func TestParser_BlankAndCommentKeepBlockOpen(t *testing.T) {
	p := New()
	for _, line := range []string{"interface port-channel 7", "", "! note"} {
		if err := p.processLine(line); err != nil {
			t.Fatalf("processLine(%q): %v", line, err)
		}
	}
	if p.block != KindPortChannel {
		t.Errorf("block = %s, want port-channel", p.block)
	}
	if p.current == nil || p.current.ID() != "7" {
		t.Errorf("current record = %v, want port-channel 7", p.current)
	}
}

func TestParse_ExitClosesBlock(t *testing.T) {
	p := New(WithDebug(true))
	testutil.SilenceLog(t)

	cfg, err := p.ParseLines([]string{
		"interface ethernet 1/g5",
		"description 'before'",
		"exit",
		"description 'after'",
		"switchport mode trunk",
	})
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}

	if p.block != KindNone || p.current != nil {
		t.Errorf("parser still inside %s block", p.block)
	}

	eth, _ := cfg.Ethernet("1_g5")
	if eth.Description != "before" {
		t.Errorf("Description = %q, want %q", eth.Description, "before")
	}
	if len(eth.Switchports) != 0 {
		t.Errorf("switchport after exit was applied: %v", eth.Switchports)
	}

	diags := p.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Kind != DiagUnrecognized || d.Block != KindNone {
			t.Errorf("unexpected diagnostic %+v", d)
		}
	}
	if diags[0].Line != 4 || diags[1].Line != 5 {
		t.Errorf("diagnostic lines = %d, %d; want 4, 5", diags[0].Line, diags[1].Line)
	}
}

func TestParse_EthernetIdentity(t *testing.T) {
	tests := []struct {
		line   string
		id     string
		member int
		port   int
		unit   string
	}{
		{"interface ethernet 1/0/3", "1_0_3", 1, 3, ""},
		{"interface ethernet 1/g3", "1_g3", 1, 3, "g"},
		{"interface ethernet 1/3g", "1_3g", 1, 3, "g"},
		{"interface ethernet 1g3", "1g3", 1, 3, "g"},
		{"interface ethernet 2/xg12", "2_xg12", 2, 12, "xg"},
		{"  interface ethernet   1/g3", "1_g3", 1, 3, "g"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cfg := testutil.Must(ParseLines([]string{tt.line, "exit"}))(t)
			eth, ok := cfg.Ethernet(tt.id)
			if !ok {
				t.Fatalf("ethernet %q not found; have %v", tt.id, cfg.IDs(KindEthernet))
			}
			if eth.StackMember != tt.member || eth.Port != tt.port || eth.Unit != tt.unit {
				t.Errorf("identity = (%d, %d, %q), want (%d, %d, %q)",
					eth.StackMember, eth.Port, eth.Unit, tt.member, tt.port, tt.unit)
			}
		})
	}
}

func TestParse_TaggedDetection(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Switchport
	}{
		{
			name: "trunk add tagged",
			line: "switchport trunk allowed vlan add 10 tagged",
			want: TrunkAllowed{Tagged: boolPtr(true), Add: []int{10}},
		},
		{
			name: "trunk add untagged word still counts",
			line: "switchport trunk allowed vlan add 10 untagged",
			want: TrunkAllowed{Tagged: boolPtr(true), Add: []int{10}},
		},
		{
			name: "trunk add without tagged leaves it unset",
			line: "switchport trunk allowed vlan add 10",
			want: TrunkAllowed{Add: []int{10}},
		},
		{
			name: "general remove tagged",
			line: "switchport general allowed vlan remove 30-31 tagged",
			want: GeneralAllowed{Tagged: boolPtr(true), Remove: []int{30, 31}},
		},
		{
			name: "access tagged",
			line: "switchport access vlan 5 tagged",
			want: AccessVLAN{Tagged: boolPtr(true), VLANs: []int{5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.Must(ParseLines([]string{"interface port-channel 2", tt.line, "exit"}))(t)
			pc, _ := cfg.PortChannel("2")
			if len(pc.Switchports) != 1 {
				t.Fatalf("got %d fragments, want 1", len(pc.Switchports))
			}
			if !reflect.DeepEqual(pc.Switchports[0], tt.want) {
				t.Errorf("fragment = %#v, want %#v", pc.Switchports[0], tt.want)
			}
		})
	}
}

func TestParse_RepeatIsStructurallyEqual(t *testing.T) {
	first := testutil.Must(ParseString(testutil.StackConfig))(t)
	second := testutil.Must(ParseString(testutil.StackConfig))(t)
	if !reflect.DeepEqual(first, second) {
		t.Error("two parses of the same input differ")
	}
	if first == second {
		t.Error("parses returned the same Configuration pointer")
	}
}

func TestParse_StackConfig(t *testing.T) {
	cfg := testutil.Must(ParseString(testutil.StackConfig))(t)

	if got, want := cfg.Summary(), (Summary{Ethernet: 4, VLAN: 3, PortChannel: 1}); got != want {
		t.Fatalf("Summary() = %+v, want %+v", got, want)
	}

	if got := cfg.IDs(KindEthernet); !reflect.DeepEqual(got, []string{"1_g1", "1_g2", "1_xg1", "2_xg1"}) {
		t.Errorf("ethernet IDs = %v", got)
	}

	g1, _ := cfg.Ethernet("1_g1")
	if g1.Description != "server  rack 1" {
		t.Errorf("1_g1 description = %q", g1.Description)
	}
	if !reflect.DeepEqual(g1.Switchports, []Switchport{AccessVLAN{VLANs: []int{10}}}) {
		t.Errorf("1_g1 switchports = %#v", g1.Switchports)
	}

	g2, _ := cfg.Ethernet("1_g2")
	wantG2 := []Switchport{
		ModeSetting{Mode: ModeGeneral},
		GeneralAllowed{Tagged: boolPtr(true), Add: []int{20}},
		GeneralAllowed{Add: []int{10}},
		GeneralFrameType{AcceptableFrameType: "tagged-only"},
	}
	if !reflect.DeepEqual(g2.Switchports, wantG2) {
		t.Errorf("1_g2 switchports = %#v, want %#v", g2.Switchports, wantG2)
	}

	xg, _ := cfg.Ethernet("2_xg1")
	if xg.ChannelGroup == nil || *xg.ChannelGroup != (ChannelGroup{ID: "1", Mode: "auto"}) {
		t.Errorf("2_xg1 channel group = %+v", xg.ChannelGroup)
	}
	if xg.StackMember != 2 || xg.Port != 1 || xg.Unit != "xg" {
		t.Errorf("2_xg1 identity = (%d, %d, %q)", xg.StackMember, xg.Port, xg.Unit)
	}

	v10, ok := cfg.VLAN("10")
	if !ok || v10.VLAN != 10 || v10.Description != "Servers" {
		t.Errorf("vlan 10 = %+v", v10)
	}

	pc, ok := cfg.PortChannel("1")
	if !ok {
		t.Fatal("port-channel 1 missing")
	}
	if pc.Channel != "1" || pc.Description != "to-distribution" {
		t.Errorf("port-channel 1 = %+v", pc)
	}
	wantPC := []Switchport{
		ModeSetting{Mode: ModeTrunk},
		TrunkAllowed{Add: []int{10, 20, 21, 22}},
		TrunkAllowed{Remove: []int{22}},
	}
	if !reflect.DeepEqual(pc.Switchports, wantPC) {
		t.Errorf("port-channel switchports = %#v, want %#v", pc.Switchports, wantPC)
	}
}

func TestParse_ReopenReusesRecord(t *testing.T) {
	cfg := testutil.Must(ParseLines([]string{
		"interface ethernet 1/g1",
		"description 'first'",
		"switchport mode trunk",
		"exit",
		"interface ethernet 1/g1",
		"description 'second'",
		"switchport trunk allowed vlan add 10",
		"exit",
	}))(t)

	if n := cfg.Len(KindEthernet); n != 1 {
		t.Fatalf("got %d ethernet records, want 1", n)
	}
	eth, _ := cfg.Ethernet("1_g1")
	if eth.Description != "second" {
		t.Errorf("Description = %q, want later value %q", eth.Description, "second")
	}
	if len(eth.Switchports) != 2 {
		t.Errorf("switchports should accumulate across blocks, got %v", eth.Switchports)
	}
}

func TestParse_OpenerTakesPrecedence(t *testing.T) {
	// No exit between blocks: the second opener switches the current block.
	cfg := testutil.Must(ParseLines([]string{
		"interface ethernet 1/g1",
		"interface vlan 30",
		"name \"Printers\"",
		"interface port-channel 4",
		"switchport mode general",
		"exit",
	}))(t)

	eth, _ := cfg.Ethernet("1_g1")
	if eth.Description != "" || len(eth.Switchports) != 0 {
		t.Errorf("ethernet record received lines from later blocks: %+v", eth)
	}
	vlan, _ := cfg.VLAN("30")
	if vlan.Description != "Printers" {
		t.Errorf("vlan 30 description = %q", vlan.Description)
	}
	pc, _ := cfg.PortChannel("4")
	if !reflect.DeepEqual(pc.Switchports, []Switchport{ModeSetting{Mode: ModeGeneral}}) {
		t.Errorf("port-channel switchports = %#v", pc.Switchports)
	}
}

func TestParse_SwitchportOnlyAppendedToOpenBlock(t *testing.T) {
	cfg := testutil.Must(ParseLines([]string{
		"interface vlan 10",
		"switchport mode trunk",
		"exit",
		"interface ethernet 1/g1",
		"switchport mode trunk",
		"exit",
	}))(t)

	vlan, _ := cfg.VLAN("10")
	if len(vlan.Switchports) != 0 {
		t.Errorf("VLAN block has no switchport grammar, got %v", vlan.Switchports)
	}
	eth, _ := cfg.Ethernet("1_g1")
	if len(eth.Switchports) != 1 {
		t.Errorf("ethernet switchports = %v", eth.Switchports)
	}
}

func TestParse_UnknownSwitchportDropped(t *testing.T) {
	testutil.SilenceLog(t)
	p := New(WithDebug(true))
	cfg := testutil.Must(p.ParseLines([]string{
		"interface ethernet 1/g1",
		"switchport mode access",
		"switchport protected 1",
		"exit",
	}))(t)

	eth, _ := cfg.Ethernet("1_g1")
	if len(eth.Switchports) != 0 {
		t.Errorf("unrecognised switchport clauses were appended: %v", eth.Switchports)
	}
	diags := p.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v, want 2", diags)
	}
	if diags[0].Block != KindEthernet {
		t.Errorf("diagnostic block = %s, want ethernet", diags[0].Block)
	}
}

func TestParse_MalformedFieldSkipped(t *testing.T) {
	testutil.SilenceLog(t)
	p := New(WithDebug(true))
	cfg, err := p.ParseLines([]string{
		"interface ethernet 1/g1",
		"switchport access vlan abc",
		"switchport trunk allowed vlan add",
		"switchport mode trunk",
		"exit",
		"interface vlan ten",
		"name \"Bad\"",
		"exit",
	})
	if err != nil {
		t.Fatalf("non-strict parse returned error: %v", err)
	}

	eth, _ := cfg.Ethernet("1_g1")
	if !reflect.DeepEqual(eth.Switchports, []Switchport{ModeSetting{Mode: ModeTrunk}}) {
		t.Errorf("switchports = %#v, want only the mode fragment", eth.Switchports)
	}

	vlan, ok := cfg.VLAN("ten")
	if !ok {
		t.Fatal("record for malformed VLAN opener should still exist")
	}
	if vlan.VLAN != 0 || vlan.Description != "Bad" {
		t.Errorf("vlan record = %+v", vlan)
	}

	var malformed int
	for _, d := range p.Diagnostics() {
		if d.Kind == DiagMalformed {
			malformed++
			if !errors.Is(d.Err, util.ErrMalformedField) {
				t.Errorf("diagnostic error %v should wrap ErrMalformedField", d.Err)
			}
		}
	}
	if malformed != 3 {
		t.Errorf("got %d malformed diagnostics, want 3: %v", malformed, p.Diagnostics())
	}
}

func TestParse_StrictMalformedField(t *testing.T) {
	_, err := ParseLines([]string{
		"interface ethernet 1/g1",
		"switchport mode trunk",
		"switchport trunk allowed vlan add 10-x",
		"exit",
	}, WithStrict(true))

	var pe *util.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *util.ParseError", err)
	}
	if pe.Line != 3 {
		t.Errorf("Line = %d, want 3", pe.Line)
	}
	if !strings.Contains(pe.Text, "10-x") {
		t.Errorf("Text = %q", pe.Text)
	}
	if !errors.Is(err, util.ErrMalformedField) {
		t.Error("strict error should wrap ErrMalformedField")
	}
}

func TestParse_OutOfRangeVLANList(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"zero", "switchport access vlan 0"},
		{"above 4094", "switchport trunk allowed vlan add 10,4095"},
		{"wide range", "switchport access vlan 1-5000000"},
		{"max int range", "switchport general allowed vlan add 1-9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{"interface ethernet 1/g1", "switchport mode trunk", tt.line, "exit"}

			cfg := testutil.Must(ParseLines(lines))(t)
			eth, ok := cfg.Ethernet("1_g1")
			if !ok {
				t.Fatal("ethernet 1_g1 not parsed")
			}
			want := []Switchport{ModeSetting{Mode: ModeTrunk}}
			if !reflect.DeepEqual(eth.Switchports, want) {
				t.Errorf("switchports = %#v, want only the mode fragment", eth.Switchports)
			}

			_, err := ParseLines(lines, WithStrict(true))
			var pe *util.ParseError
			if !errors.As(err, &pe) || pe.Line != 3 {
				t.Fatalf("strict error = %v, want *util.ParseError on line 3", err)
			}
			if !errors.Is(err, util.ErrMalformedField) {
				t.Errorf("strict error should wrap ErrMalformedField: %v", err)
			}
		})
	}
}

func TestParse_StrictIgnoresUnrecognized(t *testing.T) {
	cfg, err := ParseLines([]string{
		"hostname core",
		"interface ethernet 1/g1",
		"spanning-tree portfast",
		"exit",
	}, WithStrict(true))
	if err != nil {
		t.Fatalf("unrecognised lines must not fail a strict parse: %v", err)
	}
	if cfg.Len(KindEthernet) != 1 {
		t.Errorf("ethernet records = %d", cfg.Len(KindEthernet))
	}
}

func TestParse_MissingDesignator(t *testing.T) {
	testutil.SilenceLog(t)
	p := New(WithDebug(true))
	cfg := testutil.Must(p.ParseLines([]string{
		"interface ethernet",
		"description 'orphan'",
		"exit",
	}))(t)
	if cfg.Len(KindEthernet) != 0 {
		t.Errorf("record created for opener without designator: %v", cfg.IDs(KindEthernet))
	}
	diags := p.Diagnostics()
	if len(diags) != 2 || diags[0].Kind != DiagMalformed || diags[1].Kind != DiagUnrecognized {
		t.Errorf("diagnostics = %v", diags)
	}
}

func TestParse_DiagnosticsOnlyWhenDebug(t *testing.T) {
	buf := testutil.CaptureLog(t)
	lines := []string{"hostname core", "interface ethernet 1/g1", "speed 100", "exit"}

	quiet := New()
	testutil.Must(quiet.ParseLines(lines))(t)
	if len(quiet.Diagnostics()) != 0 {
		t.Errorf("diagnostics collected without debug: %v", quiet.Diagnostics())
	}
	if buf.Len() != 0 {
		t.Errorf("log written without debug: %s", buf.String())
	}

	loud := New(WithDebug(true))
	withDebug := testutil.Must(loud.ParseLines(lines))(t)
	if len(loud.Diagnostics()) != 2 {
		t.Errorf("diagnostics = %v, want 2", loud.Diagnostics())
	}
	if !strings.Contains(buf.String(), "unrecognised line: speed 100") {
		t.Errorf("log missing diagnostic: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "block=ethernet") {
		t.Errorf("log missing block field: %s", buf.String())
	}

	withoutDebug := testutil.Must(ParseLines(lines))(t)
	if !reflect.DeepEqual(withDebug, withoutDebug) {
		t.Error("debug flag changed the parsed configuration")
	}
}

func TestParser_SingleUse(t *testing.T) {
	p := New()
	testutil.Must(p.ParseLines(nil))(t)
	if _, err := p.ParseLines(nil); !errors.Is(err, ErrParserUsed) {
		t.Errorf("second ParseLines error = %v, want ErrParserUsed", err)
	}
	if _, err := p.Parse(context.Background(), strings.NewReader("")); !errors.Is(err, ErrParserUsed) {
		t.Errorf("second Parse error = %v, want ErrParserUsed", err)
	}
}

func TestParseContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseContext(ctx, strings.NewReader(testutil.StackConfig)); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestParse_CRLFInput(t *testing.T) {
	crlf := strings.ReplaceAll(testutil.UplinkConfig, "\n", "\r\n")
	got := testutil.Must(ParseString(crlf))(t)
	want := testutil.Must(ParseString(testutil.UplinkConfig))(t)
	if !reflect.DeepEqual(got, want) {
		t.Error("CRLF line endings changed the result")
	}

	viaLines := testutil.Must(ParseLines(strings.SplitAfter(crlf, "\n")))(t)
	if !reflect.DeepEqual(viaLines, want) {
		t.Error("ParseLines did not strip line terminators")
	}
}

func TestParse_LongLineRejected(t *testing.T) {
	long := "description '" + strings.Repeat("x", maxLineSize+1) + "'"
	_, err := ParseString("interface ethernet 1/g1\n" + long + "\nexit\n")
	if err == nil {
		t.Fatal("expected error for line longer than the scanner limit")
	}
}

func TestParse_ConcurrentCallsAreIndependent(t *testing.T) {
	want := testutil.Must(ParseString(testutil.StackConfig))(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ParseString(testutil.StackConfig)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- errors.New("concurrent parse produced a different configuration")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
