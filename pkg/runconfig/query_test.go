package runconfig

import (
	"errors"
	"reflect"
	"testing"

	"github.com/newtron-network/swparse/internal/testutil"
	"github.com/newtron-network/swparse/pkg/util"
)

func TestConfiguration_Summary(t *testing.T) {
	cfg := testutil.Must(ParseString(testutil.StackConfig))(t)
	want := Summary{Ethernet: 4, VLAN: 3, PortChannel: 1}
	if got := cfg.Summary(); got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestConfiguration_VLANMembers(t *testing.T) {
	cfg := testutil.Must(ParseString(testutil.StackConfig))(t)

	want := []VLANMembers{
		{VLAN: 10, Name: "Servers", Members: []MemberRef{
			{Kind: KindEthernet, ID: "1_g1"},
			{Kind: KindEthernet, ID: "1_g2"},
			{Kind: KindPortChannel, ID: "1", Tagged: true},
		}},
		{VLAN: 20, Name: "Voice", Members: []MemberRef{
			{Kind: KindEthernet, ID: "1_g2", Tagged: true},
			{Kind: KindPortChannel, ID: "1", Tagged: true},
		}},
		{VLAN: 21, Members: []MemberRef{
			{Kind: KindPortChannel, ID: "1", Tagged: true},
		}},
	}

	got := cfg.VLANMembers()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VLANMembers() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestConfiguration_Members(t *testing.T) {
	cfg := testutil.Must(ParseString(testutil.StackConfig))(t)

	got, err := cfg.Members("1")
	if err != nil {
		t.Fatalf("Members(1): %v", err)
	}
	if want := []string{"1_xg1", "2_xg1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Members(1) = %v, want %v", got, want)
	}

	_, err = cfg.Members("9")
	if !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Members(9) error = %v, want ErrNotFound", err)
	}
}
