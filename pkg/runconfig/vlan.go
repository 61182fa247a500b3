package runconfig

import (
	"strconv"

	"github.com/newtron-network/swparse/pkg/util"
)

var vlanRules = []fieldRule[*VLANInterface]{
	{"opener", containsPhrase(openerVLAN), func(line string, rec *VLANInterface) error {
		id := designator(line, openerVLAN)
		vlan, err := strconv.Atoi(id)
		if err != nil {
			return util.NewFieldErrorf("vlan id", "%q is not a number", id)
		}
		rec.VLAN = vlan
		return nil
	}},
	// name "Servers"
	{"name", containsPhrase("name"), func(line string, rec *VLANInterface) error {
		rec.Description = quotedValue(line, "name")
		return nil
	}},
}
