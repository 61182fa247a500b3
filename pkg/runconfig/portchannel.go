package runconfig

import "github.com/newtron-network/swparse/pkg/util"

var portChannelRules = []fieldRule[*PortChannelInterface]{
	{"opener", containsPhrase(openerPortChannel), func(line string, rec *PortChannelInterface) error {
		channel := designator(line, openerPortChannel)
		if channel == "" {
			return util.NewFieldError("port-channel id", "missing")
		}
		rec.Channel = channel
		return nil
	}},
	{"description", containsPhrase("description"), func(line string, rec *PortChannelInterface) error {
		rec.Description = quotedValue(line, "description")
		return nil
	}},
	{"switchport", containsPhrase("switchport"), func(line string, rec *PortChannelInterface) error {
		return applySwitchport(line, rec)
	}},
}
