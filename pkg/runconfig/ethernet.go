package runconfig

import (
	"strconv"
	"strings"

	"github.com/newtron-network/swparse/pkg/util"
)

var ethernetRules = []fieldRule[*EthernetInterface]{
	{"opener", containsPhrase(openerEthernet), func(line string, rec *EthernetInterface) error {
		return parseEthernetIdentity(designator(line, openerEthernet), rec)
	}},
	{"description", containsPhrase("description"), func(line string, rec *EthernetInterface) error {
		rec.Description = quotedValue(line, "description")
		return nil
	}},
	{"channel-group", containsPhrase("channel-group"), func(line string, rec *EthernetInterface) error {
		args := fieldsAfter(line, "channel-group")
		if len(args) == 0 {
			return util.NewFieldError("channel-group", "missing group id")
		}
		cg := &ChannelGroup{ID: args[0]}
		if len(args) >= 3 {
			cg.Mode = args[2]
		}
		rec.ChannelGroup = cg
		return nil
	}},
	{"switchport", containsPhrase("switchport"), func(line string, rec *EthernetInterface) error {
		return applySwitchport(line, rec)
	}},
}

// parseEthernetIdentity splits an ethernet designator into stack member,
// port and unit. With a slash, the stack member is the number before the
// first slash and port/unit come from the text after the last one; without,
// the stack member is the leading digit run:
//
//	1/0/3 -> (1, 3, "")
//	1/g3  -> (1, 3, "g")
//	1/3g  -> (1, 3, "g")
//	1g3   -> (1, 3, "g")
func parseEthernetIdentity(designator string, rec *EthernetInterface) error {
	if designator == "" {
		return util.NewFieldError("ethernet designator", "missing")
	}

	var memberPart, segment string
	if i := strings.Index(designator, "/"); i >= 0 {
		memberPart = designator[:i]
		segment = designator[strings.LastIndex(designator, "/")+1:]
	} else {
		memberPart, segment = util.LeadingDigits(designator)
	}

	member, err := strconv.Atoi(memberPart)
	if err != nil {
		return util.NewFieldErrorf("ethernet stack member", "%q in %q is not a number", memberPart, designator)
	}

	portDigits := util.FirstRun(segment, util.IsDigit)
	if portDigits == "" {
		return util.NewFieldErrorf("ethernet port", "no port number in %q", designator)
	}
	port, err := strconv.Atoi(portDigits)
	if err != nil {
		return util.NewFieldErrorf("ethernet port", "%q: %v", portDigits, err)
	}

	rec.StackMember = member
	rec.Port = port
	rec.Unit = util.FirstRun(segment, util.IsLetter)
	return nil
}
