package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/newtron-network/swparse/pkg/runconfig"
	"github.com/newtron-network/swparse/pkg/util"
)

var showCmd = &cobra.Command{
	Use:   "show <file|-> <kind> <id>",
	Short: "Show one interface",
	Long: `Show a single interface record.

<kind> is ethernet, vlan or port-channel. <id> may be given as stored
(1_g1) or as written in the export (1/g1).

Examples:
  swparse show running-config.txt ethernet 1/g1
  swparse show running-config.txt vlan 10 -o table
  swparse show running-config.txt port-channel 1`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := runconfig.ParseKind(args[1])
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd, args[0])
		if err != nil {
			return err
		}

		rec, err := lookup(cfg, kind, args[2])
		if err != nil {
			return err
		}

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		return r.Interface(rec)
	},
}

// lookup finds a record by identifier, accepting the designator as written.
func lookup(cfg *runconfig.Configuration, kind runconfig.InterfaceKind, id string) (runconfig.Interface, error) {
	rec, err := cfg.Get(kind, id)
	if err == nil || !errors.Is(err, util.ErrNotFound) {
		return rec, err
	}
	if normalized := util.Identifier(id); normalized != id {
		if rec, nerr := cfg.Get(kind, normalized); nerr == nil {
			return rec, nil
		}
	}
	return nil, err
}
