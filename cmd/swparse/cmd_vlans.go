package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/swparse/pkg/runconfig"
	"github.com/newtron-network/swparse/pkg/util"
)

var vlanFilter string

var vlansCmd = &cobra.Command{
	Use:   "vlans [file|-]",
	Short: "List VLAN membership",
	Long: `List, for every VLAN granted by a switchport clause, the ethernet
ports and port-channels that carry it, split into untagged and tagged.

Examples:
  swparse vlans running-config.txt -o table
  swparse vlans running-config.txt --vlan 10,20-29`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var keep map[int]bool
		if vlanFilter != "" {
			ids, err := util.ParseVLANFilter(vlanFilter)
			if err != nil {
				return fmt.Errorf("--vlan: %w", err)
			}
			keep = make(map[int]bool, len(ids))
			for _, id := range ids {
				keep[id] = true
			}
		}

		cfg, err := loadConfig(cmd, inputArg(args))
		if err != nil {
			return err
		}

		vlans := cfg.VLANMembers()
		if keep != nil {
			filtered := make([]runconfig.VLANMembers, 0, len(vlans))
			for _, v := range vlans {
				if keep[v.VLAN] {
					filtered = append(filtered, v)
				}
			}
			vlans = filtered
		}

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		return r.VLANs(vlans)
	},
}

func init() {
	vlansCmd.Flags().StringVar(&vlanFilter, "vlan", "", "Only show these VLANs (e.g. 10,20-29)")
}
