package main

import (
	"github.com/spf13/cobra"
)

var parseSummary bool

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a running-config",
	Long: `Parse a running-config and print every interface record.

Reads standard input when no file (or "-") is given.

Examples:
  swparse parse running-config.txt
  swparse parse running-config.txt --format yaml
  ssh admin@sw1 show running-config | swparse parse - -o table
  swparse parse running-config.txt --summary`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, inputArg(args))
		if err != nil {
			return err
		}

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		if parseSummary {
			return r.Summary(cfg.Summary())
		}
		return r.Configuration(cfg)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseSummary, "summary", false, "Print record counts per interface kind")
}
