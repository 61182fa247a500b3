package main

import (
	"github.com/spf13/cobra"

	"github.com/newtron-network/swparse/pkg/render"
)

var lagsCmd = &cobra.Command{
	Use:   "lags [file|-]",
	Short: "List port-channels and their member ports",
	Long: `List every port-channel with the ethernet ports whose channel-group
matches it.

Examples:
  swparse lags running-config.txt -o table`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, inputArg(args))
		if err != nil {
			return err
		}

		lags, err := render.LAGs(cfg)
		if err != nil {
			return err
		}

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		return r.LAGs(lags)
	},
}
