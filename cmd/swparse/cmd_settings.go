package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/swparse/pkg/cli"
	"github.com/newtron-network/swparse/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.swparse/settings.json.

Settings provide defaults for flags; a flag on the command line wins.
  - default_format: --format (json, yaml, table)
  - debug, strict:  --debug, --strict
  - log_file:       --log-file
  - ssh_user, ssh_port, show_command: swparse fetch

Examples:
  swparse settings show
  swparse settings set default_format table
  swparse settings set ssh_user admin
  swparse settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.LoadFrom(settingsPath)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Settings file: %s\n\n", settingsPath)

		t := cli.NewTableTo(cmd.OutOrStdout(), "SETTING", "VALUE")
		for _, key := range settings.Keys() {
			value, _ := s.Get(key)
			if value == "" || value == "false" {
				value = "(not set)"
			}
			t.Row(key, value)
		}
		return t.Flush()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value. An empty value unsets it.

Available settings: ` + strings.Join(settings.Keys(), ", ") + `

Examples:
  swparse settings set default_format yaml
  swparse settings set debug true
  swparse settings set ssh_port 2222`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.LoadFrom(settingsPath)
		if err != nil {
			s = &settings.Settings{}
		}

		if err := s.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("%w (valid: %s)", err, strings.Join(settings.Keys(), ", "))
		}
		if err := s.SaveTo(settingsPath); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.LoadFrom(settingsPath)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		value, err := s.Get(args[0])
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, strings.Join(settings.Keys(), ", "))
		}
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		if err := s.SaveTo(settingsPath); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), settingsPath)
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
