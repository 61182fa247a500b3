// swparse - switch running-config parser
//
// Reads the running-config export of a Dell PowerConnect-style switch and
// prints its interfaces (ethernet, VLAN, port-channel) as structured data.
//
// Input is a file, standard input ("-"), or a live switch over SSH:
//
//	swparse parse running-config.txt                  # JSON document
//	swparse parse running-config.txt --format table   # one table per kind
//	swparse show running-config.txt ethernet 1/g1     # one interface
//	swparse vlans running-config.txt --vlan 10-20     # VLAN membership
//	swparse lags running-config.txt                   # port-channel members
//	swparse fetch core-sw1 -u admin --parse           # fetch over SSH and parse
//
// Defaults for the output format, diagnostics, SSH login and log file can be
// stored with "swparse settings set".
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/newtron-network/swparse/pkg/cli"
	"github.com/newtron-network/swparse/pkg/render"
	"github.com/newtron-network/swparse/pkg/runconfig"
	"github.com/newtron-network/swparse/pkg/settings"
	"github.com/newtron-network/swparse/pkg/source"
	"github.com/newtron-network/swparse/pkg/util"
	"github.com/newtron-network/swparse/pkg/version"
)

var (
	// Global option flags
	formatFlag string
	debugMode  bool
	strictMode bool
	logFile    string
	logJSON    bool
	noColor    bool
	verbose    bool

	// settingsPath is the settings file; overridable for tests.
	settingsPath = settings.DefaultSettingsPath()

	// Global state
	userSettings *settings.Settings
	logCloser    io.Closer
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "swparse",
	Short:             "Switch running-config parser",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `swparse turns a switch running-config export into structured data.

Interface blocks (ethernet, vlan, port-channel) are parsed into records;
everything else in the export is ignored. Use --debug to list the lines
that were skipped.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		userSettings, err = settings.LoadFrom(settingsPath)
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		if isSettingsOrHelp(cmd) {
			return nil
		}

		// Settings fill in flags that were not given
		flags := cmd.Flags()
		if !flags.Changed("format") && userSettings.DefaultFormat != "" {
			formatFlag = userSettings.DefaultFormat
		}
		if !flags.Changed("debug") && userSettings.Debug {
			debugMode = true
		}
		if !flags.Changed("strict") && userSettings.Strict {
			strictMode = true
		}
		if !flags.Changed("log-file") && userSettings.LogFile != "" {
			logFile = userSettings.LogFile
		}

		if _, err := render.ParseFormat(formatFlag); err != nil {
			return err
		}

		// Colors only reach a terminal, and never once NO_COLOR turned them off
		cli.SetColor(cli.ColorEnabled() && !noColor && terminalWriter(cmd.OutOrStdout()))

		if logJSON {
			util.SetJSONFormat()
		} else {
			util.SetTextFormat()
		}

		// Quiet by default; -v (or a log file with --debug) records debug entries
		if verbose || (debugMode && logFile != "") {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		if logFile != "" {
			closer, err := util.SetLogFile(logFile, util.RotationConfig{
				MaxSizeMB:  10,
				MaxBackups: 5,
			}, verbose)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			logCloser = closer
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser == nil {
			return nil
		}
		err := logCloser.Close()
		logCloser = nil
		util.SetLogOutput(os.Stderr)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "o", "json", "Output format: json, yaml or table")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Report lines that were skipped")
	rootCmd.PersistentFlags().BoolVar(&strictMode, "strict", false, "Fail on the first malformed field")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotated file")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write log entries as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored table output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "parse", Title: "Parsing:"},
		&cobra.Group{ID: "device", Title: "Device Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{parseCmd, showCmd, vlansCmd, lagsCmd} {
		cmd.GroupID = "parse"
		rootCmd.AddCommand(cmd)
	}

	fetchCmd.GroupID = "device"
	rootCmd.AddCommand(fetchCmd)

	for _, cmd := range []*cobra.Command{settingsCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), "swparse")
	},
}

func printVersion(w io.Writer, tool string) {
	if version.Version == "dev" {
		fmt.Fprintf(w, "%s dev build (use 'make build' for version info)\n", tool)
	} else {
		fmt.Fprintf(w, "%s %s\n", tool, version.Info())
	}
}

// terminalWriter reports whether w is a terminal.
func terminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}

// isSettingsOrHelp reports whether cmd only touches settings or help text
// and so needs no logging or format setup.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "settings", "help", "version":
			return true
		}
	}
	return false
}

// parseOptions returns the parser options selected by flags and settings.
func parseOptions(src string) []runconfig.Option {
	return []runconfig.Option{
		runconfig.WithDebug(debugMode),
		runconfig.WithStrict(strictMode),
		runconfig.WithLogger(util.WithSource(src)),
	}
}

// parseReader parses r and reports skipped lines on stderr when --debug is
// set.
func parseReader(cmd *cobra.Command, r io.Reader, src string) (*runconfig.Configuration, error) {
	p := runconfig.New(parseOptions(src)...)
	cfg, err := p.Parse(cmd.Context(), r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src, err)
	}
	if debugMode {
		render.Diagnostics(cmd.ErrOrStderr(), p.Diagnostics())
	}
	return cfg, nil
}

// loadConfig opens and parses a running-config file ("-" for stdin).
func loadConfig(cmd *cobra.Command, path string) (*runconfig.Configuration, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseReader(cmd, rc, source.Name(path))
}

// newRenderer returns a renderer for the selected format on cmd's output.
func newRenderer(cmd *cobra.Command) (*render.Renderer, error) {
	format, err := render.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}
	return render.New(cmd.OutOrStdout(), format), nil
}

// inputArg returns the first positional argument, or "-" for stdin.
func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return source.Stdin
}
