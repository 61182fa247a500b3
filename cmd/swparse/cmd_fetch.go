package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/newtron-network/swparse/pkg/source"
)

// passwordEnv holds the SSH password for non-interactive use.
const passwordEnv = "SWPARSE_PASSWORD"

// isTerminal is replaced in tests.
var isTerminal = term.IsTerminal

var (
	fetchUser    string
	fetchPort    int
	fetchCommand string
	fetchTimeout time.Duration
	fetchOutput  string
	fetchParse   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <host>",
	Short: "Fetch a running-config from a switch over SSH",
	Long: `Run the show command on a switch over SSH and print its output.

With --parse the output is parsed and rendered like "swparse parse".
The password is read from $SWPARSE_PASSWORD, or prompted for when stdin is
a terminal. Host keys are not verified.

Defaults for --user, --port and --command come from settings
(ssh_user, ssh_port, show_command).

Examples:
  swparse fetch core-sw1 -u admin > core-sw1.cfg
  swparse fetch core-sw1 -u admin --output core-sw1.cfg
  SWPARSE_PASSWORD=secret swparse fetch 10.0.0.5 -u admin --parse -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := source.SSHConfig{
			Host:    args[0],
			User:    fetchUser,
			Port:    fetchPort,
			Command: fetchCommand,
			Timeout: fetchTimeout,
		}
		if !cmd.Flags().Changed("user") && cfg.User == "" {
			cfg.User = userSettings.SSHUser
		}
		if !cmd.Flags().Changed("port") {
			cfg.Port = userSettings.GetSSHPort()
		}
		if !cmd.Flags().Changed("command") {
			cfg.Command = userSettings.GetShowCommand()
		}

		password, err := readPassword(cmd, cfg.User, cfg.Host)
		if err != nil {
			return err
		}
		cfg.Password = password

		fetcher, err := source.NewSSHFetcher(cfg)
		if err != nil {
			return err
		}
		r, err := fetcher.Fetch(cmd.Context())
		if err != nil {
			return err
		}

		if fetchParse {
			parsed, err := parseReader(cmd, r, cfg.Host)
			if err != nil {
				return err
			}
			rend, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			return rend.Configuration(parsed)
		}

		if fetchOutput == "" {
			_, err := io.Copy(cmd.OutOrStdout(), r)
			return err
		}
		f, err := os.Create(fetchOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", fetchOutput, err)
		}
		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", fetchOutput, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved running-config of %s to %s\n", cfg.Host, fetchOutput)
		return nil
	},
}

// readPassword takes the password from the environment, or prompts on the
// terminal.
func readPassword(cmd *cobra.Command, user, host string) (string, error) {
	if pw, ok := os.LookupEnv(passwordEnv); ok {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", fmt.Errorf("no password: set %s or run from a terminal", passwordEnv)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s@%s's password: ", user, host)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchUser, "user", "u", "", "SSH user")
	fetchCmd.Flags().IntVarP(&fetchPort, "port", "p", 22, "SSH port")
	fetchCmd.Flags().StringVar(&fetchCommand, "command", source.DefaultCommand, "Command that prints the running-config")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", source.DefaultTimeout, "Connect timeout")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "Write the running-config to a file instead of stdout")
	fetchCmd.Flags().BoolVar(&fetchParse, "parse", false, "Parse the fetched running-config")
}
