package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/newtron-network/swparse/pkg/util"
)

const (
	// DefaultCommand prints the running-config on the supported switches.
	DefaultCommand = "show running-config"
	// DefaultTimeout bounds the TCP dial.
	DefaultTimeout = 30 * time.Second
)

// SSHConfig describes how to reach a switch.
type SSHConfig struct {
	Host     string
	Port     int // 0 means 22
	User     string
	Password string
	// Command is run with an exec request; empty means DefaultCommand.
	Command string
	// Timeout bounds the TCP dial; zero means DefaultTimeout.
	Timeout time.Duration
	// HostKeyCallback verifies the switch's host key. When nil the key is
	// not checked and a warning is logged.
	HostKeyCallback ssh.HostKeyCallback
}

// Validate reports missing or out-of-range fields.
func (c SSHConfig) Validate() error {
	vb := &util.ValidationBuilder{}
	vb.Add(c.Host != "", "host is required")
	vb.Add(c.User != "", "user is required")
	vb.Add(c.Port >= 0 && c.Port <= 65535, fmt.Sprintf("port %d out of range", c.Port))
	vb.Add(c.Timeout >= 0, "timeout must not be negative")
	return vb.Build()
}

func (c SSHConfig) addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

func (c SSHConfig) command() string {
	if c.Command != "" {
		return c.Command
	}
	return DefaultCommand
}

// SSHFetcher retrieves a running-config from a live switch.
type SSHFetcher struct {
	cfg SSHConfig
}

// NewSSHFetcher validates cfg and returns a fetcher for it.
func NewSSHFetcher(cfg SSHConfig) (*SSHFetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &SSHFetcher{cfg: cfg}, nil
}

// Fetch connects, runs the show command and returns its standard output.
// Cancelling ctx closes the connection and aborts the fetch.
func (f *SSHFetcher) Fetch(ctx context.Context) (io.Reader, error) {
	addr := f.cfg.addr()
	log := util.WithSource(addr)

	hostKey := f.cfg.HostKeyCallback
	if hostKey == nil {
		log.Warnf("SSH to %s: host key verification disabled", addr)
		hostKey = ssh.InsecureIgnoreHostKey()
	}
	password := f.cfg.Password
	clientCfg := &ssh.ClientConfig{
		User: f.cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKey,
		Timeout:         f.cfg.Timeout,
	}

	dialer := net.Dialer{Timeout: f.cfg.Timeout}
	nc, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s@%s: %w", f.cfg.User, addr, err)
	}
	stop := context.AfterFunc(ctx, func() { nc.Close() })
	defer stop()

	conn, chans, reqs, err := ssh.NewClientConn(nc, addr, clientCfg)
	if err != nil {
		nc.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("SSH handshake %s@%s: %w", f.cfg.User, addr, err)
	}
	client := ssh.NewClient(conn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("SSH session on %s: %w", addr, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	cmd := f.cfg.command()
	log.Debugf("running %q", cmd)
	if err := session.Run(cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %q on %s: %w: %s", cmd, addr, err, msg)
		}
		return nil, fmt.Errorf("running %q on %s: %w", cmd, addr, err)
	}
	log.Debugf("received %d bytes", stdout.Len())
	return bytes.NewReader(stdout.Bytes()), nil
}
