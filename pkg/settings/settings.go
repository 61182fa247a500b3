// Package settings manages persistent user settings for the swparse CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/newtron-network/swparse/pkg/util"
)

// DefaultShowCommand is run on the switch when no show command is configured.
const DefaultShowCommand = "show running-config"

// DefaultSSHPort is used when no SSH port is configured.
const DefaultSSHPort = 22

// Settings holds persistent user preferences. Command-line flags take
// precedence over every field.
type Settings struct {
	// DefaultFormat is the output format when --format is not given
	// (json, yaml or table).
	DefaultFormat string `json:"default_format,omitempty"`

	// Debug enables parse diagnostics by default
	Debug bool `json:"debug,omitempty"`

	// Strict aborts on the first malformed field by default
	Strict bool `json:"strict,omitempty"`

	// SSHUser is the login for swparse fetch
	SSHUser string `json:"ssh_user,omitempty"`

	// SSHPort overrides port 22 for swparse fetch
	SSHPort int `json:"ssh_port,omitempty"`

	// ShowCommand overrides the command swparse fetch runs on the switch
	ShowCommand string `json:"show_command,omitempty"`

	// LogFile routes logs to a rotated file
	LogFile string `json:"log_file,omitempty"`
}

// Keys lists the setting names accepted by Get and Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type accessor struct {
	get func(s *Settings) string
	set func(s *Settings, v string) error
}

var accessors = map[string]accessor{
	"default_format": {
		get: func(s *Settings) string { return s.DefaultFormat },
		set: func(s *Settings, v string) error {
			switch v {
			case "", "json", "yaml", "table":
				s.DefaultFormat = v
				return nil
			}
			return fmt.Errorf("invalid format %q (valid: json, yaml, table)", v)
		},
	},
	"debug": {
		get: func(s *Settings) string { return strconv.FormatBool(s.Debug) },
		set: func(s *Settings, v string) error { return setBool(&s.Debug, v) },
	},
	"strict": {
		get: func(s *Settings) string { return strconv.FormatBool(s.Strict) },
		set: func(s *Settings, v string) error { return setBool(&s.Strict, v) },
	},
	"ssh_user": {
		get: func(s *Settings) string { return s.SSHUser },
		set: func(s *Settings, v string) error { s.SSHUser = v; return nil },
	},
	"ssh_port": {
		get: func(s *Settings) string {
			if s.SSHPort == 0 {
				return ""
			}
			return strconv.Itoa(s.SSHPort)
		},
		set: func(s *Settings, v string) error {
			if v == "" {
				s.SSHPort = 0
				return nil
			}
			port, err := strconv.Atoi(v)
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("invalid port %q", v)
			}
			s.SSHPort = port
			return nil
		},
	},
	"show_command": {
		get: func(s *Settings) string { return s.ShowCommand },
		set: func(s *Settings, v string) error { s.ShowCommand = v; return nil },
	},
	"log_file": {
		get: func(s *Settings) string { return s.LogFile },
		set: func(s *Settings, v string) error { s.LogFile = v; return nil },
	},
}

func setBool(dst *bool, v string) error {
	if v == "" {
		*dst = false
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", v)
	}
	*dst = b
	return nil
}

// Get returns the value of a setting by its JSON name.
func (s *Settings) Get(key string) (string, error) {
	a, ok := accessors[key]
	if !ok {
		return "", util.NewNotFoundError("setting", key)
	}
	return a.get(s), nil
}

// Set assigns a setting by its JSON name. An empty value resets it.
func (s *Settings) Set(key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return util.NewNotFoundError("setting", key)
	}
	if err := a.set(s, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Validate checks values that may have been edited by hand.
func (s *Settings) Validate() error {
	vb := &util.ValidationBuilder{}
	switch s.DefaultFormat {
	case "", "json", "yaml", "table":
	default:
		vb.AddErrorf("default_format %q is not one of json, yaml, table", s.DefaultFormat)
	}
	vb.Add(s.SSHPort >= 0 && s.SSHPort <= 65535, fmt.Sprintf("ssh_port %d out of range", s.SSHPort))
	return vb.Build()
}

// GetSSHPort returns the SSH port (with fallback)
func (s *Settings) GetSSHPort() int {
	if s.SSHPort != 0 {
		return s.SSHPort
	}
	return DefaultSSHPort
}

// GetShowCommand returns the show command (with fallback)
func (s *Settings) GetShowCommand() string {
	if s.ShowCommand != "" {
		return s.ShowCommand
	}
	return DefaultShowCommand
}

// GetFormat returns the output format (with fallback)
func (s *Settings) GetFormat() string {
	if s.DefaultFormat != "" {
		return s.DefaultFormat
	}
	return "json"
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "swparse_settings.json"
	}
	return filepath.Join(home, ".swparse", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
