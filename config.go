package portfolio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// EmailConfig holds the SMTP settings for report delivery.
type EmailConfig struct {
	SMTPServer   string   `yaml:"smtp_server"`
	SMTPPort     int      `yaml:"smtp_port"`
	SMTPUser     string   `yaml:"smtp_user"`
	SMTPPassword string   `yaml:"smtp_password"`
	Sender       string   `yaml:"sender"`
	Recipients   []string `yaml:"recipients"`
}

// Validate reports the missing mandatory fields as an error wrapping
// ErrConfigIncomplete, or nil when the configuration is usable.
func (e EmailConfig) Validate() error {
	var missing []string
	if e.SMTPServer == "" {
		missing = append(missing, "smtp_server")
	}
	if e.SMTPPort == 0 {
		missing = append(missing, "smtp_port")
	}
	if e.SMTPUser == "" {
		missing = append(missing, "smtp_user")
	}
	if e.SMTPPassword == "" {
		missing = append(missing, "smtp_password")
	}
	if e.Sender == "" {
		missing = append(missing, "sender")
	}
	if len(e.Recipients) == 0 {
		missing = append(missing, "recipients")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrConfigIncomplete)
	}
	return nil
}

// Config is the explicit, caller-owned configuration passed into reporting
// and email operations. There is no process-wide configuration state.
type Config struct {
	Email EmailConfig `yaml:"email"`
}

// LoadConfig reads config.yaml from the portfolio directory. A missing file
// yields an empty configuration, so read-only commands work unconfigured.
func LoadConfig(dir string) (*Config, error) {
	raw, err := os.ReadFile(filepath.Join(dir, configFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", configFile, err)
	}
	return c, nil
}

// Save writes the configuration back to the portfolio directory.
func (c *Config) Save(dir string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cannot serialize configuration: %w", err)
	}
	path := filepath.Join(dir, configFile)
	// The file holds credentials, keep it owner-only.
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("cannot write %q: %w", path, err)
	}
	return nil
}
