package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Config represents the main configuration for clipkeep.
type Config struct {
	HostID    string          `toml:"host_id" validate:"required"`
	BaseDir   string          `toml:"base_dir" validate:"required"`
	LogDir    string          `toml:"log_dir"`
	Vaults    []VaultConfig   `toml:"vaults" validate:"dive"`
	Database  DatabaseConfig  `toml:"database"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Monitor   MonitorConfig   `toml:"monitor"`
	API       APIConfig       `toml:"api"`
}

// VaultConfig represents configuration for a backup vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type" validate:"oneof=memory s3 filesystem"`
	Name string `toml:"name" validate:"required"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty" validate:"required_if=Type s3"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"`
	// Static credentials; when empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty" validate:"required_if=Type filesystem"`
}

// DatabaseConfig represents configuration for the key-value store backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type" default:"sqlite" validate:"oneof=sqlite memory bolt"`
	DataDir string `toml:"data_dir,omitempty"` // used for type=sqlite and type=bolt
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	Type string `toml:"type" default:"system" validate:"oneof=system memory"`
}

// MonitorConfig controls the watch loop.
type MonitorConfig struct {
	// PollInterval is how often the clipboard is checked; it must stay under 5s.
	PollInterval time.Duration `toml:"poll_interval" default:"2s"`
}

// APIConfig controls the local HTTP API.
type APIConfig struct {
	Listen string `toml:"listen" default:"127.0.0.1:7411" validate:"hostname_port"`
	// Token, when set, is required as a bearer token on every request.
	Token string `toml:"token,omitempty"`
}

// MaxPollInterval is the upper bound on the watch interval.
const MaxPollInterval = 5 * time.Second

// NewConfig creates a new Config with the provided values and defaults for
// every section.
func NewConfig(hostID, baseDir string) *Config {
	cfg := &Config{
		HostID:  hostID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	// Only fails for malformed tags.
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Monitor.PollInterval <= 0 || c.Monitor.PollInterval >= MaxPollInterval {
		return fmt.Errorf("invalid config: monitor.poll_interval must be between 0 and %s, got %s",
			MaxPollInterval, c.Monitor.PollInterval)
	}
	return nil
}

// Vault returns the vault config with the given name, or the first vault
// when name is empty.
func (c *Config) Vault(name string) (*VaultConfig, error) {
	if len(c.Vaults) == 0 {
		return nil, fmt.Errorf("no vaults configured")
	}
	if name == "" {
		return &c.Vaults[0], nil
	}
	for i := range c.Vaults {
		if c.Vaults[i].Name == name {
			return &c.Vaults[i], nil
		}
	}
	return nil, fmt.Errorf("vault %q not configured", name)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Sections left out of the
// file get their defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes a new config file at path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
