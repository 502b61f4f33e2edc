package context

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ConfigDir is the skiff configuration directory name
	ConfigDir = ".skiff"

	// ConfigFile is the account configuration filename
	ConfigFile = "config.toml"
)

// DefaultConfigPath returns the default config file path (~/.skiff/config.toml).
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %w", err)
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

// Load reads the config file from the given path.
// If path is empty, uses the default path.
// Returns an empty config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{
			Accounts: make(map[string]*Account),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Accounts == nil {
		cfg.Accounts = make(map[string]*Account)
	}

	// Ensure names are set in each account entry
	for name, acct := range cfg.Accounts {
		if acct.Name == "" {
			acct.Name = name
		}
	}

	return &cfg, nil
}

// Save writes the config to the given path.
// If path is empty, uses the default path.
// Creates the directory if it doesn't exist.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Restricted permissions: credentials live in the OS keyring, but the
	// file still names accounts and endpoints
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetAccount returns the named account, or nil if not found.
func (c *Config) GetAccount(name string) *Account {
	if c.Accounts == nil {
		return nil
	}
	return c.Accounts[name]
}

// SetAccount adds or updates an account.
func (c *Config) SetAccount(acct *Account) {
	if c.Accounts == nil {
		c.Accounts = make(map[string]*Account)
	}
	c.Accounts[acct.Name] = acct
}

// DeleteAccount removes an account by name.
// Returns true if the account existed.
func (c *Config) DeleteAccount(name string) bool {
	if c.Accounts == nil {
		return false
	}
	_, exists := c.Accounts[name]
	if exists {
		delete(c.Accounts, name)
	}
	if c.CurrentAccount == name {
		c.CurrentAccount = ""
	}
	return exists
}

// AccountNames returns a sorted list of all account labels.
func (c *Config) AccountNames() []string {
	if c.Accounts == nil {
		return nil
	}

	names := make([]string, 0, len(c.Accounts))
	for name := range c.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasAccount returns true if the named account exists.
func (c *Config) HasAccount(name string) bool {
	if c.Accounts == nil {
		return false
	}
	_, exists := c.Accounts[name]
	return exists
}
