// Package context manages API connection settings for the skiff CLI.
//
// An account context pairs a user-chosen account label with the API
// endpoint it belongs to, similar to kubectl contexts. Users can hold
// concurrent logins under different labels against the same or different
// endpoints and switch between them without re-entering flags.
package context

// Account represents a single named connection configuration.
type Account struct {
	// Name is the account label (e.g., "default", "work", "staging")
	Name string `toml:"name"`

	// API is the platform base URL for this account
	// (e.g., "https://api.example-platform.test")
	API string `toml:"api,omitempty"`
}

// Config represents the full ~/.skiff/config.toml file.
type Config struct {
	// CurrentAccount is the label of the active account
	CurrentAccount string `toml:"current_account"`

	// Accounts maps account labels to their configurations
	Accounts map[string]*Account `toml:"accounts"`
}

// Resolved holds the final connection settings after applying all
// override sources (flags, env vars, config file). Immutable once built.
type Resolved struct {
	// Account is the resolved account label
	Account string

	// API is the resolved platform base URL
	API string

	// Token is an environment-injected token override (CI use).
	// Empty in normal operation; the credential store is consulted instead.
	Token string

	// Source describes how the account was resolved (for debugging)
	Source string
}

// String returns a human-readable representation.
func (r *Resolved) String() string {
	return r.Account + " (" + r.API + ")"
}
