package context

import (
	"fmt"
	"os"
)

const (
	// DefaultAPI is the fallback platform endpoint
	DefaultAPI = "https://api.example-platform.test"

	// DefaultAccount is the fallback account label
	DefaultAccount = "default"
)

// Environment variable names
const (
	EnvAPI     = "SKIFF_API"
	EnvAccount = "SKIFF_ACCOUNT"
	EnvToken   = "SKIFF_TOKEN"
)

// Resolve determines the active account and endpoint from flags,
// environment variables, and the config file.
//
// Account resolution priority (highest to lowest):
//  1. --account flag (flagAccount parameter)
//  2. SKIFF_ACCOUNT environment variable
//  3. current_account in config file
//  4. Default: "default"
//
// Endpoint resolution priority:
//  1. --api flag (flagAPI parameter)
//  2. SKIFF_API environment variable
//  3. The resolved account's configured API entry
//  4. Default: https://api.example-platform.test
//
// An account does not have to exist in the config file: a bare label is
// enough, since credentials are keyed by (endpoint, label) in the OS
// keyring. The config only supplies per-account defaults.
//
// SKIFF_TOKEN, when set, is carried through as a direct token override
// for CI environments without a keyring.
func Resolve(flagAPI, flagAccount string) (*Resolved, error) {
	cfg, err := Load("")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var account, source string
	if flagAccount != "" {
		account = flagAccount
		source = "flag --account"
	} else if envAccount := os.Getenv(EnvAccount); envAccount != "" {
		account = envAccount
		source = "env " + EnvAccount
	} else if cfg.CurrentAccount != "" {
		account = cfg.CurrentAccount
		source = "config current_account"
	} else {
		account = DefaultAccount
		source = "default"
	}

	api := flagAPI
	if api == "" {
		api = os.Getenv(EnvAPI)
	}
	if api == "" {
		if acct := cfg.GetAccount(account); acct != nil {
			api = acct.API
		}
	}
	if api == "" {
		api = DefaultAPI
	}

	return &Resolved{
		Account: account,
		API:     api,
		Token:   os.Getenv(EnvToken),
		Source:  source,
	}, nil
}
