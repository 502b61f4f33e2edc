package deploy

import (
	"fmt"
	"os"
	"strings"
)

// ParseEnv parses one --env command-line token into a name and a JSON
// value for the host configuration payload.
//
// Forms:
//
//	NAME=VALUE  -> (NAME, "VALUE")
//	NAME=       -> (NAME, null), clearing the variable on the host
//	NAME        -> (NAME, value of NAME in the local environment);
//	               fails if NAME is unset locally
func ParseEnv(token string) (string, any, error) {
	if token == "" {
		return "", nil, fmt.Errorf("empty environment variable")
	}

	name, value, found := strings.Cut(token, "=")
	if name == "" {
		return "", nil, fmt.Errorf("empty name in %q", token)
	}

	if !found {
		v, ok := os.LookupEnv(name)
		if !ok {
			return "", nil, fmt.Errorf("environment variable %s is not set", name)
		}
		return name, v, nil
	}

	if value == "" {
		return name, nil, nil
	}
	return name, value, nil
}

// ParseEnvSet parses repeated --env tokens into a payload map.
// A name given more than once keeps the last value.
func ParseEnvSet(tokens []string) (map[string]any, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	env := make(map[string]any, len(tokens))
	for _, token := range tokens {
		name, value, err := ParseEnv(token)
		if err != nil {
			return nil, fmt.Errorf("invalid env var %q: %w", token, err)
		}
		env[name] = value
	}
	return env, nil
}
