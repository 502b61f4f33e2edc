// Package runmode hands a module off to the local execution runtime.
//
// The runtime itself ships separately; this package only assembles its
// configuration and invokes whatever implementation has been linked in.
// Configuration travels as an explicit struct rather than process-wide
// environment variables, so the hand-off is testable without forking.
package runmode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
)

// Config carries everything the execution runtime needs to serve a
// module locally.
type Config struct {
	// ModulePath is the local WASM module file to execute
	ModulePath string

	// Function is the entry function name within the module
	Function string

	// Port is the local listening port
	Port int

	// CDNDirectory is an optional directory of public static assets
	CDNDirectory string

	// ProtectedCDNDirectory is an optional directory of static assets
	// served only to authenticated requests
	ProtectedCDNDirectory string

	// KVSDirectory is the key-value store data directory
	KVSDirectory string

	// Env is the module's environment, typically read from an env file
	Env map[string]string
}

// Runner executes a module until ctx is cancelled or the runtime stops.
type Runner interface {
	Run(ctx context.Context, cfg Config) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cfg Config) error

func (f RunnerFunc) Run(ctx context.Context, cfg Config) error {
	return f(ctx, cfg)
}

// ErrNoRuntime indicates no execution runtime is linked into the build.
var ErrNoRuntime = errors.New("no module runtime is linked into this build")

var (
	runnerMu sync.Mutex
	runner   Runner
)

// Register installs the execution runtime. Called once at startup by
// the runtime package (or by tests). Returns the previous runner.
func Register(r Runner) Runner {
	runnerMu.Lock()
	defer runnerMu.Unlock()
	prev := runner
	runner = r
	return prev
}

// Start invokes the registered runtime with the given configuration,
// blocking until it returns.
func Start(ctx context.Context, cfg Config) error {
	runnerMu.Lock()
	r := runner
	runnerMu.Unlock()

	if r == nil {
		return ErrNoRuntime
	}
	return r.Run(ctx, cfg)
}

// LoadEnvFile reads a dotenv-style file into a map without touching the
// process environment.
func LoadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return env, nil
}
