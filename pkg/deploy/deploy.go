// Package deploy drives the upload and host-configuration workflow
// against the Skiff platform API.
//
// All operations are synchronous and sequential: when a host operation
// references a local module file, the upload completes and yields its
// platform-issued id before the configuration payload is built. Nothing
// is retried and no partial result is recorded locally; a failure after
// a successful upload simply surfaces as a failed operation.
package deploy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/skiffworks/skiff/pkg/client"
	"github.com/skiffworks/skiff/pkg/log"
)

// Config carries the optional host configuration fields shared by
// create and update. Absent fields are omitted from wire payloads so
// the server never interprets them as "clear this".
type Config struct {
	// Module is a remote module id or a local file path needing upload.
	// Empty leaves the host's module unchanged.
	Module string

	// Function is the entry function name. Empty leaves it unchanged.
	Function string

	// Env maps environment variable names to JSON values (string or
	// null). An empty map is omitted from the payload entirely.
	Env map[string]any
}

// Workflow issues deploy operations through an authenticated client.
type Workflow struct {
	client *client.Client
}

// New creates a workflow bound to the given client.
func New(c *client.Client) *Workflow {
	return &Workflow{client: c}
}

// Upload streams the local file at path to the compile endpoint and
// returns the module id the platform issues for it.
func (w *Workflow) Upload(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open module: %w", err)
	}
	defer f.Close()

	log.Info("Uploading module: %s", path)

	// Fingerprint the module while it streams out, for the verbose log
	digest := xxhash.New()
	body := io.TeeReader(f, digest)

	resp, err := w.client.Post("/compile", "application/octet-stream", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := client.CheckResponse("", resp); err != nil {
		return "", err
	}

	var result struct {
		ModuleID string `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode compile response: %w", err)
	}
	if result.ModuleID == "" {
		return "", fmt.Errorf("compile response missing module id")
	}

	log.Verbose("Module %s (xxh64 %016x) compiled as %s", path, digest.Sum64(), result.ModuleID)
	return result.ModuleID, nil
}

// ResolveModule turns a module argument into a remote module id.
//
// A value naming an existing local file is uploaded and replaced by the
// platform-issued id; anything else passes through unchanged, assumed
// to be an already-known id. Empty stays empty. When a remote id
// happens to collide with a local filename, the local file wins.
func (w *Workflow) ResolveModule(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if _, err := os.Stat(ref); err == nil {
		return w.Upload(ref)
	}
	return ref, nil
}

type createPayload struct {
	Host       string         `json:"host"`
	CustomerID string         `json:"customer_id"`
	Module     string         `json:"module,omitempty"`
	Function   string         `json:"function,omitempty"`
	Env        map[string]any `json:"env,omitempty"`
}

type configurePayload struct {
	Module   string         `json:"module,omitempty"`
	Function string         `json:"function,omitempty"`
	Env      map[string]any `json:"env,omitempty"`
}

// Create registers a new host for the given customer, resolving the
// module reference first.
func (w *Workflow) Create(host, customerID string, cfg Config) error {
	module, err := w.ResolveModule(cfg.Module)
	if err != nil {
		return err
	}

	resp, err := w.client.PostJSON("/hosts", createPayload{
		Host:       host,
		CustomerID: customerID,
		Module:     module,
		Function:   cfg.Function,
		Env:        cfg.Env,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return client.CheckResponse("", resp)
}

// Configure applies a partial update to an existing host. Only fields
// present in cfg are transmitted.
func (w *Workflow) Configure(host string, cfg Config) error {
	module, err := w.ResolveModule(cfg.Module)
	if err != nil {
		return err
	}

	resp, err := w.client.PostJSON("/hosts/"+host, configurePayload{
		Module:   module,
		Function: cfg.Function,
		Env:      cfg.Env,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return client.CheckResponse("", resp)
}

// View fetches the host description and returns it decoded but
// otherwise uninterpreted, for pretty-printing by the caller.
func (w *Workflow) View(host string) (any, error) {
	resp, err := w.client.Get("/hosts/" + host)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := client.CheckResponse("", resp); err != nil {
		return nil, err
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode host description: %w", err)
	}
	return doc, nil
}
