// Package cli implements the skiff command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/log"
)

// BuildInfo contains version information for the binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCmd creates the root skiff command.
func NewRootCmd(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skiff",
		Short: "Deploy WASM modules to the Skiff platform",
		Long: `skiff - deploy WASM modules to the Skiff platform

QUICK START
  skiff login alice                Log in to the platform
  skiff upload app.wasm            Compile and upload a module
  skiff host:create api cust123 --module app.wasm
  skiff run app.wasm               Run a module locally

COMMANDS
  run          Run a module locally
  upload       Upload a WASM module
  host:create  Create a host
  host:update  Configure a host
  host:get     View a host
  login        Log in and store a token
  logout       Remove stored credentials
  account      Manage account contexts

MORE
  skiff <command> --help    Help for a command
  skiff version             Show version info`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
				log.SetLevel(log.LevelVerbose)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			// When run with no args, show friendly help
			cmd.Help()
		},
	}

	// Enable typo suggestions (e.g., "skiff uplod" -> "Did you mean 'upload'?")
	cmd.SuggestionsMinimumDistance = 2

	// Global flags
	cmd.PersistentFlags().StringP("api", "a", "", "Platform API base URL (default https://api.example-platform.test)")
	cmd.PersistentFlags().StringP("account", "A", "", "Account label for stored credentials (default \"default\")")
	cmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json, yaml")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	cmd.AddCommand(
		newRunCmd(),
		newUploadCmd(),
		newHostCreateCmd(),
		newHostUpdateCmd(),
		newHostGetCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newAccountCmd(),
		newVersionCmd(info),
	)

	return cmd
}
