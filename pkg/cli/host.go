package cli

import (
	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/deploy"
	"github.com/skiffworks/skiff/pkg/log"
)

func newHostCreateCmd() *cobra.Command {
	var (
		module   string
		function string
		envVars  []string
	)

	cmd := &cobra.Command{
		Use:   "host:create HOST CUSTOMER_ID",
		Short: "Create a host",
		Long: `Create a host on the platform.

--module accepts either a module ID from a previous upload or a path to
a local WASM file, in which case the file is uploaded first. A local
file takes precedence over a module ID of the same name.

Environment variables are set with repeated --env flags:

  skiff host:create api cust123 --module app.wasm \
    --env LOG_LEVEL=debug --env FEATURE_X= --env HOME`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := deploy.ParseEnvSet(envVars)
			if err != nil {
				return err
			}

			w, err := getWorkflow(cmd)
			if err != nil {
				return err
			}

			if err := w.Create(args[0], args[1], deploy.Config{
				Module:   module,
				Function: function,
				Env:      env,
			}); err != nil {
				return err
			}

			log.OK("Created host %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Module ID or path to a local WASM file")
	cmd.Flags().StringVarP(&function, "function", "f", "", "Function to invoke")
	cmd.Flags().StringArrayVarP(&envVars, "env", "e", nil, "Environment variable (NAME=VALUE, NAME= to unset, NAME to pass through)")

	return cmd
}

func newHostUpdateCmd() *cobra.Command {
	var (
		module   string
		function string
		envVars  []string
	)

	cmd := &cobra.Command{
		Use:   "host:update HOST",
		Short: "Configure an existing host",
		Long: `Update the configuration of an existing host.

Only the fields given as flags are sent; everything else is left
unchanged on the platform. --module accepts a module ID or a local
WASM file path, like host:create.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := deploy.ParseEnvSet(envVars)
			if err != nil {
				return err
			}

			w, err := getWorkflow(cmd)
			if err != nil {
				return err
			}

			if err := w.Configure(args[0], deploy.Config{
				Module:   module,
				Function: function,
				Env:      env,
			}); err != nil {
				return err
			}

			log.OK("Updated host %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Module ID or path to a local WASM file")
	cmd.Flags().StringVarP(&function, "function", "f", "", "Function to invoke")
	cmd.Flags().StringArrayVarP(&envVars, "env", "e", nil, "Environment variable (NAME=VALUE, NAME= to unset, NAME to pass through)")

	return cmd
}

func newHostGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "host:get HOST",
		Short: "View a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := getWorkflow(cmd)
			if err != nil {
				return err
			}

			record, err := w.View(args[0])
			if err != nil {
				return err
			}

			return newPrinter(cmd).Print(record)
		},
	}
}
