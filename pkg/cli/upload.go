package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a WASM module",
		Long: `Upload a WASM module to the platform for compilation.

Prints the module ID assigned by the platform. The ID can be passed to
host:create or host:update with --module.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := getWorkflow(cmd)
			if err != nil {
				return err
			}

			id, err := w.Upload(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
