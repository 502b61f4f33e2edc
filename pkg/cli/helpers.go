package cli

import (
	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/client"
	skiffctx "github.com/skiffworks/skiff/pkg/context"
	"github.com/skiffworks/skiff/pkg/deploy"
)

// resolveContext resolves the effective account and API endpoint from the
// root command's persistent flags, the environment, and the config file.
func resolveContext(cmd *cobra.Command) (*skiffctx.Resolved, error) {
	flags := cmd.Root().PersistentFlags()
	api, _ := flags.GetString("api")
	account, _ := flags.GetString("account")
	return skiffctx.Resolve(api, account)
}

func getClient(cmd *cobra.Command) (*client.Client, error) {
	resolved, err := resolveContext(cmd)
	if err != nil {
		return nil, err
	}
	return client.New(resolved), nil
}

func getWorkflow(cmd *cobra.Command) (*deploy.Workflow, error) {
	c, err := getClient(cmd)
	if err != nil {
		return nil, err
	}
	return deploy.New(c), nil
}
