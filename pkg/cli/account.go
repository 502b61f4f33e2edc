package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	skiffctx "github.com/skiffworks/skiff/pkg/context"
	"github.com/skiffworks/skiff/pkg/log"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage account contexts",
		Long: `Manage named account contexts stored in ~/.skiff/config.toml.

An account context binds an account label to an API endpoint, so you
can switch between platforms without repeating --api:

  skiff account add staging --api https://staging.example.test
  skiff account use staging
  skiff host:get myhost`,
	}

	cmd.AddCommand(
		newAccountAddCmd(),
		newAccountUseCmd(),
		newAccountListCmd(),
		newAccountCurrentCmd(),
		newAccountRemoveCmd(),
	)

	return cmd
}

func newAccountAddCmd() *cobra.Command {
	var api string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or update an account context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := skiffctx.Load("")
			if err != nil {
				return err
			}

			cfg.SetAccount(&skiffctx.Account{Name: args[0], API: api})
			if err := skiffctx.Save(cfg, ""); err != nil {
				return err
			}

			log.OK("Added account %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&api, "api", "a", "", "API endpoint for this account")

	return cmd
}

func newAccountUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Switch the current account context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := skiffctx.Load("")
			if err != nil {
				return err
			}

			if !cfg.HasAccount(args[0]) {
				return fmt.Errorf("account %q not found (add it with `skiff account add %s`)", args[0], args[0])
			}

			cfg.CurrentAccount = args[0]
			if err := skiffctx.Save(cfg, ""); err != nil {
				return err
			}

			log.OK("Switched to account %s", args[0])
			return nil
		},
	}
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List account contexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := skiffctx.Load("")
			if err != nil {
				return err
			}

			names := cfg.AccountNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No account contexts. Add one with `skiff account add NAME`.")
				return nil
			}

			for _, name := range names {
				marker := " "
				if name == cfg.CurrentAccount {
					marker = "*"
				}
				api := ""
				if account := cfg.GetAccount(name); account != nil {
					api = account.API
				}
				if api == "" {
					api = skiffctx.DefaultAPI
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, name, api)
			}
			return nil
		},
	}
}

func newAccountCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current account context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveContext(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resolved.String())
			return nil
		},
	}
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove an account context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := skiffctx.Load("")
			if err != nil {
				return err
			}

			if !cfg.DeleteAccount(args[0]) {
				return fmt.Errorf("account %q not found", args[0])
			}

			if err := skiffctx.Save(cfg, ""); err != nil {
				return err
			}

			log.OK("Removed account %s", args[0])
			return nil
		},
	}
}
