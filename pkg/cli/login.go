package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/skiffworks/skiff/pkg/credentials"
	"github.com/skiffworks/skiff/pkg/log"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login USERNAME",
		Short: "Log in and store an access token",
		Long: `Log in to the platform and store the access token in the OS keychain.

The token is stored per API endpoint and account label, so separate
accounts (and separate endpoints) keep separate credentials:

  skiff login alice
  skiff login alice --account staging --api https://staging.example.test`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			password, err := readPassword(cmd)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			c, err := getClient(cmd)
			if err != nil {
				return err
			}

			result, err := c.Login(username, password)
			if err != nil {
				return err
			}

			if err := c.Credentials().Set(result.AccessToken, result.TTL()); err != nil {
				return fmt.Errorf("failed to store credentials: %w", err)
			}

			log.OK("Logged in as %s", username)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveContext(cmd)
			if err != nil {
				return err
			}

			store := credentials.Open(resolved.API, resolved.Account)
			if err := store.Delete(); err != nil {
				return err
			}

			log.OK("Logged out")
			return nil
		},
	}
}

// readPassword prompts for a password without echo when stdin is a
// terminal; otherwise it reads a single line so the command can be
// scripted (echo "$PASS" | skiff login alice).
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
