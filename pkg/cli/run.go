package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/runmode"
)

func newRunCmd() *cobra.Command {
	var (
		function     string
		port         int
		envFile      string
		cdnDir       string
		protectedDir string
		kvsDir       string
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "run MODULE",
		Short: "Run a module locally",
		Long: `Run a WASM module locally with a configuration that mirrors the
platform's hosting environment.

With --watch the module is restarted whenever the file changes on
disk, which makes for a quick edit/compile/test loop:

  skiff run app.wasm --watch --env-file .env`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := runmode.Config{
				ModulePath:            args[0],
				Function:              function,
				Port:                  port,
				CDNDirectory:          cdnDir,
				ProtectedCDNDirectory: protectedDir,
				KVSDirectory:          kvsDir,
			}

			if envFile != "" {
				env, err := runmode.LoadEnvFile(envFile)
				if err != nil {
					return fmt.Errorf("failed to load env file: %w", err)
				}
				cfg.Env = env
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				return runmode.Watch(ctx, cfg)
			}
			return runmode.Start(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&function, "function", "f", "run", "Function to invoke")
	cmd.Flags().IntVarP(&port, "port", "p", 5000, "Port to listen on")
	cmd.Flags().StringVarP(&envFile, "env-file", "e", "", "Load environment variables from a dotenv file")
	cmd.Flags().StringVarP(&cdnDir, "cdn-directory", "c", "", "Directory served as public CDN content")
	cmd.Flags().StringVarP(&protectedDir, "protected-cdn-directory", "P", "", "Directory served as protected CDN content")
	cmd.Flags().StringVarP(&kvsDir, "kvs-directory", "k", ".db", "Directory for key-value store data")
	cmd.Flags().BoolVar(&watch, "watch", false, "Restart the module when the file changes")

	return cmd
}
