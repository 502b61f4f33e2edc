package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Printer renders command output in the format chosen with --output.
type Printer struct {
	Format string
	Writer io.Writer
}

func newPrinter(cmd *cobra.Command) *Printer {
	format, _ := cmd.Root().PersistentFlags().GetString("output")
	return &Printer{Format: format, Writer: cmd.OutOrStdout()}
}

// Print writes v to the printer's writer. The text format is indented
// JSON as well, since host records have no fixed shape to tabulate.
func (p *Printer) Print(v any) error {
	switch p.Format {
	case "text", "json":
		enc := json.NewEncoder(p.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(p.Writer)
		defer enc.Close()
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected text, json, or yaml)", p.Format)
	}
}
