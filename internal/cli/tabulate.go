package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"inspectme/internal/export"
	"inspectme/internal/inspection"
)

func newTabulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabulate <record.json>",
		Short: "Write the spreadsheets for an existing structured record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read record: %w", err)
			}
			rec, err := inspection.DecodeRecord(data)
			if err != nil {
				return fmt.Errorf("invalid record %s: %w", args[0], err)
			}

			rows := inspection.NewTabulator().Tabulate(rec)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			files, err := writeWorkbooks(outDir, rows)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), summary(rec, rows, files))
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", ".", "output directory")
	return cmd
}

func writeWorkbooks(dir string, rows inspection.Export) ([]string, error) {
	files, err := export.Workbooks(rows)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		names = append(names, f.Name)
	}
	return names, nil
}
