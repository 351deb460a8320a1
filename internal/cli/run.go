package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"inspectme/internal/app"
	"inspectme/internal/inspection"
)

func newRunCmd(newGenerator generatorFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <transcript.txt>",
		Short: "Clean, structure and tabulate a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")
			normalizeModel, _ := cmd.Flags().GetString("normalize-model")
			structureModel, _ := cmd.Flags().GetString("structure-model")

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read transcript: %w", err)
			}

			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			gen, err := newGenerator(cfg, log)
			if err != nil {
				return err
			}
			pipeline := app.NewPipeline(cfg, gen, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()

			progress := func(stage inspection.Stage, elapsed time.Duration) {
				fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("✓ %s (%s)", stage, elapsed.Round(time.Millisecond))))
			}
			result, err := pipeline.Run(ctx, string(raw),
				inspection.WithModels(normalizeModel, structureModel),
				inspection.WithProgress(progress),
			)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(filepath.Join(outDir, "cleaned.txt"), []byte(result.Narrative+"\n"), 0o644); err != nil {
				return err
			}
			data, err := json.MarshalIndent(result.Record, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal record: %w", err)
			}
			if err := os.WriteFile(filepath.Join(outDir, "record.json"), data, 0o644); err != nil {
				return err
			}
			files, err := writeWorkbooks(outDir, result.Export)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), summary(result.Record, result.Export, append([]string{"cleaned.txt", "record.json"}, files...)))
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", ".", "output directory")
	cmd.Flags().String("normalize-model", "", "model for the cleaning stage")
	cmd.Flags().String("structure-model", "", "model for the structuring stage")
	return cmd
}
