package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gymforge/internal/config"
	"gymforge/internal/pipeline"
	"gymforge/internal/sessions"
)

func newPaintCommand(ctx *commandContext) *cobra.Command {
	var title string
	var numDoodles int

	cmd := &cobra.Command{
		Use:   "paint <doodle-name>...",
		Short: "Generate a synthetic paint session dataset",
		Long: "Paint synthesizes a drawing session from Quick, Draw! doodle files.\n" +
			"Each doodle name must match an .ndjson file in the configured doodle\n" +
			"directory. The generated session is registered, formatted, and\n" +
			"written as a dataset like a recorded one.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if numDoodles < 1 {
				return errors.New("--doodles must be at least 1")
			}
			return ctx.withRunner(func(cfg *config.Config, store *sessions.Store, runner *pipeline.Runner) error {
				res, err := runner.GenerateSynthetic(cmd.Context(), title, args, numDoodles)
				if err != nil {
					return err
				}
				if res.Err != nil {
					return fmt.Errorf("session %s failed: %w", res.SessionID, res.Err)
				}
				printResults(cmd, []pipeline.Result{res})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "synthetic paint session", "Title recorded for the generated session")
	cmd.Flags().IntVar(&numDoodles, "doodles", 5, "Number of doodles to draw")
	return cmd
}
