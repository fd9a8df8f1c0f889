package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gymforge/internal/config"
	"gymforge/internal/pipeline"
	"gymforge/internal/sessions"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process [session-id...]",
		Short: "Process sessions into fine-tuning datasets",
		Long: "Process runs the extraction, augmentation, formatting, and dataset\n" +
			"assembly stages for the named sessions. Without arguments every\n" +
			"pending session in the registry is processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, store *sessions.Store, runner *pipeline.Runner) error {
				results, err := runner.Run(cmd.Context(), args)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "No pending sessions")
					return nil
				}
				printResults(cmd, results)
				if failed := countFailed(results); failed > 0 {
					return fmt.Errorf("%d of %d sessions failed", failed, len(results))
				}
				return nil
			})
		},
	}
}

func countFailed(results []pipeline.Result) int {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	return failed
}

func printResults(cmd *cobra.Command, results []pipeline.Result) {
	headers := []string{"Session", "Title", "Status", "Events", "Messages", "Tokens", "Dataset"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		status := "completed"
		dataset := res.DatasetPath
		if res.Err != nil {
			status = "failed: " + res.Err.Error()
			dataset = ""
		}
		rows = append(rows, []string{
			res.SessionID,
			res.Title,
			status,
			strconv.Itoa(res.EventCount),
			strconv.Itoa(res.MessageCount),
			strconv.Itoa(res.TokenCount),
			dataset,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
}
