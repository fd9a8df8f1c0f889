package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gymforge/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, status := range statuses {
				kind := statusOK
				message := status.Command
				if !status.Available {
					message = status.Detail
					if status.Optional {
						kind = statusWarn
						message += " (optional)"
					} else {
						kind = statusError
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required binaries missing", len(missing))
			}
			return nil
		},
	}
}
