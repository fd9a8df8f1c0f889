package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gymforge/internal/config"
	"gymforge/internal/sessions"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage the session registry",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsAddCommand(ctx))
	sessionsCmd.AddCommand(newSessionsResetCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *sessions.Store) error {
				var statuses []sessions.Status
				if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
					statuses = append(statuses, sessions.Status(trimmed))
				}
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No sessions registered")
					return nil
				}
				headers := []string{"ID", "Title", "Kind", "Status", "Events", "Tokens", "Updated"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
				rows := make([][]string, 0, len(items))
				for _, sess := range items {
					status := string(sess.Status)
					if sess.Status == sessions.StatusFailed && sess.ErrorMessage != "" {
						status = status + ": " + sess.ErrorMessage
					}
					rows = append(rows, []string{
						sess.ID,
						sess.Title,
						string(sess.Kind),
						status,
						strconv.Itoa(sess.EventCount),
						strconv.Itoa(sess.TokenCount),
						sess.UpdatedAt.Format("2006-01-02 15:04:05"),
					})
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show sessions with this status (pending, processing, completed, failed)")
	return cmd
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *sessions.Store) error {
				sess, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:        %s\n", sess.ID)
				fmt.Fprintf(out, "Title:     %s\n", sess.Title)
				fmt.Fprintf(out, "Kind:      %s\n", sess.Kind)
				fmt.Fprintf(out, "Status:    %s\n", sess.Status)
				fmt.Fprintf(out, "Created:   %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Updated:   %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))
				if sess.Kind == sessions.KindRecorded {
					fmt.Fprintf(out, "Protocol:  %s\n", sess.ProtocolLogPath(cfg.Paths.DataDir))
					fmt.Fprintf(out, "Video:     %s\n", sess.VideoPath(cfg.Paths.DataDir))
					fmt.Fprintf(out, "Event log: %s\n", sess.EventLogPath(cfg.Paths.DataDir))
				}
				if sess.DatasetPath != "" {
					fmt.Fprintf(out, "Dataset:   %s\n", sess.DatasetPath)
					fmt.Fprintf(out, "Events:    %d\n", sess.EventCount)
					fmt.Fprintf(out, "Messages:  %d\n", sess.MessageCount)
					fmt.Fprintf(out, "Tokens:    %d\n", sess.TokenCount)
				}
				if sess.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:     %s\n", sess.ErrorMessage)
				}
				return nil
			})
		},
	}
}

func newSessionsAddCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <session-id>",
		Short: "Register a recorded session for processing",
		Long: "Add registers a recorded session. The session id names the artifact\n" +
			"files expected under the data directory: <id>.guac, <id>.guac.m4v,\n" +
			"and <id>.events.json.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("session id is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *sessions.Store) error {
				warnMissingArtifacts(cmd, cfg, id)
				sess, err := store.Add(cmd.Context(), id, title, sessions.KindRecorded)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered session %s (%s)\n", sess.ID, sess.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Human-readable session title")
	return cmd
}

// warnMissingArtifacts flags absent recording files at registration time
// so a typo in the id surfaces before a processing run fails.
func warnMissingArtifacts(cmd *cobra.Command, cfg *config.Config, id string) {
	sess := sessions.Session{ID: id}
	paths := []string{
		sess.ProtocolLogPath(cfg.Paths.DataDir),
		sess.VideoPath(cfg.Paths.DataDir),
		sess.EventLogPath(cfg.Paths.DataDir),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s not found\n", path)
		}
	}
}

func newSessionsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <session-id>...",
		Short: "Reset sessions back to pending",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *sessions.Store) error {
				out := cmd.OutOrStdout()
				for _, id := range args {
					if err := store.Reset(cmd.Context(), strings.TrimSpace(id)); err != nil {
						return err
					}
					fmt.Fprintf(out, "Session %s reset to pending\n", id)
				}
				return nil
			})
		},
	}
}
