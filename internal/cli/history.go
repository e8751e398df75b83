package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/timers/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Journal string
	Session string // optional - defaults to the latest session
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Session journal.SessionInfo `json:"session"`
	Records []journal.Record    `json:"records"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the changes recorded in a journal",
		Long: `List the intents recorded for one journal session, oldest first.

Each line shows the version the intent produced, its kind, the timer it
targeted and when it was applied.

Examples:
  timers history --journal ./timers.db
  timers history --journal ./timers.db --session 0190f3c2-...
  timers history --journal ./timers.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to journal database (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session ID (default: latest)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	j, err := openExistingJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	info, err := selectSession(ctx, j, opts.Session)
	if errors.Is(err, journal.ErrNoSessions) {
		if opts.Format == "json" {
			return formatter.Success(HistoryResult{Records: []journal.Record{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in journal.")
		return nil
	}
	if err != nil {
		return err
	}

	records, err := j.ReadIntents(ctx, info.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read intents", err)
	}

	if opts.Format == "json" {
		return formatter.Success(HistoryResult{Session: info, Records: records})
	}

	writeHistoryText(cmd.OutOrStdout(), info, records)
	return nil
}

func writeHistoryText(w io.Writer, info journal.SessionInfo, records []journal.Record) {
	fmt.Fprintf(w, "Session %s\n", info.ID)
	fmt.Fprintf(w, "  Started: %s\n", info.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  Base version: %d\n", info.BaseVersion)
	fmt.Fprintf(w, "  Intents: %d\n", len(records))
	if len(records) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %7s  %-7s  %-36s  %s\n", "VERSION", "KIND", "TIMER", "RECORDED")
	for _, rec := range records {
		fmt.Fprintf(w, "  %7d  %-7s  %-36s  %s\n",
			rec.Version, rec.Kind, orDash(rec.TimerID), rec.RecordedAt.UTC().Format(time.RFC3339))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// openExistingJournal opens a journal that must already exist on disk.
func openExistingJournal(path string) (*journal.Journal, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "journal not found", err)
	}
	j, err := journal.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return j, nil
}

// selectSession returns the session with the given ID, or the latest one
// when id is empty. An empty journal yields journal.ErrNoSessions.
func selectSession(ctx context.Context, j *journal.Journal, id string) (journal.SessionInfo, error) {
	if id == "" {
		info, err := j.LatestSession(ctx)
		if err != nil && !errors.Is(err, journal.ErrNoSessions) {
			return info, WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		return info, err
	}

	sessions, err := j.Sessions(ctx)
	if err != nil {
		return journal.SessionInfo{}, WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return journal.SessionInfo{}, NewExitError(ExitCommandError, fmt.Sprintf("session %s not found", id))
}
