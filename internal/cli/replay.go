package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/timers/internal/journal"
	"github.com/roach88/timers/internal/shell"
	"github.com/roach88/timers/internal/timer"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal string
	Session string // optional - defaults to the latest session
}

// ReplayOutput is the JSON payload of the replay command.
type ReplayOutput struct {
	SessionID string        `json:"session_id"`
	Version   int64         `json:"version"`
	Applied   int           `json:"applied"`
	Digest    string        `json:"digest"`
	Timers    []timer.Timer `json:"timers"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild the final timer list from a journal",
		Long: `Re-apply a session's recorded intents to its initial list and print
the resulting timers. Every step is checked against the digest recorded
when the change was first applied.

Exit codes:
  0 - Replay reproduced every recorded state
  1 - Replay diverged from the journal
  2 - Command error (journal not found, unknown session, etc.)

Examples:
  timers replay --journal ./timers.db
  timers replay --journal ./timers.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to journal database (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session ID (default: latest)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	j, err := openExistingJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	info, err := selectSession(ctx, j, opts.Session)
	if errors.Is(err, journal.ErrNoSessions) {
		return NewExitError(ExitCommandError, "journal has no sessions to replay")
	}
	if err != nil {
		return err
	}

	formatter.VerboseLog("Replaying session %s (%d intents)", info.ID, info.Intents)

	result, err := j.Replay(ctx, info.ID)
	if err != nil {
		if journal.IsDivergence(err) {
			_ = formatter.Error("E_DIVERGED", err.Error(), nil)
			return WrapExitError(ExitFailure, "replay diverged", err)
		}
		return WrapExitError(ExitCommandError, "failed to replay session", err)
	}

	digest, err := timer.Digest(result.Timers)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to digest result", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ReplayOutput{
			SessionID: result.SessionID,
			Version:   result.Version,
			Applied:   result.Applied,
			Digest:    digest,
			Timers:    timersOrEmpty(result.Timers),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s replayed: %d intents, version %d\n", result.SessionID, result.Applied, result.Version)
	fmt.Fprintf(out, "Digest: %s\n\n", digest)
	shell.WriteList(out, result.Timers)
	return nil
}

func timersOrEmpty(l timer.List) []timer.Timer {
	if l == nil {
		return []timer.Timer{}
	}
	return l
}
