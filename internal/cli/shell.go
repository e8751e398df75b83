package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/timers/internal/shell"
)

// ShellOptions holds flags for the shell command.
type ShellOptions struct {
	*RootOptions
	EngineFlags
}

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Drive the engine from an interactive prompt",
		Long: `Start the timer engine with an interactive prompt.

Type 'help' at the prompt for the command list. Timer IDs may be given as
any unique prefix of the ID shown by 'list'.

Examples:
  timers shell --demo
  timers shell --seed ./timers.cue --journal ./timers.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(opts, cmd)
		},
	}

	opts.EngineFlags.register(cmd)

	return cmd
}

func runShell(opts *ShellOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	setupLogging(cmd.ErrOrStderr(), cfg.Log.Level, opts.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, &opts.EngineFlags)
	if err != nil {
		return err
	}
	defer rt.Close()

	sh, err := shell.NewInteractive(rt.Engine)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start shell", err)
	}
	// Logs share the terminal with the prompt from here on.
	setupLogging(sh.Stdout(), cfg.Log.Level, opts.Verbose)
	rt.Engine.Subscribe(shell.ChangePrinter(sh.Stdout()))

	engineDone := rt.start(ctx)

	go func() {
		<-ctx.Done()
		sh.Close()
	}()

	runErr := sh.Run(ctx)
	cancel()

	rt.Engine.Stop()
	engineErr := <-engineDone

	if runErr != nil {
		return WrapExitError(ExitFailure, "shell error", runErr)
	}
	if engineErr != nil {
		return WrapExitError(ExitFailure, "engine error", engineErr)
	}
	return nil
}
