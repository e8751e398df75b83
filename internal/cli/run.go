package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/timers/internal/config"
	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/journal"
	"github.com/roach88/timers/internal/seed"
	"github.com/roach88/timers/internal/timer"
)

// EngineFlags are the flags shared by commands that run an engine.
// Set values override the config file.
type EngineFlags struct {
	Seed    string
	Demo    bool
	Journal string

	// EngineOptions are appended to the engine's options (for testing).
	EngineOptions []engine.Option
}

func (f *EngineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Seed, "seed", "", "initial timers from a .yaml or .cue file")
	cmd.Flags().BoolVar(&f.Demo, "demo", false, "start with the built-in sample timers")
	cmd.Flags().StringVar(&f.Journal, "journal", "", "record applied changes to this SQLite file")
}

// loadConfig reads --config, or the default path if it exists.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath, false)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, true)
}

// setupLogging installs a text slog handler. --verbose forces debug.
func setupLogging(w io.Writer, level string, verbose bool) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// runtime is an engine plus its optional journal session.
type runtime struct {
	Engine  *engine.Engine
	journal *journal.Journal
	session *journal.Session
}

// newRuntime builds the initial list and the engine, and subscribes a
// journal session when one is configured. The engine is not started.
func newRuntime(ctx context.Context, cfg *config.Config, f *EngineFlags) (*runtime, error) {
	seedPath := cfg.Seed.Path
	if f.Seed != "" {
		seedPath = f.Seed
	}
	journalPath := cfg.Journal.Path
	if f.Journal != "" {
		journalPath = f.Journal
	}

	var initial timer.List
	switch {
	case seedPath != "":
		slog.Info("loading seed", "path", seedPath)
		l, err := seed.Load(seedPath, nil)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load seed", err)
		}
		initial = l
	case f.Demo || cfg.Seed.Demo:
		initial = seed.Demo(nil)
	}

	opts := append([]engine.Option{engine.WithTickInterval(cfg.Engine.TickInterval)}, f.EngineOptions...)
	rt := &runtime{Engine: engine.New(initial, opts...)}

	if journalPath != "" {
		slog.Info("opening journal", "path", journalPath)
		j, err := journal.Open(journalPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		s, err := j.BeginSession(ctx, journal.SessionConfig{
			Initial:     initial,
			BaseVersion: rt.Engine.Snapshot().Version,
		})
		if err != nil {
			j.Close()
			return nil, WrapExitError(ExitCommandError, "failed to start journal session", err)
		}
		rt.Engine.Subscribe(s)
		rt.journal, rt.session = j, s
		slog.Info("journal session started", "session", s.ID())
	}

	return rt, nil
}

// start runs the engine in the background. The channel yields Run's
// result once, with context errors mapped to nil.
func (rt *runtime) start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := rt.Engine.Run(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
		done <- err
	}()
	return done
}

// Close releases the journal. Call after Run has returned.
func (rt *runtime) Close() {
	if rt.journal == nil {
		return
	}
	if n := rt.session.Failures(); n > 0 {
		slog.Warn("journal missed changes", "session", rt.session.ID(), "failures", n)
	}
	if err := rt.journal.Close(); err != nil {
		slog.Error("error closing journal", "error", err)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
// Uses the command's context if available (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
