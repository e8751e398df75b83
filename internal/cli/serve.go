package cli

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/roach88/timers/internal/api"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	EngineFlags
	Listen string

	// Ready is called with the bound address once the listener is open
	// (for testing with --listen 127.0.0.1:0).
	Ready func(addr net.Addr)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine behind an HTTP JSON API",
		Long: `Start the timer engine and serve it over HTTP.

Routes:
  GET    /timers              list timers with the current version
  POST   /timers              create a timer   {"title":..., "project":...}
  PUT    /timers/{id}         edit a timer     {"title":..., "project":...}
  DELETE /timers/{id}         remove a timer
  POST   /timers/{id}/toggle  start or stop a timer
  GET    /events              server-sent events, one per change

Mutations are queued and answered with 202 Accepted.

Examples:
  timers serve --demo
  timers serve --listen :9090 --seed ./timers.yaml --journal ./timers.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	opts.EngineFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (default from config, 127.0.0.1:8080)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
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

	listen := cfg.Server.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}
	if opts.Ready != nil {
		opts.Ready(ln.Addr())
	}

	engineDone := rt.start(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving timers on http://%s\n", ln.Addr())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	serveErr := api.Serve(ctx, ln, api.NewServer(rt.Engine), cfg.Server.ShutdownTimeout)

	rt.Engine.Stop()
	engineErr := <-engineDone

	if serveErr != nil {
		return WrapExitError(ExitFailure, "http server error", serveErr)
	}
	if engineErr != nil {
		return WrapExitError(ExitFailure, "engine error", engineErr)
	}
	return nil
}
