package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

// Service is the slice of the engine the shell drives.
type Service interface {
	Snapshot() engine.Snapshot
	SubmitCreate(p timer.CreatePayload) bool
	SubmitEdit(p timer.EditPayload) bool
	SubmitRemove(id string) bool
	SubmitToggle(id string) bool
}

// Shell executes timer commands against a Service.
type Shell struct {
	svc Service
	out io.Writer
	rl  *readline.Instance

	closeOnce sync.Once
	closeErr  error
}

// New creates a Shell writing to out. Use NewInteractive for a terminal.
func New(svc Service, out io.Writer) *Shell {
	return &Shell{svc: svc, out: out}
}

// NewInteractive creates a Shell bound to a readline terminal.
func NewInteractive(svc Service) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "timers> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{svc: svc, out: rl.Stdout(), rl: rl}, nil
}

// Stdout returns a writer that does not clobber the prompt. Route log
// output through it while the shell is running.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Close releases the terminal, which also ends a blocked Run.
func (s *Shell) Close() error {
	if s.rl == nil {
		return nil
	}
	s.closeOnce.Do(func() { s.closeErr = s.rl.Close() })
	return s.closeErr
}

// Run reads commands until exit, EOF, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if s.rl == nil {
		return errors.New("shell has no terminal")
	}
	defer s.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			// EOF
			return nil
		}
		if s.Execute(line) {
			return nil
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) (quit bool) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.printHelp()
	case "list", "ls":
		WriteList(s.out, s.svc.Snapshot().Timers)
	case "new", "add":
		s.cmdNew(rest)
	case "edit":
		s.cmdEdit(rest)
	case "rm", "remove", "delete":
		s.cmdRemove(rest)
	case "toggle", "start", "stop":
		s.cmdToggle(rest)
	case "exit", "quit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) cmdNew(args string) {
	title, project := splitForm(args)
	s.report(s.svc.SubmitCreate(timer.CreatePayload{Title: title, Project: project}), "create queued")
}

func (s *Shell) cmdEdit(args string) {
	ref, form, _ := strings.Cut(args, " ")
	if ref == "" {
		fmt.Fprintln(s.out, "Usage: edit <id> <title> | <project>")
		return
	}
	title, project := splitForm(form)
	id := s.resolve(ref)
	s.report(s.svc.SubmitEdit(timer.EditPayload{ID: id, Title: title, Project: project}), "edit queued")
}

func (s *Shell) cmdRemove(args string) {
	if args == "" {
		fmt.Fprintln(s.out, "Usage: rm <id>")
		return
	}
	s.report(s.svc.SubmitRemove(s.resolve(args)), "remove queued")
}

func (s *Shell) cmdToggle(args string) {
	if args == "" {
		fmt.Fprintln(s.out, "Usage: toggle <id>")
		return
	}
	s.report(s.svc.SubmitToggle(s.resolve(args)), "toggle queued")
}

func (s *Shell) report(ok bool, msg string) {
	if !ok {
		fmt.Fprintln(s.out, "Engine stopped.")
		return
	}
	fmt.Fprintln(s.out, msg)
}

// resolve expands a unique ID prefix against the current list. Anything
// else is returned as typed; the engine ignores unknown IDs.
func (s *Shell) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	var match string
	for _, t := range s.svc.Snapshot().Timers {
		if t.ID == ref {
			return ref
		}
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return ref
			}
			match = t.ID
		}
	}
	if match == "" {
		return ref
	}
	return match
}

// splitForm parses "<title> | <project>". A missing bar means no project.
func splitForm(s string) (title, project string) {
	title, project, _ = strings.Cut(s, "|")
	return strings.TrimSpace(title), strings.TrimSpace(project)
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Timer Commands:
  list                         - Show all timers (* = running)
  new <title> | <project>      - Create a timer
  edit <id> <title> | <project>
                               - Change a timer's title and project
  rm <id>                      - Remove a timer
  toggle <id>                  - Start or stop a timer (alias: start, stop)
  help                         - Show this help
  exit                         - Leave the shell

IDs may be shortened to any unique prefix.`)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("new"),
		readline.PcItem("edit"),
		readline.PcItem("rm"),
		readline.PcItem("toggle"),
		readline.PcItem("start"),
		readline.PcItem("stop"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}
