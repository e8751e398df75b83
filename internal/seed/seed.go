package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/timers/internal/timer"
)

//go:embed schema.cue
var schemaCUE string

// File is the seed document.
type File struct {
	Timers []Entry `json:"timers" yaml:"timers"`
}

// Entry is one seeded timer.
type Entry struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Title   string `json:"title" yaml:"title"`
	Project string `json:"project" yaml:"project"`
	Elapsed int64  `json:"elapsed" yaml:"elapsed"`
	Running bool   `json:"running" yaml:"running"`
}

// Error reports an invalid seed file, with a source position when known.
type Error struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads a seed file and builds its timer list in file order.
// A nil gen falls back to timer.UUIDGenerator.
func Load(path string, gen timer.IDGenerator) (timer.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = parseYAML(path, data)
	case ".cue":
		f, err = parseCUE(path, data)
	default:
		return nil, &Error{Path: path, Message: fmt.Sprintf("unsupported seed format %q (want .yaml, .yml or .cue)", ext)}
	}
	if err != nil {
		return nil, err
	}

	return Build(path, f, gen)
}

// Build turns a parsed document into a timer list, assigning missing IDs
// and rejecting duplicates and negative elapsed times.
func Build(path string, f *File, gen timer.IDGenerator) (timer.List, error) {
	if gen == nil {
		gen = timer.UUIDGenerator{}
	}

	l := make(timer.List, 0, len(f.Timers))
	seen := make(map[string]bool, len(f.Timers))
	for i, e := range f.Timers {
		if e.Elapsed < 0 {
			return nil, &Error{Path: path, Message: fmt.Sprintf("timers[%d]: elapsed must not be negative", i)}
		}
		id := e.ID
		if id == "" {
			id = gen.Generate()
		}
		if seen[id] {
			return nil, &Error{Path: path, Message: fmt.Sprintf("timers[%d]: duplicate id %q", i, id)}
		}
		seen[id] = true

		l = append(l, timer.Timer{
			ID:        id,
			Title:     e.Title,
			Project:   e.Project,
			Elapsed:   e.Elapsed,
			IsRunning: e.Running,
		})
	}
	return l, nil
}

func parseYAML(path string, data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: no timers.
			return &File{}, nil
		}
		return nil, &Error{Path: path, Message: err.Error()}
	}
	return &f, nil
}

func parseCUE(path string, data []byte) (*File, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueError(path, err)
	}

	u := schema.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(path, err)
	}

	var f File
	if err := u.Decode(&f); err != nil {
		return nil, cueError(path, err)
	}
	return &f, nil
}

// cueError keeps the first CUE error and its position.
func cueError(path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: path, Message: err.Error()}
	}

	first := errs[0]
	out := &Error{Path: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
