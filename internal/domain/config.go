// Package domain contains the duplicate analysis and the designer cleaning workflow.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"cleandesigner.dev/pkg/cleandesigner/internal/adapter"
	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// DefaultPrefix is the backing-field prefix used when none is configured.
const DefaultPrefix = 'f'

// Configuration errors. They stop a run before any file is read.
var (
	ErrNoMode            = errors.New("set --clean or --report")
	ErrBothModes         = errors.New("the --report and --clean flags are mutually exclusive, use only one")
	ErrPrefixLength      = errors.New("the --prefix flag must be a single character")
	ErrMissingPath       = errors.New("set --path")
	ErrDirectoryNotFound = errors.New("directory not found")
)

// Mode selects what a run does with each pair.
type Mode int

const (
	// ModeClean rewrites designer files.
	ModeClean Mode = iota + 1
	// ModeReport only prints the duplicates.
	ModeReport
)

func (md Mode) String() string {
	switch md {
	case ModeClean:
		return "clean"
	case ModeReport:
		return "report"
	default:
		return "unset"
	}
}

// Options are the raw, unvalidated run settings.
type Options struct {
	Path    string
	Prefix  string
	Clean   bool
	Report  bool
	Threads int
	DryRun  bool
	Summary string
}

// Config is a validated run configuration. It is fixed for the whole run.
type Config struct {
	Dir     m.Path
	Prefix  rune
	Mode    Mode
	Threads int
	DryRun  bool
	Summary m.Path
}

// ParsePrefix validates a backing-field prefix; it must be exactly one character.
func ParsePrefix(value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrPrefixLength, value)
	}

	r, _ := utf8.DecodeRuneInString(value)

	return r, nil
}

// NewConfig validates opts. The prefix and mode checks run before the
// filesystem is consulted.
func NewConfig(ctx context.Context, opts Options, fs adapter.SourceFSAdapter) (Config, error) {
	prefix, err := ParsePrefix(opts.Prefix)
	if err != nil {
		return Config{}, err
	}

	var mode Mode

	switch {
	case !opts.Clean && !opts.Report:
		return Config{}, ErrNoMode
	case opts.Clean && opts.Report:
		return Config{}, ErrBothModes
	case opts.Clean:
		mode = ModeClean
	default:
		mode = ModeReport
	}

	if strings.TrimSpace(opts.Path) == "" {
		return Config{}, ErrMissingPath
	}

	info, err := fs.FileInfo(ctx, m.Path(opts.Path))
	if err != nil || !info.IsDir() {
		return Config{}, fmt.Errorf("%w: '%s'", ErrDirectoryNotFound, opts.Path)
	}

	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	return Config{
		Dir:     m.Path(opts.Path),
		Prefix:  prefix,
		Mode:    mode,
		Threads: threads,
		DryRun:  opts.DryRun,
		Summary: m.Path(opts.Summary),
	}, nil
}
