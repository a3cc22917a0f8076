package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"cleandesigner.dev/pkg/cleandesigner/internal/adapter"
	"cleandesigner.dev/pkg/cleandesigner/internal/controller"
	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// ErrNoClass marks a designer file without any class declaration.
var ErrNoClass = errors.New("no class found in designer file")

// Workflow runs clean or report mode over a directory of designer files.
type Workflow interface {
	// Run processes every designer file of cfg.Dir once. Per-pair failures
	// are reported as events; only listing the directory or saving the
	// summary can fail the run.
	Run(ctx context.Context, cfg Config) ([]m.PairOutcome, error)

	// Watch runs once, then processes pairs again whenever their files
	// change, until ctx is cancelled.
	Watch(ctx context.Context, cfg Config) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.SyntaxAdapter
	adapter.SummaryStore
	controller.UI
	Rewriter

	watcher adapter.DirectoryWatcher
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	syntaxAdapter adapter.SyntaxAdapter,
	summaryStore adapter.SummaryStore,
	watcher adapter.DirectoryWatcher,
	ui controller.UI,
	rewriter Rewriter,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		SyntaxAdapter:   syntaxAdapter,
		SummaryStore:    summaryStore,
		UI:              ui,
		Rewriter:        rewriter,
		watcher:         watcher,
	}
}

func (w *workflow) Run(ctx context.Context, cfg Config) ([]m.PairOutcome, error) {
	if err := w.Start(ctx, startOptions(cfg)...); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return nil, err
	}
	defer w.Close(ctx)

	return w.runOnce(ctx, cfg)
}

func (w *workflow) Watch(ctx context.Context, cfg Config) error {
	if err := w.Start(ctx, startOptions(cfg)...); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	if _, err := w.runOnce(ctx, cfg); err != nil {
		return err
	}

	if w.watcher == nil {
		return fmt.Errorf("watch %s: no watcher configured", cfg.Dir)
	}

	return w.watcher.Watch(ctx, cfg.Dir, func(names []string) {
		pairs, err := w.listPairs(ctx, cfg.Dir)
		if err != nil {
			slog.Error("Failed to list designer files", "dir", cfg.Dir, "error", err)
			return
		}

		affected := affectedPairs(pairs, names)
		if len(affected) == 0 {
			return
		}

		slog.Info("files changed", "dir", cfg.Dir, "pairs", len(affected))
		w.processPairs(ctx, cfg, affected)
	})
}

func startOptions(cfg Config) []controller.StartOption {
	options := []controller.StartOption{controller.WithDryRun(cfg.DryRun)}

	if cfg.Mode == ModeReport {
		return append(options, controller.WithReportMode())
	}

	return append(options, controller.WithCleanMode())
}

func (w *workflow) runOnce(ctx context.Context, cfg Config) ([]m.PairOutcome, error) {
	pairs, err := w.listPairs(ctx, cfg.Dir)
	if err != nil {
		slog.Error("Failed to list designer files", "dir", cfg.Dir, "error", err)
		return nil, fmt.Errorf("list designer files: %w", err)
	}

	slog.Info("processing designer files",
		"dir", cfg.Dir,
		"mode", cfg.Mode,
		"prefix", string(cfg.Prefix),
		"pairs", len(pairs),
		"threads", cfg.Threads)

	outcomes := w.processPairs(ctx, cfg, pairs)

	if err := w.DisplaySummary(ctx, outcomes); err != nil {
		slog.Error("Failed to display summary", "error", err)
		return outcomes, fmt.Errorf("display: %w", err)
	}

	if cfg.Summary != "" {
		if err := w.SaveSummary(ctx, cfg.Summary, buildSummary(cfg, outcomes)); err != nil {
			slog.Error("Failed to save summary", "path", cfg.Summary, "error", err)
			return outcomes, fmt.Errorf("save summary: %w", err)
		}
	}

	return outcomes, nil
}

func (w *workflow) listPairs(ctx context.Context, dir m.Path) ([]m.Pair, error) {
	names, err := w.ListFiles(ctx, dir)
	if err != nil {
		return nil, err
	}

	return designerPairs(dir, names), nil
}

// processPairs processes up to cfg.Threads pairs at a time and displays the
// events of each pair, in pair order, as soon as that pair and every pair
// before it are done.
func (w *workflow) processPairs(ctx context.Context, cfg Config, pairs []m.Pair) []m.PairOutcome {
	outcomes := make([]m.PairOutcome, len(pairs))
	done := make([]chan struct{}, len(pairs))

	for i := range done {
		done[i] = make(chan struct{})
	}

	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	var group errgroup.Group

	group.SetLimit(threads)

	launched := make(chan struct{})

	go func() {
		defer close(launched)

		for i, pair := range pairs {
			group.Go(func() error {
				defer close(done[i])

				outcomes[i] = w.processPair(ctx, cfg, pair)

				return nil
			})
		}

		_ = group.Wait()
	}()

	for i := range pairs {
		<-done[i]

		for _, event := range outcomes[i].Events {
			w.DisplayEvent(ctx, event)
		}
	}

	<-launched

	return outcomes
}

// processPair reads, analyzes and, in clean mode, rewrites one pair. Every
// failure ends up as an event on the returned outcome.
func (w *workflow) processPair(ctx context.Context, cfg Config, pair m.Pair) m.PairOutcome {
	outcome := m.PairOutcome{Pair: pair}

	for _, path := range []m.Path{pair.Designer, pair.Companion} {
		exists, err := w.Exists(ctx, path)
		if err != nil {
			slog.Error("Failed to stat file", "path", path, "error", err)
		}

		if !exists {
			if err == nil {
				err = fmt.Errorf("%s: %w", path, fs.ErrNotExist)
			}

			return skip(outcome, m.Event{Kind: m.EventFileNotFound, Designer: pair.Name, Path: path, Err: err})
		}
	}

	designerTree, companionTree, err := w.loadPair(ctx, pair)
	if err != nil {
		return skip(outcome, m.Event{Kind: m.EventReadError, Designer: pair.Name, Err: err})
	}

	class, ok := w.FindClass(designerTree)
	if !ok {
		return skip(outcome, m.Event{Kind: m.EventNoClass, Designer: pair.Name, Err: ErrNoClass})
	}

	verdict := Analyze(designerTree, class, companionTree, cfg.Prefix)

	slog.Debug("analyzed pair",
		"designer", pair.Designer,
		"class", class.Name,
		"members", len(verdict.Decisions),
		"dropped", len(verdict.Dropped()))

	if cfg.Mode == ModeReport {
		return w.report(outcome, designerTree, verdict)
	}

	return w.clean(ctx, cfg, outcome, designerTree, verdict)
}

func (w *workflow) loadPair(ctx context.Context, pair m.Pair) (*m.SyntaxTree, *m.SyntaxTree, error) {
	designerSrc, err := w.ReadFile(ctx, pair.Designer)
	if err != nil {
		slog.Error("Failed to read designer file", "path", pair.Designer, "error", err)
		return nil, nil, err
	}

	companionSrc, err := w.ReadFile(ctx, pair.Companion)
	if err != nil {
		slog.Error("Failed to read companion file", "path", pair.Companion, "error", err)
		return nil, nil, err
	}

	designerTree, err := w.Parse(ctx, pair.Designer, designerSrc)
	if err != nil {
		return nil, nil, err
	}

	companionTree, err := w.Parse(ctx, pair.Companion, companionSrc)
	if err != nil {
		return nil, nil, err
	}

	return designerTree, companionTree, nil
}

func (w *workflow) report(outcome m.PairOutcome, tree *m.SyntaxTree, verdict m.Verdict) m.PairOutcome {
	outcome.Events = Report(outcome.Pair.Name, tree, verdict)
	outcome.Status = m.StatusReported

	for _, event := range outcome.Events {
		switch event.Kind {
		case m.EventDuplicateProperty:
			outcome.DuplicateProperties = append(outcome.DuplicateProperties, event.Name)
		case m.EventAssociatedField:
			outcome.AssociatedFields = append(outcome.AssociatedFields, event.Name)
		default:
		}
	}

	return outcome
}

func (w *workflow) clean(ctx context.Context, cfg Config, outcome m.PairOutcome, tree *m.SyntaxTree, verdict m.Verdict) m.PairOutcome {
	pair := outcome.Pair
	outcome.Events = CleanEvents(pair.Name, verdict)

	for _, event := range outcome.Events {
		switch event.Kind {
		case m.EventRemovedProperty:
			outcome.RemovedProperties = append(outcome.RemovedProperties, event.Name)
		case m.EventRemovedField:
			outcome.RemovedFields = append(outcome.RemovedFields, event.Name)
		default:
		}
	}

	rewrite, err := w.Rewrite(ctx, tree, verdict)
	if err != nil {
		slog.Error("Failed to rewrite designer file", "path", pair.Designer, "error", err)
		return skip(outcome, m.Event{Kind: m.EventWriteError, Designer: pair.Name, Path: pair.Designer, Err: err})
	}

	if !rewrite.Changed {
		outcome.Status = m.StatusUnchanged
		outcome.Events = append(outcome.Events, m.Event{Kind: m.EventUnchanged, Designer: pair.Name})

		return outcome
	}

	if cfg.DryRun {
		diff, err := UnifiedDiff(pair.Designer, tree.Source, rewrite.Content)
		if err != nil {
			slog.Error("Failed to diff designer file", "path", pair.Designer, "error", err)
		}

		outcome.Status = m.StatusPreview
		outcome.Events = append(outcome.Events, m.Event{Kind: m.EventDiff, Designer: pair.Name, Path: pair.Designer, Detail: diff})

		return outcome
	}

	if err := w.WriteFileAtomic(ctx, pair.Designer, rewrite.Content); err != nil {
		slog.Error("Failed to write designer file", "path", pair.Designer, "error", err)
		return skip(outcome, m.Event{Kind: m.EventWriteError, Designer: pair.Name, Path: pair.Designer, Err: err})
	}

	slog.Info("designer file updated",
		"path", pair.Designer,
		"properties", len(outcome.RemovedProperties),
		"fields", len(outcome.RemovedFields))

	outcome.Status = m.StatusUpdated
	outcome.Events = append(outcome.Events, m.Event{Kind: m.EventUpdated, Designer: pair.Name})

	return outcome
}

func skip(outcome m.PairOutcome, event m.Event) m.PairOutcome {
	outcome.Status = m.StatusSkipped
	outcome.Err = event.Err
	outcome.Events = append(outcome.Events, event)

	return outcome
}

func buildSummary(cfg Config, outcomes []m.PairOutcome) m.RunSummary {
	summary := m.RunSummary{
		Directory: cfg.Dir,
		Mode:      cfg.Mode.String(),
		Prefix:    string(cfg.Prefix),
		DryRun:    cfg.DryRun,
		Pairs:     make([]m.PairSummary, 0, len(outcomes)),
	}

	for _, outcome := range outcomes {
		pair := m.PairSummary{
			Designer:            outcome.Pair.Name,
			Companion:           filepath.Base(string(outcome.Pair.Companion)),
			Status:              string(outcome.Status),
			RemovedProperties:   outcome.RemovedProperties,
			RemovedFields:       outcome.RemovedFields,
			DuplicateProperties: outcome.DuplicateProperties,
			AssociatedFields:    outcome.AssociatedFields,
		}

		if outcome.Err != nil {
			pair.Error = outcome.Err.Error()
		}

		summary.Pairs = append(summary.Pairs, pair)
	}

	return summary
}
