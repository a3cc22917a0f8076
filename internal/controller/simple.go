package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// SimpleUI implements UI by printing one line per event to the command output.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
	styles lineStyles
}

type lineStyles struct {
	failure lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	detail  lipgloss.Style
}

func newLineStyles(w io.Writer) lineStyles {
	renderer := lipgloss.NewRenderer(w)

	return lineStyles{
		failure: renderer.NewStyle().Foreground(lipgloss.Color("9")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("11")),
		success: renderer.NewStyle().Foreground(lipgloss.Color("10")),
		detail:  renderer.NewStyle().Faint(true),
	}
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{
		cmd:    cmd,
		styles: newLineStyles(cmd.OutOrStdout()),
	}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = StartConfig{}
	for _, option := range options {
		option(&s.config)
	}

	s.styles = newLineStyles(s.cmd.OutOrStdout())

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayEvent prints the line for event.
func (s *SimpleUI) DisplayEvent(ctx context.Context, event m.Event) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", s.styleEvent(event))

	if event.Kind == m.EventDiff && event.Detail != "" {
		s.printf("%s", event.Detail)

		if !strings.HasSuffix(event.Detail, "\n") {
			s.printf("\n")
		}
	}
}

// DisplaySummary prints a table with one row per pair.
func (s *SimpleUI) DisplaySummary(ctx context.Context, outcomes []m.PairOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.outPrintf("\n%s", s.renderSummary(outcomes))
}

func (s *SimpleUI) styleEvent(event m.Event) string {
	line := FormatEvent(event)

	if event.Kind.IsError() {
		return s.styles.failure.Render(line)
	}

	switch event.Kind {
	case m.EventRemovedProperty, m.EventDuplicateProperty:
		return s.styles.warning.Render(line)
	case m.EventRemovedField, m.EventAssociatedField, m.EventAnalyzing:
		return s.styles.detail.Render(line)
	case m.EventUpdated, m.EventUnchanged, m.EventDiff, m.EventAnalysisCompleted:
		return s.styles.success.Render(line)
	}

	return line
}

// FormatEvent returns the plain console line for event.
//
//nolint:cyclop // one case per event kind
func FormatEvent(event m.Event) string {
	switch event.Kind {
	case m.EventFileNotFound:
		return fmt.Sprintf("❌ File not found: %s", event.Path)
	case m.EventReadError:
		return fmt.Sprintf("❌ Error reading files: %v", event.Err)
	case m.EventNoClass:
		return fmt.Sprintf("❌ No class found in designer file: %s", event.Designer)
	case m.EventWriteError:
		return fmt.Sprintf("❌ Error writing file: %s - %v", event.Path, event.Err)
	case m.EventRemovedProperty:
		return fmt.Sprintf("⚠️ Removing duplicate property: %s - class: %s", event.Name, event.Designer)
	case m.EventRemovedField:
		return fmt.Sprintf("    ↳ Removing associated field: %s - class: %s", event.Name, event.Designer)
	case m.EventUpdated:
		return fmt.Sprintf("✅ Designer file updated: - class: %s", event.Designer)
	case m.EventUnchanged:
		return fmt.Sprintf("✅ Designer file already clean: - class: %s", event.Designer)
	case m.EventDiff:
		return fmt.Sprintf("📝 Dry run, designer file not written: - class: %s", event.Designer)
	case m.EventAnalyzing:
		return "🔍 Analyzing duplicates..."
	case m.EventDuplicateProperty:
		return fmt.Sprintf("⚠️ Duplicate property found: %s - class: %s", event.Name, event.Designer)
	case m.EventAssociatedField:
		return fmt.Sprintf("    ↳ Associated private field: %s - class: %s", event.Name, event.Designer)
	case m.EventAnalysisCompleted:
		return fmt.Sprintf("✅ Analysis completed: - class: %s", event.Designer)
	}

	return fmt.Sprintf("%s %s", event.Designer, event.Name)
}

func (s *SimpleUI) renderSummary(outcomes []m.PairOutcome) string {
	if len(outcomes) == 0 {
		return "No designer files found.\n"
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	if s.config.mode == ModeReport {
		table.SetHeader([]string{"Designer", "Duplicate properties", "Associated fields", "Status"})
	} else {
		table.SetHeader([]string{"Designer", "Removed properties", "Removed fields", "Status"})
	}

	first, second := 0, 0

	for _, outcome := range outcomes {
		a, b := outcome.RemovedProperties, outcome.RemovedFields
		if s.config.mode == ModeReport {
			a, b = outcome.DuplicateProperties, outcome.AssociatedFields
		}

		first += len(a)
		second += len(b)

		table.Append([]string{
			outcome.Pair.Name,
			fmt.Sprintf("%d", len(a)),
			fmt.Sprintf("%d", len(b)),
			string(outcome.Status),
		})
	}

	footer := "Total"
	if s.config.dryRun {
		footer = "Total (dry run)"
	}

	table.SetFooter([]string{
		fmt.Sprintf("%s %d files", footer, len(outcomes)),
		fmt.Sprintf("%d", first),
		fmt.Sprintf("%d", second),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// outPrintf writes formatted output to the underlying cobra command's stdout.
func (s *SimpleUI) outPrintf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
	return err
}
