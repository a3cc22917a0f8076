package controller

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// pagerReservedLines is the space kept for the footer and help line.
const pagerReservedLines = 2

// TUI prints events like SimpleUI and pages the summary table when it does
// not fit the terminal.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd)}
}

// DisplaySummary shows the summary, through a pager when it is taller than the terminal.
func (t *TUI) DisplaySummary(ctx context.Context, outcomes []m.PairOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := t.renderSummary(outcomes)

	_, height, ok := t.terminalSize()
	if !ok || strings.Count(content, "\n")+pagerReservedLines <= height {
		return t.outPrintf("\n%s", content)
	}

	program := tea.NewProgram(
		newPagerModel(content),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func (t *TUI) terminalSize() (int, int, bool) {
	f, ok := t.cmd.OutOrStdout().(*os.File)
	if !ok {
		return 0, 0, false
	}

	width, height, err := term.GetSize(f.Fd())
	if err != nil {
		return 0, 0, false
	}

	return width, height, true
}

// pagerModel is the Bubble Tea model scrolling the summary table.
type pagerModel struct {
	content  string
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newPagerModel(content string) pagerModel {
	return pagerModel{content: content}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - pagerReservedLines
		if height < 1 {
			height = 1
		}

		if !pm.ready {
			pm.viewport = viewport.New(msg.Width, height)
			pm.viewport.SetContent(pm.content)
			pm.ready = true
		} else {
			pm.viewport.Width = msg.Width
			pm.viewport.Height = height
		}

		return pm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			pm.quitting = true
			return pm, tea.Quit
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

var pagerHelpStyle = lipgloss.NewStyle().Faint(true)

func (pm pagerModel) View() string {
	if pm.quitting {
		return ""
	}

	if !pm.ready {
		return "Loading summary..."
	}

	return pm.viewport.View() + "\n" + pagerHelpStyle.Render("↑/↓ scroll • q quit")
}
