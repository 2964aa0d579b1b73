package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tqdev/spritepack/pkg/texture"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// Number of recent per-texture results kept visible below the progress bar.
const extractHistory = 8

// progressBarWidth is the rendered width of the progress bar in cells.
const progressBarWidth = 40

// =============================================================================
// extractModel - Batch extraction progress
// =============================================================================

// extractProgressMsg reports one completed texture conversion.
type extractProgressMsg struct {
	done   int
	item   texture.Item
	result texture.Result
}

// extractDoneMsg reports the end of the whole batch.
type extractDoneMsg struct {
	stats texture.Stats
	err   error
}

// extractLine is one rendered history entry.
type extractLine struct {
	tag    string
	status string
	dim    bool
}

// extractModel is the bubbletea model for batch texture extraction.
type extractModel struct {
	total    int
	done     int
	current  string
	history  []extractLine
	stats    texture.Stats
	err      error
	finished bool
}

// newExtractModel creates a progress model for a batch of the given size.
func newExtractModel(total int) extractModel {
	return extractModel{total: total}
}

func (m extractModel) Init() tea.Cmd {
	return nil
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case extractProgressMsg:
		m.done = msg.done
		m.current = msg.item.Tag

		line := extractLine{tag: msg.result.Tag, status: "converted"}
		switch {
		case msg.result.Skipped:
			line.tag = msg.item.Tag
			line.status = "skipped: " + msg.result.Reason
			line.dim = true
		case msg.result.Cached:
			line.status = "cached"
			line.dim = true
		}
		m.history = append(m.history, line)
		if len(m.history) > extractHistory {
			m.history = m.history[len(m.history)-extractHistory:]
		}
	case extractDoneMsg:
		m.stats = msg.stats
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m extractModel) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Extracting textures"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString("  " + renderBar(m.done, m.total))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d/%d", m.done, m.total)))
	b.WriteString("\n\n")

	for _, line := range m.history {
		text := fmt.Sprintf("  %-30s %s", line.tag, line.status)
		if line.dim {
			b.WriteString(listDimStyle.Render(text))
		} else {
			b.WriteString(listNormalStyle.Render(text))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderBar draws a fixed-width progress bar.
func renderBar(done, total int) string {
	if total <= 0 {
		total = 1
	}
	filled := done * progressBarWidth / total
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	return styleIconSpinner.Render(bar)
}
