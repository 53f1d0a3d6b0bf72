package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/davepeck/bigtime-t-strings/pkg/track"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// rankListModel is the bubbletea model for browsing ranked repositories.
type rankListModel struct {
	records []track.ScoredRecord
	cursor  int
	height  int
	offset  int
}

// newRankListModel creates a browsable list over ranked records.
func newRankListModel(records []track.ScoredRecord) rankListModel {
	return rankListModel{records: records, height: 15}
}

func (m rankListModel) Init() tea.Cmd {
	return nil
}

func (m rankListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g", "home":
			m.cursor, m.offset = 0, 0
		case "G", "end":
			m.cursor = len(m.records) - 1
			if m.cursor >= m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 12
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m rankListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("T-String Power Ranking"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		b.WriteString(listDimStyle.Render("  (state is empty)"))
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.records) {
		end = len(m.records)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.records[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i + 1),
			r.NameWithOwner,
			strconv.Itoa(r.TStringCount),
			strconv.Itoa(r.Stargazers),
			fmt.Sprintf("%.6f", r.Score),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Repository", "T-Strings", "Stars", "Power").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.offset + row
			if actualIdx >= len(m.records) {
				return lipgloss.NewStyle()
			}
			r := m.records[actualIdx]
			base := lipgloss.NewStyle()
			if actualIdx == m.cursor {
				base = base.Bold(true).Foreground(colorCyan)
			} else if r.Failed() {
				base = base.Foreground(colorYellow)
			} else {
				base = base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.records))))

	return b.String()
}

// detailView renders the selected repository's metadata under the table.
func (m rankListModel) detailView() string {
	r := m.records[m.cursor]
	var b strings.Builder

	b.WriteString("  " + StyleLink.Render(r.URL) + "\n")
	if r.Description != "" {
		b.WriteString("  " + StyleValue.Render(r.Description) + "\n")
	}
	parts := []string{
		fmt.Sprintf("%d files", r.FileCount),
		fmt.Sprintf("%d imports", r.TemplatelibImports),
		fmt.Sprintf("%d lines", r.LineCount),
		"scanned " + formatRelativeTime(r.ScannedAt),
	}
	if r.RequiresPython != "" {
		parts = append(parts, "requires "+r.RequiresPython)
	}
	b.WriteString("  " + listDimStyle.Render(strings.Join(parts, " · ")))
	if r.Failed() {
		b.WriteString("\n  " + StyleWarning.Render(iconWarning+" "+r.Failure))
	}
	return b.String()
}

// formatRelativeTime renders t relative to now for recent times, absolute
// otherwise.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
