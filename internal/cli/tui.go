package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/adlayout/pkg/variation"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// VariationPicker - Interactive variation selection
// =============================================================================

// VariationPicker is the bubbletea model for choosing one ranked variation.
type VariationPicker struct {
	Variations []variation.Variation
	Cursor     int
	Selected   *variation.Variation
	Height     int
	Offset     int
}

// NewVariationPicker creates a picker over vs, best first.
func NewVariationPicker(vs []variation.Variation) VariationPicker {
	return VariationPicker{Variations: vs, Height: 15}
}

func (m VariationPicker) Init() tea.Cmd {
	return nil
}

func (m VariationPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Variations)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Variations) == 0 {
				return m, tea.Quit
			}
			v := m.Variations[m.Cursor]
			m.Selected = &v
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m VariationPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Variation"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Variations))
	b.WriteString(variationTable(m.Variations, m.Offset, end, m.Cursor))
	b.WriteString("\n\n")
	if len(m.Variations) > 0 {
		v := m.Variations[m.Cursor]
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s / %s · %s · %s spacing · %s shadow",
			v.Typography.Pairing.Headline, v.Typography.Pairing.Body, v.Elements.Shape,
			v.Layout.Spacing, v.Elements.Shadow)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Variations))))
	return b.String()
}

// =============================================================================
// Tables
// =============================================================================

// swatches renders each palette color as a two-cell block.
func swatches(colors []string) string {
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  "))
	}
	return b.String()
}

// variationTable renders vs[from:to]. The row at cursor is highlighted; a
// negative cursor highlights nothing.
func variationTable(vs []variation.Variation, from, to, cursor int) string {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		v := vs[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{
			marker,
			fmt.Sprintf("%d", i+1),
			v.TemplateID,
			fmt.Sprintf("L%d", v.Level),
			string(v.Colors.Strategy),
			swatches(v.Colors.Palette),
			string(v.Layout.Transform),
			v.Typography.Pairing.Headline,
			fmt.Sprintf("%.0f", v.Scores.Overall),
			fmt.Sprintf("%.0f", v.Scores.Harmony),
			fmt.Sprintf("%.0f", v.Scores.Balance),
			fmt.Sprintf("%.0f", v.Scores.Readability),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Template", "Lvl", "Colors", "Palette", "Layout", "Font", "Score", "Harm", "Bal", "Read").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := from + row
			if idx >= to {
				return lipgloss.NewStyle()
			}
			if col == 8 {
				s := scoreStyle(vs[idx].Scores.Overall)
				if idx == cursor {
					s = s.Bold(true)
				}
				return s
			}
			if idx == cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}
