package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	hierarchyio "github.com/hierarchytrix/solver/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InstanceListModel - Interactive graph instance selection
// =============================================================================

// instanceEntry describes one candidate graph document found on disk.
type instanceEntry struct {
	Path   string
	ID     string
	Nodes  int
	Leaves int
	Err    error
}

// scanInstances reads every *.json file directly under dir and parses it
// as a hierarchy graph, so the picker can show node/leaf counts up front.
func scanInstances(dir string) ([]instanceEntry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	entries := make([]instanceEntry, 0, len(matches))
	for _, path := range matches {
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		g, err := hierarchyio.ImportJSON(path)
		if err != nil {
			entries = append(entries, instanceEntry{Path: path, ID: id, Err: err})
			continue
		}
		entries = append(entries, instanceEntry{
			Path:   path,
			ID:     id,
			Nodes:  g.NodeCount(),
			Leaves: len(g.Leaves()),
		})
	}
	return entries, nil
}

// InstanceListModel is the bubbletea model for interactive instance selection.
type InstanceListModel struct {
	Entries  []instanceEntry
	Cursor   int
	Selected *instanceEntry
	Height   int
	Offset   int
}

// NewInstanceListModel creates a new instance list model.
func NewInstanceListModel(entries []instanceEntry) InstanceListModel {
	return InstanceListModel{Entries: entries, Height: 15}
}

func (m InstanceListModel) Init() tea.Cmd {
	return nil
}

func (m InstanceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Entries) == 0 {
				return m, nil
			}
			entry := m.Entries[m.Cursor]
			if entry.Err != nil {
				return m, nil
			}
			m.Selected = &entry
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InstanceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Instance"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  no graph documents found"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		nodes, leaves := "—", "—"
		status := "✓"
		if e.Err != nil {
			nodes, leaves, status = "—", "—", "!"
		} else {
			nodes = fmt.Sprintf("%d", e.Nodes)
			leaves = fmt.Sprintf("%d", e.Leaves)
		}

		rows = append(rows, []string{cursor, e.ID, nodes, leaves, status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Instance", "Nodes", "Leaves", "Valid").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			e := m.Entries[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				if e.Err == nil {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Foreground(colorDim).Bold(true)
			}
			if e.Err != nil {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickInstance scans dir for graph documents and runs an interactive picker,
// returning the chosen file's path. It returns an empty path with no error
// if the user quits without selecting anything.
func pickInstance(dir string) (string, error) {
	entries, err := scanInstances(dir)
	if err != nil {
		return "", fmt.Errorf("scan instances: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no graph documents (*.json) found in %s", dir)
	}

	m := NewInstanceListModel(entries)
	program := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("run instance picker: %w", err)
	}

	result, ok := final.(InstanceListModel)
	if !ok || result.Selected == nil {
		return "", nil
	}
	return result.Selected.Path, nil
}
