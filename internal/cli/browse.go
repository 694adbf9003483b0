package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorValue)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorSecondary)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "browse <snapshot>",
		Short: "Browse the reconciled dependencies interactively",
		Example: `  depsync browse snapshot.toml
  depsync browse snapshot.toml --module :feature:login`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx, args[0], flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			m, err := ws.module(flags.module)
			if err != nil {
				return err
			}
			nodes, err := collectNodes(ctx, ws.engine, m, false)
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				printInfo("%s has no dependencies", m.Path())
				return nil
			}

			_, err = tea.NewProgram(NewNodeListModel(m.Path(), nodes), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// NodeListModel - Interactive dependency list
// =============================================================================

// NodeListModel is the bubbletea model listing the nodes of one module with
// a detail pane for the node under the cursor.
type NodeListModel struct {
	Module       string
	All          []report.Node
	Nodes        []report.Node // visible after filtering
	Cursor       int
	Height       int
	Offset       int
	DeclaredOnly bool
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(module string, nodes []report.Node) NodeListModel {
	return NodeListModel{
		Module: module,
		All:    nodes,
		Nodes:  nodes,
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "d":
			m.DeclaredOnly = !m.DeclaredOnly
			m.Nodes = m.All
			if m.DeclaredOnly {
				m.Nodes = nil
				for _, n := range m.All {
					if n.Declared {
						m.Nodes = append(m.Nodes, n)
					}
				}
			}
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		// detail pane takes roughly half the screen
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Module))
	b.WriteString("\n")
	filter := "all"
	if m.DeclaredOnly {
		filter = "declared"
	}
	b.WriteString(listDimStyle.Render("↑/↓ navigate  d toggle declared (" + filter + ")  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no dependencies"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.Key, nodeStatus(n), dash(n.ResolvedVersion)})
	}

	headerStyle := styleLabel.Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Dependency", "Status", "Resolved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[idx]
			base := lipgloss.NewStyle()
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			switch {
			case col == 2:
				return base.Foreground(statusColor(nodeStatus(n)))
			case n.Declared:
				return base.Foreground(colorOK)
			}
			return base.Foreground(colorSecondary)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	b.WriteString("\n\n")
	b.WriteString(nodeDetail(m.Nodes[m.Cursor]))

	return b.String()
}

// nodeDetail renders the detail pane.
func nodeDetail(n report.Node) string {
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(n.Key))
	b.WriteString("\n")
	if n.DeclaredVersion != "" {
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("declared"), listNormalStyle.Render(n.DeclaredVersion))
	}
	if n.ResolvedVersion != "" {
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("resolved"), listNormalStyle.Render(n.ResolvedVersion))
	}
	if n.Message != "" {
		fmt.Fprintf(&b, "  %s\n", StyleWarning.Render(n.Message))
	}
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "  %s\n", listDimStyle.Render(title))
		for _, it := range items {
			fmt.Fprintf(&b, "    %s\n", listNormalStyle.Render(it))
		}
	}
	section("containers", n.Containers)
	section("statements", n.Statements)
	section("transitive", n.Transitive)
	return b.String()
}
