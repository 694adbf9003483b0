package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/depsync/pkg/dag"
	"github.com/matzehuels/depsync/pkg/reconcile"
	"github.com/matzehuels/depsync/pkg/report"
)

// Terminal palette. Each dependency status owns one color so tables, the
// browser and the detail view agree.
var (
	colorAccent    = lipgloss.Color("36")  // titles, declared nodes
	colorOK        = lipgloss.Color("35")  // success, declared and resolved
	colorPromoted  = lipgloss.Color("220") // promotions, warnings
	colorDangling  = lipgloss.Color("167") // dangling module references
	colorCommand   = lipgloss.Color("75")  // suggested commands
	colorValue     = lipgloss.Color("255")
	colorLabel     = lipgloss.Color("245")
	colorSecondary = lipgloss.Color("240")
)

var (
	// StyleTitle renders a dependency key or module path as a heading.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorSecondary)

	// StyleValue renders looked-up values.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	// StyleWarning renders promotion messages and warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorPromoted)

	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCommand)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	separator   = " · "
)

// Node statuses as shown in tables.
const (
	statusDangling   = "dangling"
	statusPromoted   = "promoted"
	statusDeclared   = "declared"
	statusUnresolved = "unresolved"
	statusTransitive = "transitive"
)

// nodeStatus names the single most relevant fact about n.
func nodeStatus(n report.Node) string {
	switch {
	case n.Dangling:
		return statusDangling
	case n.Promoted:
		return statusPromoted
	case n.Declared && n.Resolved:
		return statusDeclared
	case n.Declared:
		return statusUnresolved
	default:
		return statusTransitive
	}
}

// statusColor is the foreground used for a status cell.
func statusColor(status string) lipgloss.Color {
	switch status {
	case statusDangling:
		return colorDangling
	case statusPromoted, statusUnresolved:
		return colorPromoted
	case statusDeclared:
		return colorOK
	default:
		return colorSecondary
	}
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path a command wrote.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints one labeled field of a detail view.
func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Width(12).Render(key) + " " + StyleValue.Render(value))
}

// buildStatsParts lists the counters of a store build worth showing.
// Gaps in the input (skipped coordinates, dangling modules, versions that
// could not be compared) only appear when non-zero.
func buildStatsParts(s reconcile.BuildStats) []string {
	parts := []string{
		fmt.Sprintf("%d libraries", s.Libraries),
		fmt.Sprintf("%d modules", s.Modules),
		fmt.Sprintf("%d promotions", s.Promotions),
	}
	gaps := []struct {
		n    int
		what string
	}{
		{s.SkippedMalformed, "skipped"},
		{s.DanglingModules, "dangling"},
		{s.UnmatchedVersions, "incomparable"},
	}
	for _, g := range gaps {
		if g.n > 0 {
			parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d %s", g.n, g.what)))
		}
	}
	return parts
}

// printBuildStats prints a store build summary on one line. A reused
// report is marked instead of timed.
func printBuildStats(s reconcile.BuildStats, reused bool) {
	parts := buildStatsParts(s)
	if reused {
		parts = append(parts, styleIconSuccess.Render("reused"))
	} else {
		parts = append(parts, s.Duration.Round(time.Millisecond).String())
	}
	printParts(parts)
}

// printGraphStats prints node, edge and promotion-edge counts of an
// exported graph.
func printGraphStats(g *dag.DAG) {
	promotions := 0
	for _, e := range g.Edges() {
		if e.Meta["promotion"] == true {
			promotions++
		}
	}
	parts := []string{
		fmt.Sprintf("%d nodes", g.NodeCount()),
		fmt.Sprintf("%d edges", g.EdgeCount()),
	}
	if promotions > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d promotions", promotions)))
	}
	printParts(parts)
}

func printParts(parts []string) {
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(separator)))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
