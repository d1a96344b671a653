package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/parallel-finance/paractl/internal/genesis"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00BFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// Summary renders the closing box of a launch run.
func Summary(w io.Writer, network string, report *genesis.Report) {
	var relay, para int
	for _, s := range report.Steps {
		switch s.Chain {
		case "relay":
			relay++
		case "para":
			para++
		}
	}

	status := successStyle.Render("✓ network launched")
	if report.DryRun {
		status = infoStyle.Render("dry run, nothing submitted")
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("paractl launch %s", network)),
		status,
		fmt.Sprintf("relay extrinsics: %d", relay),
		fmt.Sprintf("para extrinsics:  %d", para),
		helpStyle.Render(fmt.Sprintf("run %s in %s", report.RunID, report.Duration.Round(time.Millisecond))),
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}
