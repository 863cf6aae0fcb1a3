package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/coffee-roulette/internal/pairing"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	pairStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	tripleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// View renders the current screen.
func (a *App) View() string {
	switch a.state {
	case stateDraw:
		return a.drawView()
	case stateRoster:
		return a.rosterView()
	case stateSchedule:
		return a.scheduleView()
	case stateLog:
		return a.logView()
	default:
		return a.menuView()
	}
}

func (a *App) menuView() string {
	view := a.mainMenu.View()
	if a.err != nil {
		view += "\n" + errStyle.Render(fmt.Sprintf("Error: %v", a.err))
	} else if a.statusMsg != "" {
		view += "\n" + detailStyle.Render(a.statusMsg)
	}
	return view
}

func (a *App) drawView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Round %d", a.round.Number)))
	b.WriteString("\n\n")
	b.WriteString(renderRound(a.round))
	b.WriteString("\n")
	if a.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", a.err)))
		b.WriteString("\n")
	}
	if a.accepted {
		b.WriteString(okStyle.Render("Accepted. " + a.statusMsg))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("esc: back to menu"))
	} else {
		b.WriteString(hintStyle.Render("enter: accept and save · r: redraw · esc: back"))
	}
	return b.String()
}

func (a *App) rosterView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Roster (%d participants)", len(a.people))))
	b.WriteString("\n\n")
	for _, p := range a.people {
		line := fmt.Sprintf("%s <%s>", p.Name, p.Email)
		if p.Team != "" {
			line += detailStyle.Render("  " + p.Team)
		}
		b.WriteString(pairStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("esc: back to menu"))
	return b.String()
}

func (a *App) scheduleView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Season preview (%d weeks)", len(a.rounds))))
	b.WriteString("\n\n")
	for _, round := range a.rounds {
		b.WriteString(detailStyle.Render(fmt.Sprintf("Week %d", round.Number)))
		b.WriteString("\n")
		b.WriteString(renderRound(round))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("esc: back to menu"))
	return b.String()
}

func (a *App) logView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Log (%d entries)", a.logTotal)))
	b.WriteString("\n\n")
	if len(a.logLines) == 0 {
		b.WriteString(detailStyle.Render("No runs logged yet."))
		b.WriteString("\n")
	}
	for _, line := range a.logLines {
		b.WriteString(pairStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("esc: back to menu"))
	return b.String()
}

// renderRound lists each group on its own line, highlighting the
// triple when the roster was odd.
func renderRound(round pairing.Round) string {
	var b strings.Builder
	for _, pair := range round.Pairs {
		names := make([]string, 0, len(pair.Members))
		for _, m := range pair.Members {
			names = append(names, m.Name)
		}
		line := "• " + strings.Join(names, " + ")
		if pair.IsTriple() {
			b.WriteString(tripleStyle.Render(line + "  (triple)"))
		} else {
			b.WriteString(pairStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
