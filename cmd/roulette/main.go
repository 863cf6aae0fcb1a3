// cmd/roulette/main.go
//
// Entry point for the coffee roulette CLI.
//
// Flow:
// 1. Resolve the project directory and initialize .roulette/
// 2. Load config, apply any flag overrides
// 3. Either run the one-shot batch draw or launch the TUI

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/coffee-roulette/internal/config"
	"github.com/kingrea/coffee-roulette/internal/logbook"
	"github.com/kingrea/coffee-roulette/internal/pairing"
	"github.com/kingrea/coffee-roulette/internal/session"
	"github.com/kingrea/coffee-roulette/internal/tui"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	lineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
)

func main() {
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	batch := flag.Bool("batch", false, "draw one round, write the artifacts, and exit")
	schedule := flag.Bool("schedule", false, "print a full rotation season and exit (nothing is written)")
	rosterPath := flag.String("roster", "", "participants CSV (overrides config)")
	outCSV := flag.String("out-csv", "", "round CSV path (overrides config)")
	outMD := flag.String("out-md", "", "round Markdown path (overrides config)")
	seed := flag.Int64("seed", 0, "fixed RNG seed (overrides config; 0 keeps config/time seed)")
	flag.Parse()

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}
	if err := config.InitRouletteDir(absoluteProject); err != nil {
		die("init .roulette: %v", err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		die("load config: %v", err)
	}
	applyOverrides(cfg, *rosterPath, *outCSV, *outMD, *seed)

	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		die("open logbook: %v", err)
	}
	sess := session.New(cfg, book)

	switch {
	case *schedule:
		runSchedule(sess)
	case *batch:
		runBatch(sess, book)
	default:
		p := tea.NewProgram(
			tui.NewApp(sess),
			tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
		)
		if _, err := p.Run(); err != nil {
			die("run TUI: %v", err)
		}
	}
}

// applyOverrides folds command-line flags into the loaded config.
// Relative paths are resolved against the current directory, not the
// project, because that is where the operator typed them.
func applyOverrides(cfg *config.Config, rosterPath, outCSV, outMD string, seed int64) {
	if strings.TrimSpace(rosterPath) != "" {
		cfg.Project.Roster.Path = mustAbs(rosterPath)
	}
	if strings.TrimSpace(outCSV) != "" {
		cfg.Project.Output.CSV = mustAbs(outCSV)
	}
	if strings.TrimSpace(outMD) != "" {
		cfg.Project.Output.Markdown = mustAbs(outMD)
	}
	if seed != 0 {
		cfg.Project.Draw.Seed = seed
	}
}

// runBatch is the weekly operator path: draw once, save everything.
func runBatch(sess *session.Session, book *logbook.Logbook) {
	people, err := sess.Roster()
	if err != nil {
		book.Error("%v", err)
		die("%v", err)
	}
	round, err := sess.Draw(people)
	if err != nil {
		book.Error("%v", err)
		die("%v", err)
	}
	csvPath, mdPath, err := sess.Accept(round, time.Now())
	if err != nil {
		book.Error("%v", err)
		die("%v", err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Round %d — %s", round.Number, session.Describe(round))))
	printRound(round)
	fmt.Println(savedStyle.Render(fmt.Sprintf("Saved %s and %s", csvPath, mdPath)))
}

// runSchedule prints a season preview without touching history or
// artifacts, handy for planning how many weeks the roster lasts.
func runSchedule(sess *session.Session) {
	people, err := sess.Roster()
	if err != nil {
		die("%v", err)
	}
	rounds, err := sess.Schedule(people)
	if err != nil {
		die("%v", err)
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Season preview: %d weeks for %d participants", len(rounds), len(people))))
	for _, round := range rounds {
		fmt.Println(lineStyle.Render(fmt.Sprintf("Week %d", round.Number)))
		printRound(round)
	}
}

func printRound(round pairing.Round) {
	for _, pair := range round.Pairs {
		names := make([]string, 0, len(pair.Members))
		for _, m := range pair.Members {
			names = append(names, m.Name)
		}
		line := "  • " + strings.Join(names, " + ")
		if pair.IsTriple() {
			line += "  (triple)"
		}
		fmt.Println(lineStyle.Render(line))
	}
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		die("resolve %s: %v", path, err)
	}
	return abs
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
