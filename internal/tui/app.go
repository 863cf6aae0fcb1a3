// internal/tui/app.go
//
// The interactive front end for the roulette. It uses bubbletea,
// which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/coffee-roulette/internal/pairing"
	"github.com/kingrea/coffee-roulette/internal/roster"
	"github.com/kingrea/coffee-roulette/internal/session"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMenu     appState = iota // Main menu
	stateDraw                     // Previewing a drawn round
	stateRoster                   // Viewing the loaded roster
	stateSchedule                 // Previewing a full rotation season
	stateLog                      // Tailing the logbook
)

const logTailLines = 20

// Drawer is the slice of session behavior the TUI needs. Tests swap
// in a fake; production passes *session.Session.
type Drawer interface {
	Roster() ([]roster.Participant, error)
	Draw(people []roster.Participant) (pairing.Round, error)
	Schedule(people []roster.Participant) ([]pairing.Round, error)
	Accept(round pairing.Round, drawnAt time.Time) (string, string, error)
	Tail(maxLines int) ([]string, int)
}

// AppOption customizes App construction for tests.
type AppOption func(*App)

// WithClock overrides the timestamp used when accepting a round.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.now = clock
		}
	}
}

type drawResultMsg struct {
	people []roster.Participant
	round  pairing.Round
	err    error
}

type rosterResultMsg struct {
	people []roster.Participant
	err    error
}

type scheduleResultMsg struct {
	rounds []pairing.Round
	err    error
}

type acceptResultMsg struct {
	csvPath string
	mdPath  string
	err     error
}

// App is the main application model. In bubbletea, this holds ALL
// your state.
type App struct {
	state   appState
	session Drawer
	now     func() time.Time

	mainMenu  list.Model
	statusMsg string
	err       error

	people   []roster.Participant
	round    pairing.Round
	hasRound bool
	accepted bool
	rounds   []pairing.Round
	logLines []string
	logTotal int

	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance around a session.
func NewApp(sess Drawer, opts ...AppOption) *App {
	items := []list.Item{
		menuItem{title: "Draw This Week's Round", desc: "Pair everyone up, avoiding repeats"},
		menuItem{title: "Preview Full Schedule", desc: "Rotation plan for a whole season"},
		menuItem{title: "View Roster", desc: "Who is in the roulette"},
		menuItem{title: "View Log", desc: "Recent runs and warnings"},
		menuItem{title: "Quit", desc: "Exit without drawing"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "☕ COFFEE ROULETTE"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:    stateMenu,
		session:  sess,
		now:      time.Now,
		mainMenu: mainMenu,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(msg.Width, msg.Height-2)
		return a, nil

	case drawResultMsg:
		if msg.err != nil {
			a.err = msg.err
			a.state = stateMenu
			return a, nil
		}
		a.err = nil
		a.people = msg.people
		a.round = msg.round
		a.hasRound = true
		a.accepted = false
		a.state = stateDraw
		a.statusMsg = session.Describe(msg.round)
		return a, nil

	case rosterResultMsg:
		if msg.err != nil {
			a.err = msg.err
			a.state = stateMenu
			return a, nil
		}
		a.err = nil
		a.people = msg.people
		a.state = stateRoster
		return a, nil

	case scheduleResultMsg:
		if msg.err != nil {
			a.err = msg.err
			a.state = stateMenu
			return a, nil
		}
		a.err = nil
		a.rounds = msg.rounds
		a.state = stateSchedule
		return a, nil

	case acceptResultMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.accepted = true
		a.statusMsg = fmt.Sprintf("Saved %s and %s", msg.csvPath, msg.mdPath)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.state == stateMenu {
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMenu:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "enter":
			return a.selectMenuItem()
		}
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd

	case stateDraw:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc", "q":
			a.state = stateMenu
			return a, nil
		case "r":
			if a.accepted {
				return a, nil
			}
			return a, a.drawCmd(a.people)
		case "enter":
			if a.accepted || !a.hasRound {
				return a, nil
			}
			return a, a.acceptCmd(a.round)
		}

	default:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc", "q", "enter":
			a.state = stateMenu
			return a, nil
		}
	}
	return a, nil
}

func (a *App) selectMenuItem() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "Draw This Week's Round":
		return a, a.drawFreshCmd()
	case "Preview Full Schedule":
		return a, a.scheduleCmd()
	case "View Roster":
		return a, a.rosterCmd()
	case "View Log":
		a.logLines, a.logTotal = a.session.Tail(logTailLines)
		a.state = stateLog
		return a, nil
	case "Quit":
		return a, tea.Quit
	}
	return a, nil
}

// drawFreshCmd loads the roster and draws in one step, so the menu
// action works before any roster has been viewed.
func (a *App) drawFreshCmd() tea.Cmd {
	return func() tea.Msg {
		people, err := a.session.Roster()
		if err != nil {
			return drawResultMsg{err: err}
		}
		round, err := a.session.Draw(people)
		return drawResultMsg{people: people, round: round, err: err}
	}
}

// drawCmd reshuffles an already-loaded roster.
func (a *App) drawCmd(people []roster.Participant) tea.Cmd {
	return func() tea.Msg {
		round, err := a.session.Draw(people)
		return drawResultMsg{people: people, round: round, err: err}
	}
}

func (a *App) rosterCmd() tea.Cmd {
	return func() tea.Msg {
		people, err := a.session.Roster()
		return rosterResultMsg{people: people, err: err}
	}
}

func (a *App) scheduleCmd() tea.Cmd {
	return func() tea.Msg {
		people, err := a.session.Roster()
		if err != nil {
			return scheduleResultMsg{err: err}
		}
		rounds, err := a.session.Schedule(people)
		return scheduleResultMsg{rounds: rounds, err: err}
	}
}

func (a *App) acceptCmd(round pairing.Round) tea.Cmd {
	return func() tea.Msg {
		csvPath, mdPath, err := a.session.Accept(round, a.now())
		return acceptResultMsg{csvPath: csvPath, mdPath: mdPath, err: err}
	}
}
