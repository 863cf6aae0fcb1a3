package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/coffee-roulette/internal/pairing"
	"github.com/kingrea/coffee-roulette/internal/roster"
)

type fakeSession struct {
	people      []roster.Participant
	drawCalls   int
	acceptCalls int
	acceptedAt  time.Time
	rosterErr   error
}

func (f *fakeSession) Roster() ([]roster.Participant, error) {
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.people, nil
}

func (f *fakeSession) Draw(people []roster.Participant) (pairing.Round, error) {
	f.drawCalls++
	return pairing.Round{Number: f.drawCalls, Pairs: []pairing.Pair{
		{Members: []roster.Participant{people[0], people[1]}},
		{Members: []roster.Participant{people[2], people[3]}},
	}}, nil
}

func (f *fakeSession) Schedule(people []roster.Participant) ([]pairing.Round, error) {
	round, _ := f.Draw(people)
	return []pairing.Round{round}, nil
}

func (f *fakeSession) Accept(round pairing.Round, drawnAt time.Time) (string, string, error) {
	f.acceptCalls++
	f.acceptedAt = drawnAt
	return "pairs.csv", "pairs.md", nil
}

func (f *fakeSession) Tail(maxLines int) ([]string, int) {
	return []string{"2025-03-03T09:00:00Z INFO  round 1 accepted"}, 1
}

func newFakeSession() *fakeSession {
	people := make([]roster.Participant, 0, 4)
	for i := 0; i < 4; i++ {
		people = append(people, roster.Participant{
			Name:  fmt.Sprintf("P%d", i),
			Email: fmt.Sprintf("p%d@example.com", i),
		})
	}
	return &fakeSession{people: people}
}

func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		nextModel, nextCmd := app.Update(msg)
		app, ok = nextModel.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", nextModel)
		}
		cmd = nextCmd
	}
	return app
}

func TestDrawFlowShowsPreview(t *testing.T) {
	sess := newFakeSession()
	app := NewApp(sess)
	model, cmd := app.Update(drawResultMsg{people: sess.people, round: mustDraw(t, sess)})
	app = runCommands(t, model, cmd)
	if app.state != stateDraw {
		t.Fatalf("state = %d, want stateDraw", app.state)
	}
	view := app.View()
	if !strings.Contains(view, "P0") || !strings.Contains(view, "P3") {
		t.Fatalf("preview missing participants:\n%s", view)
	}
	if !strings.Contains(view, "r: redraw") {
		t.Fatalf("preview missing hints:\n%s", view)
	}
}

func TestRedrawKeyDrawsAgain(t *testing.T) {
	sess := newFakeSession()
	app := NewApp(sess)
	model, cmd := app.Update(drawResultMsg{people: sess.people, round: mustDraw(t, sess)})
	app = runCommands(t, model, cmd)
	before := sess.drawCalls

	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	app = runCommands(t, model, cmd)
	if sess.drawCalls != before+1 {
		t.Fatalf("drawCalls = %d, want %d", sess.drawCalls, before+1)
	}
	if app.state != stateDraw {
		t.Fatalf("state = %d, want stateDraw", app.state)
	}
}

func TestAcceptKeySavesOnce(t *testing.T) {
	sess := newFakeSession()
	clock := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	app := NewApp(sess, WithClock(func() time.Time { return clock }))
	model, cmd := app.Update(drawResultMsg{people: sess.people, round: mustDraw(t, sess)})
	app = runCommands(t, model, cmd)

	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = runCommands(t, model, cmd)
	if sess.acceptCalls != 1 {
		t.Fatalf("acceptCalls = %d, want 1", sess.acceptCalls)
	}
	if !sess.acceptedAt.Equal(clock) {
		t.Fatalf("accepted at %v, want %v", sess.acceptedAt, clock)
	}
	if !app.accepted {
		t.Fatal("app should mark the round accepted")
	}
	if !strings.Contains(app.View(), "Saved pairs.csv") {
		t.Fatalf("view missing save confirmation:\n%s", app.View())
	}

	// Enter again must not double-save, and redraw is locked too.
	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = runCommands(t, model, cmd)
	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	app = runCommands(t, model, cmd)
	if sess.acceptCalls != 1 {
		t.Fatalf("acceptCalls = %d after extra keys, want 1", sess.acceptCalls)
	}
	if sess.drawCalls != 1 {
		t.Fatalf("drawCalls = %d after accept, want 1", sess.drawCalls)
	}
}

func TestEscapeReturnsToMenu(t *testing.T) {
	sess := newFakeSession()
	app := NewApp(sess)
	model, cmd := app.Update(drawResultMsg{people: sess.people, round: mustDraw(t, sess)})
	app = runCommands(t, model, cmd)

	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = runCommands(t, model, cmd)
	if app.state != stateMenu {
		t.Fatalf("state = %d, want stateMenu", app.state)
	}
}

func TestRosterErrorLandsOnMenu(t *testing.T) {
	sess := newFakeSession()
	sess.rosterErr = fmt.Errorf("roster: missing file")
	app := NewApp(sess)
	model, cmd := app.Update(app.drawFreshCmd()())
	app = runCommands(t, model, cmd)
	if app.state != stateMenu {
		t.Fatalf("state = %d, want stateMenu", app.state)
	}
	if !strings.Contains(app.View(), "roster: missing file") {
		t.Fatalf("view missing error:\n%s", app.View())
	}
}

func TestLogViewShowsTail(t *testing.T) {
	sess := newFakeSession()
	app := NewApp(sess)
	app.logLines, app.logTotal = sess.Tail(logTailLines)
	app.state = stateLog
	view := app.View()
	if !strings.Contains(view, "round 1 accepted") {
		t.Fatalf("log view missing entries:\n%s", view)
	}
	if !strings.Contains(view, "Log (1 entries)") {
		t.Fatalf("log view missing total:\n%s", view)
	}
}

func mustDraw(t *testing.T, sess *fakeSession) pairing.Round {
	t.Helper()
	round, err := sess.Draw(sess.people)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	return round
}
