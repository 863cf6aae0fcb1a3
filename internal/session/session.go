// internal/session/session.go
//
// Session glues the pieces of one roulette run together: it loads the
// roster and history per the project config, draws rounds, and writes
// the accepted round's artifacts while keeping the logbook informed.

package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kingrea/coffee-roulette/internal/config"
	"github.com/kingrea/coffee-roulette/internal/logbook"
	"github.com/kingrea/coffee-roulette/internal/output"
	"github.com/kingrea/coffee-roulette/internal/pairing"
	"github.com/kingrea/coffee-roulette/internal/roster"
)

// Session carries the state of a single roulette run.
type Session struct {
	cfg *config.Config
	log *logbook.Logbook
	rng *rand.Rand
}

// New builds a session for the given config. The RNG is seeded from
// draw.seed when set, otherwise from the clock.
func New(cfg *config.Config, log *logbook.Logbook) *Session {
	seed := cfg.Project.Draw.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Session{
		cfg: cfg,
		log: log,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Roster loads the participants CSV. Skipped rows are warned about in
// the logbook.
func (s *Session) Roster() ([]roster.Participant, error) {
	cols := roster.Columns{
		Name:   s.cfg.Project.Roster.Columns.Name,
		Email:  s.cfg.Project.Roster.Columns.Email,
		Team:   s.cfg.Project.Roster.Columns.Team,
		Year:   s.cfg.Project.Roster.Columns.Year,
		Header: s.cfg.Project.Roster.Columns.Header,
	}
	return roster.Load(s.cfg.RosterPath(), cols, s.log.Warn)
}

// Draw loads the history and produces a candidate round for the given
// roster. Calling it again reshuffles, so the TUI's redraw key just
// calls Draw once more.
func (s *Session) Draw(people []roster.Participant) (pairing.Round, error) {
	hist, err := pairing.LoadHistory(s.cfg.HistoryPath())
	if err != nil {
		return pairing.Round{}, err
	}
	return pairing.Draw(people, hist, s.rng, s.cfg.Project.Draw.Retries)
}

// Schedule produces a full rotation season for the roster.
func (s *Session) Schedule(people []roster.Participant) ([]pairing.Round, error) {
	return pairing.Schedule(people, s.rng)
}

// Accept persists a drawn round: CSV and Markdown artifacts plus the
// history append. Returns the artifact paths for display.
func (s *Session) Accept(round pairing.Round, drawnAt time.Time) (csvPath, mdPath string, err error) {
	csvPath = s.cfg.OutputCSVPath()
	mdPath = s.cfg.OutputMarkdownPath()
	if err := output.WriteRoundCSV(csvPath, round); err != nil {
		return "", "", err
	}
	if err := output.WriteRoundMarkdown(mdPath, round, drawnAt); err != nil {
		return "", "", err
	}
	if err := pairing.AppendRound(s.cfg.HistoryPath(), round); err != nil {
		return "", "", err
	}
	s.log.Info("round %d accepted: %d groups, wrote %s and %s",
		round.Number, len(round.Pairs), csvPath, mdPath)
	return csvPath, mdPath, nil
}

// Tail exposes recent logbook lines for the TUI's log view.
func (s *Session) Tail(maxLines int) ([]string, int) {
	return s.log.Tail(maxLines)
}

// Describe summarizes a round for logs and status lines.
func Describe(round pairing.Round) string {
	pairs := 0
	triples := 0
	for _, p := range round.Pairs {
		if p.IsTriple() {
			triples++
		} else {
			pairs++
		}
	}
	if triples > 0 {
		return fmt.Sprintf("round %d: %d pairs and %d triple", round.Number, pairs, triples)
	}
	return fmt.Sprintf("round %d: %d pairs", round.Number, pairs)
}
