// internal/pairing/history.go
//
// History is the append-only record of who has met whom. It lives in
// a flat CSV file under .roulette/state so it survives between weekly
// runs and stays trivially inspectable.

package pairing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kingrea/coffee-roulette/internal/roster"
)

// History maps unordered email pairs to the number of rounds in which
// they met. It also tracks the highest round number recorded so the
// next draw can number itself.
type History struct {
	counts    map[historyKey]int
	lastRound int
}

type historyKey struct {
	a, b string
}

// orderedKeys normalizes both emails and returns them sorted so the
// pair is unordered.
func orderedKeys(x, y roster.Participant) [2]string {
	a, b := x.Key(), y.Key()
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{counts: map[historyKey]int{}}
}

// LoadHistory reads the history file at path. A missing file is an
// empty history, not an error; the first run has no past.
func LoadHistory(path string) (*History, error) {
	hist := NewHistory()
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return hist, nil
		}
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("history: parse %s: %w", path, err)
		}
		if len(record) < 3 {
			continue
		}
		round, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		a := roster.NormalizeEmail(record[1])
		b := roster.NormalizeEmail(record[2])
		if a == "" || b == "" || a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		hist.counts[historyKey{a, b}]++
		if round > hist.lastRound {
			hist.lastRound = round
		}
	}
	return hist, nil
}

// Count returns how many recorded rounds paired the two participants.
func (h *History) Count(x, y roster.Participant) int {
	if h == nil {
		return 0
	}
	k := orderedKeys(x, y)
	return h.counts[historyKey{k[0], k[1]}]
}

// LastRound returns the highest round number seen so far.
func (h *History) LastRound() int {
	if h == nil {
		return 0
	}
	return h.lastRound
}

// Record folds a round into the in-memory history. A triple records
// its three constituent pairs.
func (h *History) Record(r Round) {
	for _, pair := range r.Pairs {
		for _, k := range pair.emailPairs() {
			h.counts[historyKey{k[0], k[1]}]++
		}
	}
	if r.Number > h.lastRound {
		h.lastRound = r.Number
	}
}

// score totals the prior meetings a candidate round would repeat.
func (h *History) score(r Round) int {
	total := 0
	for _, pair := range r.Pairs {
		for _, k := range pair.emailPairs() {
			total += h.counts[historyKey{k[0], k[1]}]
		}
	}
	return total
}

// AppendRound appends the round's constituent pairs to the history
// file, creating it (and its directory) on first use. Lines are
// `round,email_a,email_b` with the pair sorted.
func AppendRound(path string, r Round) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("history: ensure state dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("history: open %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, pair := range r.Pairs {
		for _, k := range pair.emailPairs() {
			if err := writer.Write([]string{strconv.Itoa(r.Number), k[0], k[1]}); err != nil {
				return fmt.Errorf("history: write %s: %w", path, err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("history: flush %s: %w", path, err)
	}
	return nil
}
