// internal/roster/roster.go
//
// This package loads the participant roster from a CSV file. Column
// positions are configurable because every org exports their people
// list with a different layout.

package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Participant is one person in the roulette. Identity is the
// normalized email address; name, team and year are display metadata.
type Participant struct {
	Name  string
	Email string
	Team  string
	Year  string
}

// Key returns the identity used for history lookups and dedupe.
func (p Participant) Key() string {
	return NormalizeEmail(p.Email)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Columns maps roster fields to zero-based CSV column indices. Team
// and Year may be -1 when the export does not carry them.
type Columns struct {
	Name   int
	Email  int
	Team   int
	Year   int
	Header bool
}

// Validate reports configuration problems before any file is read.
func (c Columns) Validate() error {
	if c.Name < 0 {
		return fmt.Errorf("roster: name column index must be >= 0")
	}
	if c.Email < 0 {
		return fmt.Errorf("roster: email column index must be >= 0")
	}
	if c.Name == c.Email {
		return fmt.Errorf("roster: name and email columns are both %d", c.Name)
	}
	return nil
}

// width returns the minimum row length a usable record needs.
func (c Columns) width() int {
	max := c.Name
	if c.Email > max {
		max = c.Email
	}
	if c.Team > max {
		max = c.Team
	}
	if c.Year > max {
		max = c.Year
	}
	return max + 1
}

// WarnFunc receives a message for each skipped row so callers can
// route it to the logbook.
type WarnFunc func(format string, args ...any)

// Load reads participants from the CSV file at path. Malformed rows
// and duplicate emails are skipped with a warning; an empty result is
// an error because there is nobody to pair.
func Load(path string, cols Columns, warn WarnFunc) ([]Participant, error) {
	if err := cols.Validate(); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", path, err)
	}
	defer file.Close()

	people, err := parse(file, cols, warn)
	if err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", path, err)
	}
	if len(people) == 0 {
		return nil, fmt.Errorf("roster: %s contains no usable participants", path)
	}
	return people, nil
}

func parse(r io.Reader, cols Columns, warn WarnFunc) ([]Participant, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	reader := csv.NewReader(r)
	// Exports frequently have ragged rows; we validate width ourselves.
	reader.FieldsPerRecord = -1

	var people []Participant
	seen := map[string]bool{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if cols.Header && line == 1 {
			continue
		}
		if len(record) < cols.width() {
			warn("roster: row %d has %d columns, need %d; skipped", line, len(record), cols.width())
			continue
		}
		p := Participant{
			Name:  strings.TrimSpace(record[cols.Name]),
			Email: NormalizeEmail(record[cols.Email]),
		}
		if cols.Team >= 0 {
			p.Team = strings.TrimSpace(record[cols.Team])
		}
		if cols.Year >= 0 {
			p.Year = strings.TrimSpace(record[cols.Year])
		}
		if p.Name == "" || p.Email == "" {
			warn("roster: row %d is missing a name or email; skipped", line)
			continue
		}
		if seen[p.Email] {
			warn("roster: row %d repeats %s; keeping the first entry", line, p.Email)
			continue
		}
		seen[p.Email] = true
		people = append(people, p)
	}
	return people, nil
}
