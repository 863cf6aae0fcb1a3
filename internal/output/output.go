// internal/output/output.go
//
// Writers for the two artifacts a draw produces: a CSV file for
// record-keeping and a Markdown file ready to paste into chat. The
// CSV reader exists so a saved round can be loaded back, e.g. to fold
// an older export into history.

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/coffee-roulette/internal/pairing"
	"github.com/kingrea/coffee-roulette/internal/roster"
)

var csvHeader = []string{
	"round",
	"name_1", "email_1",
	"name_2", "email_2",
	"name_3", "email_3",
}

// WriteRoundCSV writes one row per pair. Triples fill the third name
// and email slot; plain pairs leave it empty.
func WriteRoundCSV(path string, round pairing.Round) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("output: ensure output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	for _, pair := range round.Pairs {
		record := []string{strconv.Itoa(round.Number)}
		for i := 0; i < 3; i++ {
			if i < len(pair.Members) {
				record = append(record, pair.Members[i].Name, pair.Members[i].Email)
			} else {
				record = append(record, "", "")
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("output: write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("output: flush %s: %w", path, err)
	}
	return nil
}

// ReadRoundCSV loads a round previously written by WriteRoundCSV.
func ReadRoundCSV(path string) (pairing.Round, error) {
	file, err := os.Open(path)
	if err != nil {
		return pairing.Round{}, fmt.Errorf("output: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	var round pairing.Round
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pairing.Round{}, fmt.Errorf("output: parse %s: %w", path, err)
		}
		line++
		if line == 1 {
			continue
		}
		if len(record) < len(csvHeader) {
			return pairing.Round{}, fmt.Errorf("output: %s row %d has %d columns, want %d", path, line, len(record), len(csvHeader))
		}
		if round.Number == 0 {
			if n, err := strconv.Atoi(record[0]); err == nil {
				round.Number = n
			}
		}
		var members []roster.Participant
		for i := 0; i < 3; i++ {
			name := strings.TrimSpace(record[1+i*2])
			email := roster.NormalizeEmail(record[2+i*2])
			if name == "" && email == "" {
				continue
			}
			members = append(members, roster.Participant{Name: name, Email: email})
		}
		if len(members) < 2 {
			return pairing.Round{}, fmt.Errorf("output: %s row %d has fewer than two members", path, line)
		}
		round.Pairs = append(round.Pairs, pairing.Pair{Members: members})
	}
	return round, nil
}

// WriteRoundMarkdown renders the round as a document suitable for
// posting in chat tools.
func WriteRoundMarkdown(path string, round pairing.Round, drawnAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("output: ensure output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(RoundMarkdown(round, drawnAt)), 0o644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// RoundMarkdown builds the Markdown body for a round.
func RoundMarkdown(round pairing.Round, drawnAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Coffee Roulette — Round %d\n\n", round.Number)
	fmt.Fprintf(&b, "Drawn on %s.\n\n", drawnAt.Format("Monday, 2 January 2006"))
	for _, pair := range round.Pairs {
		names := make([]string, 0, len(pair.Members))
		for _, m := range pair.Members {
			names = append(names, fmt.Sprintf("**%s**", m.Name))
		}
		fmt.Fprintf(&b, "- %s\n", joinNames(names))
	}
	b.WriteString("\nGrab a coffee together sometime this week!\n")
	return b.String()
}

// joinNames renders "A and B" or "A, B and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
