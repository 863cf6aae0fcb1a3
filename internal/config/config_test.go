package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.Project.Version)
	}
	if cfg.Project.Draw.Retries != defaultRetries {
		t.Fatalf("expected default retries %d, got %d", defaultRetries, cfg.Project.Draw.Retries)
	}
	if !strings.HasPrefix(cfg.RosterPath(), projectDir) {
		t.Fatalf("expected roster path under project dir, got %s", cfg.RosterPath())
	}
	if !strings.HasPrefix(cfg.HistoryPath(), filepath.Join(projectDir, RouletteDir)) {
		t.Fatalf("expected history under %s, got %s", RouletteDir, cfg.HistoryPath())
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	rouletteDir := filepath.Join(projectDir, RouletteDir)
	if err := os.MkdirAll(rouletteDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
roster:
  path: people/team.csv
  columns:
    name: 1
    email: 0
    team: -1
    year: -1
    header: false
output:
  csv: out/week.csv
  markdown: out/week.md
history:
  path: state/meetings.csv
draw:
  retries: 4
  seed: 42
`)
	if err := os.WriteFile(filepath.Join(rouletteDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.RosterPath() != filepath.Join(projectDir, "people", "team.csv") {
		t.Fatalf("roster path not resolved: %s", cfg.RosterPath())
	}
	if cfg.Project.Roster.Columns.Email != 0 || cfg.Project.Roster.Columns.Name != 1 {
		t.Fatalf("columns not parsed: %+v", cfg.Project.Roster.Columns)
	}
	if cfg.Project.Roster.Columns.Team != -1 {
		t.Fatalf("team column = %d, want -1", cfg.Project.Roster.Columns.Team)
	}
	if cfg.Project.Draw.Retries != 4 || cfg.Project.Draw.Seed != 42 {
		t.Fatalf("draw config not parsed: %+v", cfg.Project.Draw)
	}
	if cfg.OutputMarkdownPath() != filepath.Join(projectDir, "out", "week.md") {
		t.Fatalf("markdown path not resolved: %s", cfg.OutputMarkdownPath())
	}
}

func TestNewConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate columns",
			yaml: `
roster:
  columns:
    name: 1
    email: 1
`,
		},
		{
			name: "negative email column",
			yaml: `
roster:
  columns:
    name: 0
    email: -2
`,
		},
		{
			name: "negative retries",
			yaml: `
roster:
  columns:
    name: 0
    email: 1
draw:
  retries: -3
`,
		},
	}
	for _, tc := range cases {
		projectDir := t.TempDir()
		rouletteDir := filepath.Join(projectDir, RouletteDir)
		if err := os.MkdirAll(rouletteDir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(rouletteDir, "config.yaml"), []byte(strings.TrimSpace(tc.yaml)), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewConfig(projectDir); err == nil {
			t.Fatalf("%s: expected validation error but got none", tc.name)
		}
	}
}

func TestInitRouletteDirSeedsConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitRouletteDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, dir := range []string{"logs", "state"} {
		info, err := os.Stat(filepath.Join(projectDir, RouletteDir, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory: %v", dir, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(projectDir, RouletteDir, "config.yaml"))
	if err != nil {
		t.Fatalf("expected seeded config: %v", err)
	}
	if !strings.Contains(string(data), "coffee roulette configuration") {
		t.Fatal("seeded config missing banner comment")
	}

	// A second init must not clobber user edits.
	custom := []byte("version: 1\n")
	if err := os.WriteFile(filepath.Join(projectDir, RouletteDir, "config.yaml"), custom, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitRouletteDir(projectDir); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	data, err = os.ReadFile(filepath.Join(projectDir, RouletteDir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(custom) {
		t.Fatal("re-init overwrote the config file")
	}
}
