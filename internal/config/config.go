// internal/config/config.go
//
// This package handles configuration and the .roulette directory
// structure. Every project that runs the roulette gets a .roulette/
// folder created next to its roster file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// RouletteDir is the name of the directory we create in each project
	RouletteDir = ".roulette"

	defaultRetries = 16
)

const defaultConfigYAML = `# coffee roulette configuration
version: 1

roster:
  # Path to the participants CSV, relative to this project.
  path: participants.csv
  columns:
    # Zero-based column indices. Set team/year to -1 if your export
    # does not carry them.
    name: 0
    email: 1
    team: 2
    year: 3
    # Set to true when the first row is a header.
    header: true

output:
  csv: pairs.csv
  markdown: pairs.md

history:
  path: .roulette/state/history.csv

draw:
  # How many shuffled attempts the engine makes before keeping the
  # round with the fewest repeats.
  retries: 16
  # Fixed RNG seed; leave at 0 for a time-based seed.
  seed: 0
`

// ColumnsConfig declares where each roster field lives in the CSV.
type ColumnsConfig struct {
	Name   int  `yaml:"name"`
	Email  int  `yaml:"email"`
	Team   int  `yaml:"team"`
	Year   int  `yaml:"year"`
	Header bool `yaml:"header"`
}

// RosterConfig locates the input CSV.
type RosterConfig struct {
	Path    string        `yaml:"path"`
	Columns ColumnsConfig `yaml:"columns"`
}

// OutputConfig locates the round artifacts.
type OutputConfig struct {
	CSV      string `yaml:"csv"`
	Markdown string `yaml:"markdown"`
}

// HistoryConfig locates the flat-file pairing history.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// DrawConfig tunes the engine.
type DrawConfig struct {
	Retries int   `yaml:"retries"`
	Seed    int64 `yaml:"seed"`
}

// ProjectConfig models .roulette/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Roster  RosterConfig  `yaml:"roster"`
	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
	Draw    DrawConfig    `yaml:"draw"`
}

// Config holds the runtime configuration for a roulette run.
type Config struct {
	// ProjectDir is the directory where the user ran `roulette` from
	ProjectDir string

	// RouletteProjectDir is ProjectDir/.roulette
	RouletteProjectDir string

	Project ProjectConfig
}

// InitRouletteDir creates the .roulette directory structure in the
// given project directory and seeds a commented config file on first
// run.
//
// Structure created:
// .roulette/
// ├── logs/    <- run log
// └── state/   <- pairing history
func InitRouletteDir(projectDir string) error {
	rouletteDir := filepath.Join(projectDir, RouletteDir)

	dirs := []string{
		filepath.Join(rouletteDir, "logs"),
		filepath.Join(rouletteDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(rouletteDir, "config.yaml"))
}

// NewConfig creates a Config populated from .roulette/config.yaml,
// falling back to defaults when the file is missing.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		RouletteProjectDir: filepath.Join(projectDir, RouletteDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.RouletteProjectDir, "logs")
}

// LogPath returns the run log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "roulette.log")
}

// StateDir returns the path to the state directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.RouletteProjectDir, "state")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.RouletteProjectDir, "config.yaml")
}

// RosterPath returns the resolved participants CSV location.
func (c *Config) RosterPath() string {
	return c.Project.Roster.Path
}

// HistoryPath returns the resolved history file location.
func (c *Config) HistoryPath() string {
	return c.Project.History.Path
}

// OutputCSVPath returns the resolved round CSV location.
func (c *Config) OutputCSVPath() string {
	return c.Project.Output.CSV
}

// OutputMarkdownPath returns the resolved round Markdown location.
func (c *Config) OutputMarkdownPath() string {
	return c.Project.Output.Markdown
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.ProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Roster: RosterConfig{
			Path: "participants.csv",
			Columns: ColumnsConfig{
				Name:   0,
				Email:  1,
				Team:   2,
				Year:   3,
				Header: true,
			},
		},
		Output: OutputConfig{
			CSV:      "pairs.csv",
			Markdown: "pairs.md",
		},
		History: HistoryConfig{
			Path: filepath.Join(RouletteDir, "state", "history.csv"),
		},
		Draw: DrawConfig{
			Retries: defaultRetries,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if strings.TrimSpace(pc.Roster.Path) == "" {
		pc.Roster.Path = defaults.Roster.Path
	}
	if strings.TrimSpace(pc.Output.CSV) == "" {
		pc.Output.CSV = defaults.Output.CSV
	}
	if strings.TrimSpace(pc.Output.Markdown) == "" {
		pc.Output.Markdown = defaults.Output.Markdown
	}
	if strings.TrimSpace(pc.History.Path) == "" {
		pc.History.Path = defaults.History.Path
	}
	if pc.Draw.Retries == 0 {
		pc.Draw.Retries = defaults.Draw.Retries
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Roster.Path = resolvePath(base, pc.Roster.Path)
	pc.Output.CSV = resolvePath(base, pc.Output.CSV)
	pc.Output.Markdown = resolvePath(base, pc.Output.Markdown)
	pc.History.Path = resolvePath(base, pc.History.Path)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	cols := pc.Roster.Columns
	if cols.Name < 0 {
		return fmt.Errorf("roster.columns.name must be >= 0")
	}
	if cols.Email < 0 {
		return fmt.Errorf("roster.columns.email must be >= 0")
	}
	indices := map[int]string{cols.Name: "name"}
	for field, idx := range map[string]int{"email": cols.Email, "team": cols.Team, "year": cols.Year} {
		if idx < 0 {
			continue
		}
		if other, taken := indices[idx]; taken {
			return fmt.Errorf("roster.columns.%s and roster.columns.%s both map to column %d", other, field, idx)
		}
		indices[idx] = field
	}
	if pc.Draw.Retries < 1 {
		return fmt.Errorf("draw.retries must be >= 1")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
