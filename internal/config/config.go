package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// errUnknownOption marks an unrecognised option inside a known section. It
// is reported as a warning, not a load error.
var errUnknownOption = errors.New("unknown option")

// MaxPointButtons is the number of point values a scoreboard offers per team.
const MaxPointButtons = 3

// Config represents the application configuration.
type Config struct {
	// Global options (log.level, log.file, ...)
	Global map[string]string
	// Teams holds the display names of both teams.
	Teams TeamsConfig
	// Scoring holds the point values offered per team.
	Scoring ScoringConfig
	// Timer holds the session timer settings.
	Timer TimerConfig
	// Warnings contains any warnings generated during config loading
	Warnings []string
}

// TeamsConfig holds team display names. Parsed from the [teams] section.
type TeamsConfig struct {
	A string `json:"a" default:"Team A"`
	B string `json:"b" default:"Team B"`
}

// ScoringConfig holds the point values offered as buttons, in order.
// Parsed from the [scoring] section.
type ScoringConfig struct {
	Points []int `json:"points" default:"1,2,3"`
}

// TimerConfig holds session timer settings. Parsed from the [timer] section.
type TimerConfig struct {
	// Interval is the wall-clock period of one elapsed second. Only useful
	// for demos and tests; real games keep the default.
	Interval time.Duration `json:"interval" default:"1s"`
}

// NewConfig creates a new configuration holding the defaults.
func NewConfig() *Config {
	return &Config{
		Global: make(map[string]string),
		Teams: TeamsConfig{
			A: "Team A",
			B: "Team B",
		},
		Scoring: ScoringConfig{
			Points: []int{1, 2, 3},
		},
		Timer: TimerConfig{
			Interval: time.Second,
		},
		Warnings: make([]string, 0),
	}
}

// Load loads configuration from the default config file path.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads configuration from the specified file path.
// The file uses dnsmasq-style format: optionName remainingLineIsTheValue
//
// Symlinks in the final path component are rejected.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadFromReader(file)
}

type section int

const (
	sectionGlobal section = iota
	sectionTeams
	sectionScoring
	sectionTimer
	sectionUnknown
)

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	config := NewConfig()
	scanner := bufio.NewScanner(r)

	current := sectionGlobal
	var unknownName string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sectionName := strings.TrimSpace(strings.Trim(line, "[]"))
			switch sectionName {
			case "teams":
				current = sectionTeams
			case "scoring":
				current = sectionScoring
			case "timer":
				current = sectionTimer
			default:
				current = sectionUnknown
				unknownName = sectionName
				config.addWarning("unknown section [%s] ignored", sectionName)
			}
			continue
		}

		// Parse option line: optionName remainingLineIsTheValue
		optionName, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)

		switch current {
		case sectionGlobal:
			if !isKnownGlobal(optionName) {
				config.addWarning("unknown global option %q", optionName)
			}
			config.Global[optionName] = value
		case sectionTeams:
			if err := config.applySectionOption("teams", optionName, parseTeamOption(&config.Teams, optionName, value)); err != nil {
				return nil, err
			}
		case sectionScoring:
			if err := config.applySectionOption("scoring", optionName, parseScoringOption(&config.Scoring, optionName, value)); err != nil {
				return nil, err
			}
		case sectionTimer:
			if err := config.applySectionOption("timer", optionName, parseTimerOption(&config.Timer, optionName, value)); err != nil {
				return nil, err
			}
		case sectionUnknown:
			slog.Debug("[Config] skipping option in unknown section", "section", unknownName, "option", optionName)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	return config, nil
}

// applySectionOption turns the result of parsing an option in a known
// section into a warning (unknown option) or a load error (bad value).
func (c *Config) applySectionOption(section, name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errUnknownOption):
		c.addWarning("unknown option %q in [%s] ignored", name, section)
		return nil
	default:
		return fmt.Errorf("invalid %s option %q: %w", section, name, err)
	}
}

// addWarning adds a warning to the config's warnings list.
func (c *Config) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Config] " + msg)
}

// parseTeamOption parses a [teams] option.
// Supported options:
//   - a <name>: display name of the first team (default: Team A)
//   - b <name>: display name of the second team (default: Team B)
func parseTeamOption(tc *TeamsConfig, name, value string) error {
	var target *string
	switch name {
	case "a":
		target = &tc.A
	case "b":
		target = &tc.B
	default:
		return fmt.Errorf("%w: %s", errUnknownOption, name)
	}
	normalized := NormalizeTeamName(value)
	if normalized == "" {
		return fmt.Errorf("team name cannot be empty")
	}
	*target = normalized
	return nil
}

// NormalizeTeamName collapses whitespace and title-cases a team name, so
// "  the   bulls " becomes "The Bulls".
func NormalizeTeamName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(fields, " "))
}

// parseScoringOption parses a [scoring] option.
// Supported options:
//   - points <int,int,...>: point values, each positive, at most MaxPointButtons
func parseScoringOption(sc *ScoringConfig, name, value string) error {
	switch name {
	case "points":
		points, err := parsePoints(value)
		if err != nil {
			return err
		}
		sc.Points = points
	default:
		return fmt.Errorf("%w: %s", errUnknownOption, name)
	}
	return nil
}

func parsePoints(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) > MaxPointButtons {
		return nil, fmt.Errorf("at most %d point values allowed, got %d", MaxPointButtons, len(parts))
	}
	points := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value %q: %w", part, err)
		}
		if p <= 0 {
			return nil, fmt.Errorf("point values must be positive: %d", p)
		}
		points = append(points, p)
	}
	return points, nil
}

// parseTimerOption parses a [timer] option.
// Supported options:
//   - interval <duration>: wall-clock period of one elapsed second (default: 1s)
func parseTimerOption(tc *TimerConfig, name, value string) error {
	switch name {
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value %q: %w", value, err)
		}
		if d <= 0 {
			return fmt.Errorf("interval must be positive: %s", d)
		}
		tc.Interval = d
	default:
		return fmt.Errorf("%w: %s", errUnknownOption, name)
	}
	return nil
}

// GetGlobalOption returns a global configuration option.
func (c *Config) GetGlobalOption(name string) (string, bool) {
	value, exists := c.Global[name]
	return value, exists
}

// SetGlobalOption sets a global configuration option.
func (c *Config) SetGlobalOption(name, value string) {
	c.Global[name] = value
}

// GetWarnings returns any warnings generated during config loading.
func (c *Config) GetWarnings() []string {
	return c.Warnings
}

// HasWarnings returns true if there are any warnings.
func (c *Config) HasWarnings() bool {
	return len(c.Warnings) > 0
}
