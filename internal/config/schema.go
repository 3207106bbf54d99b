package config

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigOption documents a single configuration option.
type ConfigOption struct {
	// Key is the option name as it appears in the config file.
	Key string
	// Default is the default value as a string, or "" for no default.
	Default string
	// Description is a human-readable description of the option.
	Description string
	// Section is "" for global options, or the section name.
	Section string
}

// DefaultOptions lists every option the scoreboard understands.
func DefaultOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "log.level", Default: "info", Description: "Log level: debug, info, warn, error"},
		{Key: "log.file", Description: "Write JSON logs to this file (discarded when unset)"},
		{Section: "teams", Key: "a", Default: "Team A", Description: "Display name of the first team"},
		{Section: "teams", Key: "b", Default: "Team B", Description: "Display name of the second team"},
		{Section: "scoring", Key: "points", Default: "1,2,3", Description: "Comma-separated point values, at most 3"},
		{Section: "timer", Key: "interval", Default: "1s", Description: "Wall-clock period of one timer second"},
	}
}

func isKnownGlobal(key string) bool {
	for _, opt := range DefaultOptions() {
		if opt.Section == "" && opt.Key == key {
			return true
		}
	}
	return false
}

// Format renders the resolved configuration in the file format, so the
// output of `buckets config` can be saved as a config file.
func (c *Config) Format() string {
	var b strings.Builder

	keys := make([]string, 0, len(c.Global))
	for k := range c.Global {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeOption(&b, k, c.Global[k])
	}

	b.WriteString("\n[teams]\n")
	writeOption(&b, "a", c.Teams.A)
	writeOption(&b, "b", c.Teams.B)

	b.WriteString("\n[scoring]\n")
	points := make([]string, len(c.Scoring.Points))
	for i, p := range c.Scoring.Points {
		points[i] = fmt.Sprint(p)
	}
	writeOption(&b, "points", strings.Join(points, ","))

	b.WriteString("\n[timer]\n")
	writeOption(&b, "interval", c.Timer.Interval.String())
	return b.String()
}

func writeOption(b *strings.Builder, key, value string) {
	b.WriteString(key)
	if value != "" {
		b.WriteByte(' ')
		b.WriteString(value)
	}
	b.WriteByte('\n')
}
