package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joeycumines/buckets/internal/config"
	"github.com/joeycumines/buckets/internal/eventloop"
	"github.com/joeycumines/buckets/internal/scoreboard"
	"github.com/joeycumines/buckets/internal/tui"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by play when stdout is not a terminal.
var ErrNotTerminal = errors.New("play needs an interactive terminal")

// PlayCommand runs the interactive scoreboard.
type PlayCommand struct {
	*BaseCommand
	config  *config.Config
	loadErr error

	logFile  string
	logLevel string

	// Overridable in tests.
	isTerminal func(w io.Writer) bool
	runProgram func(ctx context.Context, m tea.Model, stdout io.Writer) error
}

// NewPlayCommand creates a new play command. loadErr is the error, if any,
// encountered while loading cfg.
func NewPlayCommand(cfg *config.Config, loadErr error) *PlayCommand {
	return &PlayCommand{
		BaseCommand: NewBaseCommand(
			"play",
			"Start an interactive scoreboard",
			"play [options]",
		),
		config:     cfg,
		loadErr:    loadErr,
		isTerminal: isTerminal,
		runProgram: runProgram,
	}
}

// SetupFlags configures the flags for the play command.
func (c *PlayCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.logFile, "log-file", "", "Write JSON logs to this file (default: log.file config)")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: log.level config, else info)")
}

// Execute runs the scoreboard until the user quits.
func (c *PlayCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	if c.loadErr != nil {
		return fmt.Errorf("invalid configuration: %w", c.loadErr)
	}
	if !c.isTerminal(stdout) {
		return ErrNotTerminal
	}

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.config)
	if err != nil {
		return err
	}
	if lc.logFile != nil {
		defer lc.logFile.Close()
	}
	logger := lc.logger()
	for _, w := range c.config.GetWarnings() {
		logger.Warn("config", slog.String("warning", w))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop, err := eventloop.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to start event loop: %w", err)
	}
	defer loop.Close()

	game := scoreboard.NewGame(
		scoreboard.WithExecutor(loop),
		scoreboard.WithLogger(logger),
		scoreboard.WithTimerOptions(
			scoreboard.WithScheduler(loop),
			scoreboard.WithTickInterval(c.config.Timer.Interval),
		),
	)
	model := tui.New(game, tui.Options{
		TeamA:  c.config.Teams.A,
		TeamB:  c.config.Teams.B,
		Points: c.config.Scoring.Points,
	})

	if err := c.runProgram(ctx, model, stdout); err != nil {
		logger.Error("scoreboard failed", slog.Any("error", err))
		return err
	}
	st := game.Status()
	logger.Info("scoreboard closed",
		slog.String("game", st.ID),
		slog.Int("a", st.Score.A),
		slog.Int("b", st.Score.B),
		slog.String("clock", st.Clock))
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runProgram(ctx context.Context, m tea.Model, stdout io.Writer) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(stdout),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
