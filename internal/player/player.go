package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"xtor/internal/feedapi"
	"xtor/internal/logging"
	"xtor/internal/services"
)

// Executor runs a command, forwarding each output line to onOutput.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures a Player.
type Option func(*Player)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(p *Player) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// WithLogger attaches a logger; player output is logged at debug.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logging.NewComponentLogger(logger, "player")
		}
	}
}

// Player launches the configured media player.
type Player struct {
	command string
	args    []string
	exec    Executor
	logger  *slog.Logger
}

// New constructs a player for command.
func New(command string, args []string, opts ...Option) (*Player, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("player command required")
	}
	p := &Player{
		command: command,
		args:    append([]string(nil), args...),
		exec:    commandExecutor{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Command returns the binary and arguments that Play would run for video.
func (p *Player) Command(video feedapi.Video) (string, []string, error) {
	streamURL := video.StreamURL()
	if streamURL == "" {
		return "", nil, services.Wrap(services.ErrInvalidInput, "player", "resolve stream",
			fmt.Sprintf("video %q has no stream URL", video.ID()), nil)
	}
	replacer := strings.NewReplacer("{url}", streamURL, "{title}", video.Title())
	args := make([]string, 0, len(p.args)+1)
	hasURL := false
	for _, arg := range p.args {
		if strings.Contains(arg, "{url}") {
			hasURL = true
		}
		args = append(args, replacer.Replace(arg))
	}
	if !hasURL {
		args = append(args, streamURL)
	}
	return p.command, args, nil
}

// Play runs the player for video and waits for it to exit.
func (p *Player) Play(ctx context.Context, video feedapi.Video) error {
	binary, args, err := p.Command(video)
	if err != nil {
		return err
	}
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("starting player",
		logging.String("command", binary),
		logging.VideoID(video.ID()),
		logging.String("title", video.Title()))
	if err := p.exec.Run(ctx, binary, args, func(line string) {
		logger.Debug("player output", logging.String("line", line))
	}); err != nil {
		return fmt.Errorf("run %s: %w", binary, err)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
