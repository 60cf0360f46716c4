package audio

import (
	"context"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// DefaultCommand and DefaultArgs run mpv without video or console output.
var (
	DefaultCommand = "mpv"
	DefaultArgs    = []string{"--no-video", "--really-quiet"}
)

// ExecDriver plays each URL with an external player process. The URL is passed
// as the last argument.
type ExecDriver struct {
	command string
	args    []string
	logger  *zap.Logger
}

// NewExecDriver creates a driver running command with args. An empty command
// selects DefaultCommand. DefaultArgs apply only to DefaultCommand when no
// args are given.
func NewExecDriver(command string, args []string, logger *zap.Logger) *ExecDriver {
	if command == "" {
		command = DefaultCommand
	}
	if len(args) == 0 && command == DefaultCommand {
		args = DefaultArgs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecDriver{command: command, args: args, logger: logger}
}

// Play starts the player process in the background.
func (d *ExecDriver) Play(url string) Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &execHandle{cancel: cancel, done: make(chan struct{})}

	args := make([]string, 0, len(d.args)+1)
	args = append(args, d.args...)
	args = append(args, url)
	cmd := exec.CommandContext(ctx, d.command, args...)

	go func() {
		defer close(h.done)
		err := cmd.Run()
		// Errors after Stop are the kill we asked for
		if err != nil && ctx.Err() == nil {
			d.logger.Error("Failed to play audio",
				zap.String("url", url),
				zap.String("command", d.command),
				zap.Error(err),
			)
		}
	}()

	return h
}

type execHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop kills the player process and waits for it to exit.
func (h *execHandle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the player process has exited.
func (h *execHandle) Done() <-chan struct{} {
	return h.done
}
