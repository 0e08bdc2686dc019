package actions

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/clubar/pkg/errors"
)

// MaxWords bounds the number of words a command is split into.
const MaxWords = 63

// ShellExecutor starts commands in their own session without waiting for
// them. Commands are split on spaces; no shell is involved.
type ShellExecutor struct {
	logger zerolog.Logger
}

// NewShellExecutor returns an executor that logs through logger.
func NewShellExecutor(logger zerolog.Logger) *ShellExecutor {
	return &ShellExecutor{logger: logger}
}

// Split breaks a command into words on runs of spaces.
func Split(command string) []string {
	words := strings.FieldsFunc(command, func(r rune) bool { return r == ' ' })
	if len(words) > MaxWords {
		words = words[:MaxWords]
	}
	return words
}

// Execute starts command and returns once it is running. The process is
// reaped in the background and outlives ctx.
func (e *ShellExecutor) Execute(_ context.Context, command string) error {
	words := Split(command)
	if len(words) == 0 {
		return errors.New(errors.ErrInvalidInput, "empty command")
	}

	cmd := exec.Command(words[0], words[1:]...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}

	pid := cmd.Process.Pid
	e.logger.Debug().Int("pid", pid).Str("command", words[0]).Msg("Action started")
	go func() {
		if err := cmd.Wait(); err != nil {
			e.logger.Info().Err(err).Int("pid", pid).Str("command", words[0]).Msg("Action exited with error")
			return
		}
		e.logger.Trace().Int("pid", pid).Msg("Action exited")
	}()
	return nil
}
