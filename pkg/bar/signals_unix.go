//go:build unix

package bar

import (
	"os"
	"syscall"
)

// StopSignals end the runner.
var StopSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// ToggleSignal flips visibility.
var ToggleSignal os.Signal = syscall.SIGUSR1
