//go:build !unix

package bar

import "os"

// StopSignals end the runner.
var StopSignals = []os.Signal{os.Interrupt}

// ToggleSignal is nil: this platform has no user signal to flip visibility.
var ToggleSignal os.Signal
