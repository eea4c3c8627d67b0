package pyexec

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
)

// Runner spawns child processes on behalf of the tool. Interpreter probes,
// compile checks, and relay invocations all go through a single injected
// Runner so tests can substitute fakes instead of real interpreters.
type Runner interface {
	// CombinedOutput runs the command and returns merged stdout+stderr.
	CombinedOutput(name string, args ...string) ([]byte, error)
	// Output runs the command and returns its stdout; stderr passes
	// through to the current process.
	Output(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// NewRunner returns the os/exec backed Runner used in production.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

func (execRunner) Output(name string, args ...string) ([]byte, error) {
	var buf bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	return buf.Bytes(), err
}

// IsLaunchError reports whether err means the process never started
// (executable missing, permission denied), as opposed to starting and
// exiting nonzero.
func IsLaunchError(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *exec.ExitError
	return !errors.As(err, &exitErr)
}
