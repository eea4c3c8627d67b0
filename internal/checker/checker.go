package checker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/pycheck/internal/pyexec"
	"github.com/frederic-klein/pycheck/internal/report"
	"github.com/frederic-klein/pycheck/internal/version"
)

// versionProgram prints the interpreter's own (major, minor) as a dotted
// string. Plain %-formatting so it runs on Python 2.6 through 3.x.
const versionProgram = `import sys; sys.stdout.write('%d.%d' % sys.version_info[:2])`

// compileProgram compiles sys.argv[1] into the cfile at sys.argv[2] and
// prints the interpreter's own diagnostic on failure.
const compileProgram = `import sys, py_compile
try:
    py_compile.compile(sys.argv[1], cfile=sys.argv[2], doraise=True)
except py_compile.PyCompileError as e:
    sys.stdout.write(e.msg)
    sys.exit(1)
`

// Interpreter is a Python executable together with its probed version.
type Interpreter struct {
	Executable string
	Version    version.Tuple
}

// Probe asks exe for its version and returns the resulting Interpreter.
func Probe(runner pyexec.Runner, exe string) (Interpreter, error) {
	out, err := runner.CombinedOutput(exe, "-c", versionProgram)
	if err != nil {
		return Interpreter{}, fmt.Errorf("probing %s: %w", exe, err)
	}
	v, err := version.Parse(strings.TrimSpace(string(out)))
	if err != nil {
		return Interpreter{}, fmt.Errorf("probing %s: unexpected version output %q", exe, out)
	}
	return Interpreter{Executable: exe, Version: v}, nil
}

// Default finds the session interpreter: the override if given, otherwise
// the first of python3/python that responds on PATH.
func Default(runner pyexec.Runner, override string) (Interpreter, error) {
	candidates := []string{"python3", "python"}
	if override != "" {
		candidates = []string{override}
	}
	var lastErr error
	for _, exe := range candidates {
		interp, err := Probe(runner, exe)
		if err == nil {
			return interp, nil
		}
		lastErr = err
	}
	return Interpreter{}, fmt.Errorf("no python interpreter found: %w", lastErr)
}

// Checker compiles files with a fixed interpreter.
type Checker struct {
	interp Interpreter
	runner pyexec.Runner
	logger *log.Logger
	cfile  string
}

// New creates a checker for the given interpreter. The compile artifact is
// a single shared temp path reused across files, so a Checker must not be
// used from concurrent runs against the same temp directory.
func New(interp Interpreter, runner pyexec.Runner, logger *log.Logger) *Checker {
	return &Checker{
		interp: interp,
		runner: runner,
		logger: logger,
		cfile:  filepath.Join(os.TempDir(), "pycheck.tmp"),
	}
}

// Check compiles every file and returns one entry per absolute path.
// Syntax errors are per-file and do not stop the batch; a failure to launch
// the interpreter itself aborts with a sentinel fault.
func (c *Checker) Check(files []string) report.Report {
	results := report.Report{}
	for _, file := range files {
		c.logger.Debug("compiling", "file", file, "interpreter", c.interp.Executable)
		out, err := c.runner.CombinedOutput(c.interp.Executable, "-B", "-c", compileProgram, file, c.cfile)
		switch {
		case err == nil:
			results[file] = report.OK()
		case pyexec.IsLaunchError(err):
			return report.Fault("Failed to execute %s: %v", c.interp.Executable, err)
		default:
			results[file] = report.Invalid(string(out))
		}
	}
	return results
}
