package dispatch

import (
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/pycheck/internal/checker"
	"github.com/frederic-klein/pycheck/internal/collector"
	"github.com/frederic-klein/pycheck/internal/locator"
	"github.com/frederic-klein/pycheck/internal/pyexec"
	"github.com/frederic-klein/pycheck/internal/report"
	"github.com/frederic-klein/pycheck/internal/version"
)

// Options describes one validation request.
type Options struct {
	// Targets are the files and directories to check.
	Targets []string
	// VersionSpec is the requested Python version in any shape accepted
	// by version.Normalize, or nil for the session interpreter.
	VersionSpec any
	// ForcedPython is the guard state set on relayed invocations: the
	// executable this process was already forced onto. A further relay
	// is forbidden when it is set.
	ForcedPython string
	// PythonOverride names the session interpreter to use instead of
	// searching PATH for python3/python.
	PythonOverride string
}

// Dispatcher decides whether a request can be satisfied directly or must
// be relayed to an alternate interpreter, and runs it.
type Dispatcher struct {
	runner  pyexec.Runner
	logger  *log.Logger
	locator *locator.Locator
	selfExe func() (string, error)
}

// New creates a dispatcher. All subprocess activity goes through runner.
func New(runner pyexec.Runner, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		runner:  runner,
		logger:  logger,
		locator: locator.New(runner, logger),
		selfExe: os.Executable,
	}
}

// Run executes the request and always produces a report: any error or
// panic anywhere in the flow becomes the sole sentinel entry.
func (d *Dispatcher) Run(opts Options) (rep report.Report) {
	defer func() {
		if r := recover(); r != nil {
			rep = report.Fault("%v\n%s", r, debug.Stack())
		}
	}()

	rep, err := d.dispatch(opts)
	if err != nil {
		return report.Fault("%v", err)
	}
	return rep
}

func (d *Dispatcher) dispatch(opts Options) (report.Report, error) {
	// No version requested: check with the session interpreter.
	if opts.VersionSpec == nil {
		interp, err := d.sessionInterpreter(opts)
		if err != nil {
			return nil, err
		}
		return d.direct(interp, opts.Targets)
	}

	found, exeName, err := d.locator.Find(opts.VersionSpec)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return report.Fault("No Python executable found for %v", opts.VersionSpec), nil
	}

	interp, err := d.sessionInterpreter(opts)
	if err != nil {
		return nil, err
	}

	if found.MatchesPrefix(interp.Version) {
		return d.direct(interp, opts.Targets)
	}

	// The session interpreter can't satisfy the request. If we were
	// already forced onto an interpreter, relaying again would recurse
	// forever; report the drift instead.
	if opts.ForcedPython != "" {
		return report.Fault("We are in %s instead of %s", interp.Version, found), nil
	}

	return d.relay(found, exeName, opts.Targets)
}

// sessionInterpreter resolves the interpreter this invocation compiles
// with: the forced executable on relayed runs, otherwise the default.
func (d *Dispatcher) sessionInterpreter(opts Options) (checker.Interpreter, error) {
	if opts.ForcedPython != "" {
		return checker.Probe(d.runner, opts.ForcedPython)
	}
	return checker.Default(d.runner, opts.PythonOverride)
}

// direct collects the targets and compiles them in this process's session
// interpreter. Per-file failures accumulate; a checker fault replaces them.
func (d *Dispatcher) direct(interp checker.Interpreter, targets []string) (report.Report, error) {
	d.logger.Debug("direct check", "interpreter", interp.Executable, "version", interp.Version)

	files, results, err := collector.Collect(targets)
	if err != nil {
		return nil, err
	}

	checked := checker.New(interp, d.runner, d.logger).Check(files)
	if _, faulted := checked[report.SentinelKey]; faulted {
		return checked, nil
	}
	results.Merge(checked)
	return results, nil
}

// relay re-invokes this tool under its own binary, forced onto the located
// executable, and parses the child's stdout payload as the result.
func (d *Dispatcher) relay(found version.Tuple, exeName string, targets []string) (report.Report, error) {
	self, err := d.selfExe()
	if err != nil {
		return nil, err
	}

	args := append([]string{}, targets...)
	args = append(args, "--version", found.String(), "--use-this-python", exeName)
	d.logger.Debug("relaying", "executable", exeName, "version", found)

	out, err := d.runner.Output(self, args...)
	if err != nil && pyexec.IsLaunchError(err) {
		return report.Fault("Failed to execute %s: %v", self, err), nil
	}

	rep, err := report.Parse(out)
	if err != nil {
		return report.Fault("Failed to load JSON: %q", string(out)), nil
	}
	return rep, nil
}
