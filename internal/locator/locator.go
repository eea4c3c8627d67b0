package locator

import (
	"github.com/charmbracelet/log"

	"github.com/frederic-klein/pycheck/internal/pyexec"
	"github.com/frederic-klein/pycheck/internal/version"
)

// Locator probes the system for installed Python executables.
type Locator struct {
	runner pyexec.Runner
	logger *log.Logger
}

// New creates a locator that probes candidates through the given runner.
func New(runner pyexec.Runner, logger *log.Logger) *Locator {
	return &Locator{runner: runner, logger: logger}
}

// Find returns the first version in priority order whose executable can be
// invoked, together with that executable's name. A probe that launches at
// all counts as found, whatever version the binary actually is. Returns
// (nil, "") when no candidate launches; an error only for an invalid spec.
func (l *Locator) Find(spec any) (version.Tuple, string, error) {
	versions, err := version.Normalize(spec)
	if err != nil {
		return nil, "", err
	}
	for _, v := range versions {
		for _, name := range candidateNames(v) {
			l.logger.Debug("probing interpreter", "name", name)
			_, err := l.runner.CombinedOutput(name, "--version")
			if err != nil && pyexec.IsLaunchError(err) {
				continue
			}
			l.logger.Debug("found interpreter", "name", name, "version", v)
			return v, name, nil
		}
	}
	return nil, "", nil
}

// candidateNames builds executable names for a version: "python2.6",
// "python26", and bare "python" for a plain major-2 request.
func candidateNames(v version.Tuple) []string {
	names := []string{"python" + v.String()}
	if compact := "python" + v.Compact(); compact != names[0] {
		names = append(names, compact)
	}
	if v.Equal(version.Tuple{2}) {
		names = append(names, "python")
	}
	return names
}
