package collector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/frederic-klein/pycheck/internal/report"
)

// SourcePattern matches the files picked up when a directory is expanded.
// Explicitly named files bypass it.
const SourcePattern = "**/*.py"

// Collect expands files and directories into a deduplicated, sorted list of
// absolute file paths. Directories are walked recursively and filtered to
// Python sources; named files are taken as-is. Targets that exist as
// neither file nor directory are recorded in the returned report under
// their literal argument. A walk failure aborts collection.
func Collect(targets []string) ([]string, report.Report, error) {
	results := report.Report{}
	seen := make(map[string]bool)
	var files []string

	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, abs)
		}
		return nil
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		switch {
		case err == nil && info.IsDir():
			found, err := findSources(target)
			if err != nil {
				return nil, nil, err
			}
			for _, f := range found {
				if err := add(f); err != nil {
					return nil, nil, err
				}
			}
		case err == nil:
			if err := add(target); err != nil {
				return nil, nil, err
			}
		default:
			results[target] = report.Invalid("Target not found")
		}
	}

	sort.Strings(files)
	return files, results, nil
}

// findSources walks dir recursively and returns the files matching
// SourcePattern.
func findSources(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(SourcePattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return found, nil
}
