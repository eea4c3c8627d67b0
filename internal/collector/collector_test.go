package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frederic-klein/pycheck/internal/report"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	return path
}

func TestCollect_DirectoryFiltersToSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py")
	nested := writeFile(t, dir, filepath.Join("pkg", "sub", "b.py"))
	writeFile(t, dir, "README.md")
	writeFile(t, dir, filepath.Join("pkg", "data.json"))

	files, results, err := Collect([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, results)

	wantA, _ := filepath.Abs(a)
	wantB, _ := filepath.Abs(nested)
	assert.Equal(t, []string{wantA, wantB}, files)
}

func TestCollect_ExplicitFileSkipsExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "script")

	files, results, err := Collect([]string{script})
	require.NoError(t, err)
	assert.Empty(t, results)

	want, _ := filepath.Abs(script)
	assert.Equal(t, []string{want}, files)
}

func TestCollect_MissingTargetKeyedByLiteralArgument(t *testing.T) {
	files, results, err := Collect([]string{"no/such/thing.py"})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, report.Report{
		"no/such/thing.py": report.Invalid("Target not found"),
	}, results)
}

func TestCollect_DeduplicatesAndSorts(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.py")
	a := writeFile(t, dir, "a.py")

	// Name b.py both explicitly and via its directory.
	files, results, err := Collect([]string{b, dir, b})
	require.NoError(t, err)
	assert.Empty(t, results)

	wantA, _ := filepath.Abs(a)
	wantB, _ := filepath.Abs(b)
	assert.Equal(t, []string{wantA, wantB}, files)
}

func TestCollect_MixedTargets(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py")

	files, results, err := Collect([]string{dir, "missing.py"})
	require.NoError(t, err)

	wantA, _ := filepath.Abs(a)
	assert.Equal(t, []string{wantA}, files)
	assert.Equal(t, report.Report{
		"missing.py": report.Invalid("Target not found"),
	}, results)
}
