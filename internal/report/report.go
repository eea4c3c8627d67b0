package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SentinelKey is the reserved result-map key for whole-run faults. It is
// never mixed with per-file entries.
const SentinelKey = "<exception>"

// FileResult is the outcome of checking a single file. On the wire it is
// the two-element array [is_valid, message].
type FileResult struct {
	Valid   bool
	Message string
}

// OK is the result recorded for a file that compiled cleanly.
func OK() FileResult {
	return FileResult{Valid: true, Message: "OK"}
}

// Invalid builds a failed result carrying a diagnostic message.
func Invalid(message string) FileResult {
	return FileResult{Valid: false, Message: message}
}

func (r FileResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Valid, r.Message})
}

func (r *FileResult) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("result pair has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Valid); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &r.Message)
}

func (r FileResult) MarshalYAML() (any, error) {
	return []any{r.Valid, r.Message}, nil
}

// Report maps file paths (or SentinelKey) to their results.
type Report map[string]FileResult

// Fault builds a report consisting solely of the sentinel entry. A fault
// aborts the whole run, so it replaces any per-file results.
func Fault(format string, args ...any) Report {
	return Report{SentinelKey: Invalid(fmt.Sprintf(format, args...))}
}

// Merge copies all entries of other into r.
func (r Report) Merge(other Report) {
	for k, v := range other {
		r[k] = v
	}
}

// OK reports whether every entry is valid.
func (r Report) OK() bool {
	for _, res := range r {
		if !res.Valid {
			return false
		}
	}
	return true
}

// ExitCode is 0 when all entries are valid, 1 otherwise.
func (r Report) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// WriteJSON writes the report as a single JSON object followed by a
// newline. Map keys are emitted sorted, so output is deterministic.
func (r Report) WriteJSON(w io.Writer, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(r, "", "    ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes a human-readable YAML view of the report. The relay
// protocol never uses this form.
func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Parse decodes the JSON payload produced by WriteJSON. Used by the
// dispatcher to read a relayed child's stdout.
func Parse(data []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}
