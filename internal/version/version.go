package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSpec is returned when a version spec has an unsupported shape
// or names a version outside the supported Python 2/3 range.
var ErrInvalidSpec = errors.New("invalid python version spec")

// Tuple is a canonical interpreter version: (major) or (major, minor),
// with the major component restricted to 2 or 3.
type Tuple []int

// String returns the dotted form, e.g. "2.6".
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, c := range t {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}

// Compact returns the undotted form, e.g. "26".
func (t Tuple) Compact() string {
	var b strings.Builder
	for _, c := range t {
		b.WriteString(strconv.Itoa(c))
	}
	return b.String()
}

// Equal reports whether two tuples are identical component-wise.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// MatchesPrefix reports whether actual starts with t. A one-component
// request like (3) matches any 3.x interpreter.
func (t Tuple) MatchesPrefix(actual Tuple) bool {
	if len(actual) < len(t) {
		return false
	}
	return t.Equal(actual[:len(t)])
}

// Kind classifies the shape of a version spec before conversion.
type Kind int

const (
	KindInvalid Kind = iota
	// KindCommaString is a string holding several comma-separated versions.
	KindCommaString
	// KindDottedString is a single version string like "2.6".
	KindDottedString
	// KindIntSequence is a bare sequence of ints naming one version.
	KindIntSequence
	// KindSpecSequence is a sequence of independent version specs.
	KindSpecSequence
)

// Classify determines how a spec value will be interpreted by Normalize.
// A homogeneous int sequence is one version, not a list of versions.
func Classify(spec any) Kind {
	switch v := spec.(type) {
	case string:
		if strings.Contains(v, ",") {
			return KindCommaString
		}
		return KindDottedString
	case Tuple:
		return KindIntSequence
	case []int:
		return KindIntSequence
	case []string, []Tuple, [][]int:
		return KindSpecSequence
	case []any:
		if len(v) > 0 && allInts(v) {
			return KindIntSequence
		}
		return KindSpecSequence
	}
	return KindInvalid
}

func allInts(items []any) bool {
	for _, it := range items {
		if _, ok := it.(int); !ok {
			return false
		}
	}
	return true
}

// Normalize converts a version spec in any accepted shape into an ordered
// list of tuples, preserving the caller's priority order. It is pure: no
// filesystem or process access.
func Normalize(spec any) ([]Tuple, error) {
	switch Classify(spec) {
	case KindCommaString:
		var tuples []Tuple
		for _, piece := range strings.Split(spec.(string), ",") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			t, err := parseDotted(piece)
			if err != nil {
				return nil, err
			}
			tuples = append(tuples, t)
		}
		return tuples, nil
	case KindDottedString:
		t, err := parseDotted(spec.(string))
		if err != nil {
			return nil, err
		}
		return []Tuple{t}, nil
	case KindIntSequence:
		t, err := validate(asTuple(spec))
		if err != nil {
			return nil, err
		}
		return []Tuple{t}, nil
	case KindSpecSequence:
		return normalizeSequence(spec)
	}
	return nil, fmt.Errorf("%w: unsupported shape %T", ErrInvalidSpec, spec)
}

func normalizeSequence(spec any) ([]Tuple, error) {
	var items []any
	switch v := spec.(type) {
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []Tuple:
		for _, t := range v {
			items = append(items, t)
		}
	case [][]int:
		for _, t := range v {
			items = append(items, t)
		}
	case []any:
		items = v
	}

	tuples := make([]Tuple, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			t, err := parseDotted(strings.TrimSpace(it))
			if err != nil {
				return nil, err
			}
			tuples = append(tuples, t)
		case Tuple, []int:
			t, err := validate(asTuple(it))
			if err != nil {
				return nil, err
			}
			tuples = append(tuples, t)
		case []any:
			if !allInts(it) {
				return nil, fmt.Errorf("%w: unsupported element %T", ErrInvalidSpec, item)
			}
			t, err := validate(asTuple(it))
			if err != nil {
				return nil, err
			}
			tuples = append(tuples, t)
		default:
			return nil, fmt.Errorf("%w: unsupported element %T", ErrInvalidSpec, item)
		}
	}
	return tuples, nil
}

func asTuple(v any) Tuple {
	switch t := v.(type) {
	case Tuple:
		return t
	case []int:
		return Tuple(t)
	case []any:
		out := make(Tuple, len(t))
		for i, it := range t {
			out[i] = it.(int)
		}
		return out
	}
	return nil
}

// Parse parses a single dotted version string like "2.6" into a tuple.
func Parse(s string) (Tuple, error) {
	return parseDotted(s)
}

// parseDotted parses "2.6" into (2, 6).
func parseDotted(s string) (Tuple, error) {
	parts := strings.Split(s, ".")
	t := make(Tuple, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a version string", ErrInvalidSpec, s)
		}
		t[i] = n
	}
	return validate(t)
}

func validate(t Tuple) (Tuple, error) {
	if len(t) < 1 || len(t) > 2 {
		return nil, fmt.Errorf("%w: %v must have 1 or 2 components", ErrInvalidSpec, []int(t))
	}
	if t[0] != 2 && t[0] != 3 {
		return nil, fmt.Errorf("%w: major version %d is not 2 or 3", ErrInvalidSpec, t[0])
	}
	return t, nil
}
