package treemap

import (
	"strings"

	"github.com/pkg/errors"
)

// PrefixMode selects how one directory is judged to contain another when
// reducing a directory set.
type PrefixMode int

const (
	// SegmentPrefix treats a as an ancestor of b only on a path segment
	// boundary, so "foo" does not cover "foobar".
	SegmentPrefix PrefixMode = iota

	// StringPrefix compares raw strings, so "foo" is covered by "foobar".
	// Kept for compatibility with plans produced by older clients.
	StringPrefix
)

func (m PrefixMode) String() string {
	switch m {
	case SegmentPrefix:
		return "segment"
	case StringPrefix:
		return "string"
	default:
		return "unknown"
	}
}

// ParsePrefixMode accepts the names returned by PrefixMode.String.
func ParsePrefixMode(s string) (PrefixMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "segment":
		return SegmentPrefix, nil
	case "string":
		return StringPrefix, nil
	default:
		return SegmentPrefix, errors.Errorf("unknown prefix mode %q (want \"segment\" or \"string\")", s)
	}
}

func (m PrefixMode) covers(a, b string) bool {
	if m == StringPrefix {
		return strings.HasPrefix(b, a)
	}
	return a == "" || strings.HasPrefix(b, a+"/")
}

// MinimalDirectories returns the directories in dirs that no other entry
// descends from. The store creates missing ancestors, so these are the only
// directories that need an explicit create call. dirs should be sorted; the
// output keeps input order.
func MinimalDirectories(dirs []string, mode PrefixMode) []string {
	var min []string
	for i, a := range dirs {
		skip := false
		for j, b := range dirs {
			if i == j || a == b {
				continue
			}
			if mode.covers(a, b) {
				skip = true
				break
			}
		}
		if !skip {
			min = append(min, a)
		}
	}
	return min
}
