// Package diff compares chapter revisions, mainly the current committed
// text against an older snapshot from the timeline.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff between two chapter texts. Labels end up
// in the --- / +++ header lines.
func Unified(oldLabel, newLabel, oldText, newText string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: oldLabel,
		ToFile:   newLabel,
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to compute diff: %w", err)
	}
	return result, nil
}

// Stats summarizes a revision comparison
type Stats struct {
	Added   int
	Removed int
}

// Compare counts added and removed lines between two chapter texts
func Compare(oldText, newText string) Stats {
	matcher := difflib.NewMatcher(difflib.SplitLines(oldText), difflib.SplitLines(newText))

	var stats Stats
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'r':
			stats.Removed += op.I2 - op.I1
			stats.Added += op.J2 - op.J1
		case 'd':
			stats.Removed += op.I2 - op.I1
		case 'i':
			stats.Added += op.J2 - op.J1
		}
	}
	return stats
}

// Summary renders stats the way they appear in the CLI, e.g. "+3 -1"
func (s Stats) Summary() string {
	return strings.Join([]string{
		fmt.Sprintf("+%d", s.Added),
		fmt.Sprintf("-%d", s.Removed),
	}, " ")
}
