package tagselect

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Option is one selectable tag. Options are equal when their values are.
type Option struct {
	Value string
	Label string
}

// maxHintDistance bounds the edit distance for the "similar" typo hint.
const maxHintDistance = 2

// Contains reports whether sel holds an option with the given value.
func Contains(sel []Option, value string) bool {
	for _, o := range sel {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Select appends o to sel unless an option with the same value is already
// present. The input slice is never modified.
func Select(sel []Option, o Option) []Option {
	if Contains(sel, o.Value) {
		return clone(sel)
	}
	out := make([]Option, 0, len(sel)+1)
	out = append(out, sel...)
	return append(out, o)
}

// Remove drops the option with the given value from sel.
func Remove(sel []Option, value string) []Option {
	out := make([]Option, 0, len(sel))
	for _, o := range sel {
		if o.Value != value {
			out = append(out, o)
		}
	}
	return out
}

// RemoveLast drops the most recently added option.
func RemoveLast(sel []Option) []Option {
	if len(sel) == 0 {
		return clone(sel)
	}
	return clone(sel[:len(sel)-1])
}

// Equal compares two selections element by element on value and label.
// A nil selection equals an empty one.
func Equal(a, b []Option) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Value != b[i].Value || a[i].Label != b[i].Label {
			return false
		}
	}
	return true
}

// Slug derives an option value from free text: lower-cased, with every run
// of whitespace collapsed into one underscore.
func Slug(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "_")
}

// NewOption builds an ad-hoc option from free text.
func NewOption(text string) Option {
	label := strings.TrimSpace(text)
	return Option{Value: Slug(label), Label: label}
}

// Filter returns, in options order, every option not yet selected whose label
// contains query case-insensitively. Repeated values keep their first
// occurrence.
func Filter(options, sel []Option, query string) []Option {
	q := strings.ToLower(query)
	seen := make(map[string]bool, len(options))
	out := make([]Option, 0, len(options))
	for _, o := range options {
		if seen[o.Value] {
			continue
		}
		seen[o.Value] = true
		if Contains(sel, o.Value) {
			continue
		}
		if strings.Contains(strings.ToLower(o.Label), q) {
			out = append(out, o)
		}
	}
	return out
}

// CanCreate reports whether text may become a new ad-hoc option.
func CanCreate(options, sel []Option, text string, allowNew bool) bool {
	if !allowNew {
		return false
	}
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if _, ok := matchLabel(options, t); ok {
		return false
	}
	if _, ok := matchLabel(sel, t); ok {
		return false
	}
	return true
}

// Similar finds the option whose label is closest to text by edit distance,
// provided it is within maxHintDistance and not an exact match.
func Similar(options []Option, text string) (Option, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return Option{}, false
	}
	best := -1
	var found Option
	for _, o := range options {
		d := levenshtein.ComputeDistance(t, strings.ToLower(o.Label))
		if d == 0 || d > maxHintDistance {
			continue
		}
		if best < 0 || d < best {
			best = d
			found = o
		}
	}
	return found, best >= 0
}

func matchLabel(options []Option, text string) (Option, bool) {
	for _, o := range options {
		if strings.EqualFold(o.Label, text) {
			return o, true
		}
	}
	return Option{}, false
}

func clone(sel []Option) []Option {
	if sel == nil {
		return nil
	}
	return append([]Option(nil), sel...)
}
