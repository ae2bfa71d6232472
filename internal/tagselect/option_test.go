package tagselect

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var (
	alpha = Option{Value: "a", Label: "Alpha"}
	beta  = Option{Value: "b", Label: "Beta"}
	gamma = Option{Value: "g", Label: "Gamma"}
)

func TestSelectAppendsInOrder(t *testing.T) {
	sel := []Option{alpha}
	got := Select(sel, beta)
	if diff := cmp.Diff([]Option{alpha, beta}, got); diff != "" {
		t.Fatalf("Select mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, sel, 1, "input slice must not change")
}

func TestSelectIsIdempotent(t *testing.T) {
	once := Select([]Option{alpha}, beta)
	twice := Select(once, beta)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("re-select changed selection (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	sel := []Option{alpha, beta, gamma}

	once := Remove(sel, "b")
	require.Equal(t, []Option{alpha, gamma}, once)
	require.Equal(t, once, Remove(once, "b"), "removal must be idempotent")
	require.Equal(t, sel, Remove(sel, "missing"))
}

func TestRemoveLast(t *testing.T) {
	require.Equal(t, []Option{alpha}, RemoveLast([]Option{alpha, beta}))
	require.Empty(t, RemoveLast(nil))
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(nil, []Option{}))
	require.True(t, Equal([]Option{alpha, beta}, []Option{alpha, beta}))
	require.False(t, Equal([]Option{alpha, beta}, []Option{beta, alpha}), "order matters")
	require.False(t, Equal([]Option{alpha}, []Option{{Value: "a", Label: "ALPHA"}}), "labels compared too")
}

func TestSlugAndNewOption(t *testing.T) {
	tests := []struct {
		in   string
		want Option
	}{
		{"New Tag", Option{Value: "new_tag", Label: "New Tag"}},
		{"  Spaced   Out  ", Option{Value: "spaced_out", Label: "Spaced   Out"}},
		{"tab\tand\nnewline", Option{Value: "tab_and_newline", Label: "tab\tand\nnewline"}},
		{"single", Option{Value: "single", Label: "single"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, NewOption(tt.in))
		})
	}
}

func TestFilterExcludesSelectedAndMatchesSubstring(t *testing.T) {
	options := []Option{alpha, beta}
	got := Filter(options, []Option{alpha}, "a")
	require.Equal(t, []Option{beta}, got)

	got = Filter(options, nil, "ALP")
	require.Equal(t, []Option{alpha}, got)

	got = Filter(options, nil, "")
	require.Equal(t, options, got)

	require.Empty(t, Filter(nil, nil, "x"))
}

func TestFilterFirstOccurrenceWins(t *testing.T) {
	dup := Option{Value: "a", Label: "Another Alpha"}
	got := Filter([]Option{alpha, beta, dup}, nil, "")
	require.Equal(t, []Option{alpha, beta}, got)
}

func TestFilterNeverReturnsSelected(t *testing.T) {
	options := []Option{alpha, beta, gamma}
	queries := []string{"", "a", "m", "Beta", "zzz"}
	for _, sel := range [][]Option{nil, {alpha}, {beta, gamma}, options} {
		for _, q := range queries {
			for _, o := range Filter(options, sel, q) {
				require.False(t, Contains(sel, o.Value), "selected %q reappeared for query %q", o.Value, q)
			}
		}
	}
}

func TestCanCreate(t *testing.T) {
	options := []Option{alpha, beta}
	tests := []struct {
		name     string
		sel      []Option
		text     string
		allowNew bool
		want     bool
	}{
		{"fresh text", nil, "Delta", true, true},
		{"disallowed", nil, "Delta", false, false},
		{"blank", nil, "   ", true, false},
		{"matches option case-insensitively", nil, "alpha", true, false},
		{"matches selection", []Option{{Value: "delta", Label: "Delta"}}, "DELTA", true, false},
		{"substring is not a match", nil, "Alp", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanCreate(options, tt.sel, tt.text, tt.allowNew))
		})
	}
}

func TestSimilar(t *testing.T) {
	options := []Option{{Value: "germany", Label: "Germany"}, {Value: "france", Label: "France"}}

	near, ok := Similar(options, "Germnay")
	require.True(t, ok)
	require.Equal(t, "germany", near.Value)

	_, ok = Similar(options, "germany")
	require.False(t, ok, "exact matches are not hints")

	_, ok = Similar(options, "Portugal")
	require.False(t, ok)
}
