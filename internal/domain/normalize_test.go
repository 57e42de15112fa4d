package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSynonyms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stored string
		want   []string
	}{
		{name: "plain", stored: "run,jog,sprint", want: []string{"run", "jog", "sprint"}},
		{name: "legacy spaced separator", stored: "run, jog, sprint", want: []string{"run", "jog", "sprint"}},
		{name: "empty elements dropped", stored: "run,,jog,", want: []string{"run", "jog"}},
		{name: "empty string", stored: "", want: []string{}},
		{name: "only spaces", stored: "   ", want: []string{}},
		{name: "multi word term kept", stored: "go on foot,walk", want: []string{"go on foot", "walk"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitSynonyms(tt.stored))
		})
	}
}

func TestJoinSynonyms_RoundTrip(t *testing.T) {
	t.Parallel()

	in := []string{"stroll", "amble", "walk slowly"}
	assert.Equal(t, "stroll,amble,walk slowly", JoinSynonyms(in))
	assert.Equal(t, in, SplitSynonyms(JoinSynonyms(in)))
}

func TestDedupeSynonyms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lists [][]string
		want  []string
	}{
		{name: "no input", lists: nil, want: []string{}},
		{name: "single list with dupes", lists: [][]string{{"a", "b", "a"}}, want: []string{"a", "b"}},
		{name: "union keeps first-seen order", lists: [][]string{{"b", "a"}, {"c", "a", "d"}}, want: []string{"b", "a", "c", "d"}},
		{name: "case sensitive", lists: [][]string{{"Run", "run"}}, want: []string{"Run", "run"}},
		{name: "empty values dropped", lists: [][]string{{"", "x"}, {""}}, want: []string{"x"}},
		{name: "surrounding spaces trimmed", lists: [][]string{{" quick", "quick "}, {"quick"}}, want: []string{"quick"}},
		{name: "separator splits a value", lists: [][]string{{"well, quick"}, {"quick", "well"}}, want: []string{"well", "quick"}},
		{name: "blank value dropped", lists: [][]string{{"   ", ","}}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DedupeSynonyms(tt.lists...))
		})
	}
}

func TestDedupeSynonyms_SurvivesStorageRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		{" quick", "fast "},
		{"well, quick", "speedy"},
		{"a,,b", " ", "c"},
	}
	for _, in := range inputs {
		got := DedupeSynonyms(in)
		assert.Equal(t, got, SplitSynonyms(JoinSynonyms(got)), "input %q", in)
		assert.Equal(t, got, DedupeSynonyms(got, in), "input %q", in)
	}
}
