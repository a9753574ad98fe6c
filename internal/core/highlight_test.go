package core

import (
	"reflect"
	"testing"
)

func TestHighlightSegments(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  []Segment
	}{
		{
			name:  "empty query",
			text:  "Johnson",
			query: "  ",
			want:  []Segment{{Text: "Johnson"}},
		},
		{
			name:  "no match",
			text:  "Mary",
			query: "jo",
			want:  []Segment{{Text: "Mary"}},
		},
		{
			name:  "prefix match keeps original case",
			text:  "Johnson",
			query: "JOHN",
			want:  []Segment{{Text: "John", Match: true}, {Text: "son"}},
		},
		{
			name:  "multiple matches",
			text:  "anna banana",
			query: "an",
			want: []Segment{
				{Text: "an", Match: true},
				{Text: "na b"},
				{Text: "an", Match: true},
				{Text: "an", Match: true},
				{Text: "a"},
			},
		},
		{
			name:  "regex characters are literal",
			text:  "a.b@x.com",
			query: ".",
			want: []Segment{
				{Text: "a"},
				{Text: ".", Match: true},
				{Text: "b@x"},
				{Text: ".", Match: true},
				{Text: "com"},
			},
		},
		{
			name:  "long s does not fold to s",
			text:  "ſun",
			query: "s",
			want:  []Segment{{Text: "ſun"}},
		},
		{
			name:  "lowering changes byte length",
			text:  "İzmir",
			query: "i",
			want:  []Segment{{Text: "İ", Match: true}, {Text: "zmir"}},
		},
		{
			name:  "whole string",
			text:  "bob",
			query: " Bob ",
			want:  []Segment{{Text: "bob", Match: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HighlightSegments(tt.text, tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HighlightSegments(%q, %q) = %+v, want %+v", tt.text, tt.query, got, tt.want)
			}

			// A cell is highlighted exactly when the filter keeps it.
			matched := len(got) > 1 || got[0].Match
			kept := len(filterRecords([]Record{{Name: tt.text}}, tt.query, FilterName)) == 1
			if tt.query != "  " && matched != kept {
				t.Errorf("highlight match = %v, filter kept = %v", matched, kept)
			}
		})
	}
}
