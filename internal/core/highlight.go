package core

import (
	"strings"
	"unicode"
)

// Segment is a piece of text that either matched the filter or did not.
type Segment struct {
	Text  string
	Match bool
}

// HighlightSegments splits text around every occurrence of the trimmed
// query. Matching lower-cases both sides the same way the list filter does,
// so a highlighted cell is always a filter hit. The query is matched literally.
func HighlightSegments(text, query string) []Segment {
	q := strings.ToLower(trimSpace(query))
	if q == "" || text == "" {
		return []Segment{{Text: text}}
	}

	// origin[i] is the offset in text of the rune that produced byte i of
	// lowered; the final entry is len(text).
	var lowered strings.Builder
	origin := make([]int, 0, len(text)+1)
	for i, r := range text {
		n, _ := lowered.WriteRune(unicode.ToLower(r))
		for range n {
			origin = append(origin, i)
		}
	}
	origin = append(origin, len(text))
	low := lowered.String()

	var segments []Segment
	prev, off := 0, 0
	for {
		i := strings.Index(low[off:], q)
		if i < 0 {
			break
		}
		start, end := origin[off+i], origin[off+i+len(q)]
		if start > prev {
			segments = append(segments, Segment{Text: text[prev:start]})
		}
		segments = append(segments, Segment{Text: text[start:end], Match: true})
		prev = end
		off += i + len(q)
	}
	if segments == nil {
		return []Segment{{Text: text}}
	}
	if prev < len(text) {
		segments = append(segments, Segment{Text: text[prev:]})
	}
	return segments
}
