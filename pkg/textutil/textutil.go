// Package textutil provides text formatting helpers for help output.
package textutil

import "strings"

// Wrap greedily breaks text into lines of at most width characters, splitting
// on whitespace. Runs of whitespace collapse to single spaces. A word longer
// than width gets its own line rather than being split. Returns nil for text
// with no words.
func Wrap(text string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case line.Len()+1+len(word) > width:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		default:
			line.WriteByte(' ')
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
