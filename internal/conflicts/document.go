package conflicts

import (
	"strings"
	"unicode/utf8"
)

const (
	lineTerminatorConstant             = "\n"
	invalidSequenceReplacementConstant = ""
)

// DecodeText converts raw file content into text, silently dropping byte
// sequences that are not valid UTF-8.
func DecodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), invalidSequenceReplacementConstant)
}

// SplitLines splits text into lines that keep their terminators, so that
// JoinLines(SplitLines(text)) == text.
func SplitLines(text string) []string {
	if len(text) == 0 {
		return nil
	}
	lines := strings.SplitAfter(text, lineTerminatorConstant)
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines concatenates lines produced by SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "")
}
