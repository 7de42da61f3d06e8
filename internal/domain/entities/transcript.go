package entities

import "strings"

// Transcript represents a client conversation captured as plain text.
// Immutable once read; Source names the file it came from, or "stdin".
type Transcript struct {
	Content string
	Source  string
}

// NewTranscript creates a Transcript from raw text
func NewTranscript(content, source string) Transcript {
	return Transcript{Content: content, Source: source}
}

// Empty reports whether the transcript carries no usable text.
func (t Transcript) Empty() bool {
	return strings.TrimSpace(t.Content) == ""
}

// Chars returns the content length shown in progress output.
func (t Transcript) Chars() int {
	return len([]rune(t.Content))
}
