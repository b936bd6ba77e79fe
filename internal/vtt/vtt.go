package vtt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cue is a single timed subtitle entry
type Cue struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Hours segment is optional on either side (Whisper emits MM:SS.mmm for short audio)
var timestampRe = regexp.MustCompile(`((?:\d{2}:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d{2}:)?\d{2}:\d{2}\.\d{3})`)

// Parse parses WebVTT content into subtitle cues. It is lenient: the header
// and cue index numbers are skipped, blank lines end the open cue,
// unrecognized lines become text of the open cue, and malformed timestamp
// lines never abort the parse.
func Parse(content string) []Cue {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var cues []Cue
	var current *Cue

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// WEBVTT header and blank lines end the open cue
		if line == "" || line == "WEBVTT" {
			if current != nil && current.Text != "" {
				cues = append(cues, *current)
				current = nil
			}
			continue
		}

		if matches := timestampRe.FindStringSubmatch(line); len(matches) == 3 {
			if current != nil && current.Text != "" {
				cues = append(cues, *current)
			}
			current = &Cue{
				Start: ParseTimestamp(matches[1]),
				End:   ParseTimestamp(matches[2]),
			}
			continue
		}

		// Skip cue index numbers (pure digits) between cues
		if _, err := strconv.Atoi(line); err == nil && current == nil {
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		}
	}

	if current != nil && current.Text != "" {
		cues = append(cues, *current)
	}

	return cues
}

// Serialize converts cues back to WebVTT format
func Serialize(cues []Cue) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for _, cue := range cues {
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(cue.Start), FormatTimestamp(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// ParseTimestamp converts "HH:MM:SS.mmm" or "MM:SS.mmm" to seconds
func ParseTimestamp(ts string) float64 {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	var seconds float64
	switch len(parts) {
	case 3:
		h, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		s, _ := strconv.ParseFloat(parts[2], 64)
		seconds = float64(h*3600+m*60) + s
	case 2:
		m, _ := strconv.Atoi(parts[0])
		s, _ := strconv.ParseFloat(parts[1], 64)
		seconds = float64(m*60) + s
	}
	return seconds
}

// FormatTimestamp converts seconds to zero-padded "HH:MM:SS.mmm".
// Inverse of ParseTimestamp at millisecond precision.
func FormatTimestamp(seconds float64) string {
	totalMs := int(seconds*1000 + 0.5)
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// PlainText joins cue text lines into a single transcript string
func PlainText(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.ReplaceAll(cue.Text, "\n", " "))
	}
	return sb.String()
}
