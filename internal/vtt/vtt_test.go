package vtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	assert.InDelta(t, 83.456, ParseTimestamp("01:23.456"), 1e-9)
	assert.InDelta(t, 3723.456, ParseTimestamp("01:02:03.456"), 1e-9)
	assert.Equal(t, 0.0, ParseTimestamp("00:00.000"))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:01:23.456", FormatTimestamp(83.456))
	assert.Equal(t, "01:02:03.456", FormatTimestamp(3723.456))
	assert.Equal(t, "00:00:00.000", FormatTimestamp(0))
}

// FormatTimestamp and ParseTimestamp must be inverses at millisecond precision.
func TestTimestampRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.001, 1.5, 59.999, 60, 83.456, 3599.999, 3600, 3723.456, 86399.999} {
		assert.InDelta(t, v, ParseTimestamp(FormatTimestamp(v)), 1e-9, "value %v", v)
	}
	for _, ts := range []string{"00:00:00.000", "00:01:23.456", "01:02:03.456", "23:59:59.999"} {
		assert.Equal(t, ts, FormatTimestamp(ParseTimestamp(ts)))
	}
}

func TestParse(t *testing.T) {
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:05.000\nHello world\n\n00:00:05.000 --> 00:00:10.000\nThis is a test\n"

	cues := Parse(content)
	require.Len(t, cues, 2)
	assert.Equal(t, 1.0, cues[0].Start)
	assert.Equal(t, 5.0, cues[0].End)
	assert.Equal(t, "Hello world", cues[0].Text)
	assert.Equal(t, "This is a test", cues[1].Text)
}

func TestParseWithoutHours(t *testing.T) {
	cues := Parse("WEBVTT\n\n01:23.456 --> 01:25.000\nShort form\n")
	require.Len(t, cues, 1)
	assert.InDelta(t, 83.456, cues[0].Start, 1e-9)
	assert.Equal(t, 85.0, cues[0].End)
}

func TestParseMultilineText(t *testing.T) {
	cues := Parse("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nfirst line\nsecond line\n")
	require.Len(t, cues, 1)
	assert.Equal(t, "first line\nsecond line", cues[0].Text)
}

func TestParseSkipsCueIndexNumbers(t *testing.T) {
	content := "WEBVTT\n\n1\n00:00:01.000 --> 00:00:02.000\none\n\n2\n00:00:02.000 --> 00:00:03.000\ntwo\n"
	cues := Parse(content)
	require.Len(t, cues, 2)
	assert.Equal(t, "one", cues[0].Text)
	assert.Equal(t, "two", cues[1].Text)
}

func TestParseBlankLineEndsCue(t *testing.T) {
	// A blank line closes the open cue, so whatever follows it is not
	// appended to the previous cue's text
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\none\n\ntrailing note\n"
	cues := Parse(content)
	require.Len(t, cues, 1)
	assert.Equal(t, "one", cues[0].Text)
}

func TestParseMalformedTimestampIsText(t *testing.T) {
	// A broken timestamp line must not be treated as a cue boundary
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n00:xx:05 --> bogus\n"
	cues := Parse(content)
	require.Len(t, cues, 1)
	assert.Equal(t, "00:xx:05 --> bogus", cues[0].Text)
}

func TestParseIgnoresLeadingGarbage(t *testing.T) {
	// Text before any timestamp has no open cue and is discarded
	cues := Parse("WEBVTT\n\nstray note\n\n00:00:01.000 --> 00:00:02.000\nactual\n")
	require.Len(t, cues, 1)
	assert.Equal(t, "actual", cues[0].Text)
}

func TestSerialize(t *testing.T) {
	cues := []Cue{
		{Start: 1.0, End: 5.0, Text: "Hello"},
		{Start: 5.0, End: 10.0, Text: "World"},
	}
	out := Serialize(cues)
	assert.Contains(t, out, "WEBVTT")
	assert.Contains(t, out, "00:00:01.000 --> 00:00:05.000")
	assert.Contains(t, out, "Hello")
}

func TestParseSerializeRoundTrip(t *testing.T) {
	cues := []Cue{
		{Start: 0.5, End: 2.25, Text: "one"},
		{Start: 2.25, End: 4.0, Text: "line a\nline b"},
		{Start: 3723.456, End: 3725.0, Text: "late cue"},
	}
	parsed := Parse(Serialize(cues))
	require.Len(t, parsed, len(cues))
	for i := range cues {
		assert.InDelta(t, cues[i].Start, parsed[i].Start, 1e-9)
		assert.InDelta(t, cues[i].End, parsed[i].End, 1e-9)
		assert.Equal(t, cues[i].Text, parsed[i].Text)
	}
}

func TestPlainText(t *testing.T) {
	cues := []Cue{
		{Start: 0, End: 1, Text: "hello"},
		{Start: 1, End: 2, Text: "big\nworld"},
	}
	assert.Equal(t, "hello big world", PlainText(cues))
}
