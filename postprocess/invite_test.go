package postprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zoomInvite = `Jane Doe is inviting you to a scheduled Zoom meeting.

Topic: Weekly sync
Time: Oct 18, 2026 10:00 AM

Join Zoom Meeting
https://example.zoom.us/j/1234567890?pwd=abc

Meeting ID: 123 456 7890
Passcode: 998877
`

func TestIsInvitation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "full invite", text: zoomInvite, expected: true},
		{name: "only meeting id", text: "Meeting ID: 123", expected: false},
		{name: "only passcode", text: "Passcode: 123", expected: false},
		{name: "labels without digits", text: "Meeting ID: Passcode:", expected: true},
		{name: "plain text", text: "hello world", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInvitation(tt.text))
		})
	}
}

func TestParseInvite(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Invite
	}{
		{
			name:     "zoom invite",
			text:     zoomInvite,
			expected: Invite{MeetingID: "1234567890", Passcode: "998877"},
		},
		{
			name:     "inline",
			text:     "...Meeting ID: 123 456 7890 ... Passcode: 998877...",
			expected: Invite{MeetingID: "1234567890", Passcode: "998877"},
		},
		{
			name:     "passcode without number",
			text:     "Meeting ID: 111 222 Passcode: none given",
			expected: Invite{MeetingID: "111222", Passcode: NotFound},
		},
		{
			name:     "meeting id without number",
			text:     "Meeting ID: tba\nPasscode: 42",
			expected: Invite{MeetingID: NotFound, Passcode: "42"},
		},
		{
			name:     "neither label",
			text:     "nothing here",
			expected: Invite{MeetingID: NotFound, Passcode: NotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseInvite(tt.text))
		})
	}
}

func TestExtractInvite(t *testing.T) {
	assert.Equal(t, "Meeting ID: 1234567890 Password: 998877", ExtractInvite(zoomInvite))
}

func TestDefaultPipeline(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "plain text untouched", text: "hello", expected: "hello"},
		{name: "multi-line cut to first line", text: "first\nsecond", expected: "first"},
		{name: "crlf cut", text: "first\r\nsecond", expected: "first"},
		{name: "invite compacted", text: zoomInvite, expected: "Meeting ID: 1234567890 Password: 998877"},
	}

	p := DefaultPipeline()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Process(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNilPipelinePassesThrough(t *testing.T) {
	var p *Pipeline
	got, err := p.Process(context.Background(), "a\nb")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}
