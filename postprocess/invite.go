package postprocess

import (
	"context"
	"regexp"
	"strings"
)

const (
	meetingIDLabel = "Meeting ID:"
	passcodeLabel  = "Passcode:"

	// NotFound stands in for a meeting id or passcode the text did not carry
	NotFound = "Not Found"
)

var (
	meetingIDPattern = regexp.MustCompile(`Meeting ID:\s*([\d\s]+)`)
	passcodePattern  = regexp.MustCompile(`Passcode:\s*(\d+)`)
)

// IsInvitation reports whether text looks like a meeting invitation
func IsInvitation(text string) bool {
	return strings.Contains(text, meetingIDLabel) && strings.Contains(text, passcodeLabel)
}

// Invite holds the two fields pulled out of an invitation
type Invite struct {
	MeetingID string
	Passcode  string
}

// String renders the invite in its compact single-line form
func (i Invite) String() string {
	return "Meeting ID: " + i.MeetingID + " Password: " + i.Passcode
}

// ParseInvite pulls the meeting id and passcode out of text. Whitespace inside
// the meeting id is removed. Missing fields are set to NotFound.
func ParseInvite(text string) Invite {
	inv := Invite{MeetingID: NotFound, Passcode: NotFound}

	if m := meetingIDPattern.FindStringSubmatch(text); m != nil {
		if id := strings.Join(strings.Fields(m[1]), ""); id != "" {
			inv.MeetingID = id
		}
	}
	if m := passcodePattern.FindStringSubmatch(text); m != nil {
		inv.Passcode = m[1]
	}

	return inv
}

// ExtractInvite returns the compact form of an invitation
func ExtractInvite(text string) string {
	return ParseInvite(text).String()
}

// InviteProcessor creates a processor that compacts meeting invitations and
// leaves all other text alone
func InviteProcessor() Processor {
	return func(ctx context.Context, text string) (string, error) {
		if !IsInvitation(text) {
			return text, nil
		}
		return ExtractInvite(text), nil
	}
}
