package attendance

import (
	"fmt"
	"strings"
	"time"
)

// Session is a named attendance-taking window within a school day, distinct
// from a login session.
type Session string

const (
	Morning   Session = "morning"
	Afternoon Session = "afternoon"
)

// ParseSession validates a user-supplied session name, defaulting empty
// input to morning.
func ParseSession(s string) (Session, error) {
	switch Session(strings.ToLower(strings.TrimSpace(s))) {
	case Morning, "":
		return Morning, nil
	case Afternoon:
		return Afternoon, nil
	}
	return "", fmt.Errorf("unknown session %q", s)
}

// Title returns the capitalized form used in reports and page copy.
func (s Session) Title() string {
	if len(s) == 0 {
		return ""
	}
	return strings.ToUpper(string(s[0])) + string(s[1:])
}

// Today returns the server-local date in the YYYY-MM-DD form the backend
// keys attendance records by.
func Today() string {
	return time.Now().Format("2006-01-02")
}
