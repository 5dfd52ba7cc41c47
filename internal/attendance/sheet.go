package attendance

import (
	"errors"
	"strconv"

	"rollbook/internal/schoolapi"
)

var (
	// ErrLocked rejects mutations while a submitted sheet is not in edit mode.
	ErrLocked = errors.New("attendance already submitted; enter edit mode to change it")
	// ErrUnknownStudent rejects marks for students outside the loaded roster.
	ErrUnknownStudent = errors.New("student not on this roster")
	// ErrNotSubmitted rejects edit-mode transitions before a first submission.
	ErrNotSubmitted = errors.New("attendance not submitted yet")
	// ErrNotEditing rejects cancel outside edit mode.
	ErrNotEditing = errors.New("not in edit mode")
)

// State is the sheet's position in the submission lifecycle.
type State int

const (
	// Unsubmitted means no backend record exists yet; toggles are free.
	Unsubmitted State = iota
	// Submitted means a record exists; the sheet is locked read-only.
	Submitted
	// Editing means the teacher explicitly reopened a submitted sheet.
	Editing
)

func (s State) String() string {
	switch s {
	case Unsubmitted:
		return "unsubmitted"
	case Submitted:
		return "submitted"
	case Editing:
		return "editing"
	}
	return "unknown"
}

// Entry is one student's presence flag on the sheet.
type Entry struct {
	Student schoolapi.Student
	Present bool
}

// Sheet is the in-memory attendance sheet for one (class, date, session)
// key. The lock is enforced here, not in the UI: a submitted sheet refuses
// toggles until edit mode is entered.
type Sheet struct {
	ClassID   int
	ClassName string
	Date      string
	Session   Session

	entries []Entry
	state   State
	saved   []bool
}

// NewSheet builds a sheet from the roster and any existing backend record.
// Every student defaults to present; recorded values win. A non-empty record
// means the sheet starts submitted and locked.
func NewSheet(classID int, className, date string, session Session, roster []schoolapi.Student, record map[string]bool) *Sheet {
	sh := &Sheet{
		ClassID:   classID,
		ClassName: className,
		Date:      date,
		Session:   session,
		entries:   make([]Entry, 0, len(roster)),
	}
	for _, st := range roster {
		present := true
		if v, ok := record[strconv.Itoa(st.ID)]; ok {
			present = v
		}
		sh.entries = append(sh.entries, Entry{Student: st, Present: present})
	}
	if len(record) > 0 {
		sh.state = Submitted
		sh.saved = sh.snapshot()
	}
	return sh
}

// State reports the sheet's lifecycle state.
func (sh *Sheet) State() State { return sh.state }

// Editable reports whether presence flags may change right now.
func (sh *Sheet) Editable() bool {
	return sh.state == Unsubmitted || sh.state == Editing
}

// Entries returns the sheet rows in roster order.
func (sh *Sheet) Entries() []Entry { return sh.entries }

// Total returns the roster size.
func (sh *Sheet) Total() int { return len(sh.entries) }

// PresentCount counts students currently marked present.
func (sh *Sheet) PresentCount() int {
	n := 0
	for _, e := range sh.entries {
		if e.Present {
			n++
		}
	}
	return n
}

// AbsentCount counts students currently marked absent.
func (sh *Sheet) AbsentCount() int { return sh.Total() - sh.PresentCount() }

// Toggle flips one student's presence flag. Locked sheets reject the change.
func (sh *Sheet) Toggle(studentID int) error {
	if !sh.Editable() {
		return ErrLocked
	}
	for i := range sh.entries {
		if sh.entries[i].Student.ID == studentID {
			sh.entries[i].Present = !sh.entries[i].Present
			return nil
		}
	}
	return ErrUnknownStudent
}

// SetPresent sets one student's presence flag. Locked sheets reject the change.
func (sh *Sheet) SetPresent(studentID int, present bool) error {
	if !sh.Editable() {
		return ErrLocked
	}
	for i := range sh.entries {
		if sh.entries[i].Student.ID == studentID {
			sh.entries[i].Present = present
			return nil
		}
	}
	return ErrUnknownStudent
}

// BeginEdit reopens a submitted sheet for changes.
func (sh *Sheet) BeginEdit() error {
	if sh.state != Submitted {
		return ErrNotSubmitted
	}
	sh.state = Editing
	return nil
}

// CancelEdit discards unsaved changes, restoring the last-submitted flags.
func (sh *Sheet) CancelEdit() error {
	if sh.state != Editing {
		return ErrNotEditing
	}
	for i, present := range sh.saved {
		sh.entries[i].Present = present
	}
	sh.state = Submitted
	return nil
}

// Payload builds the full-roster submission for this sheet's key.
func (sh *Sheet) Payload() schoolapi.MarkAttendanceRequest {
	marks := make([]schoolapi.Mark, 0, len(sh.entries))
	for _, e := range sh.entries {
		marks = append(marks, schoolapi.Mark{StudentID: e.Student.ID, IsPresent: e.Present})
	}
	return schoolapi.MarkAttendanceRequest{
		ClassID:    sh.ClassID,
		Session:    string(sh.Session),
		Date:       sh.Date,
		Attendance: marks,
	}
}

// markSubmitted records a successful submission: the sheet locks and the
// current flags become the restore point for a future cancelled edit.
func (sh *Sheet) markSubmitted() {
	sh.state = Submitted
	sh.saved = sh.snapshot()
}

func (sh *Sheet) snapshot() []bool {
	out := make([]bool, len(sh.entries))
	for i, e := range sh.entries {
		out[i] = e.Present
	}
	return out
}
