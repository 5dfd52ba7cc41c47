package attendance

import (
	"context"
	"log"

	"rollbook/internal/schoolapi"
)

// API is the slice of the backend client the service needs.
type API interface {
	ClassStudents(ctx context.Context, token string, classID int) ([]schoolapi.Student, error)
	ClassAttendance(ctx context.Context, token string, classID int, date, session string) (map[string]bool, error)
	MarkAttendance(ctx context.Context, token string, req schoolapi.MarkAttendanceRequest) error
}

// Service loads and submits attendance sheets against the backend.
type Service struct {
	api API
}

// NewService creates a service backed by the school API.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Load fetches the roster, then any existing record for the same
// (class, date, session) key, and merges them into a sheet. A failed record
// fetch reads as "nothing submitted yet" rather than an error.
func (s *Service) Load(ctx context.Context, token string, classID int, className, date string, session Session) (*Sheet, error) {
	roster, err := s.api.ClassStudents(ctx, token, classID)
	if err != nil {
		return nil, err
	}

	record, err := s.api.ClassAttendance(ctx, token, classID, date, string(session))
	if err != nil {
		log.Printf("class %d: no existing attendance for %s/%s: %v", classID, date, session, err)
		record = nil
	}

	return NewSheet(classID, className, date, session, roster, record), nil
}

// Submit sends the sheet's full presence list to the backend. It serves both
// the first submission and a save from edit mode; the payload is identical.
// Locked sheets are rejected before any network call. The absent count is
// returned for the caller's notification copy; the SMS dispatch itself is
// backend-owned.
func (s *Service) Submit(ctx context.Context, token string, sh *Sheet) (int, error) {
	if !sh.Editable() {
		return 0, ErrLocked
	}
	if err := s.api.MarkAttendance(ctx, token, sh.Payload()); err != nil {
		return 0, err
	}
	sh.markSubmitted()
	return sh.AbsentCount(), nil
}
