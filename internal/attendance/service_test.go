package attendance

import (
	"context"
	"errors"
	"testing"

	"rollbook/internal/schoolapi"
)

type fakeAPI struct {
	students  []schoolapi.Student
	record    map[string]bool
	recordErr error

	markCalls []schoolapi.MarkAttendanceRequest
	markErr   error
}

func (f *fakeAPI) ClassStudents(_ context.Context, _ string, _ int) ([]schoolapi.Student, error) {
	return f.students, nil
}

func (f *fakeAPI) ClassAttendance(_ context.Context, _ string, _ int, _, _ string) (map[string]bool, error) {
	return f.record, f.recordErr
}

func (f *fakeAPI) MarkAttendance(_ context.Context, _ string, req schoolapi.MarkAttendanceRequest) error {
	f.markCalls = append(f.markCalls, req)
	return f.markErr
}

func TestLoadStartsUnsubmittedWithoutRecord(t *testing.T) {
	api := &fakeAPI{students: roster3()}
	svc := NewService(api)

	sh, err := svc.Load(context.Background(), "tok", 7, "5A", "2026-08-28", Morning)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sh.State() != Unsubmitted {
		t.Errorf("state = %v, want unsubmitted", sh.State())
	}
}

func TestLoadStartsLockedWithRecord(t *testing.T) {
	api := &fakeAPI{students: roster3(), record: map[string]bool{"2": false}}
	svc := NewService(api)

	sh, err := svc.Load(context.Background(), "tok", 7, "5A", "2026-08-28", Morning)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sh.State() != Submitted {
		t.Errorf("state = %v, want submitted", sh.State())
	}
	if err := sh.Toggle(1); !errors.Is(err, ErrLocked) {
		t.Errorf("Toggle on loaded record: error = %v, want ErrLocked", err)
	}
}

func TestLoadTreatsRecordFetchFailureAsUnsubmitted(t *testing.T) {
	api := &fakeAPI{students: roster3(), recordErr: errors.New("boom")}
	svc := NewService(api)

	sh, err := svc.Load(context.Background(), "tok", 7, "5A", "2026-08-28", Afternoon)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sh.State() != Unsubmitted {
		t.Errorf("state = %v, want unsubmitted when the record fetch fails", sh.State())
	}
}

func TestSubmitLocksAndReportsAbsentCount(t *testing.T) {
	api := &fakeAPI{students: roster3()}
	svc := NewService(api)

	sh, _ := svc.Load(context.Background(), "tok", 7, "5A", "2026-08-28", Morning)
	if err := sh.Toggle(3); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	absent, err := svc.Submit(context.Background(), "tok", sh)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if absent != 1 {
		t.Errorf("absent = %d, want 1", absent)
	}
	if sh.State() != Submitted {
		t.Errorf("state after submit = %v, want submitted", sh.State())
	}
	if len(api.markCalls) != 1 {
		t.Fatalf("mark calls = %d, want 1", len(api.markCalls))
	}
	req := api.markCalls[0]
	if req.ClassID != 7 || req.Session != "morning" || req.Date != "2026-08-28" {
		t.Errorf("payload key = (%d, %s, %s)", req.ClassID, req.Session, req.Date)
	}
	if len(req.Attendance) != 3 {
		t.Errorf("payload covers %d students, want the full roster of 3", len(req.Attendance))
	}
}

func TestSubmitRejectsLockedSheet(t *testing.T) {
	api := &fakeAPI{students: roster3(), record: map[string]bool{"1": true}}
	svc := NewService(api)

	sh, _ := svc.Load(context.Background(), "tok", 7, "5A", "2026-08-28", Morning)

	if _, err := svc.Submit(context.Background(), "tok", sh); !errors.Is(err, ErrLocked) {
		t.Fatalf("Submit on locked sheet: error = %v, want ErrLocked", err)
	}
	if len(api.markCalls) != 0 {
		t.Errorf("locked submit must not reach the backend; got %d calls", len(api.markCalls))
	}
}
