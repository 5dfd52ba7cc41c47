package report

import (
	"context"
	"sync"
	"time"

	"rollbook/internal/attendance"
	"rollbook/internal/schoolapi"
)

// API is the slice of the backend client the service needs.
type API interface {
	SessionReport(ctx context.Context, token, date, session string) (*schoolapi.ReportData, error)
}

// Service fetches school-wide aggregates and assembles export files.
type Service struct {
	api API
}

// NewService creates a report service backed by the school API.
func NewService(api API) *Service {
	return &Service{api: api}
}

// ExportCombined fetches the morning and afternoon aggregates concurrently
// and merges them into one document. The two fetches are independent reads:
// either may fail without blocking the other, and a failure shows up as an
// inline error section rather than an aborted export.
func (s *Service) ExportCombined(ctx context.Context, token, date string, classes []schoolapi.Class) *File {
	var morning, afternoon Outcome

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		morning.Data, morning.Err = s.api.SessionReport(ctx, token, date, string(attendance.Morning))
	}()
	go func() {
		defer wg.Done()
		afternoon.Data, afternoon.Err = s.api.SessionReport(ctx, token, date, string(attendance.Afternoon))
	}()
	wg.Wait()

	return Combined(date, time.Now(), classes, morning, afternoon)
}
