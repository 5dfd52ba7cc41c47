package roster

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"rollbook/internal/schoolapi"
)

// API is the slice of the backend client the service needs.
type API interface {
	ClassStudents(ctx context.Context, token string, classID int) ([]schoolapi.Student, error)
	AddStudent(ctx context.Context, token string, req schoolapi.AddStudentRequest) error
	AddStudentsBulk(ctx context.Context, token string, req schoolapi.BulkAddRequest) error
	DeleteStudent(ctx context.Context, token string, studentID int) error
}

// Service manages a class roster: list, add, bulk-import, delete. Mutations
// never update locally; callers refetch the roster after success.
type Service struct {
	api      API
	validate *validator.Validate
}

// NewService creates a roster service backed by the school API.
func NewService(api API) *Service {
	return &Service{api: api, validate: validator.New()}
}

// List returns the current roster for a class.
func (s *Service) List(ctx context.Context, token string, classID int) ([]schoolapi.Student, error) {
	return s.api.ClassStudents(ctx, token, classID)
}

// AddStudent validates the form and creates one student.
func (s *Service) AddStudent(ctx context.Context, token string, classID int, form AddStudentForm) error {
	form.trim()
	if err := s.validate.Struct(form); err != nil {
		return err
	}
	return s.api.AddStudent(ctx, token, schoolapi.AddStudentRequest{
		ClassID:     classID,
		Name:        form.Name(),
		RollNumber:  form.RollNumber,
		FatherName:  form.FatherName,
		MotherName:  form.MotherName,
		ParentPhone: form.ParentPhone,
		ParentEmail: form.ParentEmail,
		Address:     form.Address,
		Gender:      form.Gender,
	})
}

// BulkImport parses an uploaded CSV and submits every valid row in a single
// batch request. Validation failures (wrong file type, bad headers, zero
// valid rows) return before any network call. The returned count is the
// number of students sent.
func (s *Service) BulkImport(ctx context.Context, token string, classID int, filename string, file io.Reader) (int, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return 0, ErrNotCSV
	}

	rows, err := ParseCSV(file)
	if err != nil {
		return 0, err
	}

	req := schoolapi.BulkAddRequest{ClassID: classID, Students: make([]schoolapi.AddStudentRequest, 0, len(rows))}
	for _, row := range rows {
		req.Students = append(req.Students, schoolapi.AddStudentRequest{
			ClassID:     classID,
			Name:        row.Name(),
			RollNumber:  row.RollNumber,
			FatherName:  row.FatherName,
			MotherName:  row.MotherName,
			ParentPhone: row.ParentPhone,
			ParentEmail: row.ParentEmail,
			Address:     row.Address,
			Gender:      row.Gender,
		})
	}
	if err := s.api.AddStudentsBulk(ctx, token, req); err != nil {
		return 0, err
	}
	return len(req.Students), nil
}

// Delete removes one student. The confirmation guard lives with the caller;
// this is the point of no return.
func (s *Service) Delete(ctx context.Context, token string, studentID int) error {
	return s.api.DeleteStudent(ctx, token, studentID)
}
