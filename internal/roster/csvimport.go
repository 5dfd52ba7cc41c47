package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNotCSV rejects uploads that are not .csv files.
	ErrNotCSV = errors.New("please upload a CSV file")
	// ErrEmptyCSV rejects files without a header row and at least one record.
	ErrEmptyCSV = errors.New("CSV must contain a header row and at least one student record")
	// ErrNoStudents means every data row failed validation; nothing was sent.
	ErrNoStudents = errors.New("no valid student records found in the CSV file")
)

// MissingHeadersError lists required columns absent from the header row.
type MissingHeadersError struct {
	Missing []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("required headers missing: %s", strings.Join(e.Missing, ", "))
}

// requiredColumns must all appear in the header row, in any order.
var requiredColumns = []string{"rollNumber", "firstName", "lastName", "parentPhone"}

// Row is one parsed student record from a bulk-import CSV. Optional fields
// default to "".
type Row struct {
	RollNumber  string
	FirstName   string
	LastName    string
	FatherName  string
	MotherName  string
	ParentPhone string
	ParentEmail string
	Address     string
	Gender      string
}

// Name composes the stored student name.
func (r Row) Name() string { return r.FirstName + " " + r.LastName }

// ParseCSV reads a bulk-import file. Quoted fields are handled properly, so
// commas inside names or addresses survive. Column order is free and unknown
// columns are ignored. Rows whose shape mismatches the header or whose
// required fields are empty after trimming are skipped; only wholesale
// problems (no header, no data rows, missing required columns, zero valid
// rows) are errors.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyCSV
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingHeadersError{Missing: missing}
	}

	field := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		row := Row{
			RollNumber:  field(rec, "rollNumber"),
			FirstName:   field(rec, "firstName"),
			LastName:    field(rec, "lastName"),
			FatherName:  field(rec, "fatherName"),
			MotherName:  field(rec, "motherName"),
			ParentPhone: field(rec, "parentPhone"),
			ParentEmail: field(rec, "parentEmail"),
			Address:     field(rec, "address"),
			Gender:      field(rec, "gender"),
		}
		if row.RollNumber == "" || row.FirstName == "" || row.LastName == "" || row.ParentPhone == "" {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoStudents
	}
	return rows, nil
}
