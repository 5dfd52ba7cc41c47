package report

import (
	"errors"
	"fmt"
	"strings"

	"rollbook/internal/attendance"
	"rollbook/internal/schoolapi"
)

// ErrNoData means the roster is empty and no report file should be produced.
var ErrNoData = errors.New("no student data available for this session")

// File is a generated CSV export ready for download.
type File struct {
	Name    string
	Content []byte
}

// columnHeader is the row shape shared by the present and absent sections.
// Consumers parse these exports; the literal text must not change.
const columnHeader = "Roll Number,Student Name,Father Name,Mother Name,Phone Number,Email,Address,Gender"

// Class builds the per-class attendance report from an in-memory sheet.
// Pure and synchronous: no network calls. An empty roster declines with
// ErrNoData instead of emitting a zero-student report.
func Class(sh *attendance.Sheet) (*File, error) {
	if sh.Total() == 0 {
		return nil, ErrNoData
	}

	var present, absent []schoolapi.Student
	for _, e := range sh.Entries() {
		if e.Present {
			present = append(present, e.Student)
		} else {
			absent = append(absent, e.Student)
		}
	}
	rateStr := rate(len(present), sh.Total())

	var lines []string
	lines = append(lines,
		"SCHOOL ATTENDANCE REPORT",
		"===========================",
		"Class: "+sh.ClassName,
		"Date: "+sh.Date,
		"Session: "+sh.Session.Title(),
		fmt.Sprintf("Total Students: %d", sh.Total()),
		fmt.Sprintf("Present: %d", len(present)),
		fmt.Sprintf("Absent: %d", len(absent)),
		"Attendance Rate: "+rateStr+"%",
		"",
		"",
		"=== PRESENT STUDENTS ===",
		columnHeader,
	)
	for _, st := range present {
		lines = append(lines, studentRow(st))
	}

	lines = append(lines, "", "", "=== ABSENT STUDENTS ===")
	if len(absent) == 0 {
		lines = append(lines, "No absent students - Perfect attendance!")
	} else {
		lines = append(lines, columnHeader)
		for _, st := range absent {
			lines = append(lines, studentRow(st))
		}
	}

	lines = append(lines,
		"",
		"",
		"=== SUMMARY BY SESSION ===",
		sh.Session.Title()+" Session Summary:",
		fmt.Sprintf("- Total Students: %d", sh.Total()),
		fmt.Sprintf("- Present: %d", len(present)),
		fmt.Sprintf("- Absent: %d", len(absent)),
		"- Attendance Percentage: "+rateStr+"%",
	)

	name := fmt.Sprintf("%s_%s_comprehensive_attendance_report_%s.csv", sh.ClassName, sh.Session, sh.Date)
	return &File{Name: name, Content: []byte(strings.Join(lines, "\n"))}, nil
}

// studentRow renders one quoted CSV row, with "N/A" standing in for empty
// optional fields and embedded quotes doubled.
func studentRow(st schoolapi.Student) string {
	fields := []string{
		st.RollNumber,
		st.Name,
		orNA(st.FatherName),
		orNA(st.MotherName),
		orNA(st.Phone()),
		orNA(st.ParentEmail),
		orNA(st.Address),
		orNA(st.Gender),
	}
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, ",")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// rate formats present/total as a percentage with one decimal place,
// reading 0 for an empty roster rather than dividing by zero.
func rate(present, total int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(present)/float64(total)*100)
}
