package report

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"rollbook/internal/attendance"
	"rollbook/internal/schoolapi"
)

func sheetWithOneAbsent(t *testing.T) *attendance.Sheet {
	t.Helper()
	roster := []schoolapi.Student{
		{ID: 1, Name: "Asha Rao", RollNumber: "01", FatherName: "Mohan Rao", ParentPhone: "9999900001"},
		{ID: 2, Name: `Ravi "RJ" Kumar`, RollNumber: "02", Address: "12, Gandhi Street", MotherPhone: "9999900002"},
		{ID: 3, Name: "Meena Devi", RollNumber: "03", ParentEmail: "meena@example.com"},
	}
	record := map[string]bool{"1": true, "2": false, "3": true}
	return attendance.NewSheet(7, "Class 5A", "2026-08-28", attendance.Morning, roster, record)
}

func TestClassReportHeaderAndCounts(t *testing.T) {
	f, err := Class(sheetWithOneAbsent(t))
	if err != nil {
		t.Fatalf("Class: %v", err)
	}
	if want := "Class 5A_morning_comprehensive_attendance_report_2026-08-28.csv"; f.Name != want {
		t.Errorf("file name = %q, want %q", f.Name, want)
	}

	lines := strings.Split(string(f.Content), "\n")
	head := []string{
		"SCHOOL ATTENDANCE REPORT",
		"===========================",
		"Class: Class 5A",
		"Date: 2026-08-28",
		"Session: Morning",
		"Total Students: 3",
		"Present: 2",
		"Absent: 1",
		"Attendance Rate: 66.7%",
	}
	for i, want := range head {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
	if strings.HasSuffix(string(f.Content), "\n") {
		t.Error("report must not end with a trailing newline")
	}
}

func TestClassReportSections(t *testing.T) {
	f, err := Class(sheetWithOneAbsent(t))
	if err != nil {
		t.Fatalf("Class: %v", err)
	}
	content := string(f.Content)

	presentSec := between(t, content, "=== PRESENT STUDENTS ===", "=== ABSENT STUDENTS ===")
	absentSec := between(t, content, "=== ABSENT STUDENTS ===", "=== SUMMARY BY SESSION ===")

	presentRows := dataRows(presentSec)
	absentRows := dataRows(absentSec)
	if len(presentRows) != 2 || len(absentRows) != 1 {
		t.Fatalf("present=%d absent=%d, want 2 and 1", len(presentRows), len(absentRows))
	}
	if got := len(presentRows) + len(absentRows); got != 3 {
		t.Errorf("rows cover %d students, want the whole roster of 3", got)
	}
	if !strings.HasPrefix(absentRows[0], `"02",`) {
		t.Errorf("absent row = %q, want roll 02", absentRows[0])
	}

	// Optional fields fall back to N/A; phone is coalesced from any parent.
	if want := `"03","Meena Devi","N/A","N/A","N/A","meena@example.com","N/A","N/A"`; presentRows[1] != want {
		t.Errorf("row = %q, want %q", presentRows[1], want)
	}
	if !strings.Contains(absentRows[0], `"9999900002"`) {
		t.Errorf("mother phone not used: %q", absentRows[0])
	}
}

func TestClassReportRowsParseAsCSV(t *testing.T) {
	f, err := Class(sheetWithOneAbsent(t))
	if err != nil {
		t.Fatalf("Class: %v", err)
	}
	section := between(t, string(f.Content), "=== ABSENT STUDENTS ===", "=== SUMMARY BY SESSION ===")
	rows := dataRows(section)

	rec, err := csv.NewReader(strings.NewReader(rows[0])).Read()
	if err != nil {
		t.Fatalf("row does not parse as CSV: %v", err)
	}
	if rec[1] != `Ravi "RJ" Kumar` {
		t.Errorf("embedded quotes lost: %q", rec[1])
	}
	if rec[6] != "12, Gandhi Street" {
		t.Errorf("embedded comma lost: %q", rec[6])
	}
}

func TestClassReportPerfectAttendance(t *testing.T) {
	roster := []schoolapi.Student{{ID: 1, Name: "Asha Rao", RollNumber: "01"}}
	sh := attendance.NewSheet(7, "Class 5A", "2026-08-28", attendance.Afternoon, roster, map[string]bool{"1": true})

	f, err := Class(sh)
	if err != nil {
		t.Fatalf("Class: %v", err)
	}
	content := string(f.Content)
	if !strings.Contains(content, "No absent students - Perfect attendance!") {
		t.Error("perfect attendance line missing")
	}
	if !strings.Contains(content, "Attendance Rate: 100.0%") {
		t.Error("want rate 100.0%")
	}
}

func TestClassReportEmptyRoster(t *testing.T) {
	sh := attendance.NewSheet(7, "Class 5A", "2026-08-28", attendance.Morning, nil, nil)
	if _, err := Class(sh); !errors.Is(err, ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}

func TestCombinedReportBothSessions(t *testing.T) {
	gen := time.Date(2026, 8, 28, 14, 5, 9, 0, time.UTC)
	morning := Outcome{Data: &schoolapi.ReportData{
		TotalClasses: 2, TotalStudents: 40, TotalPresent: 36, TotalAbsent: 4,
		OverallAttendanceRate: "90",
		Classes: []schoolapi.ClassReportRow{
			{Name: "Class 5A", TotalStudents: 20, PresentCount: 18, AbsentCount: 2, AttendanceRate: "90"},
			{Name: "Class 5B", TotalStudents: 20, PresentCount: 18, AbsentCount: 2, AttendanceRate: "90"},
		},
	}}
	afternoon := Outcome{Data: &schoolapi.ReportData{TotalStudents: 40, TotalPresent: 40}}
	classes := []schoolapi.Class{{ID: 1, Name: "Class 5A", StudentCount: 20}}

	f := Combined("2026-08-28", gen, classes, morning, afternoon)
	if want := "School_Comprehensive_Attendance_Report_2026-08-28.csv"; f.Name != want {
		t.Errorf("file name = %q, want %q", f.Name, want)
	}

	content := string(f.Content)
	for _, want := range []string{
		"COMPREHENSIVE SCHOOL ATTENDANCE REPORT",
		"Generated: 8/28/2026, 2:05:09 PM",
		"=== MORNING SESSION REPORT ===",
		"Overall Attendance Rate: 90%",
		"Class,Total Students,Present,Absent,Attendance Rate",
		"Class 5B,20,18,2,90%",
		"=== AFTERNOON SESSION REPORT ===",
		"Overall Attendance Rate: 0%",
		"=== DAILY SUMMARY ===",
		"Morning Session - Students: 40, Present: 36, Absent: 4",
		"Available Classes:",
		"- Class 5A (20 students)",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("combined report missing %q", want)
		}
	}
}

func TestCombinedReportFailedSession(t *testing.T) {
	morning := Outcome{Data: &schoolapi.ReportData{TotalStudents: 10, TotalPresent: 10}}
	afternoon := Outcome{Err: errors.New("upstream timeout")}

	f := Combined("2026-08-28", time.Now(), nil, morning, afternoon)
	content := string(f.Content)

	if !strings.Contains(content, "No afternoon attendance data available.") {
		t.Error("failed session must degrade to a no-data section")
	}
	if !strings.Contains(content, "Error: upstream timeout") {
		t.Error("failed session must carry its error message")
	}
	if !strings.Contains(content, "Afternoon Session - Students: 0, Present: 0, Absent: 0") {
		t.Error("summary must zero out the failed session")
	}
	if strings.Contains(content, "Available Classes:") {
		t.Error("class list omitted when no classes are passed")
	}
}

// between extracts the lines after the start marker up to the end marker.
func between(t *testing.T, content, start, end string) string {
	t.Helper()
	i := strings.Index(content, start)
	j := strings.Index(content, end)
	if i < 0 || j < 0 || j < i {
		t.Fatalf("markers %q/%q not found in order", start, end)
	}
	return content[i+len(start) : j]
}

// dataRows returns the quoted student rows of a section, skipping blanks and
// the column header.
func dataRows(section string) []string {
	var rows []string
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, `"`) {
			rows = append(rows, line)
		}
	}
	return rows
}
