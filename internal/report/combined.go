package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rollbook/internal/attendance"
	"rollbook/internal/schoolapi"
)

// Outcome is one session's half of the combined export: either the backend
// aggregate or the error that prevented it. A failed session degrades to a
// "no data" section instead of sinking the whole report.
type Outcome struct {
	Data *schoolapi.ReportData
	Err  error
}

// Combined builds the whole-school report covering both sessions for one
// date, plus the daily summary and the teacher's class list.
func Combined(date string, generatedAt time.Time, classes []schoolapi.Class, morning, afternoon Outcome) *File {
	var lines []string
	lines = append(lines,
		"COMPREHENSIVE SCHOOL ATTENDANCE REPORT",
		"==========================================",
		"Date: "+date,
		"Generated: "+generatedAt.Format("1/2/2006, 3:04:05 PM"),
		"",
		"",
	)

	lines = append(lines, sessionSection(attendance.Morning, morning)...)
	lines = append(lines, "", "")
	lines = append(lines, sessionSection(attendance.Afternoon, afternoon)...)
	lines = append(lines, "", "")

	lines = append(lines, "=== DAILY SUMMARY ===")
	lines = append(lines, summaryLine(attendance.Morning, morning))
	lines = append(lines, summaryLine(attendance.Afternoon, afternoon))

	if len(classes) > 0 {
		lines = append(lines, "", "Available Classes:")
		for _, cls := range classes {
			lines = append(lines, fmt.Sprintf("- %s (%d students)", cls.Name, cls.StudentCount))
		}
	}

	return &File{
		Name:    "School_Comprehensive_Attendance_Report_" + date + ".csv",
		Content: []byte(strings.Join(lines, "\n")),
	}
}

func sessionSection(sess attendance.Session, o Outcome) []string {
	lines := []string{"=== " + strings.ToUpper(string(sess)) + " SESSION REPORT ==="}
	if o.Err != nil || o.Data == nil {
		lines = append(lines, "No "+string(sess)+" attendance data available.")
		msg := "Unknown error"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		return append(lines, "Error: "+msg)
	}

	d := o.Data
	lines = append(lines,
		fmt.Sprintf("Total Classes: %d", d.TotalClasses),
		fmt.Sprintf("Total Students: %d", d.TotalStudents),
		fmt.Sprintf("Total Present: %d", d.TotalPresent),
		fmt.Sprintf("Total Absent: %d", d.TotalAbsent),
		"Overall Attendance Rate: "+numberOrZero(d.OverallAttendanceRate)+"%",
		"",
	)
	if len(d.Classes) == 0 {
		return append(lines, "No "+string(sess)+" attendance data recorded yet.")
	}
	lines = append(lines, "Class,Total Students,Present,Absent,Attendance Rate")
	for _, row := range d.Classes {
		lines = append(lines, fmt.Sprintf("%s,%d,%d,%d,%s%%",
			row.Name, row.TotalStudents, row.PresentCount, row.AbsentCount, numberOrZero(row.AttendanceRate)))
	}
	return lines
}

func summaryLine(sess attendance.Session, o Outcome) string {
	students, present, absent := 0, 0, 0
	if o.Err == nil && o.Data != nil {
		students, present, absent = o.Data.TotalStudents, o.Data.TotalPresent, o.Data.TotalAbsent
	}
	return fmt.Sprintf("%s Session - Students: %d, Present: %d, Absent: %d", sess.Title(), students, present, absent)
}

func numberOrZero(n json.Number) string {
	if n == "" {
		return "0"
	}
	return n.String()
}
