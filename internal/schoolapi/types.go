package schoolapi

import "encoding/json"

// User is the logged-in teacher as the backend reports it.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginResult holds the token pair and user returned by a successful login.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Class is one class on the teacher's dashboard.
type Class struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	StudentCount int    `json:"student_count"`
}

// Teacher is the dashboard payload: the teacher plus every class they can mark.
type Teacher struct {
	ID         int     `json:"id"`
	FullName   string  `json:"full_name"`
	AllClasses []Class `json:"all_classes"`
}

// Student is a roster entry. Only the four required fields are guaranteed
// non-empty; the rest default to "".
type Student struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	RollNumber  string `json:"roll_number"`
	FatherName  string `json:"father_name"`
	MotherName  string `json:"mother_name"`
	ParentPhone string `json:"parent_phone"`
	MotherPhone string `json:"mother_phone"`
	FatherPhone string `json:"father_phone"`
	ParentEmail string `json:"parent_email"`
	Address     string `json:"address"`
	Gender      string `json:"gender"`
}

// Phone returns the first populated guardian phone number, matching the
// backend's loose schema where older records only carry a per-parent phone.
func (s Student) Phone() string {
	for _, p := range []string{s.ParentPhone, s.MotherPhone, s.FatherPhone} {
		if p != "" {
			return p
		}
	}
	return ""
}

// Mark is a single student's presence flag inside a mark-attendance request.
type Mark struct {
	StudentID int  `json:"student_id"`
	IsPresent bool `json:"is_present"`
}

// MarkAttendanceRequest is the full-roster submission keyed by class, date
// and session.
type MarkAttendanceRequest struct {
	ClassID    int    `json:"class_id"`
	Session    string `json:"session"`
	Date       string `json:"date"`
	Attendance []Mark `json:"attendance"`
}

// AddStudentRequest is the single-student creation payload.
type AddStudentRequest struct {
	ClassID     int    `json:"class_id"`
	Name        string `json:"name"`
	RollNumber  string `json:"roll_number"`
	FatherName  string `json:"father_name"`
	MotherName  string `json:"mother_name"`
	ParentPhone string `json:"parent_phone"`
	ParentEmail string `json:"parent_email"`
	Address     string `json:"address"`
	Gender      string `json:"gender"`
}

// BulkAddRequest adds a batch of students to one class in a single call.
type BulkAddRequest struct {
	ClassID  int                 `json:"class_id"`
	Students []AddStudentRequest `json:"students"`
}

// ClassReportRow is one class's aggregate inside a session report.
type ClassReportRow struct {
	Name           string      `json:"name"`
	TotalStudents  int         `json:"total_students"`
	PresentCount   int         `json:"present_count"`
	AbsentCount    int         `json:"absent_count"`
	AttendanceRate json.Number `json:"attendance_rate"`
}

// ReportData is the school-wide aggregate for one (date, session) pair.
type ReportData struct {
	TotalClasses          int              `json:"total_classes"`
	TotalStudents         int              `json:"total_students"`
	TotalPresent          int              `json:"total_present"`
	TotalAbsent           int              `json:"total_absent"`
	OverallAttendanceRate json.Number      `json:"overall_attendance_rate"`
	Classes               []ClassReportRow `json:"classes"`
}
