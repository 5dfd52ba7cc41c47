package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rollbook/internal/attendance"
	"rollbook/internal/report"
	"rollbook/internal/roster"
	"rollbook/internal/schoolapi"
	"rollbook/internal/session"
)

// Handler serves the four teacher screens and the CSV downloads. Every
// operation catches its own failure and surfaces it as a flash on the screen
// that started it; nothing bubbles further.
type Handler struct {
	sessions   *session.Manager
	api        *schoolapi.Client
	attendance *attendance.Service
	roster     *roster.Service
	reports    *report.Service
}

// New wires the handler's services.
func New(sessions *session.Manager, api *schoolapi.Client) *Handler {
	return &Handler{
		sessions:   sessions,
		api:        api,
		attendance: attendance.NewService(api),
		roster:     roster.NewService(api),
		reports:    report.NewService(api),
	}
}

// Register mounts all routes. Everything except the login screen sits behind
// the session middleware.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/login", h.showLogin)
	r.POST("/login", h.login)

	auth := r.Group("/", session.Require(h.sessions))
	auth.GET("/", h.dashboard)
	auth.POST("/logout", h.logout)
	auth.GET("/reports/combined", h.combinedReport)
	auth.GET("/classes/:id/attendance", h.attendancePage)
	auth.POST("/classes/:id/attendance", h.submitAttendance)
	auth.GET("/classes/:id/attendance/report", h.classReport)
	auth.GET("/classes/:id/students", h.studentsPage)
	auth.POST("/classes/:id/students", h.addStudent)
	auth.POST("/classes/:id/students/import", h.importStudents)
	auth.POST("/classes/:id/students/:sid/delete", h.deleteStudent)
}

func (h *Handler) showLogin(c *gin.Context) {
	cookie, _ := c.Cookie(h.sessions.CookieName())
	if _, err := h.sessions.Current(c.Request.Context(), cookie); err == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Flash": takeFlash(c), "Username": ""})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, cookie, err := h.sessions.Login(c.Request.Context(), username, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error":    err.Error(),
			"Username": username,
		})
		return
	}
	session.SetCookie(c, h.sessions, cookie)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	if s, ok := session.FromContext(c); ok {
		// Best effort: the cookie is cleared regardless of the revoke outcome.
		_ = h.sessions.Logout(c.Request.Context(), s)
	}
	session.ClearCookie(c, h.sessions)
	c.Redirect(http.StatusSeeOther, "/login")
}

// dashboard is the class-selection screen. It re-verifies the stored token
// on every visit, mirroring the mount-time profile check: a rejected token
// clears the session and lands on the login page.
func (h *Handler) dashboard(c *gin.Context) {
	s, _ := session.FromContext(c)

	if _, err := h.sessions.Verify(c.Request.Context(), s); err != nil {
		session.ClearCookie(c, h.sessions)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	teacher, err := h.api.Dashboard(c.Request.Context(), s.AccessToken)
	if err != nil {
		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"User":  s.User,
			"Error": err.Error(),
			"Today": attendance.Today(),
		})
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":    s.User,
		"Teacher": teacher,
		"Today":   attendance.Today(),
		"Flash":   takeFlash(c),
	})
}

// loadSheet resolves the class and builds the attendance sheet for today's
// date and the requested session.
func (h *Handler) loadSheet(c *gin.Context, s session.Session) (*attendance.Sheet, error) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, fmt.Errorf("bad class id: %w", err)
	}
	raw := c.PostForm("session")
	if raw == "" {
		raw = c.Query("session")
	}
	sess, err := attendance.ParseSession(raw)
	if err != nil {
		return nil, err
	}
	name, err := h.className(c.Request.Context(), s.AccessToken, classID)
	if err != nil {
		return nil, err
	}
	return h.attendance.Load(c.Request.Context(), s.AccessToken, classID, name, attendance.Today(), sess)
}

// className resolves a class ID against the teacher's dashboard so page
// titles and report filenames never trust URL input.
func (h *Handler) className(ctx context.Context, token string, classID int) (string, error) {
	teacher, err := h.api.Dashboard(ctx, token)
	if err != nil {
		return "", err
	}
	for _, cls := range teacher.AllClasses {
		if cls.ID == classID {
			return cls.Name, nil
		}
	}
	return "", fmt.Errorf("class %d not found", classID)
}

func (h *Handler) attendancePage(c *gin.Context) {
	s, _ := session.FromContext(c)

	sheet, err := h.loadSheet(c, s)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	editing := c.Query("edit") == "1"
	if editing {
		if err := sheet.BeginEdit(); err != nil {
			editing = false
		}
	}

	c.HTML(http.StatusOK, "attendance.html", gin.H{
		"User":    s.User,
		"Sheet":   sheet,
		"Editing": editing,
		"Rate":    rateLabel(sheet),
		"Flash":   takeFlash(c),
	})
}

// submitAttendance serves both the first submission and a save from edit
// mode. The posted checkbox state is applied through the sheet's guarded
// mutators, so a locked sheet rejects the write even if someone posts the
// form by hand.
func (h *Handler) submitAttendance(c *gin.Context) {
	s, _ := session.FromContext(c)

	sheet, err := h.loadSheet(c, s)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	back := fmt.Sprintf("/classes/%d/attendance?session=%s", sheet.ClassID, sheet.Session)

	if c.PostForm("mode") == "edit" {
		if err := sheet.BeginEdit(); err != nil {
			setFlash(c, "error", err.Error())
			c.Redirect(http.StatusSeeOther, back)
			return
		}
	}

	for _, e := range sheet.Entries() {
		present := c.PostForm(fmt.Sprintf("present_%d", e.Student.ID)) != ""
		if err := sheet.SetPresent(e.Student.ID, present); err != nil {
			setFlash(c, "error", err.Error())
			c.Redirect(http.StatusSeeOther, back)
			return
		}
	}

	absent, err := h.attendance.Submit(c.Request.Context(), s.AccessToken, sheet)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if absent > 0 {
		setFlash(c, "ok", fmt.Sprintf("Attendance saved. Absent SMS sent to %d parents.", absent))
	} else {
		setFlash(c, "ok", "Attendance saved. All students present!")
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (h *Handler) classReport(c *gin.Context) {
	s, _ := session.FromContext(c)

	sheet, err := h.loadSheet(c, s)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	file, err := report.Class(sheet)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/classes/%d/attendance?session=%s", sheet.ClassID, sheet.Session))
		return
	}
	sendCSV(c, file)
}

func (h *Handler) combinedReport(c *gin.Context) {
	s, _ := session.FromContext(c)

	teacher, err := h.api.Dashboard(c.Request.Context(), s.AccessToken)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	file := h.reports.ExportCombined(c.Request.Context(), s.AccessToken, attendance.Today(), teacher.AllClasses)
	sendCSV(c, file)
}

func (h *Handler) studentsPage(c *gin.Context) {
	s, _ := session.FromContext(c)

	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	name, err := h.className(c.Request.Context(), s.AccessToken, classID)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	students, err := h.roster.List(c.Request.Context(), s.AccessToken, classID)
	if err != nil {
		c.HTML(http.StatusOK, "students.html", gin.H{
			"User": s.User, "ClassID": classID, "ClassName": name, "Error": err.Error(),
		})
		return
	}

	c.HTML(http.StatusOK, "students.html", gin.H{
		"User":      s.User,
		"ClassID":   classID,
		"ClassName": name,
		"Students":  students,
		"Flash":     takeFlash(c),
	})
}

func (h *Handler) addStudent(c *gin.Context) {
	s, _ := session.FromContext(c)

	classID, _ := strconv.Atoi(c.Param("id"))
	back := fmt.Sprintf("/classes/%d/students", classID)

	var form roster.AddStudentForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if err := h.roster.AddStudent(c.Request.Context(), s.AccessToken, classID, form); err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	setFlash(c, "ok", fmt.Sprintf("%s has been added.", form.Name()))
	c.Redirect(http.StatusSeeOther, back)
}

func (h *Handler) importStudents(c *gin.Context) {
	s, _ := session.FromContext(c)

	classID, _ := strconv.Atoi(c.Param("id"))
	back := fmt.Sprintf("/classes/%d/students", classID)

	upload, header, err := c.Request.FormFile("file")
	if err != nil {
		setFlash(c, "error", "select a CSV file to upload")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	defer upload.Close()

	added, err := h.roster.BulkImport(c.Request.Context(), s.AccessToken, classID, header.Filename, upload)
	if err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	setFlash(c, "ok", fmt.Sprintf("%d students added.", added))
	c.Redirect(http.StatusSeeOther, back)
}

func (h *Handler) deleteStudent(c *gin.Context) {
	s, _ := session.FromContext(c)

	classID, _ := strconv.Atoi(c.Param("id"))
	back := fmt.Sprintf("/classes/%d/students", classID)

	if c.PostForm("confirm") != "yes" {
		setFlash(c, "error", "deletion requires confirmation")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	studentID, err := strconv.Atoi(c.Param("sid"))
	if err != nil {
		setFlash(c, "error", "bad student id")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if err := h.roster.Delete(c.Request.Context(), s.AccessToken, studentID); err != nil {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	setFlash(c, "ok", "Student removed.")
	c.Redirect(http.StatusSeeOther, back)
}

func sendCSV(c *gin.Context, file *report.File) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", file.Content)
}

func rateLabel(sheet *attendance.Sheet) string {
	if sheet.Total() == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(sheet.PresentCount())/float64(sheet.Total())*100)
}
