package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client calls the school backend REST API. It holds no credentials of its
// own: authenticated methods take the access token of the session on whose
// behalf they run.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client with configurable timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// do performs one JSON request against the backend and decodes the response
// into out. Non-2xx responses are normalized into StatusError; transport
// failures into RequestError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage extracts "message" or "detail" from an error body, falling
// back to "HTTP <status>".
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Detail != "" {
			return body.Detail
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

// failed builds the error for a 2xx response whose body reports success:false.
func failed(message, fallback string) error {
	if message == "" {
		message = fallback
	}
	return &StatusError{Status: http.StatusOK, Message: message}
}

// Login exchanges credentials for a token pair and the user record.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		LoginResult
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", "", body, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, failed(out.Message, "Login failed")
	}
	res := out.LoginResult
	return &res, nil
}

// Logout revokes the refresh token server-side.
func (c *Client) Logout(ctx context.Context, token, refreshToken string) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout/", token, body, &out); err != nil {
		return err
	}
	if !out.Success {
		return failed(out.Message, "Logout failed")
	}
	return nil
}

// Profile validates the access token and returns the current user.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		User    *User  `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile/", token, nil, &out); err != nil {
		return nil, err
	}
	if out.User != nil {
		return out.User, nil
	}
	return nil, failed(out.Message, "Profile unavailable")
}

// Dashboard returns the teacher record with the full class list.
func (c *Client) Dashboard(ctx context.Context, token string) (*Teacher, error) {
	var out struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Teacher *Teacher `json:"teacher"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/teachers/dashboard/", token, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Teacher == nil {
		return nil, failed(out.Message, "Failed to load dashboard")
	}
	return out.Teacher, nil
}

// ClassStudents returns the roster for one class.
func (c *Client) ClassStudents(ctx context.Context, token string, classID int) ([]Student, error) {
	var out struct {
		Success  bool      `json:"success"`
		Message  string    `json:"message"`
		Students []Student `json:"students"`
	}
	path := fmt.Sprintf("/api/attendance/class/%d/students/", classID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, failed(out.Message, "Failed to fetch students")
	}
	return out.Students, nil
}

// MarkAttendance submits the full-roster presence list for one
// (class, date, session) key. The same call both creates and overwrites.
func (c *Client) MarkAttendance(ctx context.Context, token string, req MarkAttendanceRequest) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/attendance/mark/", token, req, &out); err != nil {
		return err
	}
	if !out.Success {
		return failed(out.Message, "Failed to submit attendance")
	}
	return nil
}

// ClassAttendance returns the recorded presence map for one class/date/session,
// keyed by student ID. An empty map means nothing has been submitted yet.
func (c *Client) ClassAttendance(ctx context.Context, token string, classID int, date, session string) (map[string]bool, error) {
	var out struct {
		Success    bool            `json:"success"`
		Message    string          `json:"message"`
		Attendance map[string]bool `json:"attendance"`
	}
	q := url.Values{"date": {date}, "session": {session}}
	path := fmt.Sprintf("/api/attendance/class/%d/?%s", classID, q.Encode())
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, failed(out.Message, "Failed to fetch attendance")
	}
	return out.Attendance, nil
}

// SessionReport returns the school-wide aggregate for one date and session.
func (c *Client) SessionReport(ctx context.Context, token, date, session string) (*ReportData, error) {
	var out struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Data    *ReportData `json:"data"`
	}
	q := url.Values{"date": {date}, "session": {session}}
	if err := c.do(ctx, http.MethodGet, "/api/attendance/report/?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		return nil, failed(out.Message, "Failed to fetch report")
	}
	return out.Data, nil
}

// AddStudent creates one student in a class.
func (c *Client) AddStudent(ctx context.Context, token string, req AddStudentRequest) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/students/add/", token, req, &out); err != nil {
		return err
	}
	if !out.Success {
		return failed(out.Message, "Failed to add student")
	}
	return nil
}

// AddStudentsBulk creates a batch of students in one request.
func (c *Client) AddStudentsBulk(ctx context.Context, token string, req BulkAddRequest) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/students/add-bulk/", token, req, &out); err != nil {
		return err
	}
	if !out.Success {
		return failed(out.Message, "Failed to add students")
	}
	return nil
}

// DeleteStudent removes one student permanently.
func (c *Client) DeleteStudent(ctx context.Context, token string, studentID int) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/api/students/%d/delete/", studentID)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, &out); err != nil {
		return err
	}
	if !out.Success {
		return failed(out.Message, "Failed to remove student")
	}
	return nil
}
