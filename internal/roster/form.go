package roster

import "strings"

// AddStudentForm is the single-student entry form. Validation tags mirror
// the required fields: first name, last name, roll number and a guardian
// phone (the backend needs it for absence SMS).
type AddStudentForm struct {
	FirstName   string `form:"first_name" validate:"required"`
	LastName    string `form:"last_name" validate:"required"`
	RollNumber  string `form:"roll_number" validate:"required"`
	FatherName  string `form:"father_name"`
	MotherName  string `form:"mother_name"`
	ParentPhone string `form:"parent_phone" validate:"required"`
	ParentEmail string `form:"parent_email" validate:"omitempty,email"`
	Address     string `form:"address"`
	Gender      string `form:"gender" validate:"omitempty,oneof=Male Female Other"`
}

// trim normalizes all fields before validation.
func (f *AddStudentForm) trim() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.RollNumber = strings.TrimSpace(f.RollNumber)
	f.FatherName = strings.TrimSpace(f.FatherName)
	f.MotherName = strings.TrimSpace(f.MotherName)
	f.ParentPhone = strings.TrimSpace(f.ParentPhone)
	f.ParentEmail = strings.TrimSpace(f.ParentEmail)
	f.Address = strings.TrimSpace(f.Address)
	f.Gender = strings.TrimSpace(f.Gender)
}

// Name composes the stored student name from the form's name parts.
func (f *AddStudentForm) Name() string {
	return f.FirstName + " " + f.LastName
}
