package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kasuku/academia/core"
)

type Teacher struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email" db:"email"`
	Qualification string    `json:"qualification" db:"qualification"`
	Subject       string    `json:"subject" db:"subject"`
	JoiningDate   time.Time `json:"joining_date" db:"joining_date"` // UTC
	// CredentialsFile is the stored filename of the uploaded credential
	// document, empty when none has been kept on disk.
	CredentialsFile string `json:"credentials_file" db:"credentials_file"`
}

// NewTeacher contains information needed to register a new Teacher.
type NewTeacher struct {
	Name          string `json:"name" form:"name" validate:"required"`
	Phone         string `json:"phone" form:"phone" validate:"required,phone"`
	Email         string `json:"email" form:"email" validate:"omitempty,email"`
	Qualification string `json:"qualification" form:"qualification"`
	Subject       string `json:"subject" form:"subject"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate, svc *Service) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Phone = core.CleanString(nt.Phone)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Qualification = core.CleanString(nt.Qualification)
	nt.Subject = core.CleanString(nt.Subject)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(nt.Email)
}

// UpdateTeacher defines what information may be provided to modify an
// existing Teacher. Blank fields keep their current value.
type UpdateTeacher struct {
	Name          string `json:"name" form:"name"`
	Phone         string `json:"phone" form:"phone" validate:"omitempty,phone"`
	Email         string `json:"email" form:"email" validate:"omitempty,email"`
	Qualification string `json:"qualification" form:"qualification"`
	Subject       string `json:"subject" form:"subject"`
}

func (ut *UpdateTeacher) Validate(orig Teacher, validate *validator.Validate, svc *Service) error {
	if name := core.CleanString(ut.Name); name != "" {
		ut.Name = name
	} else {
		ut.Name = orig.Name
	}
	if phone := core.CleanString(ut.Phone); phone != "" {
		ut.Phone = phone
	} else {
		ut.Phone = orig.Phone
	}
	if email := core.CleanString(ut.Email, true /* lower */); email != "" {
		ut.Email = email
	} else {
		ut.Email = orig.Email
	}
	if q := core.CleanString(ut.Qualification); q != "" {
		ut.Qualification = q
	} else {
		ut.Qualification = orig.Qualification
	}
	if s := core.CleanString(ut.Subject); s != "" {
		ut.Subject = s
	} else {
		ut.Subject = orig.Subject
	}

	if err := validate.Struct(ut); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ut.Email, orig)
}
