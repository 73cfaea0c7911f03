package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kasuku/academia/core"
)

type Student struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Residence string    `json:"residence" db:"residence"`
	ClassName string    `json:"class_name" db:"class_name"`
	Session   string    `json:"session" db:"session"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required,phone"`
	Residence string `json:"residence" validate:"required"`
	ClassName string `json:"class" validate:"required"`
	Session   string `json:"session" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Residence = core.CleanString(ns.Residence)
	ns.ClassName = core.CleanString(ns.ClassName)
	ns.Session = core.CleanString(ns.Session)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Blank fields keep their current value.
type UpdateStudent struct {
	Name      string `json:"name"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Residence string `json:"residence"`
	ClassName string `json:"class"`
	Session   string `json:"session"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if phone := core.CleanString(us.Phone); phone != "" {
		us.Phone = phone
	} else {
		us.Phone = orig.Phone
	}
	if res := core.CleanString(us.Residence); res != "" {
		us.Residence = res
	} else {
		us.Residence = orig.Residence
	}
	if class := core.CleanString(us.ClassName); class != "" {
		us.ClassName = class
	} else {
		us.ClassName = orig.ClassName
	}
	if session := core.CleanString(us.Session); session != "" {
		us.Session = session
	} else {
		us.Session = orig.Session
	}
	return validate.Struct(us)
}

// QueryFilter narrows a student search. All provided fields are ANDed;
// each one is a case-insensitive substring match.
type QueryFilter struct {
	Name      string `query:"name"`
	ClassName string `query:"class"`
	Session   string `query:"session"`
	Page      int    `query:"page"`
}

func (qf *QueryFilter) Clean() {
	qf.Name = core.CleanString(qf.Name)
	qf.ClassName = core.CleanString(qf.ClassName)
	qf.Session = core.CleanString(qf.Session)
	if qf.Page < 1 {
		qf.Page = 1
	}
}

// ClassCount is one bucket of the dashboard class distribution.
type ClassCount struct {
	ClassName string `json:"class_name" db:"class_name"`
	Count     int    `json:"count" db:"count"`
}
