package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/blacklytning/alc/core"
)

type Student struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	MiddleName      string    `json:"middleName,omitempty"`
	LastName        string    `json:"lastName"`
	CourseName      string    `json:"courseName"`
	BatchTiming     string    `json:"timing"`
	MobileNumber    string    `json:"mobileNumber"`
	AadhaarNumber   string    `json:"aadharNumber,omitempty"`
	CertificateName string    `json:"certificateName,omitempty"`
	PhotoFilename   string    `json:"photoFilename,omitempty"`

	// MKCL portal credentials, recorded once the learner is registered
	LearnerCode string `json:"learner_code,omitempty"`
	EraID       string `json:"era_id,omitempty"`
	EraPassword string `json:"era_password,omitempty"`

	// final exam outcome, recorded after the student sits the exam
	ExamDate   string `json:"exam_date,omitempty"` // YYYY-MM-DD
	EraScore   int    `json:"era_score,omitempty"`
	FinalScore int    `json:"final_score,omitempty"`
	Result     string `json:"result,omitempty"` // pass | fail

	CreatedAt time.Time `json:"createdAt"` // admission date; UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

func (s Student) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.FirstName, s.MiddleName, s.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NewStudent contains information needed to admit a new Student.
type NewStudent struct {
	FirstName       string `json:"firstName" validate:"required"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName" validate:"required"`
	CourseName      string `json:"courseName" validate:"required"`
	BatchTiming     string `json:"timing" validate:"required"`
	MobileNumber    string `json:"mobileNumber" validate:"required,mobile"`
	AadhaarNumber   string `json:"aadharNumber" validate:"omitempty,aadhaar"`
	CertificateName string `json:"certificateName"`
	PhotoFilename   string `json:"photoFilename"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.MiddleName = core.CleanString(ns.MiddleName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.CourseName = core.CleanString(ns.CourseName)
	ns.BatchTiming = core.CleanString(ns.BatchTiming)
	ns.MobileNumber = core.CleanString(ns.MobileNumber)
	ns.AadhaarNumber = core.CleanString(ns.AadhaarNumber)
	ns.CertificateName = core.CleanString(ns.CertificateName)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName"`
	CourseName      string `json:"courseName"`
	BatchTiming     string `json:"timing"`
	MobileNumber    string `json:"mobileNumber" validate:"omitempty,mobile"`
	CertificateName string `json:"certificateName"`
	PhotoFilename   string `json:"photoFilename"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	if name := core.CleanString(us.FirstName); name != "" {
		us.FirstName = name
	} else {
		us.FirstName = orig.FirstName
	}
	us.MiddleName = core.CleanString(us.MiddleName)
	if name := core.CleanString(us.LastName); name != "" {
		us.LastName = name
	} else {
		us.LastName = orig.LastName
	}
	if course := core.CleanString(us.CourseName); course != "" {
		us.CourseName = course
	} else {
		us.CourseName = orig.CourseName
	}
	if timing := core.CleanString(us.BatchTiming); timing != "" {
		us.BatchTiming = timing
	} else {
		us.BatchTiming = orig.BatchTiming
	}
	if mobile := core.CleanString(us.MobileNumber); mobile != "" {
		us.MobileNumber = mobile
	} else {
		us.MobileNumber = orig.MobileNumber
	}
	return validate.Struct(us)
}

// LearnerCredentials is the MKCL portal access record kept on the student.
type LearnerCredentials struct {
	LearnerCode string `json:"learner_code"`
	EraID       string `json:"era_id"`
	EraPassword string `json:"era_password"`
}

func (lc *LearnerCredentials) Validate(validate *validator.Validate) error {
	lc.LearnerCode = core.CleanString(lc.LearnerCode)
	lc.EraID = core.CleanString(lc.EraID)
	lc.EraPassword = core.CleanString(lc.EraPassword)
	return validate.Struct(lc)
}

// ExamDetails is the final exam outcome recorded on the student.
type ExamDetails struct {
	ExamDate   string `json:"exam_date" validate:"required,isodate"`
	EraScore   int    `json:"era_score" validate:"min=0"`
	FinalScore int    `json:"final_score" validate:"min=0"`
	Result     string `json:"result" validate:"required,examresult"`
}

func (ed *ExamDetails) Validate(validate *validator.Validate) error {
	ed.ExamDate = core.CleanString(ed.ExamDate)
	ed.Result = core.CleanString(ed.Result)
	return validate.Struct(ed)
}

type QueryFilter struct {
	// Search does a case-insensitive match on one of the Student's names or MobileNumber.
	Search string `query:"search"`
	Course string `query:"course"`
	Batch  string `query:"batch_timing"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Course == "" && qf.Batch == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Course = core.CleanString(qf.Course)
	qf.Batch = core.CleanString(qf.Batch)
}
