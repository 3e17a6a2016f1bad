package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/student"
)

// Attendance statuses
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"

	// FilterAll disables status filtering on history views.
	FilterAll = "ALL"
)

// Mark is one daily attendance record. One mark per (student, date) pair is
// expected; duplicates are not deduplicated and keep their chronological order.
type Mark struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	BatchTiming string    `json:"batch_timing"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewMark contains one student's mark for a day; a batch's attendance is
// submitted as a list of these.
type NewMark struct {
	StudentID   string `json:"student_id" validate:"required"`
	Date        string `json:"date" validate:"required,isodate"`
	BatchTiming string `json:"batch_timing" validate:"required"`
	Status      string `json:"status" validate:"required,attstatus"`
}

func (nm *NewMark) Validate(validate *validator.Validate) error {
	nm.StudentID = core.CleanString(nm.StudentID)
	nm.Date = core.CleanString(nm.Date)
	nm.BatchTiming = core.CleanString(nm.BatchTiming)
	nm.Status = core.CleanString(nm.Status)
	return validate.Struct(nm)
}

// DayRow is one student's status on a (date, batch) history view.
type DayRow struct {
	StudentID  string `json:"student_id"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Status     string `json:"status"`
}

// Defaulter reports a student whose attendance history contains a run of
// consecutive absences at or above the threshold. Derived, never persisted.
type Defaulter struct {
	Student      student.Student `json:"student"`
	AbsentStreak int             `json:"absent_streak"`
	AbsentDates  []string        `json:"absent_dates"`
}

// DefaulterNotice is the template payload for the follow-up email.
type DefaulterNotice struct {
	BatchTiming string
	Defaulters  []Defaulter
}

// Streak is the outcome of scanning one student's mark history.
type Streak struct {
	Length  int      `json:"length"`
	Dates   []string `json:"dates"`
	Skipped int      `json:"skipped,omitempty"` // malformed marks ignored
}
