package student

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/blacklytning/alc/core"
)

func validNewStudent() NewStudent {
	return NewStudent{
		FirstName:    "Asha",
		LastName:     "Pawar",
		CourseName:   "MS-CIT",
		BatchTiming:  "10AM-12PM",
		MobileNumber: "9876543210",
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected validator.ValidationErrors, got %T: %v", err, err)
	}
	flds := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		flds[vErr.Field()] = vErr.Tag()
	}
	return flds
}

func Test_NewStudent_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*NewStudent)
		wantFld  string
		wantTag  string
	}{
		{name: "valid", mutate: func(ns *NewStudent) {}},
		{
			name:    "missing first name",
			mutate:  func(ns *NewStudent) { ns.FirstName = "  " },
			wantFld: "firstName", wantTag: "required",
		},
		{
			name:    "mobile not 10 digits",
			mutate:  func(ns *NewStudent) { ns.MobileNumber = "12345" },
			wantFld: "mobileNumber", wantTag: "mobile",
		},
		{
			name:    "mobile starts below 6",
			mutate:  func(ns *NewStudent) { ns.MobileNumber = "1876543210" },
			wantFld: "mobileNumber", wantTag: "mobile",
		},
		{
			name:    "aadhaar not 12 digits",
			mutate:  func(ns *NewStudent) { ns.AadhaarNumber = "1234" },
			wantFld: "aadharNumber", wantTag: "aadhaar",
		},
		{
			name:   "aadhaar optional",
			mutate: func(ns *NewStudent) { ns.AadhaarNumber = "" },
		},
		{
			name:   "valid aadhaar",
			mutate: func(ns *NewStudent) { ns.AadhaarNumber = "123456789012" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := validNewStudent()
			tt.mutate(&ns)

			err := ns.Validate(core.Validate)
			if tt.wantFld == "" {
				assert.NoError(t, err)
				return
			}
			flds := fieldErrors(t, err)
			assert.Equal(t, tt.wantTag, flds[tt.wantFld])
		})
	}
}

func Test_UpdateStudent_Validate_fallsBackToOriginal(t *testing.T) {
	orig := Student{
		FirstName:    "Asha",
		LastName:     "Pawar",
		CourseName:   "MS-CIT",
		BatchTiming:  "10AM-12PM",
		MobileNumber: "9876543210",
	}
	us := UpdateStudent{CourseName: "DTP - CIT"}

	assert.NoError(t, us.Validate(orig, core.Validate))
	assert.Equal(t, "Asha", us.FirstName)
	assert.Equal(t, "Pawar", us.LastName)
	assert.Equal(t, "DTP - CIT", us.CourseName)
	assert.Equal(t, "9876543210", us.MobileNumber)
}

func Test_LearnerCredentials_Validate(t *testing.T) {
	lc := LearnerCredentials{LearnerCode: " LC-001 ", EraID: "era42", EraPassword: " s3cret "}

	assert.NoError(t, lc.Validate(core.Validate))
	assert.Equal(t, "LC-001", lc.LearnerCode)
	assert.Equal(t, "s3cret", lc.EraPassword)

	// every credential field is optional
	empty := LearnerCredentials{}
	assert.NoError(t, empty.Validate(core.Validate))
}

func Test_ExamDetails_Validate(t *testing.T) {
	validExam := func() ExamDetails {
		return ExamDetails{ExamDate: "2024-03-15", EraScore: 38, FinalScore: 72, Result: ResultPass}
	}

	tests := []struct {
		name    string
		mutate  func(*ExamDetails)
		wantFld string
		wantTag string
	}{
		{name: "valid pass", mutate: func(ed *ExamDetails) {}},
		{name: "valid fail", mutate: func(ed *ExamDetails) { ed.Result = ResultFail }},
		{
			name:    "missing exam date",
			mutate:  func(ed *ExamDetails) { ed.ExamDate = "" },
			wantFld: "exam_date", wantTag: "required",
		},
		{
			name:    "impossible exam date",
			mutate:  func(ed *ExamDetails) { ed.ExamDate = "2024-13-40" },
			wantFld: "exam_date", wantTag: "isodate",
		},
		{
			name:    "unknown result",
			mutate:  func(ed *ExamDetails) { ed.Result = "absent" },
			wantFld: "result", wantTag: "examresult",
		},
		{
			name:    "negative era score",
			mutate:  func(ed *ExamDetails) { ed.EraScore = -1 },
			wantFld: "era_score", wantTag: "min",
		},
		{
			name:    "negative final score",
			mutate:  func(ed *ExamDetails) { ed.FinalScore = -5 },
			wantFld: "final_score", wantTag: "min",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := validExam()
			tt.mutate(&ed)

			err := ed.Validate(core.Validate)
			if tt.wantFld == "" {
				assert.NoError(t, err)
				return
			}
			flds := fieldErrors(t, err)
			assert.Equal(t, tt.wantTag, flds[tt.wantFld])
		})
	}
}

func Test_Student_FullName(t *testing.T) {
	assert.Equal(t, "Asha Pawar", Student{FirstName: "Asha", LastName: "Pawar"}.FullName())
	assert.Equal(t, "Asha R Pawar", Student{FirstName: "Asha", MiddleName: "R", LastName: "Pawar"}.FullName())
	assert.Equal(t, "Asha", Student{FirstName: "Asha"}.FullName())
}
