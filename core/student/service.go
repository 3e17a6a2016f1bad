package student

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		QueryBatchTimings(ctx context.Context) ([]string, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Admit(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		FirstName:       ns.FirstName,
		MiddleName:      ns.MiddleName,
		LastName:        ns.LastName,
		CourseName:      ns.CourseName,
		BatchTiming:     ns.BatchTiming,
		MobileNumber:    ns.MobileNumber,
		AadhaarNumber:   ns.AadhaarNumber,
		CertificateName: ns.CertificateName,
		PhotoFilename:   ns.PhotoFilename,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllStudents(ctx)
	}
	return svc.repo.FilterStudents(ctx, filter)
}

// Batches returns the distinct batch timings across all enrolled students.
func (svc *Service) Batches(ctx context.Context) ([]string, error) {
	return svc.repo.QueryBatchTimings(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.FirstName = us.FirstName
	std.MiddleName = us.MiddleName
	std.LastName = us.LastName
	std.CourseName = us.CourseName
	std.BatchTiming = us.BatchTiming
	std.MobileNumber = us.MobileNumber
	std.CertificateName = us.CertificateName
	if us.PhotoFilename != "" {
		std.PhotoFilename = us.PhotoFilename
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// SetLearnerCredentials records the student's MKCL portal access details.
func (svc *Service) SetLearnerCredentials(ctx context.Context, id string, lc LearnerCredentials) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.LearnerCode = lc.LearnerCode
	std.EraID = lc.EraID
	std.EraPassword = lc.EraPassword
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// SetExamDetails records the student's final exam outcome.
func (svc *Service) SetExamDetails(ctx context.Context, id string, ed ExamDetails) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.ExamDate = ed.ExamDate
	std.EraScore = ed.EraScore
	std.FinalScore = ed.FinalScore
	std.Result = ed.Result
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
