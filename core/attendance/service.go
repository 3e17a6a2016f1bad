package attendance

import (
	"context"
	"net/mail"
	"sort"
	"sync"
	"time"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/student"
)

type (
	Repository interface {
		// UpsertMarks saves one batch's marks for a day; an existing mark for
		// the same (student, date) is overwritten.
		UpsertMarks(ctx context.Context, marks []Mark) error
		QueryMarksByStudent(ctx context.Context, studentID string) ([]Mark, error)
		// QueryMarksByStudents bulk-fetches full histories for many students
		// in one round trip, keyed by student id.
		QueryMarksByStudents(ctx context.Context, studentIDs []string) (map[string][]Mark, error)
		QueryDayHistory(ctx context.Context, date, batchTiming string) ([]DayRow, error)
	}

	// StudentDirectory is the slice of the enrollment collaborator the
	// analyzer needs: resolving a batch to its students.
	StudentDirectory interface {
		FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		mailSvc  core.EmailService
	}
)

func NewService(repo Repository, students StudentDirectory, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, students: students, mailSvc: mailSvc}
}

// validMarkRow reports whether a stored mark is usable for streak analysis.
// Broken rows are skipped and counted, never fatal to the whole scan.
func validMarkRow(m Mark) bool {
	if m.Status != StatusPresent && m.Status != StatusAbsent {
		return false
	}
	if _, err := time.Parse("2006-01-02", m.Date); err != nil {
		return false
	}
	return true
}

// AnalyzeStreak scans one student's full mark history for the longest run of
// consecutive absences. Pure function over an immutable snapshot; marks are
// ordered by their zero-padded ISO date strings (lexicographic comparison),
// duplicates for one date keeping their relative order. Ties between equal
// maximal runs keep the first one encountered.
func AnalyzeStreak(marks []Mark) Streak {
	sorted := make([]Mark, len(marks))
	copy(sorted, marks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	var result Streak
	var current int
	var currentDates []string
	for _, m := range sorted {
		if !validMarkRow(m) {
			result.Skipped++
			continue
		}
		if m.Status == StatusAbsent {
			current++
			currentDates = append(currentDates, m.Date)
			if current > result.Length {
				result.Length = current
				result.Dates = append([]string(nil), currentDates...)
			}
		} else {
			current = 0
			currentDates = nil
		}
	}
	return result
}

// AnalyzeDefaulter reports whether the student's history makes them a
// defaulter at the given threshold; ok is false for near misses, empty and
// missing histories alike.
func AnalyzeDefaulter(std student.Student, marks []Mark, threshold int) (Defaulter, bool) {
	if threshold <= 0 {
		threshold = core.Conf.Attendance.DefaulterThreshold
	}
	streak := AnalyzeStreak(marks)
	if streak.Length < threshold {
		return Defaulter{}, false
	}
	return Defaulter{
		Student:      std,
		AbsentStreak: streak.Length,
		AbsentDates:  streak.Dates,
	}, true
}

// FilterDayHistory filters one day's rows by status, preserving their
// original relative order. FilterAll returns the rows untouched.
func FilterDayHistory(rows []DayRow, statusFilter string) []DayRow {
	if statusFilter == "" || statusFilter == FilterAll {
		return rows
	}
	filtered := make([]DayRow, 0, len(rows))
	for _, r := range rows {
		if r.Status == statusFilter {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// MarkDay validates and saves one batch's attendance for a day.
func (svc *Service) MarkDay(ctx context.Context, newMarks []NewMark) ([]Mark, error) {
	now := time.Now().UTC()
	marks := make([]Mark, 0, len(newMarks))
	for _, nm := range newMarks {
		nm := nm
		if err := nm.Validate(core.Validate); err != nil {
			return nil, err
		}
		marks = append(marks, Mark{
			StudentID:   nm.StudentID,
			Date:        nm.Date,
			BatchTiming: nm.BatchTiming,
			Status:      nm.Status,
			CreatedAt:   now,
		})
	}
	if err := svc.repo.UpsertMarks(ctx, marks); err != nil {
		return nil, err
	}
	return marks, nil
}

func (svc *Service) StudentHistory(ctx context.Context, studentID string) ([]Mark, error) {
	marks, err := svc.repo.QueryMarksByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].Date < marks[j].Date })
	return marks, nil
}

// DayHistory returns the (date, batch) history view, optionally filtered by
// status.
func (svc *Service) DayHistory(ctx context.Context, date, batchTiming, statusFilter string) ([]DayRow, error) {
	rows, err := svc.repo.QueryDayHistory(ctx, date, batchTiming)
	if err != nil {
		return nil, err
	}
	return FilterDayHistory(rows, statusFilter), nil
}

// ScanDefaulters analyzes every student in a batch. Histories are
// bulk-fetched in one query, then the per-student analyses fan out
// concurrently: they are independent pure computations with no ordering
// dependency. Results are aggregated once and ordered by student name.
func (svc *Service) ScanDefaulters(ctx context.Context, batchTiming string, threshold int) ([]Defaulter, error) {
	students, err := svc.students.FilterStudents(ctx, student.QueryFilter{Batch: batchTiming})
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return []Defaulter{}, nil
	}

	ids := make([]string, 0, len(students))
	for _, std := range students {
		ids = append(ids, std.ID)
	}
	histories, err := svc.repo.QueryMarksByStudents(ctx, ids)
	if err != nil {
		return nil, err
	}

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		defaulters []Defaulter
	)
	for _, std := range students {
		std := std
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, ok := AnalyzeDefaulter(std, histories[std.ID], threshold); ok {
				mu.Lock()
				defaulters = append(defaulters, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(defaulters, func(i, j int) bool {
		return defaulters[i].Student.FullName() < defaulters[j].Student.FullName()
	})
	return defaulters, nil
}

// NotifyDefaulters scans a batch and emails the follow-up list to the office.
// No email is sent when the batch has no defaulters.
func (svc *Service) NotifyDefaulters(ctx context.Context, batchTiming string, threshold int) ([]Defaulter, error) {
	defaulters, err := svc.ScanDefaulters(ctx, batchTiming, threshold)
	if err != nil {
		return nil, err
	}
	if len(defaulters) == 0 || svc.mailSvc == nil {
		return defaulters, nil
	}

	subject := "Attendance Defaulters"
	if batchTiming != "" {
		subject += " - " + batchTiming
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{core.Conf.DefaultFromEmail},
		Subject:      subject,
		TemplateName: "defaulter-notice",
		TemplateData: DefaulterNotice{BatchTiming: batchTiming, Defaulters: defaulters},
	})
	return defaulters, nil
}
