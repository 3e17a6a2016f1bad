package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/blacklytning/alc/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].FullName() < students[j].FullName() })
	return students
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()

	// students with search keyword matching any name or the mobile number ?
	if filter.Search != "" {
		kw := strings.ToLower(filter.Search)
		var filtered []student.Student
		for _, std := range students {
			if strings.Contains(strings.ToLower(std.FullName()), kw) ||
				strings.Contains(std.MobileNumber, kw) {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}
	if students != nil && filter.Course != "" {
		var filtered []student.Student
		for _, std := range students {
			if std.CourseName == filter.Course {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}
	if students != nil && filter.Batch != "" {
		var filtered []student.Student
		for _, std := range students {
			if std.BatchTiming == filter.Batch {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}

	return students, nil
}

func (repo *studentRepository) QueryBatchTimings(ctx context.Context) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]struct{})
	var timings []string
	for _, std := range repo.db.table {
		if _, ok := seen[std.BatchTiming]; !ok {
			seen[std.BatchTiming] = struct{}{}
			timings = append(timings, std.BatchTiming)
		}
	}
	sort.Strings(timings)
	return timings, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
