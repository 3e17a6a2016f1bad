package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/blacklytning/alc/core/attendance"
)

type attendanceRepository struct {
	db       *attendanceTable
	students *studentTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance, students: db.student}
}

func markKey(studentID, date string) string {
	return studentID + "|" + date
}

func (repo *attendanceRepository) UpsertMarks(ctx context.Context, marks []attendance.Mark) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, m := range marks {
		m := m
		key := markKey(m.StudentID, m.Date)
		if orig, ok := repo.db.table[key]; ok {
			m.ID = orig.ID
			m.CreatedAt = orig.CreatedAt
		} else {
			m.ID = uuid.New().String()
		}
		repo.db.table[key] = &m
	}
	return nil
}

func (repo *attendanceRepository) queryByStudent(studentID string) []attendance.Mark {
	var marks []attendance.Mark
	for _, m := range repo.db.table {
		if m.StudentID == studentID {
			marks = append(marks, *m)
		}
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].Date < marks[j].Date })
	return marks
}

func (repo *attendanceRepository) QueryMarksByStudent(ctx context.Context, studentID string) ([]attendance.Mark, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryByStudent(studentID), nil
}

func (repo *attendanceRepository) QueryMarksByStudents(ctx context.Context, studentIDs []string) (map[string][]attendance.Mark, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	histories := make(map[string][]attendance.Mark, len(studentIDs))
	for _, id := range studentIDs {
		if marks := repo.queryByStudent(id); marks != nil {
			histories[id] = marks
		}
	}
	return histories, nil
}

func (repo *attendanceRepository) QueryDayHistory(ctx context.Context, date, batchTiming string) ([]attendance.DayRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	repo.students.RLock()
	defer repo.students.RUnlock()

	var rows []attendance.DayRow
	for _, m := range repo.db.table {
		if m.Date != date {
			continue
		}
		if batchTiming != "" && m.BatchTiming != batchTiming {
			continue
		}
		row := attendance.DayRow{StudentID: m.StudentID, Status: m.Status}
		if std, ok := repo.students.table[m.StudentID]; ok {
			row.FirstName = std.FirstName
			row.MiddleName = std.MiddleName
			row.LastName = std.LastName
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FirstName != rows[j].FirstName {
			return rows[i].FirstName < rows[j].FirstName
		}
		return rows[i].LastName < rows[j].LastName
	})
	return rows, nil
}
