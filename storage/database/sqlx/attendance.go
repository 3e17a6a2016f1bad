package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/blacklytning/alc/core/attendance"
)

// markRow mirrors the attendance table.
type markRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	Date        string    `db:"date"`
	BatchTiming string    `db:"batch_timing"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

type dayRow struct {
	StudentID  string      `db:"student_id"`
	FirstName  string      `db:"first_name"`
	MiddleName null.String `db:"middle_name"`
	LastName   string      `db:"last_name"`
	Status     string      `db:"status"`
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) unrow(row markRow) attendance.Mark {
	return attendance.Mark{
		ID:          row.ID,
		StudentID:   row.StudentID,
		Date:        row.Date,
		BatchTiming: row.BatchTiming,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
	}
}

func (repo attendanceRepository) UpsertMarks(ctx context.Context, marks []attendance.Mark) error {
	if len(marks) == 0 {
		return nil
	}
	rows := make([]markRow, 0, len(marks))
	for _, m := range marks {
		rows = append(rows, markRow{
			ID:          uuid.New().String(),
			StudentID:   m.StudentID,
			Date:        m.Date,
			BatchTiming: m.BatchTiming,
			Status:      m.Status,
			CreatedAt:   m.CreatedAt.UTC(),
		})
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO attendance (id, student_id, date, batch_timing, status, created_at)
		VALUES (:id, :student_id, :date, :batch_timing, :status, :created_at)
		ON CONFLICT (student_id, date)
		DO UPDATE SET batch_timing = EXCLUDED.batch_timing, status = EXCLUDED.status`, rows)
	return errors.Wrap(err, "upserting attendance marks")
}

func (repo attendanceRepository) QueryMarksByStudent(ctx context.Context, studentID string) ([]attendance.Mark, error) {
	var rows []markRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM attendance WHERE student_id = $1 ORDER BY date`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance marks")
	}
	marks := make([]attendance.Mark, 0, len(rows))
	for _, row := range rows {
		marks = append(marks, repo.unrow(row))
	}
	return marks, nil
}

func (repo attendanceRepository) QueryMarksByStudents(ctx context.Context, studentIDs []string) (map[string][]attendance.Mark, error) {
	histories := make(map[string][]attendance.Mark, len(studentIDs))
	if len(studentIDs) == 0 {
		return histories, nil
	}

	q, args, err := sqlx.In(`SELECT * FROM attendance WHERE student_id IN (?) ORDER BY date`, studentIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building attendance query")
	}
	var rows []markRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance marks")
	}
	for _, row := range rows {
		histories[row.StudentID] = append(histories[row.StudentID], repo.unrow(row))
	}
	return histories, nil
}

func (repo attendanceRepository) QueryDayHistory(ctx context.Context, date, batchTiming string) ([]attendance.DayRow, error) {
	q := `
		SELECT a.student_id, s.first_name, s.middle_name, s.last_name, a.status
		FROM attendance a
		JOIN student s ON s.id = a.student_id
		WHERE a.date = $1`
	args := []interface{}{date}
	if batchTiming != "" {
		args = append(args, batchTiming)
		q += ` AND a.batch_timing = $2`
	}
	q += ` ORDER BY s.first_name, s.last_name`

	var rows []dayRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying day history")
	}
	history := make([]attendance.DayRow, 0, len(rows))
	for _, row := range rows {
		history = append(history, attendance.DayRow{
			StudentID:  row.StudentID,
			FirstName:  row.FirstName,
			MiddleName: row.MiddleName.String,
			LastName:   row.LastName,
			Status:     row.Status,
		})
	}
	return history, nil
}
