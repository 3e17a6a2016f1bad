package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/blacklytning/alc/core/student"
)

// studentRow mirrors the student table.
type studentRow struct {
	ID              string      `db:"id"`
	FirstName       string      `db:"first_name"`
	MiddleName      null.String `db:"middle_name"`
	LastName        string      `db:"last_name"`
	CourseName      string      `db:"course_name"`
	BatchTiming     string      `db:"batch_timing"`
	MobileNumber    string      `db:"mobile_number"`
	AadhaarNumber   null.String `db:"aadhaar_number"`
	CertificateName null.String `db:"certificate_name"`
	PhotoFilename   null.String `db:"photo_filename"`
	LearnerCode     null.String `db:"learner_code"`
	EraID           null.String `db:"era_id"`
	EraPassword     null.String `db:"era_password"`
	ExamDate        null.String `db:"exam_date"`
	EraScore        null.Int    `db:"era_score"`
	FinalScore      null.Int    `db:"final_score"`
	Result          null.String `db:"result"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) row(std student.Student) studentRow {
	return studentRow{
		ID:              std.ID,
		FirstName:       std.FirstName,
		MiddleName:      null.NewString(std.MiddleName, std.MiddleName != ""),
		LastName:        std.LastName,
		CourseName:      std.CourseName,
		BatchTiming:     std.BatchTiming,
		MobileNumber:    std.MobileNumber,
		AadhaarNumber:   null.NewString(std.AadhaarNumber, std.AadhaarNumber != ""),
		CertificateName: null.NewString(std.CertificateName, std.CertificateName != ""),
		PhotoFilename:   null.NewString(std.PhotoFilename, std.PhotoFilename != ""),
		LearnerCode:     null.NewString(std.LearnerCode, std.LearnerCode != ""),
		EraID:           null.NewString(std.EraID, std.EraID != ""),
		EraPassword:     null.NewString(std.EraPassword, std.EraPassword != ""),
		ExamDate:        null.NewString(std.ExamDate, std.ExamDate != ""),
		EraScore:        null.NewInt(std.EraScore, std.ExamDate != ""),
		FinalScore:      null.NewInt(std.FinalScore, std.ExamDate != ""),
		Result:          null.NewString(std.Result, std.Result != ""),
		CreatedAt:       std.CreatedAt.UTC(),
		UpdatedAt:       std.UpdatedAt.UTC(),
	}
}

func (repo studentRepository) unrow(row studentRow) student.Student {
	return student.Student{
		ID:              row.ID,
		FirstName:       row.FirstName,
		MiddleName:      row.MiddleName.String,
		LastName:        row.LastName,
		CourseName:      row.CourseName,
		BatchTiming:     row.BatchTiming,
		MobileNumber:    row.MobileNumber,
		AadhaarNumber:   row.AadhaarNumber.String,
		CertificateName: row.CertificateName.String,
		PhotoFilename:   row.PhotoFilename.String,
		LearnerCode:     row.LearnerCode.String,
		EraID:           row.EraID.String,
		EraPassword:     row.EraPassword.String,
		ExamDate:        row.ExamDate.String,
		EraScore:        row.EraScore.Int,
		FinalScore:      row.FinalScore.Int,
		Result:          row.Result.String,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func (repo studentRepository) unrowSlice(rows []studentRow) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.unrow(row))
	}
	return students
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	row := repo.row(std)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, first_name, middle_name, last_name, course_name, batch_timing,
		                     mobile_number, aadhaar_number, certificate_name, photo_filename,
		                     learner_code, era_id, era_password, exam_date, era_score, final_score, result,
		                     created_at, updated_at)
		VALUES (:id, :first_name, :middle_name, :last_name, :course_name, :batch_timing,
		        :mobile_number, :aadhaar_number, :certificate_name, :photo_filename,
		        :learner_code, :era_id, :era_password, :exam_date, :era_score, :final_score, :result,
		        :created_at, :updated_at)`, row)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return repo.unrow(row), nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY first_name, last_name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return repo.unrowSlice(rows), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return repo.unrow(row), nil
}

func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	q := `SELECT * FROM student WHERE 1=1`
	var args []interface{}

	// students with any name or the mobile number matching the search keyword
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += ` AND (first_name ILIKE $1 OR middle_name ILIKE $1 OR last_name ILIKE $1 OR mobile_number ILIKE $1)`
	}
	if filter.Course != "" {
		args = append(args, filter.Course)
		q += ` AND course_name = $` + itoa(len(args))
	}
	if filter.Batch != "" {
		args = append(args, filter.Batch)
		q += ` AND batch_timing = $` + itoa(len(args))
	}
	q += ` ORDER BY first_name, last_name`

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	return repo.unrowSlice(rows), nil
}

func (repo studentRepository) QueryBatchTimings(ctx context.Context) ([]string, error) {
	var timings []string
	err := repo.db.SelectContext(ctx, &timings, `SELECT DISTINCT batch_timing FROM student ORDER BY batch_timing`)
	if err != nil {
		return nil, errors.Wrap(err, "querying batch timings")
	}
	return timings, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	row := repo.row(std)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE student
		SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name,
		    course_name = :course_name, batch_timing = :batch_timing, mobile_number = :mobile_number,
		    aadhaar_number = :aadhaar_number, certificate_name = :certificate_name,
		    photo_filename = :photo_filename, learner_code = :learner_code, era_id = :era_id,
		    era_password = :era_password, exam_date = :exam_date, era_score = :era_score,
		    final_score = :final_score, result = :result, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.unrow(row), nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}
