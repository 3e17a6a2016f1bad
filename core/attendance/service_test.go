package attendance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/attendance"
	"github.com/blacklytning/alc/core/student"
	emailsvc "github.com/blacklytning/alc/services/email"
	dummydb "github.com/blacklytning/alc/storage/database/dummy"
	testutil "github.com/blacklytning/alc/tests"
)

func setup(t *testing.T) (*attendance.Service, attendance.Repository, student.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	attRepo := dummydb.NewAttendanceRepository(db)
	stdRepo := dummydb.NewStudentRepository(db)
	emailsvc.ClearSentMessages()
	svc := attendance.NewService(attRepo, stdRepo, emailsvc.NewConsoleServiceMock())
	return svc, attRepo, stdRepo
}

func Test_Service_MarkDay(t *testing.T) {
	svc, repo, stdRepo := setup(t)
	ctx := context.Background()
	std1 := testutil.CreateStudent(t, stdRepo, "Asha", "Pawar", "MS-CIT", "10AM-12PM")
	std2 := testutil.CreateStudent(t, stdRepo, "Ravi", "Kale", "MS-CIT", "10AM-12PM")

	marks, err := svc.MarkDay(ctx, []attendance.NewMark{
		{StudentID: std1.ID, Date: "2024-01-05", BatchTiming: "10AM-12PM", Status: attendance.StatusPresent},
		{StudentID: std2.ID, Date: "2024-01-05", BatchTiming: "10AM-12PM", Status: attendance.StatusAbsent},
	})
	assert.NoError(t, err)
	assert.Len(t, marks, 2)

	// re-marking the same day overwrites
	_, err = svc.MarkDay(ctx, []attendance.NewMark{
		{StudentID: std2.ID, Date: "2024-01-05", BatchTiming: "10AM-12PM", Status: attendance.StatusPresent},
	})
	assert.NoError(t, err)

	history, err := repo.QueryMarksByStudent(ctx, std2.ID)
	assert.NoError(t, err)
	if assert.Len(t, history, 1) {
		assert.Equal(t, attendance.StatusPresent, history[0].Status)
	}
}

func Test_Service_MarkDay_invalidMark(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.MarkDay(context.Background(), []attendance.NewMark{
		{StudentID: "std-1", Date: "05/01/2024", BatchTiming: "10AM-12PM", Status: "LATE"},
	})
	assert.Error(t, err)

	// well-shaped but impossible date
	_, err = svc.MarkDay(context.Background(), []attendance.NewMark{
		{StudentID: "std-1", Date: "2024-13-40", BatchTiming: "10AM-12PM", Status: attendance.StatusPresent},
	})
	assert.Error(t, err)
}

func Test_Service_DayHistory(t *testing.T) {
	svc, _, stdRepo := setup(t)
	ctx := context.Background()
	std1 := testutil.CreateStudent(t, stdRepo, "Asha", "Pawar", "MS-CIT", "10AM-12PM")
	std2 := testutil.CreateStudent(t, stdRepo, "Ravi", "Kale", "MS-CIT", "10AM-12PM")
	std3 := testutil.CreateStudent(t, stdRepo, "Sima", "Jadhav", "DTP - CIT", "2PM-4PM")

	_, err := svc.MarkDay(ctx, []attendance.NewMark{
		{StudentID: std1.ID, Date: "2024-01-05", BatchTiming: "10AM-12PM", Status: attendance.StatusPresent},
		{StudentID: std2.ID, Date: "2024-01-05", BatchTiming: "10AM-12PM", Status: attendance.StatusAbsent},
		{StudentID: std3.ID, Date: "2024-01-05", BatchTiming: "2PM-4PM", Status: attendance.StatusAbsent},
	})
	assert.NoError(t, err)

	// batch filter
	rows, err := svc.DayHistory(ctx, "2024-01-05", "10AM-12PM", attendance.FilterAll)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	// status filter
	rows, err = svc.DayHistory(ctx, "2024-01-05", "", attendance.StatusAbsent)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.DayHistory(ctx, "2024-01-06", "", attendance.FilterAll)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func Test_Service_ScanDefaulters(t *testing.T) {
	svc, attRepo, stdRepo := setup(t)
	ctx := context.Background()
	batch := "10AM-12PM"

	// Zara: 3 consecutive absences -> defaulter
	zara := testutil.CreateStudent(t, stdRepo, "Zara", "Khan", "MS-CIT", batch)
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		testutil.MarkAttendance(t, attRepo, zara.ID, batch, date, attendance.StatusAbsent)
	}

	// Amit: broken run -> not a defaulter
	amit := testutil.CreateStudent(t, stdRepo, "Amit", "Patil", "MS-CIT", batch)
	testutil.MarkAttendance(t, attRepo, amit.ID, batch, "2024-01-01", attendance.StatusAbsent)
	testutil.MarkAttendance(t, attRepo, amit.ID, batch, "2024-01-02", attendance.StatusPresent)
	testutil.MarkAttendance(t, attRepo, amit.ID, batch, "2024-01-03", attendance.StatusAbsent)

	// Mina: defaulter but in another batch
	mina := testutil.CreateStudent(t, stdRepo, "Mina", "Shinde", "MS-CIT", "2PM-4PM")
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"} {
		testutil.MarkAttendance(t, attRepo, mina.ID, "2PM-4PM", date, attendance.StatusAbsent)
	}

	defaulters, err := svc.ScanDefaulters(ctx, batch, core.Conf.Attendance.DefaulterThreshold)
	assert.NoError(t, err)
	if assert.Len(t, defaulters, 1) {
		assert.Equal(t, zara.ID, defaulters[0].Student.ID)
		assert.Equal(t, 3, defaulters[0].AbsentStreak)
		assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, defaulters[0].AbsentDates)
	}

	// no batch filter: both defaulters, ordered by name
	defaulters, err = svc.ScanDefaulters(ctx, "", 3)
	assert.NoError(t, err)
	if assert.Len(t, defaulters, 2) {
		assert.Equal(t, mina.ID, defaulters[0].Student.ID)
		assert.Equal(t, zara.ID, defaulters[1].Student.ID)
	}

	// a stricter threshold drops the shorter run
	defaulters, err = svc.ScanDefaulters(ctx, "", 4)
	assert.NoError(t, err)
	if assert.Len(t, defaulters, 1) {
		assert.Equal(t, mina.ID, defaulters[0].Student.ID)
	}
}

func Test_Service_NotifyDefaulters(t *testing.T) {
	svc, attRepo, stdRepo := setup(t)
	ctx := context.Background()
	batch := "10AM-12PM"

	zara := testutil.CreateStudent(t, stdRepo, "Zara", "Khan", "MS-CIT", batch)
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		testutil.MarkAttendance(t, attRepo, zara.ID, batch, date, attendance.StatusAbsent)
	}

	defaulters, err := svc.NotifyDefaulters(ctx, batch, 3)
	assert.NoError(t, err)
	assert.Len(t, defaulters, 1)

	if assert.Len(t, emailsvc.SentMessages, 1) {
		msg := emailsvc.SentMessages[0]
		assert.Contains(t, msg.Subject, batch)
		assert.Contains(t, msg.TextContent, "Zara Khan")
		assert.Contains(t, msg.TextContent, "3 consecutive absences")
	}

	// a clean batch sends nothing
	emailsvc.ClearSentMessages()
	defaulters, err = svc.NotifyDefaulters(ctx, "6PM-8PM", 3)
	assert.NoError(t, err)
	assert.Empty(t, defaulters)
	assert.Empty(t, emailsvc.SentMessages)
}

func Test_Service_ScanDefaulters_emptyBatch(t *testing.T) {
	svc, _, _ := setup(t)

	defaulters, err := svc.ScanDefaulters(context.Background(), "6PM-8PM", 3)
	assert.NoError(t, err)
	assert.Empty(t, defaulters)
}

func Test_Service_StudentHistory_sorted(t *testing.T) {
	svc, attRepo, stdRepo := setup(t)
	std := testutil.CreateStudent(t, stdRepo, "Asha", "Pawar", "MS-CIT", "10AM-12PM")
	testutil.MarkAttendance(t, attRepo, std.ID, "10AM-12PM", "2024-01-05", attendance.StatusPresent)
	testutil.MarkAttendance(t, attRepo, std.ID, "10AM-12PM", "2024-01-03", attendance.StatusAbsent)

	marks, err := svc.StudentHistory(context.Background(), std.ID)
	assert.NoError(t, err)
	if assert.Len(t, marks, 2) {
		assert.Equal(t, "2024-01-03", marks[0].Date)
		assert.Equal(t, "2024-01-05", marks[1].Date)
	}
}
