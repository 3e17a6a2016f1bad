package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/blacklytning/alc/core/attendance"
	"github.com/blacklytning/alc/core/fee"
	"github.com/blacklytning/alc/core/student"
	"github.com/blacklytning/alc/core/user"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	firstName, lastName, courseName, batchTiming string,
	admittedAt ...time.Time,
) student.Student {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(admittedAt) > 0 {
		tstamp = admittedAt[0].UTC()
	}
	std, err := repo.CreateStudent(context.Background(), student.Student{
		FirstName:    firstName,
		LastName:     lastName,
		CourseName:   courseName,
		BatchTiming:  batchTiming,
		MobileNumber: "9876543210",
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreatePayment(
	t *testing.T,
	repo fee.Repository,
	studentID string,
	amount int64,
	paymentDate string,
) fee.Payment {
	t.Helper()

	pay, err := repo.CreatePayment(context.Background(), fee.Payment{
		StudentID:   studentID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: paymentDate,
		Method:      fee.MethodCash,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}
	return pay
}

func MarkAttendance(
	t *testing.T,
	repo attendance.Repository,
	studentID, batchTiming string,
	date, status string,
) {
	t.Helper()

	err := repo.UpsertMarks(context.Background(), []attendance.Mark{{
		StudentID:   studentID,
		Date:        date,
		BatchTiming: batchTiming,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}})
	if err != nil {
		t.Fatalf("MarkAttendance() failed: %v", err)
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, role string,
	isActive bool,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	ctx := context.Background()
	if err := repo.CreateUser(ctx, usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := repo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
