// Package dummydb provides in-memory repositories for tests and local hacking.
package dummydb

import (
	"sync"

	"github.com/blacklytning/alc/core/attendance"
	"github.com/blacklytning/alc/core/fee"
	"github.com/blacklytning/alc/core/student"
	"github.com/blacklytning/alc/core/user"
)

type (
	DB struct {
		student    *studentTable
		payment    *paymentTable
		summary    *summaryTable
		attendance *attendanceTable
		user       *userTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*fee.Payment
	}

	summaryTable struct {
		sync.RWMutex
		table map[string]*fee.Summary // keyed by student id
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Mark // keyed by (student id, date)
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:    &studentTable{table: make(map[string]*student.Student)},
		payment:    &paymentTable{table: make(map[string]*fee.Payment)},
		summary:    &summaryTable{table: make(map[string]*fee.Summary)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Mark)},
		user:       &userTable{table: make(map[string]*user.User)},
	}
	return db, nil
}
