package dummydb

import (
	"sync"

	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/student"
	"github.com/kasuku/academia/core/teacher"
)

type (
	DB struct {
		student *studentTable
		payment *paymentTable
		teacher *teacherTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*payment.Payment
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
		payment: &paymentTable{table: make(map[string]*payment.Payment)},
		teacher: &teacherTable{table: make(map[string]*teacher.Teacher)},
	}
	return db, nil
}

// Reset clears all tables. Test helper.
func (db *DB) Reset() {
	db.student.Lock()
	db.student.table = make(map[string]*student.Student)
	db.student.Unlock()

	db.payment.Lock()
	db.payment.table = make(map[string]*payment.Payment)
	db.payment.Unlock()

	db.teacher.Lock()
	db.teacher.table = make(map[string]*teacher.Teacher)
	db.teacher.Unlock()
}
