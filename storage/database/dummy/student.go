package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kasuku/academia/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.student.table))
	for _, std := range repo.db.student.table {
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	std.ID = uuid.New().String()
	repo.db.student.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	if std, ok := repo.db.student.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()
	return repo.query(), nil
}

func matches(value, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}

func (repo *studentRepository) SearchStudents(_ context.Context, filter student.QueryFilter, limit, offset int) ([]student.Student, int, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	filtered := make([]student.Student, 0)
	for _, std := range repo.query() {
		if matches(std.Name, filter.Name) &&
			matches(std.ClassName, filter.ClassName) &&
			matches(std.Session, filter.Session) {
			filtered = append(filtered, std)
		}
	}

	total := len(filtered)
	if offset >= total {
		return []student.Student{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func (repo *studentRepository) SearchStudentsByName(_ context.Context, name string) ([]student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	found := make([]student.Student, 0)
	for _, std := range repo.query() {
		if matches(std.Name, name) {
			found = append(found, std)
		}
	}
	return found, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	orig, ok := repo.db.student.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	orig.Name = std.Name
	orig.Phone = std.Phone
	orig.Residence = std.Residence
	orig.ClassName = std.ClassName
	orig.Session = std.Session
	orig.UpdatedAt = std.UpdatedAt
	return *orig, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	if _, ok := repo.db.student.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.student.table, id)

	// cascade payments
	repo.db.payment.Lock()
	defer repo.db.payment.Unlock()
	for pid, pmt := range repo.db.payment.table {
		if pmt.StudentID == id {
			delete(repo.db.payment.table, pid)
		}
	}
	return nil
}

func (repo *studentRepository) CountStudents(_ context.Context) (int, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()
	return len(repo.db.student.table), nil
}

func (repo *studentRepository) CountStudentsByClass(_ context.Context) ([]student.ClassCount, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	byClass := make(map[string]int)
	for _, std := range repo.db.student.table {
		byClass[std.ClassName]++
	}

	counts := make([]student.ClassCount, 0, len(byClass))
	for class, count := range byClass {
		counts = append(counts, student.ClassCount{ClassName: class, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].ClassName < counts[j].ClassName })
	return counts, nil
}
