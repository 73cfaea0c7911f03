package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kasuku/academia/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) query() []teacher.Teacher {
	teachers := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, tch := range repo.db.table {
		teachers = append(teachers, *tch)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	return teachers
}

func (repo *teacherRepository) CheckTeacherEmailUniqueness(_ context.Context, email string, excluded ...teacher.Teacher) error {
	if email == "" {
		return nil
	}

	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.table {
		if tch.Email != email {
			continue
		}
		var excl bool
		for _, ex := range excluded {
			if ex.ID == tch.ID {
				excl = true
				break
			}
		}
		if !excl {
			return teacher.ErrEmailExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tch.ID = uuid.New().String()
	repo.db.table[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) GetTeacher(_ context.Context, id string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.table[id]; ok {
		return *tch, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) QueryAllTeachers(_ context.Context) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[tch.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	orig.Name = tch.Name
	orig.Phone = tch.Phone
	orig.Email = tch.Email
	orig.Qualification = tch.Qualification
	orig.Subject = tch.Subject
	orig.CredentialsFile = tch.CredentialsFile
	return *orig, nil
}

func (repo *teacherRepository) DeleteTeacher(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return teacher.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
