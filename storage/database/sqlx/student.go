package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
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
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, name, phone, residence, class_name, session, created_at, updated_at)
		VALUES (:id, :name, :phone, :residence, :class_name, :session, :created_at, :updated_at)`,
		std,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var std student.Student
	err := repo.db.GetContext(ctx, &std, `SELECT * FROM student WHERE id = $1`, id)
	if err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return std, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := repo.db.SelectContext(ctx, &students, `SELECT * FROM student ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo studentRepository) searchClauses(filter student.QueryFilter) (string, []interface{}) {
	where := "TRUE"
	args := make([]interface{}, 0, 3)
	add := func(column, val string) {
		if val == "" {
			return
		}
		args = append(args, "%"+val+"%")
		where += fmt.Sprintf(" AND %s ILIKE $%d", column, len(args))
	}
	add("name", filter.Name)
	add("class_name", filter.ClassName)
	add("session", filter.Session)
	return where, args
}

func (repo studentRepository) SearchStudents(ctx context.Context, filter student.QueryFilter, limit, offset int) ([]student.Student, int, error) {
	where, args := repo.searchClauses(filter)

	var total int
	err := repo.db.GetContext(ctx, &total, `SELECT count(*) FROM student WHERE `+where, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting student matches")
	}

	q := fmt.Sprintf(
		`SELECT * FROM student WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	students := make([]student.Student, 0)
	if err = repo.db.SelectContext(ctx, &students, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "searching students")
	}
	return students, total, nil
}

func (repo studentRepository) SearchStudentsByName(ctx context.Context, name string) ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := repo.db.SelectContext(ctx, &students,
		`SELECT * FROM student WHERE name ILIKE $1 ORDER BY name`, "%"+name+"%")
	if err != nil {
		return nil, errors.Wrap(err, "searching students by name")
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE student
		SET name = :name, phone = :phone, residence = :residence,
		    class_name = :class_name, session = :session, updated_at = :updated_at
		WHERE id = :id`,
		std,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudent(ctx, std.ID)
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return student.ErrNotFound
	}
	// payments go with the student via ON DELETE CASCADE
	res, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo studentRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT count(*) FROM student`); err != nil {
		return 0, errors.Wrap(err, "counting students")
	}
	return count, nil
}

func (repo studentRepository) CountStudentsByClass(ctx context.Context) ([]student.ClassCount, error) {
	counts := make([]student.ClassCount, 0)
	err := repo.db.SelectContext(ctx, &counts, `
		SELECT class_name, count(*) AS count
		FROM student
		GROUP BY class_name
		ORDER BY class_name`)
	if err != nil {
		return nil, errors.Wrap(err, "counting students by class")
	}
	return counts, nil
}
