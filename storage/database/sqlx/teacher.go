package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core/teacher"
)

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

// dbTeacher maps the nullable columns; an empty Email is stored as NULL so
// the unique constraint only applies to real addresses.
type dbTeacher struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Phone           string         `db:"phone"`
	Email           sql.NullString `db:"email"`
	Qualification   sql.NullString `db:"qualification"`
	Subject         sql.NullString `db:"subject"`
	JoiningDate     time.Time      `db:"joining_date"`
	CredentialsFile sql.NullString `db:"credentials_file"`
}

func (repo teacherRepository) pack(tch teacher.Teacher) dbTeacher {
	return dbTeacher{
		ID:              tch.ID,
		Name:            tch.Name,
		Phone:           tch.Phone,
		Email:           sql.NullString{String: tch.Email, Valid: tch.Email != ""},
		Qualification:   sql.NullString{String: tch.Qualification, Valid: tch.Qualification != ""},
		Subject:         sql.NullString{String: tch.Subject, Valid: tch.Subject != ""},
		JoiningDate:     tch.JoiningDate,
		CredentialsFile: sql.NullString{String: tch.CredentialsFile, Valid: tch.CredentialsFile != ""},
	}
}

func (repo teacherRepository) unpack(tch dbTeacher) teacher.Teacher {
	return teacher.Teacher{
		ID:              tch.ID,
		Name:            tch.Name,
		Phone:           tch.Phone,
		Email:           tch.Email.String,
		Qualification:   tch.Qualification.String,
		Subject:         tch.Subject.String,
		JoiningDate:     tch.JoiningDate,
		CredentialsFile: tch.CredentialsFile.String,
	}
}

func (repo teacherRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return teacher.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo teacherRepository) CheckTeacherEmailUniqueness(ctx context.Context, email string, excluded ...teacher.Teacher) error {
	if email == "" {
		return nil
	}

	q := `SELECT EXISTS (SELECT 1 FROM teacher WHERE email = ?)`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, tch := range excluded {
			ids = append(ids, tch.ID)
		}
		q = `SELECT EXISTS (SELECT 1 FROM teacher WHERE email = ? AND id NOT IN (?))`
		var err error
		if q, args, err = sqlx.In(q, email, ids); err != nil {
			return errors.Wrap(err, "building teacher uniqueness query")
		}
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking teacher email uniqueness")
	}
	if exists {
		return teacher.ErrEmailExists
	}
	return nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	tch.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO teacher (id, name, phone, email, qualification, subject, joining_date, credentials_file)
		VALUES (:id, :name, :phone, :email, :qualification, :subject, :joining_date, :credentials_file)`,
		repo.pack(tch),
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	if _, err := uuid.Parse(id); err != nil {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	var tch dbTeacher
	err := repo.db.GetContext(ctx, &tch, `SELECT * FROM teacher WHERE id = $1`, id)
	if err != nil {
		return teacher.Teacher{}, repo.trapNoRowsErr(err, "finding teacher by ID")
	}
	return repo.unpack(tch), nil
}

func (repo teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var rows []dbTeacher
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM teacher ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, tch := range rows {
		teachers = append(teachers, repo.unpack(tch))
	}
	return teachers, nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE teacher
		SET name = :name, phone = :phone, email = :email, qualification = :qualification,
		    subject = :subject, credentials_file = :credentials_file
		WHERE id = :id`,
		repo.pack(tch),
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.GetTeacher(ctx, tch.ID)
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return teacher.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM teacher WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}
