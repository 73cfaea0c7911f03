package teacher

import (
	"context"
	"errors"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/kasuku/academia/core"
)

var (
	ErrNotFound    = errors.New("teacher not found")
	ErrEmailExists = errors.New("a teacher with this email already exists")
	// ErrUnsupportedFile rejects credential uploads whose extension is not allowed.
	ErrUnsupportedFile = errors.New("unsupported credentials file type")
)

type (
	Repository interface {
		// CheckTeacherEmailUniqueness reports ErrEmailExists when a non-empty
		// email is already taken by a teacher outside the exclusion list.
		CheckTeacherEmailUniqueness(ctx context.Context, email string, excluded ...Teacher) error
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
	}

	// FileStore keeps at most one credential document per teacher on disk.
	FileStore interface {
		// Save stores the upload under the teacher's namespace and returns
		// the sanitized filename; ErrUnsupportedFile when the extension is
		// not one of the allowed document types.
		Save(teacherID, filename string, src io.Reader) (string, error)
		Remove(teacherID, filename string) error
	}

	// Upload is a pending credentials document attached to a create/update request.
	Upload struct {
		Filename string
		Content  io.Reader
	}

	Service struct {
		repo  Repository
		files FileStore
	}
)

func NewService(repo Repository, files FileStore) *Service {
	return &Service{repo: repo, files: files}
}

func (svc *Service) CheckEmailUniqueness(email string, excluded ...Teacher) error {
	if email == "" {
		return nil
	}
	if err := svc.repo.CheckTeacherEmailUniqueness(context.Background(), email, excluded...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create registers a teacher and stores the credentials upload, if any.
// An upload with a disallowed extension is skipped; the teacher is still
// created, with no credentials file recorded.
func (svc *Service) Create(ctx context.Context, nt NewTeacher, upload *Upload) (Teacher, error) {
	tch := Teacher{
		Name:          nt.Name,
		Phone:         nt.Phone,
		Email:         nt.Email,
		Qualification: nt.Qualification,
		Subject:       nt.Subject,
		JoiningDate:   time.Now().UTC(),
	}
	tch, err := svc.repo.CreateTeacher(ctx, tch)
	if err != nil {
		return Teacher{}, err
	}

	if upload != nil {
		filename, err := svc.files.Save(tch.ID, upload.Filename, upload.Content)
		switch pkgerrors.Cause(err) {
		case nil:
			tch.CredentialsFile = filename
			if tch, err = svc.repo.UpdateTeacher(ctx, tch); err != nil {
				return Teacher{}, err
			}
		case ErrUnsupportedFile:
			// skipped; teacher stays without a credentials file
		default:
			return Teacher{}, pkgerrors.Wrap(err, "storing credentials file")
		}
	}
	return tch, nil
}

// Update modifies a teacher and replaces the credentials file when a valid
// upload is provided; the prior file is removed from disk first.
func (svc *Service) Update(ctx context.Context, orig Teacher, ut UpdateTeacher, upload *Upload) (Teacher, error) {
	tch := Teacher{
		ID:              orig.ID,
		Name:            ut.Name,
		Phone:           ut.Phone,
		Email:           ut.Email,
		Qualification:   ut.Qualification,
		Subject:         ut.Subject,
		JoiningDate:     orig.JoiningDate,
		CredentialsFile: orig.CredentialsFile,
	}

	if upload != nil {
		filename, err := svc.files.Save(tch.ID, upload.Filename, upload.Content)
		switch pkgerrors.Cause(err) {
		case nil:
			if orig.CredentialsFile != "" && orig.CredentialsFile != filename {
				if err := svc.files.Remove(tch.ID, orig.CredentialsFile); err != nil {
					return Teacher{}, pkgerrors.Wrap(err, "removing previous credentials file")
				}
			}
			tch.CredentialsFile = filename
		case ErrUnsupportedFile:
			// skipped; current file stays
		default:
			return Teacher{}, pkgerrors.Wrap(err, "storing credentials file")
		}
	}

	return svc.repo.UpdateTeacher(ctx, tch)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}

// Delete removes a teacher and their credentials file, if one is on disk.
func (svc *Service) Delete(ctx context.Context, id string) error {
	tch, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	if tch.CredentialsFile != "" {
		if err = svc.files.Remove(id, tch.CredentialsFile); err != nil {
			return pkgerrors.Wrap(err, "removing credentials file")
		}
	}
	return nil
}
