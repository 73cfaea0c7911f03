package student

import (
	"context"
	"errors"
	"time"

	"github.com/kasuku/academia/core"
)

// PageSize is the fixed number of results per search page.
const PageSize = 50

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		// SearchStudents applies QueryFilter and returns one page of matches
		// (ordered by name) along with the total match count.
		SearchStudents(ctx context.Context, filter QueryFilter, limit, offset int) ([]Student, int, error)
		// SearchStudentsByName does a case-insensitive substring match on name only.
		SearchStudentsByName(ctx context.Context, name string) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// DeleteStudent removes the student and all of their payments.
		DeleteStudent(ctx context.Context, id string) error
		CountStudents(ctx context.Context) (int, error)
		CountStudentsByClass(ctx context.Context) ([]ClassCount, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:      ns.Name,
		Phone:     ns.Phone,
		Residence: ns.Residence,
		ClassName: ns.ClassName,
		Session:   ns.Session,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) Search(ctx context.Context, filter QueryFilter) ([]Student, core.Pagination, error) {
	filter.Clean()
	pagination := core.Pagination{Page: filter.Page, PageSize: PageSize}
	students, total, err := svc.repo.SearchStudents(ctx, filter, PageSize, pagination.Offset())
	if err != nil {
		return nil, core.Pagination{}, err
	}
	pagination.Total = total
	return students, pagination, nil
}

func (svc *Service) SearchByName(ctx context.Context, name string) ([]Student, error) {
	name = core.CleanString(name)
	if name == "" {
		return nil, nil
	}
	return svc.repo.SearchStudentsByName(ctx, name)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std := Student{
		ID:        id,
		Name:      us.Name,
		Phone:     us.Phone,
		Residence: us.Residence,
		ClassName: us.ClassName,
		Session:   us.Session,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountStudents(ctx)
}

func (svc *Service) ClassDistribution(ctx context.Context) ([]ClassCount, error) {
	return svc.repo.CountStudentsByClass(ctx)
}
