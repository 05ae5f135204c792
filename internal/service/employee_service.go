package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/logger"
)

// EmployeeService exposes the operations the PL/SQL procedures used to
// provide: add employee, update salary, department queries and the
// aggregate reports.
type EmployeeService interface {
	Add(ctx context.Context, e *domain.Employee) error
	Get(ctx context.Context, id int) (*domain.Employee, error)
	UpdateSalary(ctx context.Context, id int, newSalary decimal.Decimal) error
	List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error)
	Tenure(ctx context.Context, id int) (*domain.TenureReport, error)
	DepartmentBudget(ctx context.Context, department string) (*domain.DepartmentBudget, error)
}

type employeeService struct {
	repo domain.EmployeeRepository
	now  func() time.Time
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(repo domain.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo, now: time.Now}
}

func (s *employeeService) Add(ctx context.Context, e *domain.Employee) error {
	if e.EmployeeID <= 0 {
		return fmt.Errorf("employee id %d: %w", e.EmployeeID, domain.ErrInvalidInput)
	}
	if e.Salary.IsNegative() {
		return fmt.Errorf("salary %s for employee %d: %w", e.Salary, e.EmployeeID, domain.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	logger.InfoLog(ctx, "Employee %d added to department %s", e.EmployeeID, e.Department)
	return nil
}

func (s *employeeService) Get(ctx context.Context, id int) (*domain.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *employeeService) UpdateSalary(ctx context.Context, id int, newSalary decimal.Decimal) error {
	if newSalary.IsNegative() {
		return fmt.Errorf("salary %s for employee %d: %w", newSalary, id, domain.ErrInvalidInput)
	}

	if err := s.repo.UpdateSalary(ctx, id, newSalary); err != nil {
		return err
	}
	logger.InfoLog(ctx, "Employee %d salary updated to %s", id, newSalary)
	return nil
}

func (s *employeeService) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	return s.repo.List(ctx, filter)
}

// Tenure computes full years of service since hire_date.
func (s *employeeService) Tenure(ctx context.Context, id int) (*domain.TenureReport, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.TenureReport{
		EmployeeID: e.EmployeeID,
		HireDate:   e.HireDate,
		Years:      fullYearsBetween(e.HireDate, s.now()),
	}, nil
}

func (s *employeeService) DepartmentBudget(ctx context.Context, department string) (*domain.DepartmentBudget, error) {
	return s.repo.DepartmentBudget(ctx, department)
}

// fullYearsBetween counts completed years from start to end, accounting
// for the anniversary not having been reached yet this year.
func fullYearsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	years := end.Year() - start.Year()
	anniversary := start.AddDate(years, 0, 0)
	if anniversary.After(end) {
		years--
	}
	return years
}
