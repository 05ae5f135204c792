package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// EmployeeRepository defines the interface for primary-store employee access
type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id int) (*Employee, error)
	UpdateSalary(ctx context.Context, id int, newSalary decimal.Decimal) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)

	// Aggregates
	DepartmentBudget(ctx context.Context, department string) (*DepartmentBudget, error)
}

// DepartmentRepository defines read access to the departments reference table
type DepartmentRepository interface {
	GetByID(ctx context.Context, id int) (*Department, error)
	List(ctx context.Context) ([]Department, error)
}

// LocalEmployeeStore defines the replica-side document operations
type LocalEmployeeStore interface {
	Index(ctx context.Context, doc LocalEmployee) error
	Get(ctx context.Context, employeeID int) (*LocalEmployee, error)
	GetAll(ctx context.Context) ([]LocalEmployee, error)
	Delete(ctx context.Context, employeeID int) error
}
