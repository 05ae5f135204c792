package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/repository/builder"
)

// uniqueViolation is the PostgreSQL error code raised on duplicate key
// inserts, the equivalent of the DUP_VAL_ON_INDEX exception the old
// stored procedures handled.
const uniqueViolation = pq.ErrorCode("23505")

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *sql.DB) domain.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	b := builder.NewSQLBuilder()
	query, args := b.Insert("employees", "employee_id", "employee_name", "department", "salary", "hire_date").
		Values(e.EmployeeID, e.EmployeeName, e.Department, e.Salary, e.HireDate).
		Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("employee %d: %w", e.EmployeeID, domain.ErrDuplicateEmployee)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int) (*domain.Employee, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("employee_id", "employee_name", "department", "salary", "hire_date").
		From("employees").
		Where("employee_id = ?", id).
		Build()

	row := r.db.QueryRowContext(ctx, query, args...)
	var e domain.Employee
	if err := row.Scan(&e.EmployeeID, &e.EmployeeName, &e.Department, &e.Salary, &e.HireDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("employee %d: %w", id, domain.ErrEmployeeNotFound)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}

func (r *employeeRepository) UpdateSalary(ctx context.Context, id int, newSalary decimal.Decimal) error {
	b := builder.NewSQLBuilder()
	query, args := b.Update("employees").
		Set("salary", newSalary).
		Where("employee_id = ?", id).
		Build()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary: %w", err)
	}

	// Zero rows updated is the NO_DATA_FOUND case.
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("employee %d: %w", id, domain.ErrEmployeeNotFound)
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	b := builder.NewSQLBuilder()
	b.Select("employee_id", "employee_name", "department", "salary", "hire_date").
		From("employees").
		OrderBy("employee_id ASC")

	if filter.Department != "" {
		b.Where("department = ?", filter.Department)
	}
	if filter.Limit > 0 {
		b.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		b.Offset(filter.Offset)
	}

	query, args := b.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeName, &e.Department, &e.Salary, &e.HireDate); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) DepartmentBudget(ctx context.Context, department string) (*domain.DepartmentBudget, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("COUNT(*)", "COALESCE(SUM(salary), 0)").
		From("employees").
		Where("department = ?", department).
		Build()

	row := r.db.QueryRowContext(ctx, query, args...)
	budget := domain.DepartmentBudget{Department: department}
	if err := row.Scan(&budget.Headcount, &budget.Total); err != nil {
		return nil, fmt.Errorf("failed to compute department budget: %w", err)
	}
	if budget.Headcount == 0 {
		return nil, fmt.Errorf("department %s: %w", department, domain.ErrDepartmentNotFound)
	}
	return &budget, nil
}
