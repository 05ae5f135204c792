package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/repository/builder"
)

type departmentRepository struct {
	db *sql.DB
}

// NewDepartmentRepository creates a new instance of DepartmentRepository
func NewDepartmentRepository(db *sql.DB) domain.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) GetByID(ctx context.Context, id int) (*domain.Department, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("department_id", "department_name", "location").
		From("departments").
		Where("department_id = ?", id).
		Build()

	row := r.db.QueryRowContext(ctx, query, args...)
	var d domain.Department
	if err := row.Scan(&d.DepartmentID, &d.DepartmentName, &d.Location); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("department %d: %w", id, domain.ErrDepartmentNotFound)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &d, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	b := builder.NewSQLBuilder()
	query, args := b.Select("department_id", "department_name", "location").
		From("departments").
		OrderBy("department_id ASC").
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.DepartmentID, &d.DepartmentName, &d.Location); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return departments, nil
}
