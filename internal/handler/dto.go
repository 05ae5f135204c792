package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/locvowork/hr_data_bridge/internal/domain"
)

// CreateEmployeeRequest is the POST /employees payload.
type CreateEmployeeRequest struct {
	EmployeeID   int             `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Department   string          `json:"department"`
	Salary       decimal.Decimal `json:"salary"`
	HireDate     time.Time       `json:"hire_date"`
}

func (r CreateEmployeeRequest) ToDomain() *domain.Employee {
	return &domain.Employee{
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Department:   r.Department,
		Salary:       r.Salary,
		HireDate:     r.HireDate,
	}
}

// UpdateSalaryRequest is the PUT /employees/:id/salary payload.
type UpdateSalaryRequest struct {
	Salary decimal.Decimal `json:"salary"`
}

// CreateLocalEmployeeRequest is the POST /local-employees payload.
type CreateLocalEmployeeRequest struct {
	EmployeeID      int    `json:"employee_id"`
	LocalName       string `json:"local_name"`
	LocalDepartment string `json:"local_department"`
}

func (r CreateLocalEmployeeRequest) ToDomain(now time.Time) domain.LocalEmployee {
	return domain.LocalEmployee{
		EmployeeID:      r.EmployeeID,
		LocalName:       r.LocalName,
		LocalDepartment: r.LocalDepartment,
		SyncedAt:        now,
	}
}
