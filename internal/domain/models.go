package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee represents a row in the primary employees table.
type Employee struct {
	EmployeeID   int             `json:"employee_id" db:"employee_id"`
	EmployeeName string          `json:"employee_name" db:"employee_name"`
	Department   string          `json:"department" db:"department"`
	Salary       decimal.Decimal `json:"salary" db:"salary"`
	HireDate     time.Time       `json:"hire_date" db:"hire_date"`
}

// Department represents a row in the departments reference table.
// Populated once at initialization, never mutated afterwards.
type Department struct {
	DepartmentID   int    `json:"department_id" db:"department_id"`
	DepartmentName string `json:"department_name" db:"department_name"`
	Location       string `json:"location" db:"location"`
}

// LocalEmployee is the replica-side document stored in Elasticsearch.
// EmployeeID references the primary employees table by convention only;
// nothing enforces that the referenced row exists.
type LocalEmployee struct {
	EmployeeID      int       `json:"employee_id"`
	LocalName       string    `json:"local_name"`
	LocalDepartment string    `json:"local_department"`
	SyncedAt        time.Time `json:"synced_at"`
}

// JoinedEmployee is one row of the cross-database inner join, keyed on
// the shared employee ID.
type JoinedEmployee struct {
	EmployeeID      int             `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	Department      string          `json:"department"`
	Salary          decimal.Decimal `json:"salary"`
	HireDate        time.Time       `json:"hire_date"`
	LocalName       string          `json:"local_name"`
	LocalDepartment string          `json:"local_department"`
	SyncedAt        time.Time       `json:"synced_at"`
}

// EmployeeFilter defines criteria for listing employees
type EmployeeFilter struct {
	Department string
	Limit      int
	Offset     int
}

// TenureReport is the result of the tenure computation for one employee.
type TenureReport struct {
	EmployeeID int       `json:"employee_id"`
	HireDate   time.Time `json:"hire_date"`
	Years      int       `json:"years"`
}

// DepartmentBudget aggregates the salaries of a department.
type DepartmentBudget struct {
	Department string          `json:"department"`
	Headcount  int             `json:"headcount"`
	Total      decimal.Decimal `json:"total"`
}
