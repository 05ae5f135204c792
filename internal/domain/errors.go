package domain

import "errors"

// Sentinel errors returned by the repository layer. They mirror the
// exception classes the stored procedures used to catch: duplicate key,
// not found, and everything else.
var (
	ErrDuplicateEmployee  = errors.New("employee already exists")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentNotFound = errors.New("department not found")
)

// ErrInvalidInput marks validation failures in the service layer so
// handlers can answer 400 instead of 500.
var ErrInvalidInput = errors.New("invalid input")
