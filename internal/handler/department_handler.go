package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/service"
	"github.com/locvowork/hr_data_bridge/internal/service/serviceutils"
)

type DepartmentHandler struct {
	departments domain.DepartmentRepository
	employees   service.EmployeeService
}

func NewDepartmentHandler(departments domain.DepartmentRepository, employees service.EmployeeService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments, employees: employees}
}

func (h *DepartmentHandler) ListHandler(c echo.Context) error {
	departments, err := h.departments.List(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list departments", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Departments listed successfully", departments)
}

func (h *DepartmentHandler) BudgetHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Missing department name", nil)
	}

	budget, err := h.employees.DepartmentBudget(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrDepartmentNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Department not found", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to compute budget", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Department budget computed successfully", budget)
}

func (h *DepartmentHandler) EmployeesHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Missing department name", nil)
	}

	employees, err := h.employees.List(c.Request().Context(), domain.EmployeeFilter{Department: name})
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list department employees", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Department employees listed successfully", employees)
}
