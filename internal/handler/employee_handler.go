package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/service"
	"github.com/locvowork/hr_data_bridge/internal/service/serviceutils"
)

type EmployeeHandler struct {
	svc service.EmployeeService
}

func NewEmployeeHandler(svc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.svc.Add(c.Request().Context(), req.ToDomain()); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmployee) {
			return serviceutils.ResponseError(c, http.StatusConflict, "Employee already exists", err)
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee data", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to create employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee created successfully", nil)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Employee not found", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to get employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", emp)
}

func (h *EmployeeHandler) UpdateSalaryHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	var req UpdateSalaryRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.svc.UpdateSalary(c.Request().Context(), id, req.Salary); err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Employee not found", err)
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid salary", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to update salary", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Salary updated successfully", nil)
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	filter := domain.EmployeeFilter{
		Department: c.QueryParam("department"),
		Limit:      limit,
		Offset:     offset,
	}

	employees, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list employees", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees listed successfully", employees)
}

func (h *EmployeeHandler) TenureHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	report, err := h.svc.Tenure(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Employee not found", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to compute tenure", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Tenure computed successfully", report)
}
