package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/service/serviceutils"
)

type LocalEmployeeHandler struct {
	store domain.LocalEmployeeStore
}

func NewLocalEmployeeHandler(store domain.LocalEmployeeStore) *LocalEmployeeHandler {
	return &LocalEmployeeHandler{store: store}
}

func (h *LocalEmployeeHandler) CreateHandler(c echo.Context) error {
	var req CreateLocalEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if req.EmployeeID <= 0 {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", nil)
	}

	if err := h.store.Index(c.Request().Context(), req.ToDomain(time.Now().UTC())); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to index local employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Local employee indexed successfully", nil)
}

func (h *LocalEmployeeHandler) GetHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	doc, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Local employee not found", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to get local employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Local employee retrieved successfully", doc)
}

func (h *LocalEmployeeHandler) ListHandler(c echo.Context) error {
	docs, err := h.store.GetAll(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list local employees", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Local employees listed successfully", docs)
}

func (h *LocalEmployeeHandler) DeleteHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Local employee not found", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to delete local employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Local employee deleted successfully", nil)
}
