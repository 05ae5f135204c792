package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_data_bridge/internal/service"
	"github.com/locvowork/hr_data_bridge/internal/service/serviceutils"
	"github.com/locvowork/hr_data_bridge/pkg/excelreport"
)

type CrossQueryHandler struct {
	svc *service.CrossQueryService
}

func NewCrossQueryHandler(svc *service.CrossQueryService) *CrossQueryHandler {
	return &CrossQueryHandler{svc: svc}
}

// JoinHandler serves the cross-database inner join.
func (h *CrossQueryHandler) JoinHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var joined interface{}
	var err error
	if c.QueryParam("concurrent") == "true" {
		joined, err = h.svc.JoinConcurrent(ctx)
	} else {
		joined, err = h.svc.Join(ctx)
	}
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Cross-database query failed", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Cross-database query executed successfully", joined)
}

// ExportHandler renders the joined view as an xlsx attachment.
func (h *CrossQueryHandler) ExportHandler(c echo.Context) error {
	joined, err := h.svc.Join(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Cross-database query failed", err)
	}

	exporter := excelreport.NewDataExporter()
	exporter.AddSheet("Joined Employees").AddSection(&excelreport.SectionConfig{
		Title:      "Cross-Database Employees",
		ShowHeader: true,
		Data:       joined,
		Columns: []excelreport.ColumnConfig{
			{FieldName: "EmployeeID", Header: "ID", Width: 8},
			{FieldName: "EmployeeName", Header: "Name", Width: 24},
			{FieldName: "Department", Header: "Department", Width: 16},
			{FieldName: "Salary", Header: "Salary", Width: 12},
			{FieldName: "HireDate", Header: "Hire Date", Width: 14},
			{FieldName: "LocalName", Header: "Local Name", Width: 24},
			{FieldName: "LocalDepartment", Header: "Local Department", Width: 16},
			{FieldName: "SyncedAt", Header: "Synced At", Width: 14},
		},
	})

	data, err := exporter.ToBytes()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate excel file", err)
	}

	c.Response().Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", `attachment; filename="joined_employees.xlsx"`)
	c.Response().Header().Set("Content-Transfer-Encoding", "binary")

	_, err = c.Response().Write(data)
	return err
}
