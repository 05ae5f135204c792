package excelreport

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type staffRow struct {
	EmployeeID int
	Name       string
	Department string
	Salary     float64
	HireDate   time.Time
}

func sampleStaff() []staffRow {
	return []staffRow{
		{1, "John Doe", "IT", 75000, time.Date(2020, 3, 16, 0, 0, 0, 0, time.UTC)},
		{2, "Jane Roe", "HR", 65000, time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	return f
}

func TestFluentExport(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Staff").AddSection(&SectionConfig{
		Title:      "Staff Report",
		ShowHeader: true,
		Data:       sampleStaff(),
		Columns: []ColumnConfig{
			{FieldName: "EmployeeID", Header: "ID", Width: 8},
			{FieldName: "Name", Header: "Name", Width: 24},
			{FieldName: "Department", Header: "Department", Width: 16},
			{FieldName: "Salary", Header: "Salary", Width: 12},
			{FieldName: "HireDate", Header: "Hire Date", Width: 14},
		},
	})

	data, err := exporter.ToBytes()
	require.NoError(t, err)

	f := openWorkbook(t, data)
	defer f.Close()

	title, err := f.GetCellValue("Staff", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Staff Report", title)

	header, err := f.GetCellValue("Staff", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Name", header)

	name, err := f.GetCellValue("Staff", "B3")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", name)

	hireDate, err := f.GetCellValue("Staff", "E4")
	require.NoError(t, err)
	assert.Equal(t, "2019-06-01", hireDate)
}

func TestExportWithoutColumnsUsesStructFields(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Raw").AddSection(&SectionConfig{
		ShowHeader: true,
		Data:       sampleStaff(),
	})

	data, err := exporter.ToBytes()
	require.NoError(t, err)

	f := openWorkbook(t, data)
	defer f.Close()

	header, err := f.GetCellValue("Raw", "A1")
	require.NoError(t, err)
	assert.Equal(t, "EmployeeID", header)
}

func TestYAMLTemplateExport(t *testing.T) {
	yamlConfig := `
sheets:
  - name: "Joined Employees"
    sections:
      - id: joined
        title: "Cross-Database Employees"
        show_header: true
        columns:
          - field_name: EmployeeID
            header: "ID"
            width: 8
          - field_name: Salary
            header: "Salary"
            formatter: currency
`
	exporter, err := NewDataExporterFromYaml(yamlConfig)
	require.NoError(t, err)

	exporter.RegisterFormatter("currency", func(v interface{}) interface{} {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("$%.2f", f)
		}
		return v
	})
	exporter.BindSectionData("joined", sampleStaff())

	data, err := exporter.ToBytes()
	require.NoError(t, err)

	f := openWorkbook(t, data)
	defer f.Close()

	salary, err := f.GetCellValue("Joined Employees", "B3")
	require.NoError(t, err)
	assert.Equal(t, "$75000.00", salary)
}

func TestExportRejectsNonSliceData(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Bad").AddSection(&SectionConfig{Data: "not a slice"})

	_, err := exporter.ToBytes()
	assert.Error(t, err)
}

func TestExportUnknownField(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Bad").AddSection(&SectionConfig{
		Data:    sampleStaff(),
		Columns: []ColumnConfig{{FieldName: "Nope"}},
	})

	_, err := exporter.ToBytes()
	assert.Error(t, err)
}
