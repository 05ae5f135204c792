package excelreport

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

// DataExporter renders tabular report sheets to an xlsx workbook. Sheets
// and sections can be declared programmatically through the fluent API or
// loaded from a YAML template and bound to data at runtime.
type DataExporter struct {
	template *ReportTemplate
	// data holds data bound to specific section IDs (for YAML flow)
	data map[string]interface{}
	// sheets holds manually added sheets (for programmatic flow)
	sheets     []*SheetBuilder
	formatters map[string]func(interface{}) interface{}
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a section of data in a sheet.
type SectionConfig struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	Data       interface{}    `yaml:"-"` // Data is bound at runtime
	ShowHeader bool           `yaml:"show_header"`
	Columns    []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"` // Struct field name or map key
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
	Formatter string  `yaml:"formatter"`
}

// SheetBuilder accumulates sections for one sheet in the fluent flow.
type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

// NewDataExporter creates an empty exporter for the fluent flow.
func NewDataExporter() *DataExporter {
	return &DataExporter{
		data:       make(map[string]interface{}),
		sheets:     []*SheetBuilder{},
		formatters: make(map[string]func(interface{}) interface{}),
	}
}

// NewDataExporterFromYaml parses a YAML template held in memory.
func NewDataExporterFromYaml(config string) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(config), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	return &DataExporter{
		template:   &tmpl,
		data:       make(map[string]interface{}),
		formatters: make(map[string]func(interface{}) interface{}),
	}, nil
}

// NewDataExporterFromYamlFile parses a YAML template file.
func NewDataExporterFromYamlFile(path string) (*DataExporter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	return NewDataExporterFromYaml(string(raw))
}

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{
		exporter: e,
		name:     name,
		sections: []*SectionConfig{},
	}
	e.sheets = append(e.sheets, sb)
	return sb
}

// AddSection appends a section to the sheet.
func (sb *SheetBuilder) AddSection(section *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, section)
	return sb
}

// BindSectionData binds data to a section ID (for YAML-based export).
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// RegisterFormatter registers a named value formatter referenced from
// column configs.
func (e *DataExporter) RegisterFormatter(name string, fn func(interface{}) interface{}) *DataExporter {
	e.formatters[name] = fn
	return e
}

// ToBytes renders the workbook and returns the xlsx bytes.
func (e *DataExporter) ToBytes() ([]byte, error) {
	f, err := e.buildExcel()
	if err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ToFile renders the workbook to disk.
func (e *DataExporter) ToFile(path string) error {
	f, err := e.buildExcel()
	if err != nil {
		return err
	}
	return f.SaveAs(path)
}

func (e *DataExporter) buildExcel() (*excelize.File, error) {
	f := excelize.NewFile()

	named := func(name string, i int) string {
		if name != "" {
			return name
		}
		return fmt.Sprintf("Sheet%d", i+1)
	}

	// 1. Programmatic sheets
	for i, sb := range e.sheets {
		sheetName := named(sb.name, i)
		if i == 0 {
			f.SetSheetName("Sheet1", sheetName)
		} else {
			f.NewSheet(sheetName)
		}
		if err := e.renderSections(f, sheetName, sb.sections); err != nil {
			return nil, err
		}
	}

	// 2. YAML template sheets with bound data
	if e.template != nil {
		for i, st := range e.template.Sheets {
			sheetName := named(st.Name, i)
			if len(e.sheets) == 0 && i == 0 {
				f.SetSheetName("Sheet1", sheetName)
			} else {
				f.NewSheet(sheetName)
			}

			sections := make([]*SectionConfig, 0, len(st.Sections))
			for j := range st.Sections {
				section := st.Sections[j]
				if bound, ok := e.data[section.ID]; ok {
					section.Data = bound
				}
				sections = append(sections, &section)
			}
			if err := e.renderSections(f, sheetName, sections); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

func (e *DataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	row := 1
	for _, section := range sections {
		headers, rows, err := extractRows(section, e.formatters)
		if err != nil {
			return fmt.Errorf("section %q: %w", section.Title, err)
		}

		if section.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sheet, cell, section.Title); err != nil {
				return err
			}
			row++
		}

		if section.ShowHeader && len(headers) > 0 {
			for col, h := range headers {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, h); err != nil {
					return err
				}
			}
			row++
		}

		for _, values := range rows {
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}

		for col, cc := range section.Columns {
			if cc.Width > 0 {
				name, _ := excelize.ColumnNumberToName(col + 1)
				if err := f.SetColWidth(sheet, name, name, cc.Width); err != nil {
					return err
				}
			}
		}

		// Blank spacer row between sections.
		row++
	}
	return nil
}
