package excelreport

import (
	"fmt"
	"reflect"
	"time"
)

// extractRows flattens a section's data into header names and cell rows.
// Data must be a slice of structs, struct pointers, or maps. When the
// section declares columns those drive selection and ordering; otherwise
// every exported struct field (or map key order for maps) is emitted.
func extractRows(section *SectionConfig, formatters map[string]func(interface{}) interface{}) ([]string, [][]interface{}, error) {
	if section.Data == nil {
		return headerNames(section.Columns), nil, nil
	}

	v := reflect.ValueOf(section.Data)
	if v.Kind() != reflect.Slice {
		return nil, nil, fmt.Errorf("data must be a slice, got %s", v.Kind())
	}

	var headers []string
	var rows [][]interface{}

	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		for item.Kind() == reflect.Ptr && !item.IsNil() {
			item = item.Elem()
		}
		if item.Kind() == reflect.Ptr {
			// nil element, skip
			continue
		}

		switch item.Kind() {
		case reflect.Struct:
			if headers == nil {
				headers = structHeaders(section, item.Type())
			}
			row, err := structRow(section, item, formatters)
			if err != nil {
				return nil, nil, err
			}
			rows = append(rows, row)

		case reflect.Map:
			if len(section.Columns) == 0 {
				return nil, nil, fmt.Errorf("map data requires explicit columns")
			}
			if headers == nil {
				headers = headerNames(section.Columns)
			}
			row := make([]interface{}, len(section.Columns))
			for c, cc := range section.Columns {
				mv := item.MapIndex(reflect.ValueOf(cc.FieldName))
				if mv.IsValid() {
					row[c] = applyFormatter(cc, mv.Interface(), formatters)
				}
			}
			rows = append(rows, row)

		default:
			return nil, nil, fmt.Errorf("unsupported element kind %s", item.Kind())
		}
	}

	if headers == nil {
		headers = headerNames(section.Columns)
	}
	return headers, rows, nil
}

func headerNames(cols []ColumnConfig) []string {
	if len(cols) == 0 {
		return nil
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		if c.Header != "" {
			out[i] = c.Header
		} else {
			out[i] = c.FieldName
		}
	}
	return out
}

func structHeaders(section *SectionConfig, t reflect.Type) []string {
	if len(section.Columns) > 0 {
		return headerNames(section.Columns)
	}
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() {
			out = append(out, f.Name)
		}
	}
	return out
}

func structRow(section *SectionConfig, item reflect.Value, formatters map[string]func(interface{}) interface{}) ([]interface{}, error) {
	if len(section.Columns) == 0 {
		var row []interface{}
		t := item.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				row = append(row, cellValue(item.Field(i).Interface()))
			}
		}
		return row, nil
	}

	row := make([]interface{}, len(section.Columns))
	for c, cc := range section.Columns {
		fv := item.FieldByName(cc.FieldName)
		if !fv.IsValid() {
			return nil, fmt.Errorf("unknown field %q", cc.FieldName)
		}
		row[c] = applyFormatter(cc, fv.Interface(), formatters)
	}
	return row, nil
}

func applyFormatter(cc ColumnConfig, v interface{}, formatters map[string]func(interface{}) interface{}) interface{} {
	if cc.Formatter != "" {
		if fn, ok := formatters[cc.Formatter]; ok {
			return fn(v)
		}
	}
	return cellValue(v)
}

// cellValue normalizes values excelize has no native cell type for.
func cellValue(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case fmt.Stringer:
		return t.String()
	default:
		return v
	}
}
