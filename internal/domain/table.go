package domain

import (
	"fmt"
	"strconv"
)

// FieldType is the semantic type of a datastore column.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDateTime FieldType = "datetime"
	FieldURL      FieldType = "url"
)

type Table struct {
	ID   string
	Name string
}

type Field struct {
	ID        string
	Name      string
	Type      FieldType
	IsPrimary bool
}

// Cells holds one row's values keyed by field id.
type Cells map[string]any

type RecordUpdate struct {
	RecordID string
	Cells    Cells
}

// RecordPage is one page of a paginated record-id listing.
type RecordPage struct {
	RecordIDs []string
	Cursor    string
	HasMore   bool
	Total     int
}

// CellString renders a cell value as text.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
