package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Columns below are stored as JSON text so the same models work on Postgres
// (jsonb) and the embedded SQLite used in demo deployments.

// UUIDList is a JSON-encoded list of entity identifiers.
type UUIDList []uuid.UUID

func (l *UUIDList) Scan(src any) error {
	return scanJSON("UUIDList", src, l)
}

func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UUIDList{}
	}
	return json.Marshal(l)
}

// Contains reports whether id is present in the list.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, candidate := range l {
		if candidate == id {
			return true
		}
	}
	return false
}

// Append returns the list with id added, ignoring duplicates.
func (l UUIDList) Append(id uuid.UUID) UUIDList {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// Remove returns the list without id.
func (l UUIDList) Remove(id uuid.UUID) UUIDList {
	out := make(UUIDList, 0, len(l))
	for _, candidate := range l {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

// StringList is a JSON-encoded list of strings (tags and the like).
type StringList []string

func (l *StringList) Scan(src any) error {
	return scanJSON("StringList", src, l)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// PayComponent is a named salary amount, used for allowances and deductions.
type PayComponent struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// PayComponentList is a JSON-encoded list of salary components.
type PayComponentList []PayComponent

func (l *PayComponentList) Scan(src any) error {
	return scanJSON("PayComponentList", src, l)
}

func (l PayComponentList) Value() (driver.Value, error) {
	if l == nil {
		l = PayComponentList{}
	}
	return json.Marshal(l)
}

// Total sums the component amounts.
func (l PayComponentList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, component := range l {
		total = total.Add(component.Amount)
	}
	return total
}

// JSONMap is a JSON-encoded map for loosely structured columns.
type JSONMap map[string]any

func (m *JSONMap) Scan(src any) error {
	return scanJSON("JSONMap", src, m)
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func scanJSON(kind string, src any, dest any) error {
	if src == nil {
		return json.Unmarshal([]byte("null"), dest)
	}
	switch v := src.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("%s: unsupported Scan type %T", kind, src)
	}
}
