package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a map stored as a JSONB column.
type JSONMap map[string]any

// Value implements driver.Valuer for JSONB storage.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage.
func (m *JSONMap) Scan(src any) error {
	return scanJSON(src, m)
}

// ContentData maps a spintax key to the alternative indices selected for it
// at content-creation time. Stored as JSONB.
type ContentData map[string][]int

// Value implements driver.Valuer for JSONB storage.
func (d ContentData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage.
func (d *ContentData) Scan(src any) error {
	return scanJSON(src, d)
}

// ContentTemplates maps a spintax key to its pipe-delimited alternatives.
// Stored as JSONB.
type ContentTemplates map[string]string

// Value implements driver.Valuer for JSONB storage.
func (t ContentTemplates) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB storage.
func (t *ContentTemplates) Scan(src any) error {
	return scanJSON(src, t)
}

// Breadcrumb is a single breadcrumb trail element.
type Breadcrumb struct {
	Name string `json:"name"`
	Item string `json:"item"`
}

// Breadcrumbs is an ordered breadcrumb trail stored as JSONB.
type Breadcrumbs []Breadcrumb

// Value implements driver.Valuer for JSONB storage.
func (b Breadcrumbs) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for JSONB storage.
func (b *Breadcrumbs) Scan(src any) error {
	return scanJSON(src, b)
}

// AgentRules maps a user agent to its robots directives. Stored as JSONB.
type AgentRules map[string]AgentRule

// Value implements driver.Valuer for JSONB storage.
func (r AgentRules) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB storage.
func (r *AgentRules) Scan(src any) error {
	return scanJSON(src, r)
}

func scanJSON(src, dest any) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
}
