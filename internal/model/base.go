package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Pagination represents common offset/limit paging parameters
type Pagination struct {
	Offset int `json:"offset" form:"skip"`
	Limit  int `json:"limit" form:"limit"`
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Clamp normalizes paging parameters to the allowed range.
func (p *Pagination) Clamp() {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// JSONMap represents a generic JSON object stored in a JSONB column
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for JSONMap: %T", src)
	}
	return json.Unmarshal(b, m)
}
