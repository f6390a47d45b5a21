package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// BalanceMap stores per-code numeric balances (currency or bonus points)
// as a JSONB column.
type BalanceMap map[string]float64

// Value implements the driver.Valuer interface
func (m BalanceMap) Value() (driver.Value, error) {
	if m == nil {
		m = BalanceMap{}
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *BalanceMap) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Metadata is free-form string-to-string transaction metadata stored as JSONB.
type Metadata map[string]string

// Value implements the driver.Valuer interface
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *Metadata) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// MarshalJSON returns the JSON encoding
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]string(m))
}

// UnmarshalJSON sets the JSON encoding
func (m *Metadata) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("nil pointer")
	}
	return json.Unmarshal(data, (*map[string]string)(m))
}
