package blobid

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MarshalText implements encoding.TextMarshaler, so IDs can also be used as
// JSON object keys.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the
// zero ID.
func (id *ID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. IDs are plain JSON strings; the
// zero ID is null.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("blob id must be a string: %w", err)
	}
	return id.UnmarshalText([]byte(s))
}

// Scan implements sql.Scanner. NULL and empty values scan into the zero ID.
func (id *ID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*id = ID{}
		return nil
	case string:
		if err := id.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("cannot scan string into blob id: %w", err)
		}
		return nil
	case []byte:
		if err := id.UnmarshalText(v); err != nil {
			return fmt.Errorf("cannot scan bytes into blob id: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into blob id", value)
	}
}

// Value implements driver.Valuer. The zero ID is stored as NULL; any other
// ID as its serialized form, which fits a varchar(255) column.
func (id ID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.String(), nil
}
