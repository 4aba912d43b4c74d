package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a list of strings stored as a JSON column
type StringList []string

// Value implements driver.Valuer for database storage
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether the list contains the given value
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Image represents a hosted product image
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// ImageList is a list of product images stored as a JSON column
type ImageList []Image

// Value implements driver.Valuer for database storage
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *ImageList) Scan(value any) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into ImageList", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*l = ImageList{}
		return nil
	}
	return json.Unmarshal(data, l)
}
