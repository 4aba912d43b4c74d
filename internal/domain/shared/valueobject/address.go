package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping address.
// It is immutable - all operations return new Address instances.
type Address struct {
	street     string
	city       string
	postalCode string
	country    string
}

// NewAddress creates a new Address. Street, city, postal code and country
// are all required for shipping.
func NewAddress(street, city, postalCode, country string) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)

	if street == "" {
		return Address{}, fmt.Errorf("street address cannot be empty")
	}
	if len(street) > 500 {
		return Address{}, fmt.Errorf("street address cannot exceed 500 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if postalCode == "" {
		return Address{}, fmt.Errorf("postal code cannot be empty")
	}
	if len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if country == "" {
		return Address{}, fmt.Errorf("country cannot be empty")
	}
	if len(country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}

	return Address{
		street:     street,
		city:       city,
		postalCode: postalCode,
		country:    country,
	}, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, postalCode, country string) Address {
	addr, err := NewAddress(street, city, postalCode, country)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street address
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address is empty (all fields are blank)
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.postalCode == "" && a.country == ""
}

// FullAddress returns the complete formatted address string
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 4)
	if a.street != "" {
		parts = append(parts, a.street)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	if a.postalCode != "" {
		parts = append(parts, a.postalCode)
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.postalCode == other.postalCode &&
		a.country == other.country
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Address:    a.street,
		City:       a.city,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Empty addresses are allowed from JSON; non-empty ones go through the
// NewAddress factory so validation rules apply consistently.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v.Address == "" && v.City == "" && v.PostalCode == "" && v.Country == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.Address, v.City, v.PostalCode, v.Country)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores as a JSON string.
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
