package enums

import "fmt"

// City is a service area the restaurant delivers to.
type City string

const (
	CityMale            City = "male"
	CityHulhumalePhase1 City = "hulhumale phase 1"
	CityHulhumalePhase2 City = "hulhumale phase 2"
)

var validCities = []City{
	CityMale,
	CityHulhumalePhase1,
	CityHulhumalePhase2,
}

// String implements fmt.Stringer.
func (c City) String() string {
	return string(c)
}

// IsValid reports whether the value is a known City.
func (c City) IsValid() bool {
	for _, candidate := range validCities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCity converts raw input into a City.
func ParseCity(value string) (City, error) {
	for _, candidate := range validCities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid city %q", value)
}
