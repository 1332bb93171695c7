package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateCoordinates validates latitude and longitude values
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return invalid("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return invalid("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateUUID validates that a string is a valid UUID
func ValidateUUID(id, fieldName string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invalid("%s must be a valid UUID", fieldName)
	}
	return nil
}

// ValidateOneOf checks value against the allowed set.
func ValidateOneOf(value, fieldName string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid("%s must be one of: %s", fieldName, strings.Join(allowed, ", "))
}

// ValidatePositiveFloat validates that a float is positive
func ValidatePositiveFloat(value float64, fieldName string) error {
	if value <= 0 {
		return invalid("%s must be positive", fieldName)
	}
	return nil
}

// ValidateNonNegativeFloat validates that a float is non-negative
func ValidateNonNegativeFloat(value float64, fieldName string) error {
	if value < 0 {
		return invalid("%s must be non-negative", fieldName)
	}
	return nil
}

// ValidateStringNotEmpty validates that a string is not empty
func ValidateStringNotEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", fieldName)
	}
	return nil
}

// NormalizePagination clamps page and page size to 1.. and 1..100, with 20 as
// the default size.
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// ValidateSpeed validates speed in km/h
func ValidateSpeed(speed float64) error {
	if speed < 0 {
		return invalid("speed must be non-negative")
	}
	if speed > 300 {
		return invalid("speed exceeds reasonable limit (300 km/h)")
	}
	return nil
}

// ValidateHeading validates heading in degrees
func ValidateHeading(heading float64) error {
	if heading < 0 || heading > 360 {
		return invalid("heading must be between 0 and 360 degrees")
	}
	return nil
}
