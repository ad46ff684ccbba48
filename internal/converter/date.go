package converter

import (
	"time"

	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/pkg/apperror"
)

// ParseDate parses a wire date into a UTC calendar day
func ParseDate(field, value string) (time.Time, error) {
	day, err := time.Parse(dto.DateFormat, value)
	if err != nil {
		return time.Time{}, apperror.Validation(field + " must be a date in YYYY-MM-DD format")
	}
	return entity.DateOnly(day), nil
}

// ParseOptionalDate returns nil for an empty value
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dto.DateFormat)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}
