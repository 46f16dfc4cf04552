package api

import (
	"strings"
	"time"
)

// Required fails when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Invalid(field, "is required")
	}
	return nil
}

func PositiveAmount(field string, amount float64) error {
	if amount <= 0 {
		return Invalid(field, "must be greater than zero")
	}
	return nil
}

func RequiredDate(field string, date time.Time) error {
	if date.IsZero() {
		return Invalid(field, "is required")
	}
	return nil
}

// FirstInvalid returns the first non-nil error, in field order.
func FirstInvalid(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
