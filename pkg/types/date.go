package types

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// DateLayout is the only accepted textual form of a calendar date.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string is not a real yyyy-MM-dd date.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses s as a strict yyyy-MM-dd calendar date. Out-of-range
// days such as 2021-02-30 are rejected rather than rolled over.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseOptionalDate is ParseDate except that a blank string yields the zero
// date, which Person treats as absent.
func ParseOptionalDate(s string) (civil.Date, error) {
	if strings.TrimSpace(s) == "" {
		return civil.Date{}, nil
	}
	return ParseDate(s)
}

// IsValidDate reports whether s parses with ParseDate.
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// dateKnown reports whether d carries a value.
func dateKnown(d civil.Date) bool {
	return d != civil.Date{}
}
