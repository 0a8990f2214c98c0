package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sex is the two-valued sex designation recorded on a Person.
// The zero value is not a valid designation.
type Sex int

// Recognized sex designations.
const (
	SexMale Sex = iota + 1
	SexFemale
)

// ErrInvalidGender is the sentinel matched by every InvalidGenderError.
var ErrInvalidGender = errors.New("invalid gender")

// InvalidGenderError reports a sex designation that ParseSex could not
// classify. Input holds the offending value as supplied by the caller.
type InvalidGenderError struct {
	Input string
}

func (e *InvalidGenderError) Error() string {
	return fmt.Sprintf("invalid gender %q: please enter \"male\" or \"female\"", e.Input)
}

// Is makes errors.Is(err, ErrInvalidGender) hold for any InvalidGenderError.
func (e *InvalidGenderError) Is(target error) bool {
	return target == ErrInvalidGender
}

// ParseSex classifies a free-form designation. Surrounding whitespace is
// ignored and matching is case-insensitive: "male" and "m" yield SexMale,
// "female" and "f" yield SexFemale. Anything else, blank included, returns
// an *InvalidGenderError.
func ParseSex(s string) (Sex, error) {
	v := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(v, "male"), strings.EqualFold(v, "m"):
		return SexMale, nil
	case strings.EqualFold(v, "female"), strings.EqualFold(v, "f"):
		return SexFemale, nil
	}
	return 0, &InvalidGenderError{Input: s}
}

// Valid reports whether s is one of the recognized designations.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Opposite returns the other designation. An invalid Sex yields SexMale,
// matching how an unknown partner of an unknown person is synthesized.
func (s Sex) Opposite() Sex {
	if s == SexMale {
		return SexFemale
	}
	return SexMale
}

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

// MarshalText encodes the designation as "male" or "female".
func (s Sex) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &InvalidGenderError{Input: s.String()}
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts any form ParseSex accepts.
func (s *Sex) UnmarshalText(text []byte) error {
	v, err := ParseSex(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
