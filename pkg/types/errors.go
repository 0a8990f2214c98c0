package types

import "errors"

// Person construction errors.
var (
	ErrInvalidVitalDates = errors.New("deathdate precedes birthday")
)
