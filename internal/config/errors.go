package config

import (
	"errors"
	"fmt"
)

// Parse failure reasons. ParseError wraps one of these so callers
// can match with errors.Is
var (
	ErrMalformedGroupLine    = errors.New("malformed group line")
	ErrMalformedTeamToken    = errors.New("malformed team token")
	ErrInvalidTeamCount      = errors.New("invalid team count")
	ErrDuplicateGroupName    = errors.New("duplicate group name")
	ErrDuplicateTeamLabel    = errors.New("duplicate team label")
	ErrEmptyCatalog          = errors.New("no match making groups in configuration file")
	ErrUnknownSection        = errors.New("content outside a recognised section")
	ErrUnknownKey            = errors.New("unknown key")
	ErrInvalidValue          = errors.New("invalid value")
	ErrMalformedSettingsLine = errors.New("malformed settings line")
)

// A configuration parse failure, pointing at the offending line
type ParseError struct {
	Reason error
	Line   int
	Text   string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Reason.Error()
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}
