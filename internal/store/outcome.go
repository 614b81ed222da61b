package store

import (
	"fmt"
)

// The store functions report their result as a small integer.
// The integers are converted to these typed outcomes as soon as they
// are received, so nothing outside this package handles raw codes

// Result of registering a group
type GroupOutcome int

const (
	GroupAdded   GroupOutcome = 0
	GroupPresent GroupOutcome = 1
)

// Result of adding or removing a membership. MemberNoChange means
// "already subscribed" on an add and "not subscribed" on a remove
type MemberOutcome int

const (
	MemberOK           MemberOutcome = 0
	MemberStoreFailure MemberOutcome = 1
	MemberUnknownGroup MemberOutcome = 2
	MemberNoChange     MemberOutcome = 3
)

// The store returned an integer outside the agreed set of codes.
// This is a contract violation and is fatal to the call that saw it
type UnknownOutcomeError struct {
	Function string
	Code     int
}

func (e *UnknownOutcomeError) Error() string {
	return fmt.Sprintf("database returned an unknown result when calling %s(): %d", e.Function, e.Code)
}

func GroupOutcomeFromCode(function string, code int) (GroupOutcome, error) {
	switch code {
	case 0:
		return GroupAdded, nil
	case 1:
		return GroupPresent, nil
	default:
		return 0, &UnknownOutcomeError{Function: function, Code: code}
	}
}

func MemberOutcomeFromCode(function string, code int) (MemberOutcome, error) {
	switch code {
	case 0:
		return MemberOK, nil
	case 1:
		return MemberStoreFailure, nil
	case 2:
		return MemberUnknownGroup, nil
	case 3:
		return MemberNoChange, nil
	default:
		return 0, &UnknownOutcomeError{Function: function, Code: code}
	}
}
