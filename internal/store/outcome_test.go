package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberOutcomeFromCode(t *testing.T) {
	tests := []struct {
		code    int
		outcome MemberOutcome
	}{
		{0, MemberOK},
		{1, MemberStoreFailure},
		{2, MemberUnknownGroup},
		{3, MemberNoChange},
	}
	for _, tc := range tests {
		outcome, err := MemberOutcomeFromCode("add_mm_member", tc.code)
		require.NoError(t, err)
		assert.Equal(t, tc.outcome, outcome)
	}
}

func TestMemberOutcomeFromUnknownCode(t *testing.T) {
	// Any integer outside the agreed set is a contract violation
	for _, code := range []int{-1, 4, 5, 42, 1000} {
		_, err := MemberOutcomeFromCode("add_mm_member", code)
		require.Error(t, err, "code %d", code)

		var unknown *UnknownOutcomeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "add_mm_member", unknown.Function)
		assert.Equal(t, code, unknown.Code)
	}
}

func TestGroupOutcomeFromCode(t *testing.T) {
	outcome, err := GroupOutcomeFromCode("add_mm_group", 0)
	require.NoError(t, err)
	assert.Equal(t, GroupAdded, outcome)

	outcome, err = GroupOutcomeFromCode("add_mm_group", 1)
	require.NoError(t, err)
	assert.Equal(t, GroupPresent, outcome)

	_, err = GroupOutcomeFromCode("add_mm_group", 2)
	var unknown *UnknownOutcomeError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Error(), "add_mm_group")
}
