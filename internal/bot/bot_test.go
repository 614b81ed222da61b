package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelName(t *testing.T) {
	session := newFakeSession()
	session.addChannel("guild", "1v1")
	session.addChannel("guild", "6v6")

	name, err := channelName(session, "guild", "6v6-channel-id")
	require.NoError(t, err)
	assert.Equal(t, "6v6", name)

	_, err = channelName(session, "guild", "no-such-id")
	assert.Error(t, err)

	session.listChannelsErr = errors.New("unavailable")
	_, err = channelName(session, "guild", "6v6-channel-id")
	assert.Error(t, err)
}

func TestResyncSummary(t *testing.T) {
	session := newFakeSession()
	session.addChannel("guild", "1v1")
	reconciler := NewReconciler(testCatalog(t, "1v1", "6v6"), session)

	report := reconciler.Reconcile("guild")

	assert.Equal(t,
		"resync complete: 2 groups checked, 3 resources created, 1 already present, 0 failed.",
		ResyncSummary(report))
}
