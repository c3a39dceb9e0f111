package contract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"eolauth/model"

	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackerStub(t *testing.T) *shimtest.MockStub {
	t.Helper()
	stub := shimtest.NewMockStub("eolauth", nil)
	stub.MockTransactionStart("tracker")
	return stub
}

func TestEOLTrackerCreateAndGet(t *testing.T) {
	tracker := NewEOLTracker(newTrackerStub(t))

	created, err := tracker.Create(account, "1", period, genesis)
	require.NoError(t, err)
	assert.Equal(t, model.EOLObjectType, created.ObjectType)

	got, err := tracker.Get(account, "1")
	require.NoError(t, err)
	assert.Equal(t, period, got.InactivityPeriod)
	assert.True(t, got.LastActiveAt.Equal(genesis))

	_, err = tracker.Get(account, "2")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestEOLTrackerCreateNeverOverwrites(t *testing.T) {
	tracker := NewEOLTracker(newTrackerStub(t))
	_, err := tracker.Create(account, "1", period, genesis)
	require.NoError(t, err)

	_, err = tracker.Create(account, "1", time.Hour, genesis.Add(time.Minute))
	var exists *model.AlreadyExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, account, exists.Account)
	assert.Equal(t, "1", exists.AuthenticatorID)

	got, err := tracker.Get(account, "1")
	require.NoError(t, err)
	assert.Equal(t, period, got.InactivityPeriod)
	assert.True(t, got.LastActiveAt.Equal(genesis))
}

func TestEOLTrackerTouchAndCheck(t *testing.T) {
	tracker := NewEOLTracker(newTrackerStub(t))
	_, err := tracker.Create(account, "1", period, genesis)
	require.NoError(t, err)

	require.ErrorIs(t, tracker.CheckElapsed(account, "1", genesis.Add(50*time.Second)), model.ErrStillWithinWindow)
	require.NoError(t, tracker.CheckElapsed(account, "1", genesis.Add(101*time.Second)))

	touched, err := tracker.Touch(account, "1", genesis.Add(101*time.Second))
	require.NoError(t, err)
	assert.True(t, touched.LastActiveAt.Equal(genesis.Add(101*time.Second)))
	require.ErrorIs(t, tracker.CheckElapsed(account, "1", genesis.Add(150*time.Second)), model.ErrStillWithinWindow)

	_, err = tracker.Touch(account, "missing", genesis)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, tracker.CheckElapsed(account, "missing", genesis), model.ErrNotFound)
}

func TestEOLTrackerRemove(t *testing.T) {
	tracker := NewEOLTracker(newTrackerStub(t))
	_, err := tracker.Create(account, "1", period, genesis)
	require.NoError(t, err)

	require.NoError(t, tracker.Remove(account, "1"))
	_, err = tracker.Get(account, "1")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, tracker.Remove(account, "1"), "removing an untracked authenticator is a no-op")
	require.NoError(t, tracker.Remove(account, "never-added"))
}

func TestEOLTrackerListByAccount(t *testing.T) {
	tracker := NewEOLTracker(newTrackerStub(t))
	for _, id := range []string{"3", "1", "2.0"} {
		_, err := tracker.Create(account, id, period, genesis)
		require.NoError(t, err)
	}
	_, err := tracker.Create("acct2", "1", period, genesis)
	require.NoError(t, err)

	entries, err := tracker.ListByAccount(account)
	require.NoError(t, err)
	var ids []string
	for _, entry := range entries {
		ids = append(ids, entry.AuthenticatorID)
		assert.Equal(t, account, entry.EOL.Account)
	}
	assert.Equal(t, []string{"1", "2.0", "3"}, ids)

	empty, err := tracker.ListByAccount("nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	for _, bad := range []string{"", "   ", strings.Repeat("a", model.MaxIdentityLength+1)} {
		_, err = tracker.ListByAccount(bad)
		require.ErrorContains(t, err, "account")
	}
}

func TestEOLTrackerRejectsBlankIdentity(t *testing.T) {
	tracker := NewEOLTracker(newTrackerStub(t))
	_, err := tracker.Create("", "1", period, genesis)
	require.Error(t, err)
	_, err = tracker.Create(account, " ", period, genesis)
	require.Error(t, err)
}

func TestEOLTrackerSave(t *testing.T) {
	tracker := NewEOLTracker(newTrackerStub(t))
	eol := model.NewEOL(account, "1", period, genesis)
	eol.InactivityPeriod = time.Hour
	require.NoError(t, tracker.Save(&eol))

	got, err := tracker.Get(account, "1")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, got.InactivityPeriod)

	require.Error(t, tracker.Save(&model.EOL{Account: account}))
}
