package store

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "carebot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record(Delivery{From: "5511", Intent: "greeting", ResponseKind: "list", Status: StatusSent}))
	require.NoError(t, s.Record(Delivery{From: "5511", Intent: "numeric", Code: 7, ResponseKind: "button", Status: StatusFailed, Error: "timeout"}))

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "numeric", got[0].Intent, "newest first")
	assert.Equal(t, 7, got[0].Code)
	assert.Equal(t, "timeout", got[0].Error)
	assert.Equal(t, "greeting", got[1].Intent)

	for _, d := range got {
		assert.NotEmpty(t, d.ID)
		assert.False(t, d.ReceivedAt.IsZero())
	}
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestRecordKeepsProvidedFields(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(Delivery{ID: "fixed", From: "1", ReceivedAt: at}))

	got, err := s.Recent(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fixed", got[0].ID)
	assert.True(t, at.Equal(got[0].ReceivedAt))
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	for i := range 5 {
		require.NoError(t, s.Record(Delivery{MessageID: strconv.Itoa(i)}))
	}

	got, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "4", got[0].MessageID)
	assert.Equal(t, "3", got[1].MessageID)

	_, err = s.Recent(0)
	assert.Error(t, err)
}

func TestRecordPrunesOldest(t *testing.T) {
	s := openTestStore(t)
	s.SetMaxEntries(3)

	for i := range 7 {
		require.NoError(t, s.Record(Delivery{MessageID: strconv.Itoa(i)}))
	}

	got, err := s.Recent(100)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"6", "5", "4"}, []string{got[0].MessageID, got[1].MessageID, got[2].MessageID})
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carebot.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(Delivery{MessageID: "a"}))
	require.NoError(t, s.Close())

	s, err = NewBoltStore(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Record(Delivery{MessageID: "b"}))

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].MessageID)
	assert.Equal(t, "a", got[1].MessageID)
}
