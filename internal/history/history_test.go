package history

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// withClock makes Add timestamps strictly increasing
func withClock(s *Store) *Store {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		t = t.Add(time.Second)
		return t
	}
	return s
}

func TestStore_MemoryMode(t *testing.T) {
	s, err := Open("", 0, discard)
	require.NoError(t, err)
	withClock(s)
	defer s.Close()

	require.NoError(t, s.Add("cats"))
	require.NoError(t, s.Add("  dogs "))
	require.NoError(t, s.Add(""))
	require.NoError(t, s.Add("CATS"))

	assert.Equal(t, []string{"CATS", "dogs"}, s.Recent(0))
	assert.Equal(t, []string{"CATS"}, s.Recent(1))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := Open(path, 10, discard)
	require.NoError(t, err)
	withClock(s)
	require.NoError(t, s.Add("surfing"))
	require.NoError(t, s.Add("skateboard"))
	require.NoError(t, s.Close())

	reopened, err := Open(path, 10, discard)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, []string{"skateboard", "surfing"}, reopened.Recent(0))
}

func TestStore_EvictsOldest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path, 2, discard)
	require.NoError(t, err)
	withClock(s)
	require.NoError(t, s.Add("one"))
	require.NoError(t, s.Add("two"))
	require.NoError(t, s.Add("three"))
	assert.Equal(t, []string{"three", "two"}, s.Recent(0))
	require.NoError(t, s.Close())

	reopened, err := Open(path, 2, discard)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, []string{"three", "two"}, reopened.Recent(0))
}

func TestStore_Suggest(t *testing.T) {
	s, err := Open("", 0, discard)
	require.NoError(t, err)
	withClock(s)

	for _, q := range []string{"cat videos", "dog park", "cats", "concert"} {
		require.NoError(t, s.Add(q))
	}

	assert.Equal(t, []string{"concert", "cats", "dog park"}, s.Suggest("", 3))

	got := s.Suggest("cat", 0)
	assert.Equal(t, []string{"cats", "cat videos"}, got)

	// The exact query is not suggested back
	assert.NotContains(t, s.Suggest("cats", 0), "cats")
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path, 0, discard)
	require.NoError(t, err)
	require.NoError(t, s.Add("cats"))
	require.NoError(t, s.Clear())
	assert.Empty(t, s.Recent(0))
	require.NoError(t, s.Add("dogs"))
	require.NoError(t, s.Close())

	reopened, err := Open(path, 0, discard)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, []string{"dogs"}, reopened.Recent(0))
}
