package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	constants "github.com/CodeAndHammer/venkovorto/internal/constants"
)

func TestGetOrCreateAllocatesFreshSession(t *testing.T) {
	store := NewStore(time.Hour)

	sess, created := store.GetOrCreate("")
	require.True(t, created)
	assert.NotEmpty(t, sess.ID)
	assert.True(t, sess.Alive)
	assert.Empty(t, sess.Words)
	assert.Zero(t, sess.Score)

	again, created := store.GetOrCreate(sess.ID)
	assert.False(t, created)
	assert.Same(t, sess, again)
}

func TestGetOrCreateUnknownIDGetsNewID(t *testing.T) {
	store := NewStore(time.Hour)

	sess, created := store.GetOrCreate("no-such-session")
	require.True(t, created)
	assert.NotEqual(t, "no-such-session", sess.ID, "unknown ids must not be adopted")
}

func TestExpiredSessionIndistinguishableFromAbsent(t *testing.T) {
	store := NewStore(time.Minute)
	clock := time.Now()
	store.now = func() time.Time { return clock }

	sess, _ := store.GetOrCreate("")
	sess.Lock()
	require.NoError(t, sess.Append("Paper"))
	sess.Unlock()
	store.Touch(sess.ID)

	clock = clock.Add(2 * time.Minute)
	replacement, created := store.GetOrCreate(sess.ID)
	assert.True(t, created, "stale id should start a new session, not error")
	assert.NotEqual(t, sess.ID, replacement.ID)
	assert.Empty(t, replacement.Words)
}

func TestTouchSlidesExpiry(t *testing.T) {
	store := NewStore(time.Minute)
	clock := time.Now()
	store.now = func() time.Time { return clock }

	sess, _ := store.GetOrCreate("")

	clock = clock.Add(45 * time.Second)
	store.Touch(sess.ID)

	clock = clock.Add(45 * time.Second)
	same, created := store.GetOrCreate(sess.ID)
	assert.False(t, created, "touch should have reset the idle window")
	assert.Same(t, sess, same)
}

func TestCurrentWordStartsAtSeed(t *testing.T) {
	store := NewStore(time.Hour)
	sess, _ := store.GetOrCreate("")
	sess.Lock()
	defer sess.Unlock()

	assert.Equal(t, constants.SeedWord, sess.CurrentWord())
	require.NoError(t, sess.Append("Paper"))
	assert.Equal(t, "Paper", sess.CurrentWord())
}

func TestContainsWordIncludesSeedCaseInsensitive(t *testing.T) {
	store := NewStore(time.Hour)
	sess, _ := store.GetOrCreate("")
	sess.Lock()
	defer sess.Unlock()

	assert.True(t, sess.ContainsWord("rock"))
	assert.True(t, sess.ContainsWord("  ROCK "))

	require.NoError(t, sess.Append("Paper"))
	assert.True(t, sess.ContainsWord("paper"))
	assert.True(t, sess.ContainsWord("PAPER"))
	assert.False(t, sess.ContainsWord("scissors"))
}

func TestAppendTracksScore(t *testing.T) {
	store := NewStore(time.Hour)
	sess, _ := store.GetOrCreate("")
	sess.Lock()
	defer sess.Unlock()

	require.NoError(t, sess.Append("Paper"))
	require.NoError(t, sess.Append("Scissors"))
	assert.Equal(t, 2, sess.Score)
	assert.Equal(t, len(sess.Words), sess.Score, "score must equal chain length")
}

func TestDeadSessionRejectsMutation(t *testing.T) {
	store := NewStore(time.Hour)
	sess, _ := store.GetOrCreate("")
	sess.Lock()
	defer sess.Unlock()

	sess.MarkDead()
	err := sess.Append("Paper")
	assert.ErrorIs(t, err, ErrTerminated)
	assert.Zero(t, sess.Score)
}

func TestCleanupExpired(t *testing.T) {
	store := NewStore(time.Minute)
	clock := time.Now()
	store.now = func() time.Time { return clock }

	store.GetOrCreate("")
	store.GetOrCreate("")
	assert.Equal(t, 2, store.Count())

	clock = clock.Add(2 * time.Minute)
	removed := store.CleanupExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, store.Count())
}
