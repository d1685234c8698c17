package counter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIncrementAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	count, err := store.IncrementAndGet(ctx, "Paper")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.IncrementAndGet(ctx, "  paper ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "normalization must collapse casings into one counter")
}

func TestIncrementRejectsEmptyWord(t *testing.T) {
	store := openTestStore(t)

	_, err := store.IncrementAndGet(context.Background(), "   ")
	assert.Error(t, err)
}

func TestCountZeroForUnknownWord(t *testing.T) {
	store := openTestStore(t)

	count, err := store.Count(context.Background(), "never-guessed")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestConcurrentIncrementsAllLand(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := store.IncrementAndGet(ctx, "paper")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := store.Count(ctx, "paper")
	require.NoError(t, err)
	assert.Equal(t, int64(n), count, "no concurrent increment may be lost or doubled")
}

func TestTopWords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.IncrementAndGet(ctx, "paper")
		require.NoError(t, err)
	}
	_, err := store.IncrementAndGet(ctx, "scissors")
	require.NoError(t, err)

	top, err := store.TopWords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, WordCount{Word: "paper", Count: 3}, top[0])
	assert.Equal(t, WordCount{Word: "scissors", Count: 1}, top[1])

	top, err = store.TopWords(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "paper", top[0].Word)
}

func TestReopenKeepsCounts(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	_, err = store.IncrementAndGet(ctx, "paper")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx, "paper")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
