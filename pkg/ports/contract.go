package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/docu/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCounterStoreContract runs a suite of tests to verify that a CounterStore
// implementation adheres to the defined interface contract.
func RunCounterStoreContract(t *testing.T, store CounterStore) {
	ctx := context.Background()
	id := "contract-counter-" + time.Now().Format("20060102150405")

	t.Run("Mount starts at zero", func(t *testing.T) {
		count, err := store.Mount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), loaded)
	})

	t.Run("Increment N times", func(t *testing.T) {
		for i := 1; i <= 5; i++ {
			count, err := store.Increment(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, int64(i), count)
		}
	})

	t.Run("Mount is idempotent", func(t *testing.T) {
		count, err := store.Mount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrCounterNotFound)
	})

	t.Run("Increment mounts implicitly", func(t *testing.T) {
		implicit := id + "-implicit"
		defer func() { _ = store.Delete(ctx, implicit) }()

		count, err := store.Increment(ctx, implicit)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Concurrent increments", func(t *testing.T) {
		concurrent := id + "-concurrent"
		defer func() { _ = store.Delete(ctx, concurrent) }()

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = store.Increment(ctx, concurrent)
			}()
		}
		wg.Wait()

		count, err := store.Load(ctx, concurrent)
		require.NoError(t, err)
		assert.Equal(t, int64(workers), count)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrCounterNotFound, "Load after Delete should return ErrCounterNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Delete of an unknown instance is not an error")
	})
}
