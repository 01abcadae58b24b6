package widget_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/docu/pkg/adapters/memory"
	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_NIncrements(t *testing.T) {
	for _, n := range []int{0, 1, 5, 42} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			c := widget.NewCounter("c", nil)
			for i := 0; i < n; i++ {
				c.Increment()
			}
			assert.Equal(t, int64(n), c.Count())
			assert.Equal(t, fmt.Sprintf("Contador: %d", n), c.Label())
		})
	}
}

func TestCounter_ReRenderScheduledOnIncrement(t *testing.T) {
	var rendered []int64
	c := widget.NewCounter("c", func(n int64) { rendered = append(rendered, n) })

	c.Increment()
	c.Increment()

	assert.Equal(t, []int64{1, 2}, rendered)
}

func TestCounter_ConcurrentIncrements(t *testing.T) {
	c := widget.NewCounter("c", nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Increment()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), c.Count())
}

func TestCounter_Render(t *testing.T) {
	c := widget.NewCounter("hero", nil)
	c.Increment()

	html, err := c.Render()
	require.NoError(t, err)
	assert.Contains(t, string(html), "<button")
	assert.Contains(t, string(html), ">Contador: 1</button>")
	assert.Contains(t, string(html), `data-counter="hero"`)
}

func TestRender_EscapesID(t *testing.T) {
	html, err := widget.Render(domain.CounterState{ID: `"><script>`, Count: 0}, "/widgets/counter/x")
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
	assert.Contains(t, string(html), `action="/widgets/counter/x"`)
	assert.True(t, strings.HasSuffix(string(html), "Contador: 0</button></form>"))
}

func TestManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	var hooked []int64
	m := widget.NewManager(memory.NewStore(), widget.WithIncrementHook(func(id string, n int64) {
		hooked = append(hooked, n)
	}))

	state, err := m.Mount(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.Count)

	for i := 0; i < 3; i++ {
		state, err = m.Increment(ctx, "hero")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), state.Count)
	assert.Equal(t, "Contador: 3", state.Label())
	assert.Equal(t, []int64{1, 2, 3}, hooked)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero"}, ids)

	require.NoError(t, m.Unmount(ctx, "hero"))
	_, err = m.Get(ctx, "hero")
	assert.True(t, errors.Is(err, domain.ErrCounterNotFound))

	state, err = m.Mount(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.Count, "a remounted instance starts over")
}

func TestManager_InvalidID(t *testing.T) {
	m := widget.NewManager(memory.NewStore())
	_, err := m.Increment(context.Background(), "")
	assert.Error(t, err)
	_, err = m.Mount(context.Background(), strings.Repeat("x", widget.MaxIDLength+1))
	assert.Error(t, err)
}
