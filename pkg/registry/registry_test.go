package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := New[int]()
	r.Register("b", 2)
	r.Register("a", 1)
	r.Register("b", 3)

	v, err := r.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	_, err = r.Lookup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New[string]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register("kind", "value")
			_, _ = r.Lookup("kind")
			_ = r.Names()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"kind"}, r.Names())
}
