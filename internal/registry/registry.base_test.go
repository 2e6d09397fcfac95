package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBasicOperations(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("a", 2)
	require.NoError(t, err)
	assert.False(t, isNew, "đăng ký trùng tên phải ghi đè, không phải item mới")

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = r.Get("không-có")
	assert.False(t, ok)

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"), "remove lần hai phải báo không còn gì để xóa")
	assert.Equal(t, 0, r.Count())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			r.Register(key, n)
			r.Get(key)
			r.Count()
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Count(), 26)
	assert.Greater(t, r.Count(), 0)
}
