// pkg/registry/registry_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test the generic named registry backing the factory registry

package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sh/sprout/pkg/errors"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := New[int]()

	require.NoError(t, reg.Register("answer", 42))

	got, err := reg.Get("answer")
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestRegistry_EmptyNameRejected(t *testing.T) {
	reg := New[int]()

	err := reg.Register("", 1)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	reg := New[string]()
	require.NoError(t, reg.Register("greeting", "hello"))

	err := reg.Register("greeting", "hi")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	got, err := reg.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got, "failed registration must not replace the item")
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := New[int]()

	_, err := reg.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRegistry_Remove(t *testing.T) {
	reg := New[int]()
	require.NoError(t, reg.Register("gone", 1))

	require.NoError(t, reg.Remove("gone"))
	_, err := reg.Get("gone")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	err = reg.Remove("gone")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRegistry_ListIsSorted(t *testing.T) {
	reg := New[int]()
	for i, name := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, reg.Register(name, i))
	}

	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, reg.List())
}

func TestRegistry_HoldsFunctions(t *testing.T) {
	reg := New[func() string]()
	require.NoError(t, reg.Register("greeting", func() string { return "hello" }))

	fn, err := reg.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", fn())
}

func TestRegistry_ConcurrentRegisterAndGet(t *testing.T) {
	reg := New[int]()
	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				name := fmt.Sprintf("g%d-%d", g, i)
				if err := reg.Register(name, g*1000+i); err != nil {
					t.Errorf("Register(%s) failed: %v", name, err)
				}
				if _, err := reg.Get(name); err != nil {
					t.Errorf("Get(%s) failed: %v", name, err)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, reg.List(), goroutines*perGoroutine)
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	reg := New[int]()
	MustRegister(reg, "only", 1)
	require.NoError(t, func() error { _, err := reg.Get("only"); return err }())

	assert.Panics(t, func() { MustRegister(reg, "only", 2) })
}
