package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())

	var _ driven.ConfigStore = store
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("chunking.window", 500))
	val, ok := store.Get("chunking.window")
	assert.True(t, ok)
	assert.Equal(t, 500, val)

	require.NoError(t, store.Set("chunking.window", 400))
	assert.Equal(t, 400, store.GetInt("chunking.window"))

	_, ok = store.Get("missing")
	assert.False(t, ok)

	// Save and Load are no-ops
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, 400, store.GetInt("chunking.window"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("s", "text")
	_ = store.Set("i", 7)
	_ = store.Set("i64", int64(8))
	_ = store.Set("f", 2.5)
	_ = store.Set("b", true)
	_ = store.Set("d", "90s")
	_ = store.Set("dur", 2*time.Minute)
	_ = store.Set("list", []any{"a", 1, "b"})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "string", got: store.GetString("s"), want: "text"},
		{name: "string wrong type", got: store.GetString("i"), want: ""},
		{name: "int", got: store.GetInt("i"), want: 7},
		{name: "int from int64", got: store.GetInt("i64"), want: 8},
		{name: "int from float", got: store.GetInt("f"), want: 2},
		{name: "int wrong type", got: store.GetInt("s"), want: 0},
		{name: "float", got: store.GetFloat("f"), want: 2.5},
		{name: "float from int", got: store.GetFloat("i"), want: 7.0},
		{name: "float missing", got: store.GetFloat("missing"), want: 0.0},
		{name: "bool", got: store.GetBool("b"), want: true},
		{name: "bool wrong type", got: store.GetBool("s"), want: false},
		{name: "duration string", got: store.GetDuration("d"), want: 90 * time.Second},
		{name: "duration value", got: store.GetDuration("dur"), want: 2 * time.Minute},
		{name: "duration invalid", got: store.GetDuration("s"), want: time.Duration(0)},
		{name: "slice filters non-strings", got: store.GetStringSlice("list"), want: []string{"a", "b"}},
		{name: "slice missing", got: store.GetStringSlice("missing"), want: []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			_ = store.Set(key, id)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key-%d", i)))
	}
}
