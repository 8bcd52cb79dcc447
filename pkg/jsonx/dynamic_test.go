package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDynamicMap(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		m, err := ToDynamicMap([]byte(`{"path":"/tmp/x","size":42}`))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/x", m["path"])
		assert.Equal(t, float64(42), m["size"])
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := ToDynamicMap([]byte(`[1,2,3]`))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ToDynamicMap([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestToDynamicJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	m, err := ToDynamicJSON(payload{Name: "test", Age: 30})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "test", "age": float64(30)}, m)

	_, err = ToDynamicJSON(make(chan int))
	assert.Error(t, err)
}
