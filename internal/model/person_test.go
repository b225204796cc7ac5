package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectory(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"Mike Davis": {"email": "mike.davis@example.com", "role": "Backend Engineer"},
		"Sarah Kim": {"email": "sarah.kim@example.com", "role": "Product Manager"}
	}`)

	dir, err := ParseDirectory(data)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	p, ok := dir.Get("Mike Davis")
	require.True(t, ok)
	assert.Equal(t, "mike.davis@example.com", p.Email)
	assert.Equal(t, "Backend Engineer", p.Role)
	assert.Equal(t, "Mike", p.FirstName())

	_, ok = dir.Get("mike davis")
	assert.False(t, ok, "Get is exact-key lookup")

	// Stable sorted iteration order regardless of JSON map order.
	people := dir.People()
	assert.Equal(t, "Mike Davis", people[0].Name)
	assert.Equal(t, "Sarah Kim", people[1].Name)
}

func TestNewDirectoryRejectsBadEntries(t *testing.T) {
	t.Parallel()

	_, err := NewDirectory([]Person{{Name: "  ", Email: "x@example.com"}})
	assert.Error(t, err)

	_, err = NewDirectory([]Person{
		{Name: "Mike Davis", Email: "a@example.com"},
		{Name: "Mike Davis", Email: "b@example.com"},
	})
	assert.Error(t, err)
}

func TestParseDirectoryInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := ParseDirectory([]byte(`["not", "a", "map"]`))
	assert.Error(t, err)
}
