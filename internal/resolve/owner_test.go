package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/meeting-agent/internal/model"
)

func testDirectory(t *testing.T) *model.Directory {
	t.Helper()
	d, err := model.NewDirectory([]model.Person{
		{Name: "Mike Davis", Email: "mike.davis@example.com", Role: "Backend Engineer"},
		{Name: "Sarah Kim", Email: "sarah.kim@example.com", Role: "Product Manager"},
		{Name: "Alex Chen", Email: "alex.chen@example.com", Role: "Designer"},
		{Name: "Alex Rivera", Email: "alex.rivera@example.com", Role: "Data Scientist"},
	})
	require.NoError(t, err)
	return d
}

func TestOwnerExactMatch(t *testing.T) {
	t.Parallel()
	dir := testDirectory(t)

	tests := []struct {
		name    string
		mention string
	}{
		{"exact", "Mike Davis"},
		{"case insensitive", "mike davis"},
		{"surrounding whitespace", "  Mike Davis  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Owner(tt.mention, dir)
			assert.Equal(t, OwnerResolved, res.Outcome)
			assert.Equal(t, "mike.davis@example.com", res.Person.Email)
			assert.Equal(t, 1.0, res.Confidence)
		})
	}
}

func TestOwnerUniqueFirstName(t *testing.T) {
	t.Parallel()
	dir := testDirectory(t)

	res := Owner("Sarah", dir)
	assert.Equal(t, OwnerResolved, res.Outcome)
	assert.Equal(t, "Sarah Kim", res.Person.Name)
	assert.Equal(t, 0.85, res.Confidence)
}

func TestOwnerAmbiguousFirstNameDefers(t *testing.T) {
	t.Parallel()
	dir := testDirectory(t)

	res := Owner("Alex", dir)
	assert.Equal(t, OwnerDeferred, res.Outcome)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "Alex Chen", res.Candidates[0].Name)
	assert.Equal(t, "Alex Rivera", res.Candidates[1].Name)
	assert.Zero(t, res.Confidence)
}

func TestOwnerNoMatch(t *testing.T) {
	t.Parallel()
	dir := testDirectory(t)

	tests := []struct {
		name    string
		mention string
	}{
		{"unknown person", "Jordan Lee"},
		{"role phrase", "the backend folks"},
		{"empty", ""},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Owner(tt.mention, dir)
			assert.Equal(t, OwnerUnresolved, res.Outcome)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestOwnerOutcomeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "resolved", OwnerResolved.String())
	assert.Equal(t, "deferred", OwnerDeferred.String())
	assert.Equal(t, "unresolved", OwnerUnresolved.String())
}
