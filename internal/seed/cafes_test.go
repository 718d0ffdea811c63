package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCafes(t *testing.T) {
	cafes := Cafes()
	require.Len(t, cafes, 16)

	ids := map[string]bool{}
	for _, c := range cafes {
		assert.False(t, ids[c.ID], "duplicate id for %s", c.Name)
		ids[c.ID] = true
		assert.True(t, strings.HasPrefix(c.ID, "cafe_"), c.ID)
		require.NotNil(t, c.Coordinates)
		assert.NotEmpty(t, c.Tags)
	}

	// IDs are stable and callers get their own copy
	again := Cafes()
	assert.Equal(t, cafes[3].ID, again[3].ID)
	again[0].Tags[0] = "changed"
	assert.NotEqual(t, "changed", Cafes()[0].Tags[0])
}
