// internal/suite/suite_test.go
package suite

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildGodogOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		got := buildGodogOptions(Options{})
		assert.Equal(t, "pretty", got.Format)
		assert.Equal(t, []string{"features"}, got.Paths)
		assert.Equal(t, 1, got.Concurrency)
		assert.True(t, got.Strict)
		assert.NotNil(t, got.Output)
	})

	t.Run("pretty is downgraded under concurrency", func(t *testing.T) {
		got := buildGodogOptions(Options{Format: "pretty", Concurrency: 4})
		assert.Equal(t, "progress", got.Format)
		assert.Equal(t, 4, got.Concurrency)
	})

	t.Run("explicit settings pass through", func(t *testing.T) {
		var buf bytes.Buffer
		got := buildGodogOptions(Options{
			Paths:       []string{"features/search.feature"},
			Tags:        "@smoke",
			Format:      "junit",
			Concurrency: 2,
			Output:      &buf,
		})
		assert.Equal(t, "junit", got.Format)
		assert.Equal(t, "@smoke", got.Tags)
		assert.Equal(t, []string{"features/search.feature"}, got.Paths)
		assert.Equal(t, 2, got.Concurrency)
	})
}
