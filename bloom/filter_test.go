package bloom_test

import (
	"testing"

	"github.com/fwojciec/qbank/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("added keys test positive", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		f.Add("what is a goroutine?")

		assert.True(t, f.Test("what is a goroutine?"))
	})

	t.Run("absent keys test negative", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		f.Add("present")

		assert.False(t, f.Test("absent"))
	})

	t.Run("estimates count", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		for _, k := range []string{"a", "b", "c"} {
			f.Add(k)
		}

		assert.InDelta(t, 3, float64(f.EstimatedCount()), 1)
	})
}
