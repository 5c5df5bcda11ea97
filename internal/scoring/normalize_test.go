package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	t.Run("spread", func(t *testing.T) {
		got := MinMax([]float64{10, 20, 30})
		assert.Equal(t, []float64{0, 0.5, 1}, got)
	})

	t.Run("flat set maps to zero", func(t *testing.T) {
		got := MinMax([]float64{7, 7, 7, 7})
		assert.Equal(t, []float64{0, 0, 0, 0}, got)
	})

	t.Run("single element", func(t *testing.T) {
		assert.Equal(t, []float64{0}, MinMax([]float64{42}))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, MinMax(nil))
	})

	t.Run("negative values", func(t *testing.T) {
		got := MinMax([]float64{-10, 0, 10})
		assert.Equal(t, []float64{0, 0.5, 1}, got)
	})
}
