package colorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScribbleMaskOnIdenticalImagesIsEmpty(t *testing.T) {
	const rows, cols = 5, 7

	img := newUniformBGRMat(t, rows, cols, 90, 90, 90)
	scribbles := newUniformBGRMat(t, rows, cols, 90, 90, 90)

	c := New(testLogger())
	mask, err := c.ScribbleMask(img, scribbles, DefaultMaskEps, DefaultMaskErosions)
	require.NoError(t, err)
	defer mask.Close()

	assert.Equal(t, rows, mask.Rows())
	assert.Equal(t, cols, mask.Cols())
	assert.Equal(t, 1, mask.Channels())

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, err := mask.GetUCharAt(i, j)
			require.NoError(t, err)
			assert.Equal(t, uint8(0), v, "pixel (%d,%d)", i, j)
		}
	}
}

func TestScribbleMaskDetectsPaintedRegion(t *testing.T) {
	const rows, cols = 9, 9

	img := newUniformBGRMat(t, rows, cols, 128, 128, 128)
	scribbles := newUniformBGRMat(t, rows, cols, 128, 128, 128)
	paintBlock(t, scribbles, 3, 5, 3, 5, 40, 40, 220)

	c := New(testLogger())

	t.Run("without erosion", func(t *testing.T) {
		mask, err := c.ScribbleMask(img, scribbles, 1.0, 0)
		require.NoError(t, err)
		defer mask.Close()

		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v, err := mask.GetUCharAt(i, j)
				require.NoError(t, err)
				if i >= 3 && i <= 5 && j >= 3 && j <= 5 {
					assert.Equal(t, uint8(255), v, "pixel (%d,%d)", i, j)
				} else {
					assert.Equal(t, uint8(0), v, "pixel (%d,%d)", i, j)
				}
			}
		}
	})

	t.Run("one erosion shrinks the block to its center", func(t *testing.T) {
		mask, err := c.ScribbleMask(img, scribbles, 1.0, 1)
		require.NoError(t, err)
		defer mask.Close()

		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v, err := mask.GetUCharAt(i, j)
				require.NoError(t, err)
				if i == 4 && j == 4 {
					assert.Equal(t, uint8(255), v)
				} else {
					assert.Equal(t, uint8(0), v, "pixel (%d,%d)", i, j)
				}
			}
		}
	})
}

func TestScribbleMaskValidation(t *testing.T) {
	img := newUniformBGRMat(t, 4, 4, 128, 128, 128)
	scribbles := newUniformBGRMat(t, 4, 4, 128, 128, 128)

	c := New(testLogger())

	_, err := c.ScribbleMask(img, scribbles, 0, 1)
	assert.Error(t, err, "eps must be positive")

	_, err = c.ScribbleMask(img, scribbles, -2, 1)
	assert.Error(t, err, "eps must be positive")

	_, err = c.ScribbleMask(img, scribbles, 1.0, -1)
	assert.Error(t, err, "nErosions must be non-negative")

	other := newUniformBGRMat(t, 4, 5, 128, 128, 128)
	_, err = c.ScribbleMask(img, other, 1.0, 1)
	assert.Error(t, err, "dimensions must match")
}
