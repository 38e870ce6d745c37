package earthengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTilePlacesValuesAtOffsets(t *testing.T) {
	params, err := GetSensorParams("landsat8")
	require.NoError(t, err)
	sensor := params[0]

	full := NewImageRecord("full", sensor, date("1990-06-01"), 4, 4, -48.0, -22.0, 0.001, -0.001)
	part := NewImageRecord("part", sensor, date("1990-06-01"), 2, 2, 0, 0, 0, 0)
	part.Bands[sensor.Red] = []float64{1, 2, 3, 4}

	full.MergeTile(part, 2, 2)

	require.Len(t, full.Bands[sensor.Red], 16)
	assert.Equal(t, 1.0, full.Value(sensor.Red, 2, 2))
	assert.Equal(t, 2.0, full.Value(sensor.Red, 3, 2))
	assert.Equal(t, 3.0, full.Value(sensor.Red, 2, 3))
	assert.Equal(t, 4.0, full.Value(sensor.Red, 3, 3))

	// pixels outside the tile stay untouched
	assert.Equal(t, 0.0, full.Value(sensor.Red, 0, 0))
	assert.Equal(t, 0.0, full.Value(sensor.Red, 1, 2))
}

func TestMergeTileStitchesNeighborsWithoutOverlap(t *testing.T) {
	params, err := GetSensorParams("landsat8")
	require.NoError(t, err)
	sensor := params[0]

	full := NewImageRecord("full", sensor, date("1990-06-01"), 4, 2, -48.0, -22.0, 0.001, -0.001)

	left := NewImageRecord("left", sensor, date("1990-06-01"), 2, 2, 0, 0, 0, 0)
	left.Bands[sensor.NIR] = []float64{1, 1, 1, 1}
	right := NewImageRecord("right", sensor, date("1990-06-01"), 2, 2, 0, 0, 0, 0)
	right.Bands[sensor.NIR] = []float64{2, 2, 2, 2}

	full.MergeTile(left, 0, 0)
	full.MergeTile(right, 2, 0)

	for y := 0; y < 2; y++ {
		assert.Equal(t, 1.0, full.Value(sensor.NIR, 0, y))
		assert.Equal(t, 1.0, full.Value(sensor.NIR, 1, y))
		assert.Equal(t, 2.0, full.Value(sensor.NIR, 2, y))
		assert.Equal(t, 2.0, full.Value(sensor.NIR, 3, y))
	}

	// the same cell keeps the same id whichever tile supplied it
	assert.Equal(t, 6, full.PixelID(2, 1))
}
