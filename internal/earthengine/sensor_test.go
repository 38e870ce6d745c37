package earthengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSensorParamsMergedLandsat(t *testing.T) {
	params, err := GetSensorParams("landsat578")
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "LANDSAT/LT05/C02/T1_L2", params[0].Collection)
	assert.Equal(t, "LANDSAT/LE07/C02/T1_L2", params[1].Collection)
	assert.Equal(t, "LANDSAT/LC08/C02/T1_L2", params[2].Collection)

	// band numbering shifted with Landsat 8
	assert.Equal(t, "SR_B3", params[0].Red)
	assert.Equal(t, "SR_B4", params[2].Red)
}

func TestGetSensorParamsSingleSensors(t *testing.T) {
	for _, name := range []string{"landsat5", "landsat7", "landsat8", "modis", "sentinel2"} {
		params, err := GetSensorParams(name)
		require.NoError(t, err, name)
		require.Len(t, params, 1, name)
		assert.NotEmpty(t, params[0].Collection, name)
		assert.Positive(t, params[0].Scale, name)
		assert.Positive(t, params[0].IntervalDays, name)
	}

	_, err := GetSensorParams("landsat9000")
	assert.Error(t, err)
}

func TestBandsIncludeQALast(t *testing.T) {
	params, err := GetSensorParams("sentinel2")
	require.NoError(t, err)

	bands := params[0].Bands()
	require.Len(t, bands, 6)
	assert.Equal(t, "SCL", bands[len(bands)-1])
	assert.Equal(t, []string{"B4", "B3", "B2"}, params[0].RGBBands())
}
