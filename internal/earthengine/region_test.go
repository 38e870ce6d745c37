package earthengine

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegionNormalizesCorners(t *testing.T) {
	region, err := ParseRegion("bbhr", "-48.84,-22.04,-47.71,-23.21")
	require.NoError(t, err)

	bound := region.Bound()
	assert.Equal(t, -48.84, bound.Min[0])
	assert.Equal(t, -23.21, bound.Min[1])
	assert.Equal(t, -47.71, bound.Max[0])
	assert.Equal(t, -22.04, bound.Max[1])
}

func TestParseRegionRejectsBadInput(t *testing.T) {
	_, err := ParseRegion("x", "-48.84,-22.04,-47.71")
	assert.Error(t, err)

	_, err = ParseRegion("x", "-48.84,abc,-47.71,-23.21")
	assert.Error(t, err)

	// zero-area box
	_, err = ParseRegion("x", "-48.84,-22.04,-48.84,-23.21")
	assert.Error(t, err)
}

func TestGridCorrectsLongitudeByLatitude(t *testing.T) {
	// 1x1 degree box centered at latitude -22.5
	region, err := ParseRegion("box", "-48.5,-22.0,-47.5,-23.0")
	require.NoError(t, err)

	width, height := region.Grid(30)
	assert.Equal(t, int(1.0*(111_000.0/30)), height)
	assert.Equal(t, int(math.Cos(-22.5*math.Pi/180)*(111_000.0/30)), width)
	assert.Less(t, width, height)

	small, err := ParseRegion("small", "-48.001,-22.001,-48.0,-22.0")
	require.NoError(t, err)
	width, height = small.Grid(30)
	assert.GreaterOrEqual(t, width, 1)
	assert.GreaterOrEqual(t, height, 1)
	assert.Less(t, width, 10)
}

func TestTilesKeepFullResolutionForLargeRegions(t *testing.T) {
	region, err := ParseRegion("big", "-48.84725671390528,-22.04547298853004,-47.71712046185493,-23.21347463046867")
	require.NoError(t, err)

	width, height := region.Grid(30)
	require.Greater(t, width, maxTilePixels)
	require.Greater(t, height, maxTilePixels)

	tiles := region.Tiles(30)
	require.Greater(t, len(tiles), 1)

	covered := 0
	for _, tile := range tiles {
		assert.LessOrEqual(t, tile.Width, maxTilePixels)
		assert.LessOrEqual(t, tile.Height, maxTilePixels)
		covered += tile.Width * tile.Height
	}
	// the tiles partition the grid exactly, no overlap and no gap
	assert.Equal(t, width*height, covered)

	assert.Equal(t, 0, tiles[0].OffsetX)
	assert.Equal(t, 0, tiles[0].OffsetY)
	last := tiles[len(tiles)-1]
	assert.Equal(t, width, last.OffsetX+last.Width)
	assert.Equal(t, height, last.OffsetY+last.Height)

	bound := region.Bound()
	assert.InDelta(t, bound.Min[0], tiles[0].bound.Min[0], 1e-9)
	assert.InDelta(t, bound.Max[1], tiles[0].bound.Max[1], 1e-9)
	assert.InDelta(t, bound.Max[0], last.bound.Max[0], 1e-9)
	assert.InDelta(t, bound.Min[1], last.bound.Min[1], 1e-9)
}

func TestTilesSmallRegionIsSingleTile(t *testing.T) {
	region, err := ParseRegion("small", "-48.01,-22.01,-48.0,-22.0")
	require.NoError(t, err)

	tiles := region.Tiles(30)
	require.Len(t, tiles, 1)

	width, height := region.Grid(30)
	assert.Equal(t, width, tiles[0].Width)
	assert.Equal(t, height, tiles[0].Height)
	assert.Equal(t, 0, tiles[0].OffsetX)
	assert.Equal(t, 0, tiles[0].OffsetY)
}

func TestRegionFromGeoJSON(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "data", "geojsons")
	require.NoError(t, os.MkdirAll(dir, 0755))

	content := `{
	  "type": "FeatureCollection",
	  "features": [
	    {
	      "type": "Feature",
	      "properties": {"plot_id": "reservoir"},
	      "geometry": {
	        "type": "Polygon",
	        "coordinates": [[[-48.8,-23.2],[-47.7,-23.2],[-47.7,-22.0],[-48.8,-22.0],[-48.8,-23.2]]]
	      }
	    }
	  ]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basin.geojson"), []byte(content), 0644))

	region, err := RegionFromGeoJSON(root, "basin", "reservoir")
	require.NoError(t, err)
	assert.Equal(t, "basin_reservoir", region.Name)
	assert.Equal(t, -48.8, region.Bound().Min[0])
	assert.Equal(t, -22.0, region.Bound().Max[1])

	_, err = RegionFromGeoJSON(root, "basin", "missing-plot")
	assert.Error(t, err)
}
