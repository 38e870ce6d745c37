package earthengine

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Region is the bounding polygon of one study area. It is fixed for the whole
// run: every image request, pixel id and output row refers to this box.
type Region struct {
	Name  string
	bound orb.Bound
}

// ParseRegion builds a Region from two diagonal corner points given as
// "lon1,lat1,lon2,lat2".
func ParseRegion(name, latLon string) (Region, error) {
	parts := strings.Split(latLon, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("expected 4 comma-separated coordinates, got %d", len(parts))
	}

	coords := make([]float64, 4)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Region{}, fmt.Errorf("invalid coordinate %q: %w", part, err)
		}
		coords[i] = value
	}

	bound := orb.Bound{
		Min: orb.Point{min(coords[0], coords[2]), min(coords[1], coords[3])},
		Max: orb.Point{max(coords[0], coords[2]), max(coords[1], coords[3])},
	}
	if bound.Min[0] == bound.Max[0] || bound.Min[1] == bound.Max[1] {
		return Region{}, fmt.Errorf("degenerate bounding box %q", latLon)
	}

	return Region{Name: name, bound: bound}, nil
}

// RegionFromGeoJSON loads a region polygon from data/geojsons/<file>.geojson,
// selecting the feature whose plot_id property matches plot.
func RegionFromGeoJSON(rootPath, file, plot string) (Region, error) {
	filePath := fmt.Sprintf("%s/data/geojsons/%s.geojson", rootPath, file)
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Region{}, fmt.Errorf("failed to read geojson file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Region{}, fmt.Errorf("failed to parse geojson file %s: %w", filePath, err)
	}

	for _, feature := range fc.Features {
		if id, ok := feature.Properties["plot_id"].(string); ok && id == plot {
			return Region{Name: file + "_" + plot, bound: feature.Geometry.Bound()}, nil
		}
	}

	return Region{}, fmt.Errorf("geometry not found for file %s and plot %s", file, plot)
}

func (r Region) Bound() orb.Bound {
	return r.bound
}

// Geometry returns the region polygon in the shape the imagery API expects.
func (r Region) Geometry() *geojson.Geometry {
	return geojson.NewGeometry(r.bound.ToPolygon())
}

// maxTilePixels is the service's per-request grid limit.
const maxTilePixels = 2500

// Grid computes the full raster dimensions of the region at the given scale,
// never degraded to fit a request. Longitude degrees shrink with latitude,
// so the width span is corrected by the cosine of the region's mean latitude.
func (r Region) Grid(scale float64) (width, height int) {
	meanLat := (r.bound.Min[1] + r.bound.Max[1]) / 2
	lonSpan := (r.bound.Max[0] - r.bound.Min[0]) * math.Cos(meanLat*math.Pi/180)
	width = pixelSpan(lonSpan, scale)
	height = pixelSpan(r.bound.Max[1]-r.bound.Min[1], scale)
	return width, height
}

// Tile is one fetchable chunk of the region grid. Offsets are pixel
// coordinates within the full grid.
type Tile struct {
	bound   orb.Bound
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

func (t Tile) Geometry() *geojson.Geometry {
	return geojson.NewGeometry(t.bound.ToPolygon())
}

// Tiles splits the region grid into chunks the service accepts in one
// request. A region within the limit yields a single tile covering the whole
// grid; larger regions are cut along pixel boundaries so the tiles stitch
// back into the full grid without overlap and pixel ids stay stable.
func (r Region) Tiles(scale float64) []Tile {
	width, height := r.Grid(scale)
	lonPerPixel := (r.bound.Max[0] - r.bound.Min[0]) / float64(width)
	latPerPixel := (r.bound.Max[1] - r.bound.Min[1]) / float64(height)

	var tiles []Tile
	for y0 := 0; y0 < height; y0 += maxTilePixels {
		tileHeight := min(maxTilePixels, height-y0)
		for x0 := 0; x0 < width; x0 += maxTilePixels {
			tileWidth := min(maxTilePixels, width-x0)
			tiles = append(tiles, Tile{
				bound: orb.Bound{
					Min: orb.Point{
						r.bound.Min[0] + float64(x0)*lonPerPixel,
						r.bound.Max[1] - float64(y0+tileHeight)*latPerPixel,
					},
					Max: orb.Point{
						r.bound.Min[0] + float64(x0+tileWidth)*lonPerPixel,
						r.bound.Max[1] - float64(y0)*latPerPixel,
					},
				},
				OffsetX: x0,
				OffsetY: y0,
				Width:   tileWidth,
				Height:  tileHeight,
			})
		}
	}
	return tiles
}

func pixelSpan(degrees, scale float64) int {
	pixels := degrees * (111_000.0 / scale)
	if pixels < 1 {
		return 1
	}
	return int(pixels)
}
