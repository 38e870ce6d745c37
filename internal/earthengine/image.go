package earthengine

import (
	"fmt"
	"time"

	"github.com/airbusgeo/godal"
)

// ImageRecord is one satellite capture decoded into memory: the raw band
// values for every pixel of the region grid plus the geotransform needed to
// recover pixel coordinates. Records are not persisted beyond the GeoTIFF
// they were read from.
type ImageRecord struct {
	ID     string
	Sensor SensorParams
	Date   time.Time
	Width  int
	Height int

	originLon float64
	originLat float64
	lonStep   float64
	latStep   float64

	// band name -> row-major pixel values, len Width*Height
	Bands map[string][]float64
}

// NewImageRecord builds a record from an explicit grid, used by callers that
// already hold band values in memory.
func NewImageRecord(id string, sensor SensorParams, date time.Time, width, height int, originLon, originLat, lonStep, latStep float64) *ImageRecord {
	return &ImageRecord{
		ID:        id,
		Sensor:    sensor,
		Date:      date,
		Width:     width,
		Height:    height,
		originLon: originLon,
		originLat: originLat,
		lonStep:   lonStep,
		latStep:   latStep,
		Bands:     make(map[string][]float64),
	}
}

// ReadImageRecord opens a fetched GeoTIFF and reads the sensor's bands into an
// ImageRecord. Band order in the file follows SensorParams.Bands, the order
// they were requested in.
func ReadImageRecord(tiffPath, id string, sensor SensorParams, date time.Time) (*ImageRecord, error) {
	ds, err := godal.Open(tiffPath, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("%s", msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", tiffPath, err)
	}
	defer ds.Close()

	geoTransform, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("failed to get GeoTransform: %w", err)
	}

	width := ds.Structure().SizeX
	height := ds.Structure().SizeY

	record := NewImageRecord(id, sensor, date, width, height,
		geoTransform[0], geoTransform[3], geoTransform[1], geoTransform[5])

	bandNames := sensor.Bands()
	bands := ds.Bands()
	if len(bands) < len(bandNames) {
		return nil, fmt.Errorf("image %s has %d bands, expected %d", tiffPath, len(bands), len(bandNames))
	}

	for i, name := range bandNames {
		band := bands[i]
		data := make([]float64, width*height)
		for y := 0; y < height; y++ {
			if err := band.Read(0, y, data[y*width:(y+1)*width], width, 1); err != nil {
				return nil, fmt.Errorf("failed to read data for band %s: %w", name, err)
			}
		}
		record.Bands[name] = data
	}

	return record, nil
}

// MergeTile copies a tile record's band values into the full grid at the
// given pixel offsets. Bands missing from the full record are allocated on
// first merge.
func (r *ImageRecord) MergeTile(part *ImageRecord, offsetX, offsetY int) {
	for name, data := range part.Bands {
		full, ok := r.Bands[name]
		if !ok {
			full = make([]float64, r.Width*r.Height)
			r.Bands[name] = full
		}
		for y := 0; y < part.Height; y++ {
			row := (offsetY+y)*r.Width + offsetX
			copy(full[row:row+part.Width], data[y*part.Width:(y+1)*part.Width])
		}
	}
}

// Value returns the raw band value at pixel (x, y).
func (r *ImageRecord) Value(band string, x, y int) float64 {
	return r.Bands[band][y*r.Width+x]
}

// PixelID numbers pixels row-major so the same grid cell keeps the same id
// across every image of the run.
func (r *ImageRecord) PixelID(x, y int) int {
	return y*r.Width + x
}

// PixelLatLon converts pixel coordinates to the WGS84 center of the cell.
func (r *ImageRecord) PixelLatLon(x, y int) (lat, lon float64) {
	lon = r.originLon + r.lonStep*(float64(x)+0.5)
	lat = r.originLat + r.latStep*(float64(y)+0.5)
	return lat, lon
}
