package index

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bloom-watch/bloom-watch-cli/internal/earthengine"
)

const (
	LabelCloud   = "cloud"
	LabelNormal  = "normal"
	LabelAnomaly = "anomaly"
)

// PixelObservation is one classified pixel of one capture. Value carries the
// first requested index so downstream sums stay comparable across a run.
type PixelObservation struct {
	Pixel     int
	Latitude  float64
	Longitude float64
	Date      time.Time
	Value     float64
	Label     string
}

// DefaultThresholds holds the per-index calibration constants: a pixel whose
// index value is at or above the threshold counts toward an anomaly.
var DefaultThresholds = map[string]float64{
	"ndvi":  -0.15,
	"fai":   -0.004,
	"sabi":  -0.10,
	"mndwi": 0.0,
	"slope": -0.05,
}

// ParseIndices validates a comma-separated index list.
func ParseIndices(list string) ([]string, error) {
	parts := strings.Split(list, ",")
	indices := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, ok := DefaultThresholds[name]; !ok {
			return nil, fmt.Errorf("unknown index %q, expected one of ndvi, fai, sabi, mndwi, slope", part)
		}
		indices = append(indices, name)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no index selected")
	}
	return indices, nil
}

// Thresholds resolves the cutoff for each requested index. A non-nil override
// replaces the calibrated constant for every index of the run.
func Thresholds(indices []string, override *float64) map[string]float64 {
	thresholds := make(map[string]float64, len(indices))
	for _, name := range indices {
		if override != nil {
			thresholds[name] = *override
		} else {
			thresholds[name] = DefaultThresholds[name]
		}
	}
	return thresholds
}

func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Value computes one spectral index from raw band values.
func Value(name string, sensor earthengine.SensorParams, blue, green, red, nir, swir float64) float64 {
	switch name {
	case "ndvi":
		return safeDivide(nir-red, nir+red)
	case "fai":
		ratio := (sensor.NIRWavelength - sensor.RedWavelength) / (sensor.SWIRWavelength - sensor.RedWavelength)
		return nir - (red + (swir-red)*ratio)
	case "sabi":
		return safeDivide(nir-red, green+blue)
	case "mndwi":
		return safeDivide(green-swir, green+swir)
	case "slope":
		return spectralSlope(sensor, red, nir, swir)
	}
	return math.NaN()
}

// spectralSlope fits reflectance against wavelength across the red, nir and
// swir bands by least squares; a rising red-to-swir ramp is the bloom
// signature the composite detector keys on.
func spectralSlope(sensor earthengine.SensorParams, red, nir, swir float64) float64 {
	xs := [3]float64{sensor.RedWavelength, sensor.NIRWavelength, sensor.SWIRWavelength}
	ys := [3]float64{red, nir, swir}

	var sumX, sumY, sumXY, sumXX float64
	for i := 0; i < 3; i++ {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	n := 3.0
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	// scale per 1000 nm so thresholds sit in the same range as the ratios
	return (n*sumXY - sumX*sumY) / denom * 1000
}

// Classify computes the requested indices for every valid pixel of a capture
// and labels it. QA-flagged cloudy pixels are cloud regardless of index
// values; a pixel is an anomaly only if every requested index meets its
// threshold, otherwise normal. Masked or empty pixels produce no observation.
func Classify(record *earthengine.ImageRecord, indices []string, thresholds map[string]float64) []PixelObservation {
	observations := make([]PixelObservation, 0, record.Width*record.Height)

	for y := 0; y < record.Height; y++ {
		for x := 0; x < record.Width; x++ {
			blue := record.Value(record.Sensor.Blue, x, y)
			green := record.Value(record.Sensor.Green, x, y)
			red := record.Value(record.Sensor.Red, x, y)
			nir := record.Value(record.Sensor.NIR, x, y)
			swir := record.Value(record.Sensor.SWIR, x, y)
			qa := record.Value(record.Sensor.QA, x, y)

			if !pixelValid(blue, green, red, nir, swir) {
				continue
			}

			lat, lon := record.PixelLatLon(x, y)
			observation := PixelObservation{
				Pixel:     record.PixelID(x, y),
				Latitude:  lat,
				Longitude: lon,
				Date:      record.Date,
			}

			if isCloud(record.Sensor, qa) {
				observation.Label = LabelCloud
				observations = append(observations, observation)
				continue
			}

			anomaly := true
			for i, name := range indices {
				value := Value(name, record.Sensor, blue, green, red, nir, swir)
				if i == 0 {
					observation.Value = value
				}
				if value < thresholds[name] {
					anomaly = false
				}
			}

			if anomaly {
				observation.Label = LabelAnomaly
			} else {
				observation.Label = LabelNormal
			}
			observations = append(observations, observation)
		}
	}

	return observations
}

// dummyValue marks pixels outside the water mask in fetched rasters.
const dummyValue = 99999

func pixelValid(bands ...float64) bool {
	allZero := true
	for _, value := range bands {
		if math.IsNaN(value) {
			return false
		}
		if math.Abs(value) >= dummyValue {
			return false
		}
		if value != 0 {
			allZero = false
		}
	}
	return !allZero
}

// isCloud reads the sensor's QA band. Landsat QA_PIXEL flags cloud and cloud
// shadow in bits 3 and 4, MODIS state_1km keeps cloud state in bits 0-1, and
// Sentinel-2 SCL marks shadow/cloud/cirrus classes 3, 8, 9 and 10.
func isCloud(sensor earthengine.SensorParams, qa float64) bool {
	bits := int64(qa)
	switch sensor.QA {
	case "QA_PIXEL":
		return bits&(1<<3) != 0 || bits&(1<<4) != 0
	case "state_1km":
		return bits&0b11 == 1 || bits&0b11 == 2
	case "SCL":
		return bits == 3 || bits == 8 || bits == 9 || bits == 10
	}
	return false
}
