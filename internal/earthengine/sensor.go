package earthengine

import (
	"fmt"
	"strings"
)

// SensorParams describes one satellite product: the collection asset served by
// the imagery API, its ground resolution, revisit cadence and the band names
// needed for the water-quality indices.
type SensorParams struct {
	Name         string
	Collection   string
	Scale        float64 // meters per pixel
	IntervalDays int     // minimum spacing between fetched captures
	Blue         string
	Green        string
	Red          string
	NIR          string
	SWIR         string
	QA           string
	// center wavelengths in nanometers, used by fai and slope
	RedWavelength  float64
	NIRWavelength  float64
	SWIRWavelength float64
}

var sensors = map[string]SensorParams{
	"landsat5": {
		Name:           "Landsat 5 TM Surface Reflectance",
		Collection:     "LANDSAT/LT05/C02/T1_L2",
		Scale:          30,
		IntervalDays:   16,
		Blue:           "SR_B1",
		Green:          "SR_B2",
		Red:            "SR_B3",
		NIR:            "SR_B4",
		SWIR:           "SR_B5",
		QA:             "QA_PIXEL",
		RedWavelength:  660,
		NIRWavelength:  830,
		SWIRWavelength: 1650,
	},
	"landsat7": {
		Name:           "Landsat 7 ETM+ Surface Reflectance",
		Collection:     "LANDSAT/LE07/C02/T1_L2",
		Scale:          30,
		IntervalDays:   16,
		Blue:           "SR_B1",
		Green:          "SR_B2",
		Red:            "SR_B3",
		NIR:            "SR_B4",
		SWIR:           "SR_B5",
		QA:             "QA_PIXEL",
		RedWavelength:  660,
		NIRWavelength:  835,
		SWIRWavelength: 1650,
	},
	"landsat8": {
		Name:           "Landsat 8 OLI Surface Reflectance",
		Collection:     "LANDSAT/LC08/C02/T1_L2",
		Scale:          30,
		IntervalDays:   16,
		Blue:           "SR_B2",
		Green:          "SR_B3",
		Red:            "SR_B4",
		NIR:            "SR_B5",
		SWIR:           "SR_B6",
		QA:             "QA_PIXEL",
		RedWavelength:  655,
		NIRWavelength:  865,
		SWIRWavelength: 1610,
	},
	"modis": {
		Name:           "MODIS Terra Surface Reflectance",
		Collection:     "MODIS/061/MOD09GA",
		Scale:          250,
		IntervalDays:   1,
		Blue:           "sur_refl_b03",
		Green:          "sur_refl_b04",
		Red:            "sur_refl_b01",
		NIR:            "sur_refl_b02",
		SWIR:           "sur_refl_b06",
		QA:             "state_1km",
		RedWavelength:  645,
		NIRWavelength:  859,
		SWIRWavelength: 1640,
	},
	"sentinel2": {
		Name:           "Sentinel-2 MSI Surface Reflectance",
		Collection:     "COPERNICUS/S2_SR_HARMONIZED",
		Scale:          10,
		IntervalDays:   5,
		Blue:           "B2",
		Green:          "B3",
		Red:            "B4",
		NIR:            "B8",
		SWIR:           "B11",
		QA:             "SCL",
		RedWavelength:  665,
		NIRWavelength:  842,
		SWIRWavelength: 1610,
	},
}

// landsat578 fans out to the three Landsat missions so a long time series can
// span all of them. Band names differ between missions, so each request keeps
// its own SensorParams.
var landsat578 = []string{"landsat5", "landsat7", "landsat8"}

// GetSensorParams resolves a sensor name into the collections that should be
// queried for it. "landsat578" expands to Landsat 5, 7 and 8.
func GetSensorParams(sensor string) ([]SensorParams, error) {
	name := strings.ToLower(strings.TrimSpace(sensor))
	if name == "landsat578" {
		params := make([]SensorParams, 0, len(landsat578))
		for _, s := range landsat578 {
			params = append(params, sensors[s])
		}
		return params, nil
	}

	params, ok := sensors[name]
	if !ok {
		return nil, fmt.Errorf("unknown sensor %q, expected one of landsat5, landsat7, landsat8, landsat578, modis, sentinel2", sensor)
	}
	return []SensorParams{params}, nil
}

// Bands lists every band a pixel request needs, QA included.
func (sp SensorParams) Bands() []string {
	return []string{sp.Blue, sp.Green, sp.Red, sp.NIR, sp.SWIR, sp.QA}
}

// RGBBands lists the true-color bands used by the GeoTIFF export.
func (sp SensorParams) RGBBands() []string {
	return []string{sp.Red, sp.Green, sp.Blue}
}
