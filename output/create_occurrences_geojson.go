package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bloom-watch/bloom-watch-cli/internal/timeseries"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CreateOccurrencesGeoJSON writes one Point feature per aggregate row with
// properties year, occurrence and cloud.
func CreateOccurrencesGeoJSON(aggregates []timeseries.YearlyAggregate, path string) error {
	fc := geojson.NewFeatureCollection()
	for _, aggregate := range aggregates {
		feature := geojson.NewFeature(orb.Point{aggregate.Longitude, aggregate.Latitude})
		feature.Properties["year"] = aggregate.Year
		feature.Properties["occurrence"] = aggregate.Occurrence
		feature.Properties["cloud"] = aggregate.CloudOccurrence
		fc.Append(feature)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create GeoJSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fc); err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}

	fmt.Println("GeoJSON file created successfully at", path)
	return nil
}
