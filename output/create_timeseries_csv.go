package output

import (
	"fmt"
	"os"

	"github.com/bloom-watch/bloom-watch-cli/internal/timeseries"
	"github.com/gocarina/gocsv"
)

// CreateTimeseriesCSV writes the yearly aggregates with the stable column
// order pixel, lat, lon, year, sum, occurrence, cloud_occurrence.
func CreateTimeseriesCSV(aggregates []timeseries.YearlyAggregate, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create timeseries file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&aggregates, file); err != nil {
		return fmt.Errorf("failed to save timeseries to file: %w", err)
	}

	fmt.Printf("Timeseries with %d rows successfully saved to %s.\n", len(aggregates), path)
	return nil
}

// ReadTimeseriesCSV parses a previously written timeseries file back.
func ReadTimeseriesCSV(path string) ([]timeseries.YearlyAggregate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timeseries file: %w", err)
	}
	defer file.Close()

	var aggregates []timeseries.YearlyAggregate
	if err := gocsv.UnmarshalFile(file, &aggregates); err != nil {
		return nil, fmt.Errorf("failed to read timeseries file: %w", err)
	}
	return aggregates, nil
}
