package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bloom-watch/bloom-watch-cli/internal/cache"
	"github.com/bloom-watch/bloom-watch-cli/internal/earthengine"
	"github.com/bloom-watch/bloom-watch-cli/internal/index"
	"github.com/bloom-watch/bloom-watch-cli/internal/notification"
	"github.com/bloom-watch/bloom-watch-cli/internal/properties"
	"github.com/bloom-watch/bloom-watch-cli/internal/timeseries"
	"github.com/bloom-watch/bloom-watch-cli/output"
	"github.com/schollz/progressbar/v3"
)

// RunParams is everything one analysis run needs. A run is sequential and
// single-pass: fetch, classify, aggregate, write.
type RunParams struct {
	Name          string
	Region        earthengine.Region
	Windows       []earthengine.TimeWindow
	Sensor        string
	Indices       []string
	Thresholds    map[string]float64
	MinOccurrence int
	CacheDir      string
	ForceCache    bool
	ExportTIFF    bool
	ExportBucket  string
}

// RunAnalysis executes one full run and returns the output folder. Any error
// is fatal for the run; nothing partial is persisted besides cache entries
// and fetched GeoTIFFs, which make a rerun cheap.
func RunAnalysis(ctx context.Context, params RunParams) (string, error) {
	start := time.Now()

	folder, err := createOutputFolder(params)
	if err != nil {
		return "", err
	}

	fileCache := cache.NewFileCache[[]timeseries.YearlyAggregate](params.CacheDir)
	fingerprint := fileCache.GenerateKey(
		params.Sensor,
		params.Region.Name,
		params.Region.Bound(),
		windowsKey(params.Windows),
		strings.Join(params.Indices, ","),
		thresholdsKey(params.Indices, params.Thresholds),
	)

	// records stay nil on a cache hit; exports then have nothing to submit
	var records []*earthengine.ImageRecord

	unfiltered, err := fileCache.GetOrCompute(fingerprint, params.ForceCache, func() ([]timeseries.YearlyAggregate, error) {
		client, err := earthengine.NewClient(ctx)
		if err != nil {
			return nil, err
		}

		records, err = earthengine.GetImages(client, properties.RootPath(), params.Region, params.Windows, params.Sensor)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("no images were found within the selected period")
		}

		bar := progressbar.Default(int64(len(records)), "Classifying pixels")
		var observations []index.PixelObservation
		for _, record := range records {
			observations = append(observations, index.Classify(record, params.Indices, params.Thresholds)...)
			bar.Add(1)
		}

		return timeseries.Aggregate(observations, 0), nil
	})
	if err != nil {
		notification.SendDiscordErrorNotification(fmt.Sprintf("Bloom Watch CLI\n\nError processing %s: %s", params.Name, err.Error()))
		return "", err
	}

	aggregates := timeseries.FilterMinOccurrence(unfiltered, params.MinOccurrence)

	if err := output.CreateTimeseriesCSV(aggregates, filepath.Join(folder, "timeseries.csv")); err != nil {
		return "", err
	}
	if err := output.CreateOccurrencesPlots(aggregates, folder); err != nil {
		return "", err
	}
	if err := output.CreateOccurrencesGeoJSON(aggregates, filepath.Join(folder, "occurrences.json")); err != nil {
		return "", err
	}

	if params.ExportTIFF {
		if len(records) == 0 {
			fmt.Println("Timeseries came from cache; no freshly fetched images to export. Rerun with --force-cache to export.")
		} else {
			client, err := earthengine.NewClient(ctx)
			if err != nil {
				return "", err
			}
			for _, submitErr := range earthengine.ExportGeoTIFFs(client, params.Region, records, params.ExportBucket) {
				fmt.Println("Export submission failed:", submitErr.Error())
			}
		}
	}

	notification.SendDiscordSuccessNotification(fmt.Sprintf(
		"Bloom Watch CLI\n\nSuccessful analysis of %s (%d rows in %s)", params.Name, len(aggregates), time.Since(start).Round(time.Second)))
	return folder, nil
}

// createOutputFolder builds the timestamped, parameter-named result directory.
func createOutputFolder(params RunParams) (string, error) {
	threshold := params.Thresholds[params.Indices[0]]
	folder := filepath.Join(properties.RootPath(), "data", "result",
		fmt.Sprintf("%s[%s,dstart=%s,dend=%s,i=%s,it=%v]",
			time.Now().Format("20060102_150405"),
			params.Name,
			params.Windows[0].Start.Format("2006-01-02"),
			params.Windows[len(params.Windows)-1].End.Format("2006-01-02"),
			strings.Join(params.Indices, "+"),
			threshold))

	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}
	return folder, nil
}

func windowsKey(windows []earthengine.TimeWindow) string {
	parts := make([]string, 0, len(windows))
	for _, window := range windows {
		parts = append(parts, window.String())
	}
	return strings.Join(parts, "|")
}

func thresholdsKey(indices []string, thresholds map[string]float64) string {
	parts := make([]string, 0, len(indices))
	for _, name := range indices {
		parts = append(parts, fmt.Sprintf("%s=%v", name, thresholds[name]))
	}
	return strings.Join(parts, "|")
}
