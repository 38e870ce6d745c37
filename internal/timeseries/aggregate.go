package timeseries

import (
	"sort"

	"github.com/bloom-watch/bloom-watch-cli/internal/index"
)

// YearlyAggregate is one output row: everything observed for one pixel in one
// year. Occurrence counts anomalies, CloudOccurrence counts QA clouds and
// Total counts every valid observation of the pixel-year.
type YearlyAggregate struct {
	Pixel           int     `csv:"pixel"`
	Latitude        float64 `csv:"lat"`
	Longitude       float64 `csv:"lon"`
	Year            int     `csv:"year"`
	Sum             float64 `csv:"sum"`
	Occurrence      int     `csv:"occurrence"`
	CloudOccurrence int     `csv:"cloud_occurrence"`
	Total           int     `csv:"-"`
}

type pixelYear struct {
	pixel int
	year  int
}

// Aggregate groups observations by (pixel, year), summing anomaly index
// values and counting anomaly, cloud and total observations. Pixel-years with
// fewer than minOccurrence anomalies are dropped entirely to suppress noise
// from sparsely sampled years. Output is sorted by (year, pixel).
func Aggregate(observations []index.PixelObservation, minOccurrence int) []YearlyAggregate {
	grouped := make(map[pixelYear]*YearlyAggregate)

	for _, obs := range observations {
		key := pixelYear{pixel: obs.Pixel, year: obs.Date.Year()}
		aggregate, ok := grouped[key]
		if !ok {
			aggregate = &YearlyAggregate{
				Pixel:     obs.Pixel,
				Latitude:  obs.Latitude,
				Longitude: obs.Longitude,
				Year:      key.year,
			}
			grouped[key] = aggregate
		}

		aggregate.Total++
		switch obs.Label {
		case index.LabelAnomaly:
			aggregate.Sum += obs.Value
			aggregate.Occurrence++
		case index.LabelCloud:
			aggregate.CloudOccurrence++
		}
	}

	aggregates := make([]YearlyAggregate, 0, len(grouped))
	for _, aggregate := range grouped {
		aggregates = append(aggregates, *aggregate)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].Year != aggregates[j].Year {
			return aggregates[i].Year < aggregates[j].Year
		}
		return aggregates[i].Pixel < aggregates[j].Pixel
	})
	return FilterMinOccurrence(aggregates, minOccurrence)
}

// FilterMinOccurrence drops every row whose anomaly occurrence count is below
// minOccurrence. Rows are removed, not zeroed.
func FilterMinOccurrence(aggregates []YearlyAggregate, minOccurrence int) []YearlyAggregate {
	if minOccurrence <= 0 {
		return aggregates
	}
	kept := make([]YearlyAggregate, 0, len(aggregates))
	for _, aggregate := range aggregates {
		if aggregate.Occurrence >= minOccurrence {
			kept = append(kept, aggregate)
		}
	}
	return kept
}

// YearTotals sums anomaly and cloud occurrences per year, for the bar charts.
func YearTotals(aggregates []YearlyAggregate) (occurrences, clouds map[int]int) {
	occurrences = make(map[int]int)
	clouds = make(map[int]int)
	for _, aggregate := range aggregates {
		occurrences[aggregate.Year] += aggregate.Occurrence
		clouds[aggregate.Year] += aggregate.CloudOccurrence
	}
	return occurrences, clouds
}
