package timeseries

import (
	"testing"
	"time"

	"github.com/bloom-watch/bloom-watch-cli/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(pixel, year int, label string, value float64) index.PixelObservation {
	return index.PixelObservation{
		Pixel:     pixel,
		Latitude:  -22.5,
		Longitude: -48.2,
		Date:      time.Date(year, 7, 15, 0, 0, 0, 0, time.UTC),
		Value:     value,
		Label:     label,
	}
}

func TestAggregateSinglePixelYear(t *testing.T) {
	observations := []index.PixelObservation{
		obs(7, 1990, index.LabelAnomaly, 0.3),
		obs(7, 1990, index.LabelAnomaly, 0.2),
		obs(7, 1990, index.LabelCloud, 0),
	}

	aggregates := Aggregate(observations, 2)
	require.Len(t, aggregates, 1)

	row := aggregates[0]
	assert.Equal(t, 7, row.Pixel)
	assert.Equal(t, 1990, row.Year)
	assert.InDelta(t, 0.5, row.Sum, 1e-9)
	assert.Equal(t, 2, row.Occurrence)
	assert.Equal(t, 1, row.CloudOccurrence)
	assert.Equal(t, 3, row.Total)

	// raising the minimum drops the row entirely
	assert.Empty(t, Aggregate(observations, 3))
}

func TestAggregateCountInvariants(t *testing.T) {
	observations := []index.PixelObservation{
		obs(1, 1991, index.LabelAnomaly, 0.1),
		obs(1, 1991, index.LabelNormal, 0),
		obs(1, 1991, index.LabelCloud, 0),
		obs(2, 1991, index.LabelNormal, 0),
		obs(2, 1992, index.LabelAnomaly, 0.4),
	}

	aggregates := Aggregate(observations, 0)
	require.Len(t, aggregates, 3)

	for _, row := range aggregates {
		assert.LessOrEqual(t, row.Occurrence, row.Total)
		assert.LessOrEqual(t, row.CloudOccurrence, row.Total)
	}
}

func TestAggregateSortedByYearThenPixel(t *testing.T) {
	observations := []index.PixelObservation{
		obs(9, 1992, index.LabelAnomaly, 0.1),
		obs(1, 1992, index.LabelAnomaly, 0.1),
		obs(5, 1990, index.LabelAnomaly, 0.1),
	}

	aggregates := Aggregate(observations, 0)
	require.Len(t, aggregates, 3)
	assert.Equal(t, 1990, aggregates[0].Year)
	assert.Equal(t, 1, aggregates[1].Pixel)
	assert.Equal(t, 9, aggregates[2].Pixel)
}

func TestFilterMinOccurrenceSplitsExactly(t *testing.T) {
	observations := []index.PixelObservation{
		obs(1, 1990, index.LabelAnomaly, 0.1),
		obs(2, 1990, index.LabelAnomaly, 0.1),
		obs(2, 1990, index.LabelAnomaly, 0.1),
		obs(3, 1990, index.LabelNormal, 0),
	}

	unfiltered := Aggregate(observations, 0)
	require.Len(t, unfiltered, 3)

	filtered := FilterMinOccurrence(unfiltered, 2)
	require.Len(t, filtered, 1)
	assert.Equal(t, 2, filtered[0].Pixel)

	// every row at or above the minimum survives unchanged
	for _, row := range unfiltered {
		if row.Occurrence >= 2 {
			assert.Contains(t, filtered, row)
		} else {
			assert.NotContains(t, filtered, row)
		}
	}
}

func TestYearTotals(t *testing.T) {
	aggregates := []YearlyAggregate{
		{Pixel: 1, Year: 1990, Occurrence: 2, CloudOccurrence: 1},
		{Pixel: 2, Year: 1990, Occurrence: 1, CloudOccurrence: 0},
		{Pixel: 1, Year: 1991, Occurrence: 0, CloudOccurrence: 4},
	}

	occurrences, clouds := YearTotals(aggregates)
	assert.Equal(t, 3, occurrences[1990])
	assert.Equal(t, 1, clouds[1990])
	assert.Equal(t, 0, occurrences[1991])
	assert.Equal(t, 4, clouds[1991])
}
