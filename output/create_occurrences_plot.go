package output

import (
	"fmt"
	"path/filepath"

	"github.com/bloom-watch/bloom-watch-cli/internal/properties"
	"github.com/bloom-watch/bloom-watch-cli/internal/timeseries"
	"github.com/bloom-watch/bloom-watch-cli/internal/utils"
	"github.com/fogleman/gg"
)

const (
	plotWidth  = 1200
	plotHeight = 700
	plotMargin = 80.0
)

// CreateOccurrencesPlots renders one bar chart of anomaly occurrences per year
// and one of cloud occurrences per year into folder.
func CreateOccurrencesPlots(aggregates []timeseries.YearlyAggregate, folder string) error {
	occurrences, clouds := timeseries.YearTotals(aggregates)
	years := utils.GetSortedKeys(occurrences, true)

	err := drawBarChart(years, occurrences, "Algal Bloom Yearly Occurrences",
		properties.ColorMap["anomaly"], filepath.Join(folder, "occurrences.png"))
	if err != nil {
		return err
	}

	return drawBarChart(years, clouds, "Yearly Cloud Occurrences",
		properties.ColorMap["cloud"], filepath.Join(folder, "occurrences_clouds.png"))
}

func drawBarChart(years []int, totals map[int]int, title string, barColor properties.Color, path string) error {
	dc := gg.NewContext(plotWidth, plotHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, plotWidth/2, plotMargin/2, 0.5, 0.5)

	if len(years) == 0 {
		return dc.SavePNG(path)
	}

	maxTotal := 1
	for _, year := range years {
		if totals[year] > maxTotal {
			maxTotal = totals[year]
		}
	}

	chartWidth := float64(plotWidth) - 2*plotMargin
	chartHeight := float64(plotHeight) - 2*plotMargin
	slot := chartWidth / float64(len(years))
	barWidth := slot * 0.7

	// axes
	dc.SetLineWidth(1)
	dc.DrawLine(plotMargin, plotMargin, plotMargin, plotMargin+chartHeight)
	dc.DrawLine(plotMargin, plotMargin+chartHeight, plotMargin+chartWidth, plotMargin+chartHeight)
	dc.Stroke()

	for i, year := range years {
		total := totals[year]
		barHeight := chartHeight * float64(total) / float64(maxTotal)
		x := plotMargin + float64(i)*slot + (slot-barWidth)/2
		y := plotMargin + chartHeight - barHeight

		dc.SetRGB255(int(barColor.R), int(barColor.G), int(barColor.B))
		dc.DrawRectangle(x, y, barWidth, barHeight)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(fmt.Sprintf("%d", year), x+barWidth/2, plotMargin+chartHeight+18, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d", total), x+barWidth/2, y-12, 0.5, 0.5)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}

	fmt.Println("Plot created successfully at", path)
	return nil
}
