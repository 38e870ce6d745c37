package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bloom-watch/bloom-watch-cli/internal/delivery"
	"github.com/bloom-watch/bloom-watch-cli/internal/earthengine"
	"github.com/bloom-watch/bloom-watch-cli/internal/index"
	"github.com/bloom-watch/bloom-watch-cli/internal/properties"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func printBanner() {
	figure1 := figure.NewFigure("Bloom", "isometric1", true)
	figure2 := figure.NewFigure("Watch", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

var (
	flagLatLon         string
	flagGeoJSON        string
	flagPlot           string
	flagDateStart      string
	flagDateEnd        string
	flagDateStart2     string
	flagDateEnd2       string
	flagName           string
	flagSensor         string
	flagIndex          string
	flagIndexThreshold float64
	flagMinOccurrence  int
	flagCacheDir       string
	flagForceCache     bool
	flagExportTIFF     bool
	flagExportBucket   string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bloom-watch",
		Short: "Map algal bloom yearly occurrences in a region of interest",
		Long: "Queries a satellite imagery service for a bounding box and date range, computes\n" +
			"water-quality spectral indices per pixel, classifies cloud/normal/anomaly and\n" +
			"aggregates per-pixel yearly occurrence counts into CSV, plot and GeoJSON outputs.",
		SilenceUsage: true,
		RunE:         runAnalysis,
	}

	cmd.Flags().StringVar(&flagLatLon, "lat-lon", "-48.84725671390528,-22.04547298853004,-47.71712046185493,-23.21347463046867",
		"Two diagonal corner points (lon1,lat1,lon2,lat2) of the study area")
	cmd.Flags().StringVar(&flagGeoJSON, "geojson", "", "Name of a GeoJSON file under data/geojsons to take the region from (overrides --lat-lon)")
	cmd.Flags().StringVar(&flagPlot, "plot", "", "plot_id of the GeoJSON feature to use with --geojson")
	cmd.Flags().StringVar(&flagDateStart, "date-start", "1985-01-01", "Date to start the time series (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagDateEnd, "date-end", "2001-12-31", "Date to end the time series (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagDateStart2, "date-start2", "", "Start of an optional second, disjoint seasonal window")
	cmd.Flags().StringVar(&flagDateEnd2, "date-end2", "", "End of the optional second seasonal window")
	cmd.Flags().StringVar(&flagName, "name", "bbhr", "Run name used in output folder and image store")
	cmd.Flags().StringVar(&flagSensor, "sensor", "landsat578", "Sensor to use: landsat5, landsat7, landsat8, landsat578, modis or sentinel2")
	cmd.Flags().StringVar(&flagIndex, "index", "slope", "Comma-separated indices used to detect blooms: ndvi, fai, sabi, mndwi, slope")
	cmd.Flags().Float64Var(&flagIndexThreshold, "index-threshold", -0.05, "Threshold overriding the per-index calibrated constants")
	cmd.Flags().IntVar(&flagMinOccurrence, "min-occurrence", 1, "Minimum yearly anomaly count for a pixel to appear in the output")
	cmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "Cache directory (default <ROOT_PATH>/cache)")
	cmd.Flags().BoolVar(&flagForceCache, "force-cache", false, "Bypass cache lookups and rebuild every entry")
	cmd.Flags().BoolVar(&flagExportTIFF, "export-tiff", false, "Submit fire-and-forget GeoTIFF export jobs for every fetched image")
	cmd.Flags().StringVar(&flagExportBucket, "export-bucket", "", "Cloud storage bucket for GeoTIFF exports (default EXPORT_BUCKET)")

	return cmd
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	region, err := resolveRegion()
	if err != nil {
		return err
	}

	windows, err := resolveWindows()
	if err != nil {
		return err
	}

	if _, err := earthengine.GetSensorParams(flagSensor); err != nil {
		return err
	}

	indices, err := index.ParseIndices(flagIndex)
	if err != nil {
		return err
	}

	var override *float64
	if cmd.Flags().Changed("index-threshold") {
		override = &flagIndexThreshold
	}

	cacheDir := flagCacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(properties.RootPath(), "cache")
	}

	params := delivery.RunParams{
		Name:          flagName,
		Region:        region,
		Windows:       windows,
		Sensor:        flagSensor,
		Indices:       indices,
		Thresholds:    index.Thresholds(indices, override),
		MinOccurrence: flagMinOccurrence,
		CacheDir:      cacheDir,
		ForceCache:    flagForceCache,
		ExportTIFF:    flagExportTIFF,
		ExportBucket:  flagExportBucket,
	}

	start := time.Now()
	folder, err := delivery.RunAnalysis(cmd.Context(), params)
	if err != nil {
		return err
	}

	fmt.Printf("\n\033[32mAnalysis completed successfully in %s.\nResults located at: %s\033[0m\n", time.Since(start).Round(time.Second), folder)
	return nil
}

func resolveRegion() (earthengine.Region, error) {
	if flagGeoJSON != "" {
		if flagPlot == "" {
			return earthengine.Region{}, fmt.Errorf("--geojson requires --plot")
		}
		return earthengine.RegionFromGeoJSON(properties.RootPath(), flagGeoJSON, flagPlot)
	}
	return earthengine.ParseRegion(flagName, flagLatLon)
}

func resolveWindows() ([]earthengine.TimeWindow, error) {
	first, err := parseWindow(flagDateStart, flagDateEnd)
	if err != nil {
		return nil, err
	}
	windows := []earthengine.TimeWindow{first}

	if flagDateStart2 != "" || flagDateEnd2 != "" {
		if flagDateStart2 == "" || flagDateEnd2 == "" {
			return nil, fmt.Errorf("a second window needs both --date-start2 and --date-end2")
		}
		second, err := parseWindow(flagDateStart2, flagDateEnd2)
		if err != nil {
			return nil, err
		}
		windows = append(windows, second)
	}

	if err := earthengine.ValidateWindows(windows); err != nil {
		return nil, err
	}
	return windows, nil
}

func parseWindow(startStr, endStr string) (earthengine.TimeWindow, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return earthengine.TimeWindow{}, fmt.Errorf("invalid date %q: %w", startStr, err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return earthengine.TimeWindow{}, fmt.Errorf("invalid date %q: %w", endStr, err)
	}
	return earthengine.NewTimeWindow(start, end)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		godotenv.Load("../.env")
	}

	printBanner()

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Printf("\033[31mError: %s\033[0m\n", err.Error())
		os.Exit(1)
	}
}
