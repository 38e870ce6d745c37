package earthengine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
)

// GetImages fetches every capture of the sensor intersecting the region in the
// given windows and decodes them into ImageRecords, ordered by date. Fetched
// GeoTIFFs persist under <rootPath>/data/images/<region> and are reused on
// later runs; images the service reported missing are remembered and skipped.
func GetImages(client *Client, rootPath string, region Region, windows []TimeWindow, sensor string) ([]*ImageRecord, error) {
	sensorParams, err := GetSensorParams(sensor)
	if err != nil {
		return nil, err
	}

	imageDir := filepath.Join(rootPath, "data", "images", region.Name)
	if err := os.MkdirAll(imageDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	notFoundFile := filepath.Join(imageDir, "invalid_images.json")
	notFound, err := loadNotFoundList(notFoundFile)
	if err != nil {
		return nil, err
	}

	var records []*ImageRecord
	for _, params := range sensorParams {
		tiles := region.Tiles(params.Scale)
		for _, window := range windows {
			catalog, err := client.ListImages(params.Collection, region, window)
			if err != nil {
				return nil, err
			}
			sort.Slice(catalog, func(i, j int) bool {
				return catalog[i].StartTime.Before(catalog[j].StartTime)
			})

			bar := progressbar.Default(int64(len(catalog)), fmt.Sprintf("Fetching %s images", params.Name))
			var lastKept time.Time
			for _, info := range catalog {
				bar.Add(1)
				date := info.StartTime.Truncate(24 * time.Hour)

				// the catalog listing may include boundary captures
				if !window.Contains(date) {
					continue
				}

				// one capture per revisit interval; daily products like MODIS
				// would otherwise flood the run
				if !lastKept.IsZero() && date.Sub(lastKept) < time.Duration(params.IntervalDays)*24*time.Hour {
					continue
				}

				imageName := fmt.Sprintf("%s_%s", path.Base(params.Collection), date.Format("2006-01-02"))
				if notFound[imageName] {
					continue
				}

				record, err := fetchImage(client, imageDir, imageName, info, params, region, tiles, date)
				if err != nil {
					if errors.Is(err, ErrImageNotFound) {
						notFound[imageName] = true
						saveNotFoundList(notFoundFile, notFound)
						continue
					}
					return nil, fmt.Errorf("error requesting image %s: %w", info.ID, err)
				}
				records = append(records, record)
				lastKept = date
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// fetchImage downloads one capture tile by tile and decodes it into a single
// record spanning the full region grid. Regions within the per-request limit
// come down as one tile; larger ones are stitched at their pixel offsets so
// ids match the full grid regardless of the tiling.
func fetchImage(client *Client, imageDir, imageName string, info ImageInfo, params SensorParams, region Region, tiles []Tile, date time.Time) (*ImageRecord, error) {
	if len(tiles) == 1 {
		filePath := filepath.Join(imageDir, imageName+".tif")
		if err := fetchTile(client, filePath, info.ID, params, tiles[0]); err != nil {
			return nil, err
		}
		return ReadImageRecord(filePath, info.ID, params, date)
	}

	width, height := region.Grid(params.Scale)
	bound := region.Bound()
	record := NewImageRecord(info.ID, params, date, width, height,
		bound.Min[0], bound.Max[1],
		(bound.Max[0]-bound.Min[0])/float64(width),
		-(bound.Max[1]-bound.Min[1])/float64(height))

	for _, tile := range tiles {
		filePath := filepath.Join(imageDir, fmt.Sprintf("%s_%d_%d.tif", imageName, tile.OffsetX, tile.OffsetY))
		if err := fetchTile(client, filePath, info.ID, params, tile); err != nil {
			return nil, err
		}
		part, err := ReadImageRecord(filePath, info.ID, params, date)
		if err != nil {
			return nil, err
		}
		record.MergeTile(part, tile.OffsetX, tile.OffsetY)
	}
	return record, nil
}

func fetchTile(client *Client, filePath, imageID string, params SensorParams, tile Tile) error {
	if _, err := os.Stat(filePath); err == nil {
		return nil
	}

	imageBytes, err := client.GetPixels(imageID, params.Bands(), tile)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, imageBytes, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

func loadNotFoundList(filePath string) (map[string]bool, error) {
	notFound := make(map[string]bool)
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return notFound, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", filePath, err)
	}
	for _, name := range names {
		notFound[name] = true
	}
	return notFound, nil
}

func saveNotFoundList(filePath string, notFound map[string]bool) {
	names := make([]string, 0, len(notFound))
	for name := range notFound {
		names = append(names, name)
	}
	sort.Strings(names)

	data, _ := json.Marshal(names)
	_ = os.WriteFile(filePath, data, 0644)
}
