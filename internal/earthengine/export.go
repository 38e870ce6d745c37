package earthengine

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bloom-watch/bloom-watch-cli/internal/properties"
	"github.com/gammazero/workerpool"
)

// ExportGeoTIFFs submits one asynchronous export job per image, sending its
// true-color and QA bands to the configured cloud storage bucket. The jobs are
// fire-and-forget: the service processes them out-of-band (possibly hours
// later) and this function returns once every submission was accepted.
// Completion is observed only at the storage destination, never polled here.
func ExportGeoTIFFs(client *Client, region Region, records []*ImageRecord, bucket string) []error {
	if bucket == "" {
		bucket = properties.ExportBucket()
	}

	wp := workerpool.New(4)
	errChan := make(chan error, len(records))

	for _, record := range records {
		record := record
		wp.Submit(func() {
			if err := submitExport(client, region, record, bucket); err != nil {
				errChan <- fmt.Errorf("export of %s: %w", record.ID, err)
			}
		})
	}

	wp.StopWait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	return errs
}

func submitExport(client *Client, region Region, record *ImageRecord, bucket string) error {
	project := properties.EarthEngineProject()
	if project == "" {
		return fmt.Errorf("missing required environment variable: EARTHENGINE_PROJECT")
	}

	bands := append(record.Sensor.RGBBands(), record.Sensor.QA)
	requestPayload := map[string]interface{}{
		"assetId":     record.ID,
		"bandIds":     bands,
		"region":      region.Geometry(),
		"description": fmt.Sprintf("%s_%s", region.Name, record.Date.Format("2006-01-02")),
		"fileExportOptions": map[string]interface{}{
			"fileFormat": "GEO_TIFF",
			"cloudStorageDestination": map[string]string{
				"bucket":         bucket,
				"filenamePrefix": fmt.Sprintf("%s/%s", region.Name, record.Date.Format("2006-01-02")),
			},
		},
	}

	requestBody, err := json.Marshal(requestPayload)
	if err != nil {
		return fmt.Errorf("failed to marshal export request: %w", err)
	}

	exportURL := fmt.Sprintf("https://earthengine.googleapis.com/v1/projects/%s/image:export", project)
	if _, err := client.request(http.MethodPost, exportURL, requestBody); err != nil {
		return err
	}
	return nil
}
