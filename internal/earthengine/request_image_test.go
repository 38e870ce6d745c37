package earthengine

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    serverURL,
		retries:    3,
		retryDelay: 0,
	}
}

func testRegion(t *testing.T) Region {
	t.Helper()
	region, err := ParseRegion("lagoon", "-48.01,-22.01,-48.00,-22.00")
	require.NoError(t, err)
	return region
}

func TestRequestRetriesAreBounded(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)
	window, err := NewTimeWindow(date("1990-01-01"), date("1990-12-31"))
	require.NoError(t, err)

	_, err = client.ListImages("LANDSAT/LC08/C02/T1_L2", testRegion(t), window)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, hits)
}

func TestRequestAbortsOnUnauthorized(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(server.URL)
	window, err := NewTimeWindow(date("1990-01-01"), date("1990-12-31"))
	require.NoError(t, err)

	_, err = client.ListImages("LANDSAT/LC08/C02/T1_L2", testRegion(t), window)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
	assert.Equal(t, 1, hits)
}
