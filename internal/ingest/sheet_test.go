package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestCSVExportURL(t *testing.T) {
	url, err := CSVExportURL("https://docs.google.com/spreadsheets/d/abc-DEF_123/edit#gid=0", "42")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc-DEF_123/export?format=csv&gid=42", url)

	_, err = CSVExportURL("https://example.com/sheet", "0")
	assert.Error(t, err)
	_, err = CSVExportURL("https://docs.google.com/spreadsheets/d/abc/edit", "4a")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	out, err := Decode([]byte("\xEF\xBB\xBFรหัสวิชา"))
	require.NoError(t, err)
	assert.Equal(t, "รหัสวิชา", string(out))

	encoded, err := charmap.Windows874.NewEncoder().String("ครู")
	require.NoError(t, err)
	out, err = Decode([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "ครู", string(out))
}

func TestSheetFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("code,credit\n"))
	}))
	defer srv.Close()

	fetcher := NewSheetFetcher(time.Second)
	body, err := fetcher.Fetch(context.Background(), srv.URL+"/sheet")
	require.NoError(t, err)
	assert.Equal(t, "code,credit\n", string(body))

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
