package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const maxSheetBytes = 16 << 20

var sheetIDPattern = regexp.MustCompile(`/d/([\-\w]+)`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExportURL builds the CSV export URL of one tab of a Google Sheet.
func CSVExportURL(sheetURL, gid string) (string, error) {
	m := sheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil || !isDigits(gid) {
		return "", fmt.Errorf("invalid sheet url or gid")
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", m[1], gid), nil
}

// Decode returns the sheet payload as UTF-8. Thai sheets exported from older
// spreadsheet tools arrive as Windows-874 and are transcoded.
func Decode(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, err := charmap.Windows874.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode windows-874 sheet: %w", err)
	}
	return decoded, nil
}

// SheetFetcher downloads published sheet exports.
type SheetFetcher struct {
	client *http.Client
}

// NewSheetFetcher constructs a fetcher bounded by timeout.
func NewSheetFetcher(timeout time.Duration) *SheetFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SheetFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads and decodes the export at url.
func (f *SheetFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetBytes))
	if err != nil {
		return nil, fmt.Errorf("read sheet body: %w", err)
	}
	return Decode(raw)
}
