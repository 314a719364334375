package reportsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paysync/server/internal/module/payments"
)

// HTTPSink ships report entries to an HTTP collector. The sink
// acknowledges an entry with any 2xx response.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSink creates a new HTTP report sink.
func NewHTTPSink(endpoint string, timeout time.Duration) *HTTPSink {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Write posts one entry and waits for the collector's acknowledgment.
func (s *HTTPSink) Write(ctx context.Context, entry payments.ReportEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode report entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ship report: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("report sink responded %d", resp.StatusCode)
	}
	return nil
}

// Compile-time check
var _ payments.ReportSink = (*HTTPSink)(nil)
