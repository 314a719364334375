package payments

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	sharederrors "github.com/paysync/server/internal/shared/errors"
	"github.com/paysync/server/internal/utils/metrics"
)

// reportResourceType classifies shipped entries so alerting tooling can
// pick them up.
const reportResourceType = "payment_event_handler"

// ReportEntry is one structured error report.
type ReportEntry struct {
	EventTime    time.Time         `json:"event_time"`
	Message      string            `json:"message"`
	Service      string            `json:"service"`
	ResourceType string            `json:"resource_type"`
	Context      map[string]string `json:"context,omitempty"`
}

// Reporter formats errors into report entries and ships them to a sink.
type Reporter struct {
	sink    ReportSink
	service string
	metrics *metrics.Metrics
}

// NewReporter creates a new Reporter. service is the service-identifying
// label stamped on every entry (resolved from the execution environment by
// the config layer). metrics may be nil.
func NewReporter(sink ReportSink, service string, m *metrics.Metrics) *Reporter {
	return &Reporter{
		sink:    sink,
		service: service,
		metrics: m,
	}
}

// Report ships one entry carrying the error's full diagnostic text and the
// caller-supplied context. The result follows the sink's acknowledgment; a
// sink failure is returned wrapped in ErrSink.
func (r *Reporter) Report(ctx context.Context, cause error, reportCtx map[string]string) error {
	entry := ReportEntry{
		EventTime:    time.Now(),
		Message:      fmt.Sprintf("%v\n%s", cause, debug.Stack()),
		Service:      r.service,
		ResourceType: reportResourceType,
		Context:      reportCtx,
	}

	err := r.sink.Write(ctx, entry)
	if r.metrics != nil {
		r.metrics.ObserveReport(err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", sharederrors.ErrSink, err)
	}
	return nil
}
