package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "github.com/paysync/server/internal/shared/errors"
)

func TestReporter(t *testing.T) {
	ctx := context.Background()

	t.Run("ships a fully tagged entry", func(t *testing.T) {
		sink := &stubSink{}
		reporter := NewReporter(sink, "charge-handler", nil)

		err := reporter.Report(ctx, errors.New("upstream exploded"), map[string]string{"account": "acct_1"})
		require.NoError(t, err)

		require.Len(t, sink.entries, 1)
		entry := sink.entries[0]
		assert.Equal(t, "charge-handler", entry.Service)
		assert.Equal(t, "payment_event_handler", entry.ResourceType)
		assert.Equal(t, "acct_1", entry.Context["account"])
		assert.False(t, entry.EventTime.IsZero())
		// Full diagnostic text: the error plus a stack trace.
		assert.Contains(t, entry.Message, "upstream exploded")
		assert.Contains(t, entry.Message, "goroutine")
	})

	t.Run("sink failure surfaces as a sink error", func(t *testing.T) {
		sink := &stubSink{err: errors.New("collector down")}
		reporter := NewReporter(sink, "charge-handler", nil)

		err := reporter.Report(ctx, errors.New("original"), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, sharederrors.ErrSink)
		assert.Contains(t, err.Error(), "collector down")
	})
}
