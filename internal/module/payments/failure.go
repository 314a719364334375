package payments

import (
	"context"

	"go.uber.org/zap"
)

// recordFailure persists a sanitized message into the error field at path
// and ships the original error. The store write is best-effort; only the
// report result is returned, so a dead sink still surfaces to the
// dispatcher while provider/store failures stay recorded, not re-thrown.
func recordFailure(ctx context.Context, store AccountStore, reporter *Reporter, logger *zap.Logger, errPath, accountID string, cause error) error {
	msg := SanitizeError(cause)
	if err := store.Merge(ctx, errPath, map[string]any{"error": msg}); err != nil {
		logger.Error("failed to persist sanitized error",
			zap.String("path", errPath),
			zap.String("account_id", accountID),
			zap.Error(err),
		)
	}
	return reporter.Report(ctx, cause, map[string]string{"account": accountID})
}
