package payments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	sharederrors "github.com/paysync/server/internal/shared/errors"
)

func TestSanitizeError(t *testing.T) {
	t.Run("classified provider error passes through verbatim", func(t *testing.T) {
		err := sharederrors.NewProviderError("card_error", "Your card was declined", errors.New("card_declined"))
		assert.Equal(t, "Your card was declined", SanitizeError(err))
	})

	t.Run("unclassified provider error yields generic message", func(t *testing.T) {
		err := sharederrors.NewInternalProviderError(errors.New("connection reset by peer"))
		assert.Equal(t, GenericUserMessage, SanitizeError(err))
	})

	t.Run("plain error yields generic message", func(t *testing.T) {
		assert.Equal(t, GenericUserMessage, SanitizeError(errors.New("dial tcp: timeout")))
	})

	t.Run("wrapped classified error is still recognized", func(t *testing.T) {
		inner := sharederrors.NewProviderError("card_error", "Your card has expired", nil)
		wrapped := errors.Join(errors.New("charge failed"), inner)
		assert.Equal(t, "Your card has expired", SanitizeError(wrapped))
	})

	t.Run("generic message leaks no diagnostic detail", func(t *testing.T) {
		err := sharederrors.NewInternalProviderError(errors.New("api key sk_live_123 rejected"))
		msg := SanitizeError(err)
		assert.NotContains(t, msg, "sk_live")
	})
}
