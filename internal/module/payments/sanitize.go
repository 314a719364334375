package payments

import (
	"errors"

	sharederrors "github.com/paysync/server/internal/shared/errors"
)

// GenericUserMessage is shown to end users for any error that is not
// explicitly classified as user-safe by the provider.
const GenericUserMessage = "An error occurred, developers have been alerted"

// SanitizeError maps an error to a short string safe to show an end user.
// Provider errors carrying a classification are already worded for end
// users and pass through verbatim; everything else collapses to the
// generic message so internal diagnostic detail never leaks.
func SanitizeError(err error) string {
	var perr *sharederrors.ProviderError
	if errors.As(err, &perr) && perr.UserSafe() {
		return perr.Message
	}
	return GenericUserMessage
}
