package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpocket/internal/apperr"
	"github.com/mmynk/splitpocket/internal/notify"
)

// toConnectError maps a classified error to its connect code. Errors the
// caller cannot act on are logged and replaced by a generic message.
func toConnectError(op string, err error) error {
	if errors.Is(err, notify.ErrBrokerClosed) {
		return connect.NewError(connect.CodeUnavailable, errors.New("server is shutting down"))
	}

	switch apperr.KindOf(err) {
	case apperr.KindMissingField, apperr.KindInvalidAmount, apperr.KindSplitMismatch:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case apperr.KindNotAuthenticated:
		return connect.NewError(connect.CodeUnauthenticated, err)
	case apperr.KindNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case apperr.KindPermissionDenied:
		return connect.NewError(connect.CodePermissionDenied, err)
	}

	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New(apperr.Message(apperr.Persistence(err))))
}
