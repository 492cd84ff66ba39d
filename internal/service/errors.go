package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/internal/middleware"
	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/internal/storage"
)

var errUnauthenticated = errors.New("caller identity required")

// caller returns the authenticated user ID.
func caller(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	return userID, nil
}

// toConnectError maps ledger and storage errors onto Connect codes. Validation is
// checked first because validation errors may wrap other sentinels.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case ledger.IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrNotMember), errors.Is(err, ledger.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ledger.ErrReferenced),
		errors.Is(err, models.ErrInviteExpired),
		errors.Is(err, models.ErrInviteUsed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
