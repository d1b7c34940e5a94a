package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/identity-server/internal/model"
)

// CodeFor maps a domain error to its gRPC status code.
func CodeFor(err error) codes.Code {
	switch {
	case errors.Is(err, model.ErrIllegalArgument):
		return codes.InvalidArgument
	case errors.Is(err, model.ErrAccessDenied):
		return codes.PermissionDenied
	case errors.Is(err, model.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, model.ErrConflict):
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

func handleError(err error) error {
	code := CodeFor(err)
	if code == codes.Internal {
		return status.Error(codes.Internal, "internal server error")
	}
	return status.Error(code, err.Error())
}
