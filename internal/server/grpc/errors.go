package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Validation and conflict
// messages are shown to the caller; storage and unexpected failures are not.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var (
		ve *common.ValidationError
		ce *common.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		st := status.New(codes.InvalidArgument, ve.Message)
		if ve.Field != "" {
			st = status.New(codes.InvalidArgument, ve.Field+": "+ve.Message)
		}
		return st.Err()
	case errors.As(err, &ce):
		if ce.Kind == common.ConflictDependents {
			return status.Error(codes.FailedPrecondition, ce.Message)
		}
		return status.Error(codes.AlreadyExists, ce.Message)
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, "request error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
