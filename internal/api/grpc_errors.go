package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/kb"
)

// ErrInvalidArgument is used for malformed requests.
var ErrInvalidArgument = errors.New("invalid argument")

// ToStatusError maps domain errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())

	case errors.Is(err, kb.ErrPlanetNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, kb.ErrPlanetExists):
		return status.Error(codes.AlreadyExists, err.Error())

	// checked before ErrDepthNotResolvable, which every DepthError matches
	case errors.Is(err, core.ErrDepthOutOfRange):
		return status.Error(codes.OutOfRange, err.Error())

	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, core.ErrInvalidGeometry):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, core.ErrDepthNotResolvable),
		errors.Is(err, core.ErrLayerOverlap),
		errors.Is(err, core.ErrNoDensitySource),
		errors.Is(err, core.ErrZeroVolume),
		errors.Is(err, core.ErrDegenerateRange):
		return status.Error(codes.FailedPrecondition, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
