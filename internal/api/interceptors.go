package api

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/planetary-interior/internal/logging"
	"github.com/signalsfoundry/planetary-interior/internal/observability"
)

const requestIDMetadataKey = "x-request-id"

// RequestIDUnaryServerInterceptor puts a request ID and a request-scoped
// logger on the context. An x-request-id header from the caller is reused;
// otherwise one is generated. The ID is echoed in the response header, and
// the outcome is logged at debug (success) or warn (failure).
func RequestIDUnaryServerInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = logging.Noop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if id := incomingRequestID(ctx); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}

		_, method := observability.SplitMethod(info.FullMethod)
		fields := []logging.Field{logging.String("rpc", method)}
		if in, ok := req.(*structpb.Struct); ok {
			if id := stringValue(in, "planet_id"); id != "" {
				fields = append(fields, logging.String("planet_id", id))
			}
		}
		ctx, log := logging.WithRequestLogger(ctx, base.With(fields...))
		ctx = logging.ContextWithLogger(ctx, log)
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, logging.RequestIDFromContext(ctx)))

		start := time.Now()
		resp, err := handler(ctx, req)
		code := logging.String("code", status.Code(err).String())
		elapsed := logging.Duration("elapsed", time.Since(start))
		if err != nil {
			log.Warn(ctx, "planet rpc failed", code, elapsed, logging.Err(err))
		} else {
			log.Debug(ctx, "planet rpc handled", code, elapsed)
		}
		return resp, err
	}
}

// RequestIDUnaryClientInterceptor forwards the context's request ID as
// outgoing metadata.
func RequestIDUnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if id := logging.RequestIDFromContext(ctx); id != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, requestIDMetadataKey, id)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(requestIDMetadataKey); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
