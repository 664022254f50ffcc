package api

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/planetary-interior/internal/logging"
	"github.com/signalsfoundry/planetary-interior/internal/observability"
)

// TracingUnaryServerInterceptor names the RPC span "interior.<Method>" and
// tags it with the queried planet and depth. A server span is started only
// when no stats handler has already created one.
func TracingUnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		service, method := observability.SplitMethod(info.FullMethod)
		name := "interior." + method

		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.SetName(name)
		} else {
			ctx, span = observability.Tracer().Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
		}

		span.SetAttributes(
			attribute.String("rpc.system", "grpc"),
			attribute.String("rpc.service", service),
			attribute.String("rpc.method", method),
		)
		if id := logging.RequestIDFromContext(ctx); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if in, ok := req.(*structpb.Struct); ok {
			span.SetAttributes(requestAttributes(in)...)
		}

		resp, err := handler(ctx, req)
		if err != nil {
			st := status.Convert(err)
			span.SetAttributes(attribute.String("rpc.grpc.status_code", st.Code().String()))
			span.SetStatus(codes.Error, st.Message())
		}
		return resp, err
	}
}

func requestAttributes(in *structpb.Struct) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id := stringValue(in, "planet_id"); id != "" {
		attrs = append(attrs, attribute.String("planet.id", id))
	}
	for _, key := range []string{"depth_m", "step_m"} {
		if v, ok := in.GetFields()[key]; ok {
			attrs = append(attrs, attribute.Float64("planet."+key, v.GetNumberValue()))
		}
	}
	return attrs
}

// startPlanetSpan starts an internal span for computation on one planet.
func startPlanetSpan(ctx context.Context, name, planetID string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs := append([]attribute.KeyValue{attribute.String("planet.id", planetID)}, extra...)
	return observability.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
