package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "planetary.interior.v1.PlanetService"

const (
	PlanetService_ListPlanets_FullMethodName     = "/" + ServiceName + "/ListPlanets"
	PlanetService_GetSummary_FullMethodName      = "/" + ServiceName + "/GetSummary"
	PlanetService_DensityForDepth_FullMethodName = "/" + ServiceName + "/DensityForDepth"
	PlanetService_DensityProfile_FullMethodName  = "/" + ServiceName + "/DensityProfile"
)

// PlanetServiceServer is the server API for PlanetService. Requests and
// responses are google.protobuf.Struct documents.
type PlanetServiceServer interface {
	ListPlanets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DensityForDepth(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DensityProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedPlanetServiceServer can be embedded for forward compatibility.
type UnimplementedPlanetServiceServer struct{}

func (UnimplementedPlanetServiceServer) ListPlanets(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPlanets not implemented")
}
func (UnimplementedPlanetServiceServer) GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSummary not implemented")
}
func (UnimplementedPlanetServiceServer) DensityForDepth(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DensityForDepth not implemented")
}
func (UnimplementedPlanetServiceServer) DensityProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DensityProfile not implemented")
}

// RegisterPlanetServiceServer registers srv on s.
func RegisterPlanetServiceServer(s grpc.ServiceRegistrar, srv PlanetServiceServer) {
	s.RegisterService(&PlanetService_ServiceDesc, srv)
}

type unaryMethod func(PlanetServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PlanetServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PlanetServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PlanetService_ServiceDesc is the grpc.ServiceDesc for PlanetService.
var PlanetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlanetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListPlanets",
			Handler:    unaryHandler(PlanetService_ListPlanets_FullMethodName, PlanetServiceServer.ListPlanets),
		},
		{
			MethodName: "GetSummary",
			Handler:    unaryHandler(PlanetService_GetSummary_FullMethodName, PlanetServiceServer.GetSummary),
		},
		{
			MethodName: "DensityForDepth",
			Handler:    unaryHandler(PlanetService_DensityForDepth_FullMethodName, PlanetServiceServer.DensityForDepth),
		},
		{
			MethodName: "DensityProfile",
			Handler:    unaryHandler(PlanetService_DensityProfile_FullMethodName, PlanetServiceServer.DensityProfile),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "planetary/interior/v1/planet_service.proto",
}
