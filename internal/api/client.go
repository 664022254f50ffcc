package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/planetary-interior/core"
)

// PlanetServiceClient is the client API for PlanetService.
type PlanetServiceClient interface {
	ListPlanets(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSummary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DensityForDepth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DensityProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type planetServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPlanetServiceClient returns a raw Struct-in, Struct-out client.
func NewPlanetServiceClient(cc grpc.ClientConnInterface) PlanetServiceClient {
	return &planetServiceClient{cc}
}

func (c *planetServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *planetServiceClient) ListPlanets(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PlanetService_ListPlanets_FullMethodName, in, opts)
}

func (c *planetServiceClient) GetSummary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PlanetService_GetSummary_FullMethodName, in, opts)
}

func (c *planetServiceClient) DensityForDepth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PlanetService_DensityForDepth_FullMethodName, in, opts)
}

func (c *planetServiceClient) DensityProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PlanetService_DensityProfile_FullMethodName, in, opts)
}

// Client wraps PlanetServiceClient with typed requests and responses.
type Client struct {
	raw PlanetServiceClient
}

// NewClient returns a typed client over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{raw: NewPlanetServiceClient(cc)}
}

// ListPlanets returns the registered planets ordered by ID.
func (c *Client) ListPlanets(ctx context.Context) ([]PlanetInfo, error) {
	out, err := c.raw.ListPlanets(ctx, &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	return decodePlanetList(out)
}

// Summary returns the bulk properties of a planet.
func (c *Client) Summary(ctx context.Context, planetID string) (*core.Summary, error) {
	out, err := c.raw.GetSummary(ctx, planetRequest(planetID, nil))
	if err != nil {
		return nil, err
	}
	return DecodeSummary(out)
}

// DensityForDepth returns the density depthM metres below the surface.
func (c *Client) DensityForDepth(ctx context.Context, planetID string, depthM float64) (DensityResult, error) {
	out, err := c.raw.DensityForDepth(ctx, planetRequest(planetID, map[string]float64{"depth_m": depthM}))
	if err != nil {
		return DensityResult{}, err
	}
	return DensityResult{
		Density: numberValue(out, "density"),
		Layer:   stringValue(out, "layer"),
	}, nil
}

// Profile samples density from the surface to the centre. A zero step lets
// the server choose.
func (c *Client) Profile(ctx context.Context, planetID string, stepM float64) ([]core.ProfileSample, error) {
	var extra map[string]float64
	if stepM != 0 {
		extra = map[string]float64{"step_m": stepM}
	}
	out, err := c.raw.DensityProfile(ctx, planetRequest(planetID, extra))
	if err != nil {
		return nil, err
	}
	return decodeProfile(out)
}

func planetRequest(planetID string, numbers map[string]float64) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"planet_id": structpb.NewStringValue(planetID),
	}
	for k, v := range numbers {
		fields[k] = structpb.NewNumberValue(v)
	}
	return &structpb.Struct{Fields: fields}
}
