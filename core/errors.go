package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGeometry    = errors.New("core: invalid geometry")
	ErrLengthMismatch     = errors.New("core: depths and densities have different lengths")
	ErrEmptyTable         = errors.New("core: density table is empty")
	ErrDegenerateRange    = errors.New("core: depth range has no width")
	ErrZeroVolume         = errors.New("core: total shell volume is zero")
	ErrNoDensitySource    = errors.New("core: layer has no density source")
	ErrLayerOverlap       = errors.New("core: layers overlap")
	ErrLayerGap           = errors.New("core: layers leave a gap")
	ErrNoLayers           = errors.New("core: planet has no layers")
	ErrDepthNotResolvable = errors.New("core: depth not resolvable")
	ErrDepthOutOfRange    = errors.New("core: depth outside planet")
)

// DepthError reports a depth (metres) that could not be mapped to a layer.
type DepthError struct {
	Depth float64
	Err   error
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("depth %g m: %v", e.Depth, e.Err)
}

func (e *DepthError) Unwrap() error {
	return e.Err
}

// Is lets every DepthError match ErrDepthNotResolvable, whatever the
// underlying cause.
func (e *DepthError) Is(target error) bool {
	return target == ErrDepthNotResolvable
}
