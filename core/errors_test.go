package core

import (
	"errors"
	"strings"
	"testing"
)

func TestSentinelErrorsCarryPackagePrefix(t *testing.T) {
	for _, err := range []error{
		ErrInvalidGeometry, ErrLengthMismatch, ErrEmptyTable, ErrDegenerateRange,
		ErrZeroVolume, ErrNoDensitySource, ErrLayerOverlap, ErrLayerGap,
		ErrNoLayers, ErrDepthNotResolvable, ErrDepthOutOfRange,
	} {
		if !strings.HasPrefix(err.Error(), "core: ") {
			t.Errorf("%q lacks the core: prefix", err)
		}
	}
}

func TestDepthErrorMatchesCauseAndResolution(t *testing.T) {
	err := error(&DepthError{Depth: 7e6, Err: ErrDepthOutOfRange})
	if !errors.Is(err, ErrDepthOutOfRange) || !errors.Is(err, ErrDepthNotResolvable) {
		t.Fatalf("DepthError should match its cause and ErrDepthNotResolvable: %v", err)
	}
	if got := err.Error(); got != "depth 7e+06 m: core: depth outside planet" {
		t.Fatalf("Error() = %q", got)
	}
}
