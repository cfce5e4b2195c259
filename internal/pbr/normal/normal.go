// Package normal derives a tangent-space normal map from the shared height
// plane: a Sobel gradient converted into a unit surface normal and encoded
// into RGB.
package normal

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/kernel"
)

// MinStrength and MaxStrength bound the gradient scale; values outside this
// range are clamped and a warning is returned from Derive.
const (
	MinStrength = 0.1
	MaxStrength = 5.0
)

// Params configures normal derivation.
type Params struct {
	// Strength scales the height gradient before it is converted to a
	// surface normal; higher values produce a more pronounced bump. Clamped
	// to [MinStrength, MaxStrength].
	Strength float32

	// BlurRadius, if > 0, applies a Gaussian pre-blur of this sigma to the
	// height plane before computing the Sobel gradient, suppressing
	// micro-noise that would otherwise read as high-frequency bump detail.
	BlurRadius float32

	// InvertHeight flips the z-convention by negating the gradient before
	// the normal is built, producing the complementary bump direction.
	InvertHeight bool
}

// DefaultParams returns a moderate normal strength.
func DefaultParams() Params {
	return Params{Strength: 1.0}
}

// Derive computes a normal map image from a height plane. Each output pixel
// is a unit-length surface normal encoded as RGB in [0, 1]
// (0.5 + 0.5*n for each component), the standard OpenGL tangent-space
// convention. Returns any warnings produced by clamping out-of-range
// parameters (non-fatal per the pipeline's error-handling design).
func Derive(height *imagebuf.Plane, p Params) (*imagebuf.Image, []string) {
	var warnings []string

	strength := p.Strength
	if strength == 0 {
		strength = DefaultParams().Strength
	}
	if strength < MinStrength {
		warnings = append(warnings, fmt.Sprintf("normal: strength %v below minimum, clamped to %v", strength, MinStrength))
		strength = MinStrength
	} else if strength > MaxStrength {
		warnings = append(warnings, fmt.Sprintf("normal: strength %v above maximum, clamped to %v", strength, MaxStrength))
		strength = MaxStrength
	}

	h := height
	if p.BlurRadius > 0 {
		h = kernel.GaussianBlur(h, p.BlurRadius)
	}

	grad := kernel.Sobel(h)
	out := imagebuf.NewImage(h.W, h.H)

	sign := float32(1)
	if p.InvertHeight {
		sign = -1
	}

	for i := range grad.Gx {
		nx := -grad.Gx[i] * strength * sign
		ny := -grad.Gy[i] * strength * sign
		nz := float32(1.0)

		length := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
		nx /= length
		ny /= length
		nz /= length

		out.R[i] = nx*0.5 + 0.5
		out.G[i] = ny*0.5 + 0.5
		out.B[i] = nz*0.5 + 0.5
	}

	return out, warnings
}
