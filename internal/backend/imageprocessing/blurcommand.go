package imageprocessing

import (
	"fmt"
	"image"
	"log/slog"
	"math"
)

// BlurParams represents typed parameters for the Gaussian blur command
type BlurParams struct {
	Radius float64 // 0 = no blur
}

// NewBlurParamsFromMap creates BlurParams from a generic map
func NewBlurParamsFromMap(params map[string]any) (*BlurParams, error) {
	if err := ValidateRequiredParams(params, []string{"radius"}); err != nil {
		return nil, err
	}

	radius := GetFloatParam(params, "radius", 0)
	if radius < 0 {
		return nil, fmt.Errorf("radius must be non-negative, got %g", radius)
	}

	return &BlurParams{Radius: radius}, nil
}

// BlurCommand applies a Gaussian blur with a caller-supplied radius
type BlurCommand struct {
	name   string
	params *BlurParams
}

// NewBlurCommand creates a new blur command from configuration parameters
func NewBlurCommand(params map[string]any) (Command, error) {
	typedParams, err := NewBlurParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &BlurCommand{
		name:   "BlurCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *BlurCommand) Name() string {
	return c.name
}

func (c *BlurCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("BlurCommand: start",
		"radius", c.params.Radius,
		"input_size_bytes", len(imageData))

	if c.params.Radius == 0 {
		slog.Debug("BlurCommand: radius 0, returning original bytes")
		return imageData, nil
	}

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("BlurCommand: failed to decode image", "error", err)
		return nil, err
	}

	result := gaussianBlur(toNRGBA(img), c.params.Radius)

	out, err := encodePNG(result)
	if err != nil {
		slog.Error("BlurCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("BlurCommand: complete", "output_size_bytes", len(out))
	return out, nil
}

// gaussianBlur convolves the image with a normalized Gaussian kernel,
// applied separably: one horizontal pass, one vertical pass. The radius is
// the standard deviation; the kernel extends to 3 sigma. All four channels
// are blurred.
func gaussianBlur(img *image.NRGBA, radius float64) *image.NRGBA {
	kernel := gaussianKernel(radius)
	horizontal := convolve(img, kernel, true)
	return convolve(horizontal, kernel, false)
}

func gaussianKernel(sigma float64) []float64 {
	extent := int(math.Ceil(3 * sigma))
	if extent < 1 {
		extent = 1
	}

	kernel := make([]float64, 2*extent+1)
	var sum float64
	for i := -extent; i <= extent; i++ {
		weight := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+extent] = weight
		sum += weight
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func convolve(img *image.NRGBA, kernel []float64, horizontal bool) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	extent := len(kernel) / 2

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var acc [4]float64
			for k := -extent; k <= extent; k++ {
				sx, sy := x, y
				if horizontal {
					sx = clampInt(x+k, bounds.Min.X, bounds.Max.X-1)
				} else {
					sy = clampInt(y+k, bounds.Min.Y, bounds.Max.Y-1)
				}
				offset := img.PixOffset(sx, sy)
				weight := kernel[k+extent]
				for channel := 0; channel < 4; channel++ {
					acc[channel] += weight * float64(img.Pix[offset+channel])
				}
			}
			offset := out.PixOffset(x, y)
			for channel := 0; channel < 4; channel++ {
				out.Pix[offset+channel] = clamp8(acc[channel])
			}
		}
	}
	return out
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
