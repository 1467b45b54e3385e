package imageprocessing

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
)

// ScaleParams represents typed parameters for the scale command
type ScaleParams struct {
	Height *int // Optional: if nil, will be calculated from width
	Width  *int // Optional: if nil, will be calculated from height
}

// NewScaleParamsFromMap creates ScaleParams from a generic map
func NewScaleParamsFromMap(params map[string]any) (*ScaleParams, error) {
	// At least one dimension must be specified
	_, hasHeight := params["height"]
	_, hasWidth := params["width"]

	if !hasHeight && !hasWidth {
		return nil, fmt.Errorf("at least one of 'height' or 'width' must be specified")
	}

	result := &ScaleParams{}

	if hasHeight {
		height := GetIntParam(params, "height", 0)
		if height <= 0 {
			return nil, fmt.Errorf("height must be positive, got %d", height)
		}
		result.Height = &height
	}

	if hasWidth {
		width := GetIntParam(params, "width", 0)
		if width <= 0 {
			return nil, fmt.Errorf("width must be positive, got %d", width)
		}
		result.Width = &width
	}

	return result, nil
}

// ScaleCommand handles image scaling with aspect ratio preservation, used
// for snapshot preview thumbnails.
type ScaleCommand struct {
	name   string
	params *ScaleParams
}

// NewScaleCommand creates a new scale command from configuration parameters
func NewScaleCommand(params map[string]any) (Command, error) {
	typedParams, err := NewScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &ScaleCommand{
		name:   "ScaleCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *ScaleCommand) Name() string {
	return c.name
}

// Execute scales the image to target dimensions while preserving aspect ratio
func (c *ScaleCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("ScaleCommand: decoding image", "input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("ScaleCommand: failed to decode image", "error", err)
		return nil, err
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	targetWidth, targetHeight := c.targetSize(originalWidth, originalHeight)
	if targetWidth == originalWidth && targetHeight == originalHeight {
		slog.Debug("ScaleCommand: target size equals original, returning original bytes")
		return imageData, nil
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	out, err := encodePNG(scaled)
	if err != nil {
		slog.Error("ScaleCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("ScaleCommand: complete",
		"target_width", targetWidth,
		"target_height", targetHeight,
		"output_size_bytes", len(out))
	return out, nil
}

// targetSize resolves the output dimensions, deriving the missing dimension
// from the original aspect ratio.
func (c *ScaleCommand) targetSize(originalWidth, originalHeight int) (int, int) {
	switch {
	case c.params.Width != nil && c.params.Height != nil:
		return *c.params.Width, *c.params.Height
	case c.params.Width != nil:
		height := int(float64(*c.params.Width) * float64(originalHeight) / float64(originalWidth))
		if height < 1 {
			height = 1
		}
		return *c.params.Width, height
	default:
		width := int(float64(*c.params.Height) * float64(originalWidth) / float64(originalHeight))
		if width < 1 {
			width = 1
		}
		return width, *c.params.Height
	}
}
