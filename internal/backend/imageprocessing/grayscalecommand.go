package imageprocessing

import (
	"image"
	"log/slog"
)

// GrayscaleCommand converts an image to single-channel luminance
type GrayscaleCommand struct {
	name string
}

// NewGrayscaleCommand creates a new grayscale command (no parameters needed)
func NewGrayscaleCommand(params map[string]any) (Command, error) {
	return &GrayscaleCommand{name: "GrayscaleCommand"}, nil
}

// Name returns the command name
func (c *GrayscaleCommand) Name() string {
	return c.name
}

// Execute converts the color space to single-channel luminance
func (c *GrayscaleCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("GrayscaleCommand: start", "input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("GrayscaleCommand: failed to decode image", "error", err)
		return nil, err
	}

	source := toNRGBA(img)
	bounds := source.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			offset := source.PixOffset(x, y)
			gray.SetGray(x, y, toGray(source.Pix[offset], source.Pix[offset+1], source.Pix[offset+2]))
		}
	}

	out, err := encodePNG(gray)
	if err != nil {
		slog.Error("GrayscaleCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("GrayscaleCommand: complete", "output_size_bytes", len(out))
	return out, nil
}
