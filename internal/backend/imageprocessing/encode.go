package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log/slog"
)

// jpegQuality is the fixed output quality for processed images.
const jpegQuality = 95

// encodePNG writes the lossless intermediate format the pipeline commands
// hand to each other.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// flattenToWhite composites an image with transparency onto an opaque white
// background. The output format has no alpha channel, so translucent pixels
// must be resolved before JPEG encoding.
func flattenToWhite(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	bounds := img.Bounds()
	background := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(background, background.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(background, background.Bounds(), img, bounds.Min, draw.Over)
	return background
}

// EncodeJPEG renders the final output: any transparency is composited onto
// white, then the image is encoded as JPEG at the fixed quality setting.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattenToWhite(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// JPEGEncodeCommand terminates a pipeline by converting the intermediate
// image to the final JPEG output.
type JPEGEncodeCommand struct {
	name string
}

// NewJPEGEncodeCommand creates a new JPEG encode command (no parameters needed)
func NewJPEGEncodeCommand(params map[string]any) (Command, error) {
	return &JPEGEncodeCommand{name: "JPEGEncodeCommand"}, nil
}

// Name returns the command name
func (c *JPEGEncodeCommand) Name() string {
	return c.name
}

func (c *JPEGEncodeCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("JPEGEncodeCommand: start", "input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("JPEGEncodeCommand: failed to decode image", "error", err)
		return nil, err
	}

	out, err := EncodeJPEG(img)
	if err != nil {
		slog.Error("JPEGEncodeCommand: failed to encode JPEG", "error", err)
		return nil, err
	}
	slog.Debug("JPEGEncodeCommand: complete", "output_size_bytes", len(out))
	return out, nil
}
