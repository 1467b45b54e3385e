package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Metadata describes an image without mutating or re-encoding it.
type Metadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"` // e.g. "JPEG", "PNG"
	Mode   string `json:"mode"`   // color mode: "L", "P", "RGB", "RGBA", "CMYK"
}

// decodeImage decodes raster image data in any registered format and returns
// the image together with the detected format name.
func decodeImage(imageData []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// ReadMetadata extracts width, height, format and color mode from image data.
func ReadMetadata(imageData []byte) (*Metadata, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &Metadata{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: strings.ToUpper(format),
		Mode:   colorMode(img),
	}, nil
}

// colorMode reports the color mode of a decoded image using the naming that
// photo tools conventionally use.
func colorMode(img image.Image) string {
	switch typed := img.(type) {
	case *image.Gray, *image.Gray16:
		return "L"
	case *image.Paletted:
		return "P"
	case *image.CMYK:
		return "CMYK"
	case *image.YCbCr:
		return "RGB"
	case interface{ Opaque() bool }:
		if typed.Opaque() {
			return "RGB"
		}
		return "RGBA"
	default:
		return "RGB"
	}
}
