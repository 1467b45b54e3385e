package imageprocessing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// makePNG encodes a solid-color test image
func makePNG(t *testing.T, width, height int, fill color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return encodeTestPNG(t, img)
}

// makeSplitPNG encodes an image whose left half is one color and right half another
func makeSplitPNG(t *testing.T, width, height int, left, right color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return encodeTestPNG(t, img)
}

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func decodeTestImage(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode result image: %v", err)
	}
	return img
}

func pixelAt(t *testing.T, data []byte, x, y int) color.NRGBA {
	t.Helper()

	img := decodeTestImage(t, data)
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// mockCommand is a simple mock implementation of the Command interface for testing
type mockCommand struct {
	name        string
	executeFunc func([]byte) ([]byte, error)
}

func (m *mockCommand) Name() string {
	return m.name
}

func (m *mockCommand) Execute(imageData []byte) ([]byte, error) {
	if m.executeFunc != nil {
		return m.executeFunc(imageData)
	}
	return imageData, nil
}
