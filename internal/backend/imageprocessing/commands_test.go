package imageprocessing

import (
	"bytes"
	"image/color"
	"testing"
)

func TestGrayscaleCommand_SingleChannelOutput(t *testing.T) {
	input := makePNG(t, 8, 8, color.NRGBA{R: 200, G: 50, B: 50, A: 255})

	command, err := NewGrayscaleCommand(nil)
	if err != nil {
		t.Fatalf("NewGrayscaleCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	meta, err := ReadMetadata(out)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.Mode != "L" {
		t.Errorf("expected mode L, got %q", meta.Mode)
	}

	pixel := pixelAt(t, out, 4, 4)
	if pixel.R != pixel.G || pixel.G != pixel.B {
		t.Errorf("expected equal channels, got %+v", pixel)
	}
}

func TestBrightnessCommand_FactorZeroIsBlack(t *testing.T) {
	input := makePNG(t, 4, 4, color.NRGBA{R: 180, G: 90, B: 30, A: 255})

	command, err := NewBrightnessCommand(map[string]any{"factor": 0.0})
	if err != nil {
		t.Fatalf("NewBrightnessCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	pixel := pixelAt(t, out, 2, 2)
	if pixel.R != 0 || pixel.G != 0 || pixel.B != 0 {
		t.Errorf("expected black pixel at factor 0, got %+v", pixel)
	}
	if pixel.A != 255 {
		t.Errorf("expected alpha preserved, got %d", pixel.A)
	}
}

func TestBrightnessCommand_FactorOneIsIdentity(t *testing.T) {
	fill := color.NRGBA{R: 180, G: 90, B: 30, A: 255}
	input := makePNG(t, 4, 4, fill)

	command, err := NewBrightnessCommand(map[string]any{"factor": 1.0})
	if err != nil {
		t.Fatalf("NewBrightnessCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	pixel := pixelAt(t, out, 1, 1)
	if pixel != fill {
		t.Errorf("expected unchanged pixel %+v, got %+v", fill, pixel)
	}
}

func TestBrightnessCommand_FactorTwoClamps(t *testing.T) {
	input := makePNG(t, 4, 4, color.NRGBA{R: 200, G: 100, B: 10, A: 255})

	command, err := NewBrightnessCommand(map[string]any{"factor": 2.0})
	if err != nil {
		t.Fatalf("NewBrightnessCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	pixel := pixelAt(t, out, 1, 1)
	if pixel.R != 255 {
		t.Errorf("expected red channel clamped to 255, got %d", pixel.R)
	}
	if pixel.G != 200 {
		t.Errorf("expected green channel doubled to 200, got %d", pixel.G)
	}
	if pixel.B != 20 {
		t.Errorf("expected blue channel doubled to 20, got %d", pixel.B)
	}
}

func TestBrightnessCommand_RejectsNegativeFactor(t *testing.T) {
	if _, err := NewBrightnessCommand(map[string]any{"factor": -0.5}); err == nil {
		t.Fatal("expected error for negative factor")
	}
}

func TestBrightnessCommand_RequiresFactor(t *testing.T) {
	if _, err := NewBrightnessCommand(map[string]any{}); err == nil {
		t.Fatal("expected error for missing factor parameter")
	}
}

func TestSaturationCommand_FactorZeroDesaturates(t *testing.T) {
	input := makePNG(t, 4, 4, color.NRGBA{R: 220, G: 40, B: 40, A: 255})

	command, err := NewSaturationCommand(map[string]any{"factor": 0.0})
	if err != nil {
		t.Fatalf("NewSaturationCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	pixel := pixelAt(t, out, 2, 2)
	if pixel.R != pixel.G || pixel.G != pixel.B {
		t.Errorf("expected grayscale pixel at factor 0, got %+v", pixel)
	}
}

func TestContrastCommand_FactorZeroFlattens(t *testing.T) {
	input := makeSplitPNG(t, 8, 8,
		color.NRGBA{R: 30, G: 30, B: 30, A: 255},
		color.NRGBA{R: 220, G: 220, B: 220, A: 255})

	command, err := NewContrastCommand(map[string]any{"factor": 0.0})
	if err != nil {
		t.Fatalf("NewContrastCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	dark := pixelAt(t, out, 1, 4)
	light := pixelAt(t, out, 6, 4)
	if dark != light {
		t.Errorf("expected flat image at factor 0, got %+v and %+v", dark, light)
	}
}

func TestSharpnessCommand_FactorOneIsIdentity(t *testing.T) {
	fill := color.NRGBA{R: 120, G: 130, B: 140, A: 255}
	input := makePNG(t, 6, 6, fill)

	command, err := NewSharpnessCommand(map[string]any{"factor": 1.0})
	if err != nil {
		t.Fatalf("NewSharpnessCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	pixel := pixelAt(t, out, 3, 3)
	if pixel != fill {
		t.Errorf("expected unchanged pixel %+v, got %+v", fill, pixel)
	}
}

func TestBlurCommand_RadiusZeroReturnsOriginal(t *testing.T) {
	input := makePNG(t, 4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	command, err := NewBlurCommand(map[string]any{"radius": 0.0})
	if err != nil {
		t.Fatalf("NewBlurCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Error("expected original bytes for radius 0")
	}
}

func TestBlurCommand_SoftensEdges(t *testing.T) {
	input := makeSplitPNG(t, 16, 16,
		color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	command, err := NewBlurCommand(map[string]any{"radius": 2.0})
	if err != nil {
		t.Fatalf("NewBlurCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	// A pixel on the black/white boundary must land strictly between the
	// extremes after blurring.
	pixel := pixelAt(t, out, 8, 8)
	if pixel.R == 0 || pixel.R == 255 {
		t.Errorf("expected intermediate value at the edge, got %d", pixel.R)
	}
}

func TestBlurCommand_RejectsNegativeRadius(t *testing.T) {
	if _, err := NewBlurCommand(map[string]any{"radius": -1.0}); err == nil {
		t.Fatal("expected error for negative radius")
	}
}

func TestScaleCommand_PreservesAspectRatio(t *testing.T) {
	input := makePNG(t, 100, 50, color.NRGBA{R: 40, G: 40, B: 40, A: 255})

	command, err := NewScaleCommand(map[string]any{"width": 50})
	if err != nil {
		t.Fatalf("NewScaleCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	meta, err := ReadMetadata(out)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.Width != 50 || meta.Height != 25 {
		t.Errorf("expected 50x25, got %dx%d", meta.Width, meta.Height)
	}
}

func TestScaleCommand_RequiresDimension(t *testing.T) {
	if _, err := NewScaleCommand(map[string]any{}); err == nil {
		t.Fatal("expected error when neither width nor height is given")
	}
}

func TestJPEGEncodeCommand_FlattensTransparencyOntoWhite(t *testing.T) {
	input := makePNG(t, 4, 4, color.NRGBA{R: 0, G: 0, B: 0, A: 0}) // fully transparent

	command, err := NewJPEGEncodeCommand(nil)
	if err != nil {
		t.Fatalf("NewJPEGEncodeCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	meta, err := ReadMetadata(out)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.Format != "JPEG" {
		t.Errorf("expected JPEG output, got %q", meta.Format)
	}

	// Transparent input must come out white, not black.
	pixel := pixelAt(t, out, 2, 2)
	if pixel.R < 240 || pixel.G < 240 || pixel.B < 240 {
		t.Errorf("expected near-white pixel after flattening, got %+v", pixel)
	}
}

func TestReadMetadata(t *testing.T) {
	input := makePNG(t, 32, 16, color.NRGBA{R: 10, G: 10, B: 10, A: 255})

	meta, err := ReadMetadata(input)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.Width != 32 || meta.Height != 16 {
		t.Errorf("expected 32x16, got %dx%d", meta.Width, meta.Height)
	}
	if meta.Format != "PNG" {
		t.Errorf("expected format PNG, got %q", meta.Format)
	}
	if meta.Mode != "RGB" {
		t.Errorf("expected mode RGB for opaque image, got %q", meta.Mode)
	}
}

func TestReadMetadata_TransparentImageIsRGBA(t *testing.T) {
	input := makePNG(t, 4, 4, color.NRGBA{R: 10, G: 10, B: 10, A: 128})

	meta, err := ReadMetadata(input)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.Mode != "RGBA" {
		t.Errorf("expected mode RGBA, got %q", meta.Mode)
	}
}

func TestReadMetadata_InvalidData(t *testing.T) {
	if _, err := ReadMetadata([]byte("not an image")); err == nil {
		t.Fatal("expected error for invalid image data")
	}
}
