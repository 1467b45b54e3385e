package imageprocessing

import (
	"image"
	"image/color"
	"image/draw"
)

// Enhancement semantics: every adjustment interpolates between a degenerate
// image and the original. Factor 1.0 keeps the original, 0.0 yields the
// degenerate extreme (black for brightness, flat gray for contrast, smoothed
// for sharpness, grayscale for saturation), values above 1.0 extrapolate to
// amplify the effect. Alpha is carried through unchanged.

// toNRGBA normalizes any decoded image to NRGBA for per-pixel math. A
// single-channel input is promoted to multi-channel by the conversion, which
// the enhancement routines require.
func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return nrgba
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// luminance computes the Rec. 601 luma of one pixel.
func luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

func toGray(r, g, b uint8) color.Gray {
	return color.Gray{Y: clamp8(luminance(r, g, b))}
}

// interpolate blends each RGB channel between a degenerate image and the
// original: out = degenerate + (original - degenerate) * factor. Both images
// must share dimensions; alpha is taken from the original.
func interpolate(original, degenerate *image.NRGBA, factor float64) *image.NRGBA {
	bounds := original.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			offset := original.PixOffset(x, y)
			for channel := 0; channel < 3; channel++ {
				o := float64(original.Pix[offset+channel])
				d := float64(degenerate.Pix[offset+channel])
				out.Pix[offset+channel] = clamp8(d + (o-d)*factor)
			}
			out.Pix[offset+3] = original.Pix[offset+3]
		}
	}
	return out
}

// interpolateUniform blends toward a single constant value per channel,
// covering the black (brightness) and mean-gray (contrast) degenerates
// without materializing a degenerate image.
func interpolateUniform(original *image.NRGBA, degenerateValue float64, factor float64) *image.NRGBA {
	bounds := original.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			offset := original.PixOffset(x, y)
			for channel := 0; channel < 3; channel++ {
				o := float64(original.Pix[offset+channel])
				out.Pix[offset+channel] = clamp8(degenerateValue + (o-degenerateValue)*factor)
			}
			out.Pix[offset+3] = original.Pix[offset+3]
		}
	}
	return out
}

// meanLuminance computes the average luma across the image, the flat-gray
// level that zero contrast collapses to.
func meanLuminance(img *image.NRGBA) float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			offset := img.PixOffset(x, y)
			sum += luminance(img.Pix[offset], img.Pix[offset+1], img.Pix[offset+2])
		}
	}
	return sum / float64(width*height)
}

// desaturate produces the per-pixel grayscale degenerate used by the
// saturation adjustment.
func desaturate(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			offset := img.PixOffset(x, y)
			gray := clamp8(luminance(img.Pix[offset], img.Pix[offset+1], img.Pix[offset+2]))
			out.Pix[offset] = gray
			out.Pix[offset+1] = gray
			out.Pix[offset+2] = gray
			out.Pix[offset+3] = img.Pix[offset+3]
		}
	}
	return out
}

// smooth applies a 3x3 smoothing kernel (center weight 5, neighbors 1),
// the fully-unsharp degenerate of the sharpness adjustment. Edge pixels are
// kept as-is.
func smooth(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	copy(out.Pix, img.Pix)

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			offset := img.PixOffset(x, y)
			for channel := 0; channel < 3; channel++ {
				var sum float64
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						weight := 1.0
						if dx == 0 && dy == 0 {
							weight = 5.0
						}
						neighbor := img.PixOffset(x+dx, y+dy)
						sum += weight * float64(img.Pix[neighbor+channel])
					}
				}
				out.Pix[offset+channel] = clamp8(sum / 13.0)
			}
			out.Pix[offset+3] = img.Pix[offset+3]
		}
	}
	return out
}
