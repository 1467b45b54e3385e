package imageprocessing

import (
	"log/slog"
)

// BrightnessCommand adjusts brightness by interpolating between black and
// the original.
type BrightnessCommand struct {
	name   string
	params *FactorParams
}

// NewBrightnessCommand creates a new brightness command from configuration parameters
func NewBrightnessCommand(params map[string]any) (Command, error) {
	typedParams, err := NewFactorParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &BrightnessCommand{
		name:   "BrightnessCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *BrightnessCommand) Name() string {
	return c.name
}

func (c *BrightnessCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("BrightnessCommand: start",
		"factor", c.params.Factor,
		"input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("BrightnessCommand: failed to decode image", "error", err)
		return nil, err
	}

	result := interpolateUniform(toNRGBA(img), 0, c.params.Factor)

	out, err := encodePNG(result)
	if err != nil {
		slog.Error("BrightnessCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("BrightnessCommand: complete", "output_size_bytes", len(out))
	return out, nil
}
