package imageprocessing

import (
	"log/slog"
)

// SharpnessCommand adjusts sharpness by interpolating between a smoothed
// copy and the original; factors above 1.0 sharpen by extrapolation.
type SharpnessCommand struct {
	name   string
	params *FactorParams
}

// NewSharpnessCommand creates a new sharpness command from configuration parameters
func NewSharpnessCommand(params map[string]any) (Command, error) {
	typedParams, err := NewFactorParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &SharpnessCommand{
		name:   "SharpnessCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *SharpnessCommand) Name() string {
	return c.name
}

func (c *SharpnessCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("SharpnessCommand: start",
		"factor", c.params.Factor,
		"input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("SharpnessCommand: failed to decode image", "error", err)
		return nil, err
	}

	source := toNRGBA(img)
	result := interpolate(source, smooth(source), c.params.Factor)

	out, err := encodePNG(result)
	if err != nil {
		slog.Error("SharpnessCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("SharpnessCommand: complete", "output_size_bytes", len(out))
	return out, nil
}
