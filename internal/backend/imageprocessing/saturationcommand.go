package imageprocessing

import (
	"log/slog"
)

// SaturationCommand adjusts color saturation by interpolating between the
// per-pixel grayscale degenerate and the original.
type SaturationCommand struct {
	name   string
	params *FactorParams
}

// NewSaturationCommand creates a new saturation command from configuration parameters
func NewSaturationCommand(params map[string]any) (Command, error) {
	typedParams, err := NewFactorParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &SaturationCommand{
		name:   "SaturationCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *SaturationCommand) Name() string {
	return c.name
}

func (c *SaturationCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("SaturationCommand: start",
		"factor", c.params.Factor,
		"input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("SaturationCommand: failed to decode image", "error", err)
		return nil, err
	}

	source := toNRGBA(img)
	result := interpolate(source, desaturate(source), c.params.Factor)

	out, err := encodePNG(result)
	if err != nil {
		slog.Error("SaturationCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("SaturationCommand: complete", "output_size_bytes", len(out))
	return out, nil
}
