package imageprocessing

import (
	"log/slog"
)

// ContrastCommand adjusts contrast by interpolating between a flat gray at
// the image's mean luminance and the original.
type ContrastCommand struct {
	name   string
	params *FactorParams
}

// NewContrastCommand creates a new contrast command from configuration parameters
func NewContrastCommand(params map[string]any) (Command, error) {
	typedParams, err := NewFactorParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &ContrastCommand{
		name:   "ContrastCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *ContrastCommand) Name() string {
	return c.name
}

func (c *ContrastCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("ContrastCommand: start",
		"factor", c.params.Factor,
		"input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("ContrastCommand: failed to decode image", "error", err)
		return nil, err
	}

	source := toNRGBA(img)
	result := interpolateUniform(source, meanLuminance(source), c.params.Factor)

	out, err := encodePNG(result)
	if err != nil {
		slog.Error("ContrastCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("ContrastCommand: complete", "output_size_bytes", len(out))
	return out, nil
}
