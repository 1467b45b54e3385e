package imageprocessing

import (
	"fmt"
)

// pipelineOrder fixes the sequence adjustments are applied in.
var pipelineOrder = []string{"saturation", "brightness", "contrast", "sharpness", "blur"}

// Pipeline builds the command sequence that applies a full adjustment map to
// an image. Adjustment values translate to command parameters as follows:
// saturation v maps to factor v/100 (100 = identity, 0 = grayscale);
// brightness, contrast and sharpness v map to factor 1 + v/100 (0 =
// identity, -100 = degenerate extreme); blur v is the Gaussian radius
// directly. Identity values produce no command. Every pipeline terminates
// with the JPEG encode step so the output is always the final format.
func Pipeline(adjustments map[string]float64) ([]Command, error) {
	var commands []Command

	for _, name := range pipelineOrder {
		value, ok := adjustments[name]
		if !ok {
			continue
		}

		var params map[string]any
		switch name {
		case "saturation":
			if value == 100 {
				continue
			}
			params = map[string]any{"factor": value / 100}
		case "blur":
			if value == 0 {
				continue
			}
			params = map[string]any{"radius": value}
		default:
			if value == 0 {
				continue
			}
			params = map[string]any{"factor": 1 + value/100}
		}

		command, err := DefaultRegistry.Create(name, params)
		if err != nil {
			return nil, fmt.Errorf("failed to build pipeline step %s: %w", name, err)
		}
		commands = append(commands, command)
	}

	encode, err := DefaultRegistry.Create("jpegencode", nil)
	if err != nil {
		return nil, err
	}
	commands = append(commands, encode)

	return commands, nil
}

// Render applies a full adjustment map to image data and returns the final
// JPEG bytes.
func Render(imageData []byte, adjustments map[string]float64) ([]byte, error) {
	commands, err := Pipeline(adjustments)
	if err != nil {
		return nil, err
	}
	return NewCommandInvoker(commands).Execute(imageData)
}
