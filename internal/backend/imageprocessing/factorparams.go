package imageprocessing

import (
	"fmt"
)

// FactorParams represents the typed parameter shared by the enhancement
// commands: 1.0 is identity, 0.0 the degenerate extreme, above 1.0 amplifies.
type FactorParams struct {
	Factor float64
}

// NewFactorParamsFromMap creates FactorParams from a generic map
func NewFactorParamsFromMap(params map[string]any) (*FactorParams, error) {
	if err := ValidateRequiredParams(params, []string{"factor"}); err != nil {
		return nil, err
	}

	factor := GetFloatParam(params, "factor", 1.0)
	if factor < 0 {
		return nil, fmt.Errorf("factor must be non-negative, got %g", factor)
	}

	return &FactorParams{Factor: factor}, nil
}
