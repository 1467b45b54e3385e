package adjustments

import (
	"fmt"
	"sort"
)

// The five recognized adjustment names. Stored session state only ever
// contains keys from this set; defaults are merged in at read time.
const (
	Saturation = "saturation"
	Brightness = "brightness"
	Contrast   = "contrast"
	Sharpness  = "sharpness"
	Blur       = "blur"
)

// valueRange describes the accepted interval for one adjustment.
type valueRange struct {
	Min float64
	Max float64
}

var defaults = map[string]float64{
	Saturation: 100, // 0-100 (0 = grayscale)
	Brightness: 0,   // -100 to +100
	Contrast:   0,   // -100 to +100
	Sharpness:  0,   // -100 to +100
	Blur:       0,   // 0 to 10
}

var ranges = map[string]valueRange{
	Saturation: {Min: 0, Max: 100},
	Brightness: {Min: -100, Max: 100},
	Contrast:   {Min: -100, Max: 100},
	Sharpness:  {Min: -100, Max: 100},
	Blur:       {Min: 0, Max: 10},
}

// Defaults returns a fresh copy of the default adjustment values.
func Defaults() map[string]float64 {
	result := make(map[string]float64, len(defaults))
	for key, value := range defaults {
		result[key] = value
	}
	return result
}

// Merge overlays the stored sparse overrides on top of the defaults and
// returns a new map holding exactly the five recognized keys. Override
// values win; keys outside the recognized set are ignored (they cannot be
// stored through ValidateKeys-guarded writes in the first place).
func Merge(overrides map[string]float64) map[string]float64 {
	result := Defaults()
	for key, value := range overrides {
		if _, ok := defaults[key]; ok {
			result[key] = value
		}
	}
	return result
}

// Copy returns an independent copy of an adjustment map. Snapshots store
// copies so later session edits cannot bleed into captured state.
func Copy(values map[string]float64) map[string]float64 {
	result := make(map[string]float64, len(values))
	for key, value := range values {
		result[key] = value
	}
	return result
}

// ValidateKeys rejects any key outside the recognized set. Validation is
// total: the caller must apply nothing when an error is returned.
func ValidateKeys(partial map[string]float64) error {
	for _, key := range sortedKeys(partial) {
		if _, ok := defaults[key]; !ok {
			return fmt.Errorf("unknown adjustment: %s", key)
		}
	}
	return nil
}

// ValidateRanges rejects the first out-of-range value, naming the key and
// its accepted interval. Keys must already have passed ValidateKeys.
func ValidateRanges(partial map[string]float64) error {
	for _, key := range sortedKeys(partial) {
		r, ok := ranges[key]
		if !ok {
			return fmt.Errorf("unknown adjustment: %s", key)
		}
		value := partial[key]
		if value < r.Min || value > r.Max {
			return fmt.Errorf("adjustment %s out of range: got %g, allowed %g to %g", key, value, r.Min, r.Max)
		}
	}
	return nil
}

// sortedKeys keeps validation error messages deterministic
func sortedKeys(values map[string]float64) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
