package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// ValueMode selects how a feature's representative scalar is computed.
type ValueMode string

const (
	// Single reads one named property.
	Single ValueMode = "single"
	// Average is the mean of an ordered list of properties.
	Average ValueMode = "average"
)

// MonthlyFields are the monthly median solar radiation properties, January first.
var MonthlyFields = []string{
	"_median", "_median_2", "_median_3", "_median_4", "_median_5", "_median_6",
	"_median_7", "_median_8", "_median_9", "_median_10", "_median_11", "_median_12",
}

// MonthNames label MonthlyFields.
var MonthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ParseValueMode validates a mode name.
func ParseValueMode(s string) (ValueMode, error) {
	switch m := ValueMode(strings.ToLower(s)); m {
	case Single, Average:
		return m, nil
	}
	return "", fmt.Errorf("render: unknown value mode %q", s)
}

// Scalar converts a decoded property to a number.
func Scalar(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

// FeatureValue returns the representative scalar for props, NaN when no
// usable property is present. Average mode skips missing fields.
func FeatureValue(props geojson.Properties, mode ValueMode, field string, fields []string) float64 {
	if mode == Single {
		if v, ok := Scalar(props[field]); ok {
			return v
		}
		return math.NaN()
	}
	var sum float64
	var n int
	for _, f := range fields {
		if v, ok := Scalar(props[f]); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Clamp pins v into [min, max]; NaN becomes min.
func Clamp(v, min, max float64) float64 {
	switch {
	case math.IsNaN(v) || v < min:
		return min
	case v > max:
		return max
	}
	return v
}
