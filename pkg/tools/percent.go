// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"fmt"
	"math"
)

// formatPercent renders a raw ratio as a percentage string with the given
// number of decimals. Missing or non-numeric values yield the zero string
// ("0.0%" / "0.00%") instead of an error; NaN from a backend must never take
// down a run.
func formatPercent(value any, decimals int) string {
	v, ok := asFloat(value)
	if !ok {
		return fmt.Sprintf("%.*f%%", decimals, 0.0)
	}
	return fmt.Sprintf("%.*f%%", decimals, v*100)
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
