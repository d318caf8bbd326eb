// SPDX-FileCopyrightText: 2021-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0
//

package utils

import (
	"fmt"
	"math"
)

// Distance returns the Euclidean distance in meters between two 2D or 3D positions.
// A 2D position paired with a 3D one is treated as lying in the z=0 plane.
func Distance(p1, p2 []float64) (float64, error) {
	if !validDim(p1) || !validDim(p2) {
		return 0, fmt.Errorf("positions must be 2 or 3 dimensional, got %d and %d", len(p1), len(p2))
	}
	var sum float64
	for i := 0; i < 3; i++ {
		d := coord(p1, i) - coord(p2, i)
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

func validDim(p []float64) bool {
	return len(p) == 2 || len(p) == 3
}

func coord(p []float64, i int) float64 {
	if i < len(p) {
		return p[i]
	}
	return 0
}

// WrapTo2Pi maps an angle in radians onto [0, 2π).
func WrapTo2Pi(rad float64) float64 {
	w := math.Mod(rad, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	if w >= 2*math.Pi {
		w = 0
	}
	return w
}
