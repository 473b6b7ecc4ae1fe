// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/spatial/r3"
)

// InterpMethod defines how cell values are carried to faces
type InterpMethod int

// interpolation methods
const (
	Average              InterpMethod = iota // geometric (linear) average
	SkewCorrectedAverage                     // average plus skewness correction
	Upwind                                   // donor cell
	HarmonicAverage                          // harmonic average
)

var interpNames = []string{"average", "skewness-corrected", "upwind", "harmonic"}

// String returns the method name
func (o InterpMethod) String() string {
	if o < 0 || int(o) >= len(interpNames) {
		return "unknown"
	}
	return interpNames[o]
}

// ParseInterpMethod returns the method named name
func ParseInterpMethod(name string) (InterpMethod, error) {
	key := strings.ToLower(name)
	for i, n := range interpNames {
		if n == key {
			return InterpMethod(i), nil
		}
	}
	return Average, chk.Err("unknown interpolation method %q; valid methods are %v", name, interpNames)
}

// InterpCoeffs returns the weights (c1, c2) of the values on the two sides of
// fi. oneIsElem tells whether the first value belongs to the element side;
// advDotN is the advecting velocity dotted with the face normal and is only
// used by Upwind. SkewCorrectedAverage uses the average weights; its
// correction needs gradients and is added with SkewCorrect
func InterpCoeffs(m InterpMethod, fi *Info, oneIsElem bool, advDotN float64) (c1, c2 float64) {
	switch m {
	case Average, SkewCorrectedAverage:
		gc := fi.GC()
		if oneIsElem {
			return gc, 1 - gc
		}
		return 1 - gc, gc
	case Upwind:
		if (advDotN > 0) == oneIsElem {
			return 1, 0
		}
		return 0, 1
	}
	chk.Panic("interpolation coefficients are not available for method %q", m)
	return
}

// LinearInterpolation returns c1 v1 + c2 v2
func LinearInterpolation(c1, c2, v1, v2 float64) float64 { return c1*v1 + c2*v2 }

// Interpolate carries the element and neighbor values to the face
func Interpolate(m InterpMethod, fi *Info, elemValue, neighborValue, advDotN float64) float64 {
	if m == HarmonicAverage {
		gc := fi.GC()
		if elemValue == 0 || neighborValue == 0 {
			return 0
		}
		return 1 / (gc/elemValue + (1-gc)/neighborValue)
	}
	c1, c2 := InterpCoeffs(m, fi, true, advDotN)
	return LinearInterpolation(c1, c2, elemValue, neighborValue)
}

// InterpolateVec linearly interpolates element and neighbor vectors to the face
func InterpolateVec(fi *Info, elemValue, neighborValue r3.Vec) r3.Vec {
	gc := fi.GC()
	return r3.Add(r3.Scale(gc, elemValue), r3.Scale(1-gc, neighborValue))
}

// SkewnessVector returns the vector from the point where the line joining
// the cell centroids crosses the face to the face centroid
func SkewnessVector(fi *Info) r3.Vec {
	if fi.Neighbor == nil {
		return r3.Vec{}
	}
	xp := r3.Add(fi.Elem.Centroid, r3.Scale(1-fi.GC(), fi.DCN()))
	return r3.Sub(fi.Centroid, xp)
}

// SkewCorrect adds ∇φ_f · (x_f - x_p) to the averaged face value, where x_p is
// where the line joining the cell centroids crosses fi
func SkewCorrect(fi *Info, average float64, faceGrad r3.Vec) float64 {
	return average + r3.Dot(faceGrad, SkewnessVector(fi))
}

// Corrected tells whether interior values interpolated with m get the
// skewness correction. correct is the per-evaluation request
func (m InterpMethod) Corrected(correct bool) bool {
	return m == SkewCorrectedAverage || (correct && m == Average)
}
