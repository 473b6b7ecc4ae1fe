// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package functor

import (
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/interp"
)

// Bicubic samples tabulated data y(x1, x2) with a tensor product of
// not-a-knot cubic splines. Cubic polynomials in each direction are
// reproduced exactly. As a functor, x1 and x2 are the X and Y coordinates
type Bicubic struct {
	x1   []float64               // [n1] first coordinates
	x2   []float64               // [n2] second coordinates
	rows []*interp.NotAKnotCubic // [n1] splines along x2 for each x1
}

// NewBicubic fits the splines along x2 for every x1. y[i][j] = y(x1[i], x2[j])
func NewBicubic(x1, x2 []float64, y [][]float64) (o *Bicubic, err error) {
	if len(x1) < 4 || len(x2) < 4 {
		return nil, chk.Err("bicubic sampling needs at least 4 points in each direction; got %d×%d", len(x1), len(x2))
	}
	if len(y) != len(x1) {
		return nil, chk.Err("number of rows of y (%d) must equal len(x1)=%d", len(y), len(x1))
	}
	o = &Bicubic{x1: x1, x2: x2, rows: make([]*interp.NotAKnotCubic, len(x1))}
	for i, row := range y {
		if len(row) != len(x2) {
			return nil, chk.Err("row %d of y has %d values; expected %d", i, len(row), len(x2))
		}
		o.rows[i] = new(interp.NotAKnotCubic)
		if err = o.rows[i].Fit(x2, row); err != nil {
			return nil, chk.Err("cannot fit row %d:\n%v", i, err)
		}
	}
	return
}

// Sample returns the interpolated value at (a, b)
func (o *Bicubic) Sample(a, b float64) float64 {
	z := make([]float64, len(o.x1))
	for i, r := range o.rows {
		z[i] = r.Predict(b)
	}
	var col interp.NotAKnotCubic
	if err := col.Fit(o.x1, z); err != nil {
		chk.Panic("cannot fit spline along x1:\n%v", err)
	}
	return col.Predict(a)
}

// AtElem samples at the cell centroid
func (o *Bicubic) AtElem(e *face.ElemInfo, t float64) float64 {
	return o.Sample(e.Centroid.X, e.Centroid.Y)
}

// AtFace samples at the face centroid
func (o *Bicubic) AtFace(fa face.Arg, t float64) float64 {
	p := fa.Point()
	return o.Sample(p.X, p.Y)
}
