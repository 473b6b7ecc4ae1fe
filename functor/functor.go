// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package functor implements space-time quantities that can be evaluated on
// cells and on faces
package functor

import (
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/gosl/fun/dbf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Functor is a scalar quantity evaluated on cells or faces at time t
type Functor interface {
	AtElem(e *face.ElemInfo, t float64) float64
	AtFace(fa face.Arg, t float64) float64
}

// Constant is a functor with the same value everywhere
type Constant struct {
	Value float64
}

// AtElem returns the value
func (o Constant) AtElem(e *face.ElemInfo, t float64) float64 { return o.Value }

// AtFace returns the value
func (o Constant) AtFace(fa face.Arg, t float64) float64 { return o.Value }

// IsZero tells whether f is the constant zero; used by parameter validation
func IsZero(f Functor) bool {
	switch c := f.(type) {
	case Constant:
		return c.Value == 0
	case *Constant:
		return c.Value == 0
	}
	return false
}

// Func evaluates a database function f(t, x) at cell and face centroids
type Func struct {
	F dbf.T
}

// NewFunc returns a functor wrapping f
func NewFunc(f dbf.T) *Func { return &Func{F: f} }

// AtElem evaluates f at the cell centroid
func (o *Func) AtElem(e *face.ElemInfo, t float64) float64 { return o.F.F(t, coords(e.Centroid)) }

// AtFace evaluates f at the face centroid
func (o *Func) AtFace(fa face.Arg, t float64) float64 { return o.F.F(t, coords(fa.Point())) }

// Product multiplies two functors
type Product struct {
	A, B Functor
}

// AtElem returns A·B on the cell
func (o Product) AtElem(e *face.ElemInfo, t float64) float64 { return o.A.AtElem(e, t) * o.B.AtElem(e, t) }

// AtFace returns A·B on the face
func (o Product) AtFace(fa face.Arg, t float64) float64 { return o.A.AtFace(fa, t) * o.B.AtFace(fa, t) }

func coords(p r3.Vec) []float64 { return []float64{p.X, p.Y, p.Z} }
