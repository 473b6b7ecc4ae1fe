// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/functor"
	"github.com/cpmech/goasm/storage"
	"gonum.org/v1/gonum/spatial/r3"
)

// DirichletBC prescribes the face value g. The normal gradient is the two
// point difference between the face and the cell, corrected for
// non-orthogonality
type DirichletBC struct {
	BCBase
	G functor.Functor

	value float64
}

// NewDirichletBC returns a new Dirichlet condition
func NewDirichletBC(base storage.Base, v *Variable, g functor.Functor) *DirichletBC {
	return &DirichletBC{BCBase: BCBase{Base: base, Var: v}, G: g}
}

// SetupFaceData sets the current face and evaluates g
func (o *DirichletBC) SetupFaceData(fi *face.Info, ft face.Type) {
	o.BCBase.SetupFaceData(fi, ft)
	o.value = o.G.AtFace(o.FaceArg(), o.Time())
}

// ComputeBoundaryValue returns g
func (o *DirichletBC) ComputeBoundaryValue() float64 { return o.value }

// ComputeBoundaryNormalGradient returns (g - φ - ∇φ·vc) / p
func (o *DirichletBC) ComputeBoundaryNormalGradient() float64 {
	return (o.value - o.CellValue() - r3.Dot(o.CellGradient(), o.NonorthogonalVector())) / o.Projection()
}

// ComputeBoundaryValueMatrixContribution returns zero
func (o *DirichletBC) ComputeBoundaryValueMatrixContribution() float64 { return 0 }

// ComputeBoundaryValueRHSContribution returns g
func (o *DirichletBC) ComputeBoundaryValueRHSContribution() float64 { return o.value }

// ComputeBoundaryGradientMatrixContribution returns -1/p
func (o *DirichletBC) ComputeBoundaryGradientMatrixContribution() float64 {
	return -1 / o.Projection()
}

// ComputeBoundaryGradientRHSContribution returns (g - ∇φ·vc) / p
func (o *DirichletBC) ComputeBoundaryGradientRHSContribution() float64 {
	return (o.value - r3.Dot(o.CellGradient(), o.NonorthogonalVector())) / o.Projection()
}

// OutflowBC lets the variable leave the domain with zero normal gradient.
// The face value is the cell value, optionally extrapolated with the cell
// gradient
type OutflowBC struct {
	BCBase
	Extrapolate bool
}

// NewOutflowBC returns a new outflow condition
func NewOutflowBC(base storage.Base, v *Variable, extrapolate bool) *OutflowBC {
	return &OutflowBC{BCBase: BCBase{Base: base, Var: v}, Extrapolate: extrapolate}
}

// ComputeBoundaryValue returns φ or φ + ∇φ·d_cf
func (o *OutflowBC) ComputeBoundaryValue() float64 {
	return o.CellValue() + o.ComputeBoundaryValueRHSContribution()
}

// ComputeBoundaryNormalGradient returns zero
func (o *OutflowBC) ComputeBoundaryNormalGradient() float64 { return 0 }

// ComputeBoundaryValueMatrixContribution returns one
func (o *OutflowBC) ComputeBoundaryValueMatrixContribution() float64 { return 1 }

// ComputeBoundaryValueRHSContribution returns ∇φ·d_cf when extrapolating
func (o *OutflowBC) ComputeBoundaryValueRHSContribution() float64 {
	if o.Extrapolate {
		return r3.Dot(o.CellGradient(), o.CellToFace())
	}
	return 0
}

// ComputeBoundaryGradientMatrixContribution returns zero
func (o *OutflowBC) ComputeBoundaryGradientMatrixContribution() float64 { return 0 }

// ComputeBoundaryGradientRHSContribution returns zero
func (o *OutflowBC) ComputeBoundaryGradientRHSContribution() float64 { return 0 }
