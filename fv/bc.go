// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/storage"
	"gonum.org/v1/gonum/spatial/r3"
)

// BoundaryCondition supplies the face value and normal gradient of a variable
// on boundary faces, split into the coefficient multiplying the unknown cell
// value (matrix) and the remaining explicit part (RHS).
//
// SetupFaceData must be called before any Compute method
type BoundaryCondition interface {
	storage.Object
	BoundaryIDs() []int
	SetupFaceData(fi *face.Info, ft face.Type)
	ComputeBoundaryValue() float64
	ComputeBoundaryNormalGradient() float64
	ComputeBoundaryValueMatrixContribution() float64
	ComputeBoundaryValueRHSContribution() float64
	ComputeBoundaryGradientMatrixContribution() float64
	ComputeBoundaryGradientRHSContribution() float64
}

// BCBase holds the current face of a boundary condition and the geometry
// derived from it
type BCBase struct {
	storage.Base
	Var *Variable // variable this condition acts on

	fi *face.Info
	ft face.Type
}

// SetupFaceData sets the current face
func (o *BCBase) SetupFaceData(fi *face.Info, ft face.Type) {
	o.fi = fi
	o.ft = ft
}

// FaceInfo returns the current face
func (o *BCBase) FaceInfo() *face.Info { return o.fi }

// FaceType returns the face type of the current face
func (o *BCBase) FaceType() face.Type { return o.ft }

// Cell returns the cell on the side where the variable lives
func (o *BCBase) Cell() *face.ElemInfo { return definedSide(o.fi, o.ft) }

// Normal returns the unit normal pointing out of Cell
func (o *BCBase) Normal() r3.Vec {
	if o.ft == face.Neighbor {
		return r3.Scale(-1, o.fi.Normal)
	}
	return o.fi.Normal
}

// CellToFace returns d_cf, the vector from the Cell centroid to the face centroid
func (o *BCBase) CellToFace() r3.Vec { return r3.Sub(o.fi.Centroid, o.Cell().Centroid) }

// Projection returns d_cf·n
func (o *BCBase) Projection() float64 { return r3.Dot(o.CellToFace(), o.Normal()) }

// NonorthogonalVector returns vc = d_cf - (d_cf·n) n
func (o *BCBase) NonorthogonalVector() r3.Vec {
	n := o.Normal()
	d := o.CellToFace()
	return r3.Sub(d, r3.Scale(r3.Dot(d, n), n))
}

// CellValue returns the variable value at Cell
func (o *BCBase) CellValue() float64 { return o.Var.Value(o.Cell().ID) }

// CellGradient returns the variable gradient at Cell
func (o *BCBase) CellGradient() r3.Vec { return o.Var.Gradient(o.Cell().ID) }

// ExtrapolatedValue returns the cell value carried to the face with the cell gradient
func (o *BCBase) ExtrapolatedValue() float64 {
	return o.CellValue() + r3.Dot(o.CellGradient(), o.CellToFace())
}

// FaceArg returns the argument for evaluating functors on the current face
// from the side where the variable lives
func (o *BCBase) FaceArg() face.Arg {
	return face.SingleSidedArg(o.fi, o.ft, face.Average, false)
}

// Time returns the current time of the variable
func (o *BCBase) Time() float64 { return o.Var.Time() }
