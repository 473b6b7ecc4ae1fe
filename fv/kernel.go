// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// FluxTerm computes the face coefficients of one flux. On interior faces
// the neighbor coefficients are the ones written in the neighbor row; the
// kernel negates the matrix pair and writes the RHS pair as given.
// On boundary faces bc may be nil
type FluxTerm interface {
	SetupFace(k *FluxKernel)
	ElemMatrixContribution(k *FluxKernel) float64
	NeighborMatrixContribution(k *FluxKernel) float64
	ElemRHSContribution(k *FluxKernel) float64
	NeighborRHSContribution(k *FluxKernel) float64
	BoundaryMatrixContribution(k *FluxKernel, bc BoundaryCondition) float64
	BoundaryRHSContribution(k *FluxKernel, bc BoundaryCondition) float64
}

// FluxKernel applies a flux term to every face of a variable
type FluxKernel struct {
	storage.Base
	storage.SetupBase
	Var  *Variable
	Term FluxTerm

	fi *face.Info
	ft face.Type
	bc BoundaryCondition

	faceReady    bool       // Term.SetupFace was called for fi
	matrixCached bool       // matrix holds the coefficients of fi
	rhsCached    bool       // rhs holds the coefficients of fi
	matrix       [2]float64 // elem, neighbor (or boundary) matrix coefficients
	rhs          [2]float64 // elem, neighbor (or boundary) RHS values
}

// NewFluxKernel returns a new kernel
func NewFluxKernel(base storage.Base, v *Variable, term FluxTerm) *FluxKernel {
	return &FluxKernel{Base: base, Var: v, Term: term}
}

// VariableDeps returns the variable number
func (o *FluxKernel) VariableDeps() []int { return []int{o.Var.Number()} }

// SetCurrentFaceInfo points the kernel at fi and resets the per-face caches
func (o *FluxKernel) SetCurrentFaceInfo(fi *face.Info) {
	o.fi = fi
	o.ft = fi.FaceType(o.Var.Name())
	o.bc = nil
	if o.ft == face.Elem || o.ft == face.Neighbor {
		o.bc = o.Var.FaceBC(fi)
		if o.bc != nil {
			o.bc.SetupFaceData(fi, o.ft)
		}
	}
	o.faceReady = false
	o.matrixCached = false
	o.rhsCached = false
}

// FaceInfo returns the current face
func (o *FluxKernel) FaceInfo() *face.Info { return o.fi }

// FaceType returns the face type of the variable on the current face
func (o *FluxKernel) FaceType() face.Type { return o.ft }

// BC returns the boundary condition of the current face or nil
func (o *FluxKernel) BC() BoundaryCondition { return o.bc }

// HasFaceSide tells whether the variable lives on the element side
// (elemSide) or on the neighbor side of fi
func (o *FluxKernel) HasFaceSide(fi *face.Info, elemSide bool) bool {
	ft := fi.FaceType(o.Var.Name())
	if elemSide {
		return ft == face.Elem || ft == face.Both
	}
	return ft == face.Neighbor || ft == face.Both
}

// SingleSidedFaceArg returns the argument to evaluate functors on fi from the
// side where the variable lives
func (o *FluxKernel) SingleSidedFaceArg(fi *face.Info, limiter face.InterpMethod, correctSkewness bool) face.Arg {
	return face.SingleSidedArg(fi, fi.FaceType(o.Var.Name()), limiter, correctSkewness)
}

// MatrixContribution returns the matrix coefficients of the current face.
// Boundary faces only use the first one
func (o *FluxKernel) MatrixContribution() (elem, neighbor float64) {
	if !o.matrixCached {
		o.setupFace()
		switch o.ft {
		case face.Both:
			o.matrix[0] = o.Term.ElemMatrixContribution(o)
			o.matrix[1] = o.Term.NeighborMatrixContribution(o)
		case face.Elem, face.Neighbor:
			o.matrix[0] = o.Term.BoundaryMatrixContribution(o, o.bc)
			o.matrix[1] = 0
		}
		o.matrixCached = true
	}
	return o.matrix[0], o.matrix[1]
}

// RHSContribution returns the RHS values of the current face. Boundary
// faces only use the first one
func (o *FluxKernel) RHSContribution() (elem, neighbor float64) {
	if !o.rhsCached {
		o.setupFace()
		switch o.ft {
		case face.Both:
			o.rhs[0] = o.Term.ElemRHSContribution(o)
			o.rhs[1] = o.Term.NeighborRHSContribution(o)
		case face.Elem, face.Neighbor:
			o.rhs[0] = o.Term.BoundaryRHSContribution(o, o.bc)
			o.rhs[1] = 0
		}
		o.rhsCached = true
	}
	return o.rhs[0], o.rhs[1]
}

// AddMatrixContribution adds the face coefficients to the system matrix
func (o *FluxKernel) AddMatrixContribution(m asm.Matrix) {
	switch o.ft {
	case face.Both:
		ce, cn := o.MatrixContribution()
		e, n := o.dof(o.fi.Elem), o.dof(o.fi.Neighbor)
		m.AddEntries([]int{e, e, n, n}, []int{e, n, e, n}, []float64{ce, cn, -ce, -cn})
	case face.Elem, face.Neighbor:
		c, _ := o.MatrixContribution()
		d := o.dof(definedSide(o.fi, o.ft))
		m.AddEntries([]int{d}, []int{d}, []float64{c})
	}
}

// AddRightHandSideContribution adds the face values to the system RHS
func (o *FluxKernel) AddRightHandSideContribution(r asm.Vector) {
	switch o.ft {
	case face.Both:
		re, rn := o.RHSContribution()
		r.AddVector([]int{o.dof(o.fi.Elem), o.dof(o.fi.Neighbor)}, []float64{re, rn})
	case face.Elem, face.Neighbor:
		c, _ := o.RHSContribution()
		r.AddVector([]int{o.dof(definedSide(o.fi, o.ft))}, []float64{c})
	}
}

// String returns a summary of the kernel
func (o *FluxKernel) String() string {
	return io.Sf("%s: var=%s blocks=%v term=%T", o.ObjName, o.Var.Name(), o.Blocks, o.Term)
}

func (o *FluxKernel) setupFace() {
	if !o.faceReady {
		o.Term.SetupFace(o)
		o.faceReady = true
	}
}

func (o *FluxKernel) dof(e *face.ElemInfo) int {
	d, ok := o.Var.Dof(e.ID)
	if DebugChecks && !ok {
		chk.Panic("kernel %q: variable %q has no dof on element %d", o.ObjName, o.Var.Name(), e.ID)
	}
	return d
}
