// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/functor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Advection is the flux u φ through the face with a constant velocity
type Advection struct {
	Velocity r3.Vec
	Method   face.InterpMethod // Average or Upwind

	flux float64 // u·n A on the current face
}

// SetupFace computes the volumetric flux through the face
func (o *Advection) SetupFace(k *FluxKernel) {
	fi := k.FaceInfo()
	o.flux = r3.Dot(o.Velocity, fi.Normal) * fi.Area
}

// ElemMatrixContribution returns the coefficient of the element value
func (o *Advection) ElemMatrixContribution(k *FluxKernel) float64 {
	c1, _ := face.InterpCoeffs(o.Method, k.FaceInfo(), true, o.flux)
	return o.flux * c1
}

// NeighborMatrixContribution returns the coefficient of the neighbor value
func (o *Advection) NeighborMatrixContribution(k *FluxKernel) float64 {
	_, c2 := face.InterpCoeffs(o.Method, k.FaceInfo(), true, o.flux)
	return o.flux * c2
}

// ElemRHSContribution returns zero
func (o *Advection) ElemRHSContribution(k *FluxKernel) float64 { return 0 }

// NeighborRHSContribution returns zero
func (o *Advection) NeighborRHSContribution(k *FluxKernel) float64 { return 0 }

// BoundaryMatrixContribution returns u·n A ∂φ_b/∂φ; without a condition
// the face value is the cell value
func (o *Advection) BoundaryMatrixContribution(k *FluxKernel, bc BoundaryCondition) float64 {
	f := o.outwardFlux(k)
	if bc == nil {
		return f
	}
	return f * bc.ComputeBoundaryValueMatrixContribution()
}

// BoundaryRHSContribution returns -u·n A times the explicit part of φ_b
func (o *Advection) BoundaryRHSContribution(k *FluxKernel, bc BoundaryCondition) float64 {
	if bc == nil {
		return 0
	}
	return -o.outwardFlux(k) * bc.ComputeBoundaryValueRHSContribution()
}

func (o *Advection) outwardFlux(k *FluxKernel) float64 {
	if k.FaceType() == face.Neighbor {
		return -o.flux
	}
	return o.flux
}

// Diffusion is the flux -D ∇φ·n through the face. The two point
// approximation along d_cn is implicit; the non-orthogonal correction uses
// the interpolated gradient and goes to the RHS
type Diffusion struct {
	D                       functor.Functor
	NonorthogonalCorrection bool

	coef float64 // D A on the current face
}

// SetupFace evaluates D on the face
func (o *Diffusion) SetupFace(k *FluxKernel) {
	fi := k.FaceInfo()
	var fa face.Arg
	if k.FaceType() == face.Both {
		fa = face.Arg{FI: fi, Limiter: face.Average, ElemIsUpwind: true}
	} else {
		fa = k.SingleSidedFaceArg(fi, face.Average, false)
	}
	o.coef = o.D.AtFace(fa, k.Var.Time()) * fi.Area
}

// ElemMatrixContribution returns D A / |d_cn|
func (o *Diffusion) ElemMatrixContribution(k *FluxKernel) float64 {
	return o.coef / r3.Norm(k.FaceInfo().DCN())
}

// NeighborMatrixContribution returns -D A / |d_cn|
func (o *Diffusion) NeighborMatrixContribution(k *FluxKernel) float64 {
	return -o.ElemMatrixContribution(k)
}

// ElemRHSContribution returns the non-orthogonal correction D A ∇φ_f·(n - e_cn)
func (o *Diffusion) ElemRHSContribution(k *FluxKernel) float64 {
	if !o.NonorthogonalCorrection {
		return 0
	}
	fi := k.FaceInfo()
	ecn := r3.Unit(fi.DCN())
	return o.coef * r3.Dot(k.Var.FaceGradient(fi), r3.Sub(fi.Normal, ecn))
}

// NeighborRHSContribution returns the negated element correction
func (o *Diffusion) NeighborRHSContribution(k *FluxKernel) float64 {
	return -o.ElemRHSContribution(k)
}

// BoundaryMatrixContribution returns -D A ∂(∂φ/∂n)/∂φ; zero flux without a condition
func (o *Diffusion) BoundaryMatrixContribution(k *FluxKernel, bc BoundaryCondition) float64 {
	if bc == nil {
		return 0
	}
	return -o.coef * bc.ComputeBoundaryGradientMatrixContribution()
}

// BoundaryRHSContribution returns D A times the explicit part of ∂φ/∂n
func (o *Diffusion) BoundaryRHSContribution(k *FluxKernel, bc BoundaryCondition) float64 {
	if bc == nil {
		return 0
	}
	return o.coef * bc.ComputeBoundaryGradientRHSContribution()
}
