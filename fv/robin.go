// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"math"

	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/functor"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/spatial/r3"
)

// AlphaTol is the smallest |alpha| accepted when computing gradients and the
// smallest |alpha + beta p| accepted when computing boundary values
const AlphaTol = 1e-14

// Stefan-Boltzmann constant [W/(m² K⁴)]
const StefanBoltzmann = 5.670374419e-8

// RobinCoefficients supplies alpha, beta and gamma of the boundary relation
//
//	alpha ∂φ/∂n + beta φ = gamma
//
// on the current face of bc
type RobinCoefficients interface {
	Alpha(bc *RobinBC) float64
	Beta(bc *RobinBC) float64
	Gamma(bc *RobinBC) float64
}

// RobinBC implements the linearised Robin relation. The coefficients are
// evaluated once per face in SetupFaceData
type RobinBC struct {
	BCBase
	Coefs RobinCoefficients

	alpha, beta, gamma float64
}

// NewRobinBC returns a new Robin condition; alpha must not be the constant zero
func NewRobinBC(base storage.Base, v *Variable, alpha, beta, gamma functor.Functor) (*RobinBC, error) {
	if functor.IsZero(alpha) {
		return nil, chk.Err("Robin condition %q: alpha must not be zero; use a Dirichlet condition instead", base.ObjName)
	}
	return newRobin(base, v, &FunctorCoefficients{A: alpha, B: beta, G: gamma}), nil
}

func newRobin(base storage.Base, v *Variable, c RobinCoefficients) *RobinBC {
	return &RobinBC{BCBase: BCBase{Base: base, Var: v}, Coefs: c}
}

// SetupFaceData sets the current face and evaluates the coefficients
func (o *RobinBC) SetupFaceData(fi *face.Info, ft face.Type) {
	o.BCBase.SetupFaceData(fi, ft)
	o.alpha = o.Coefs.Alpha(o)
	o.beta = o.Coefs.Beta(o)
	o.gamma = o.Coefs.Gamma(o)
}

// Coefficients returns alpha, beta and gamma on the current face
func (o *RobinBC) Coefficients() (alpha, beta, gamma float64) { return o.alpha, o.beta, o.gamma }

// ComputeBoundaryValue returns (αφ + α∇φ·vc + γp) / (α + βp)
func (o *RobinBC) ComputeBoundaryValue() float64 {
	p, den := o.denominator()
	return (o.alpha*o.CellValue() + o.alpha*r3.Dot(o.CellGradient(), o.NonorthogonalVector()) + o.gamma*p) / den
}

// ComputeBoundaryNormalGradient returns (γ - β φ_b) / α
func (o *RobinBC) ComputeBoundaryNormalGradient() float64 {
	o.checkAlpha()
	return (o.gamma - o.beta*o.ComputeBoundaryValue()) / o.alpha
}

// ComputeBoundaryValueMatrixContribution returns ∂φ_b/∂φ
func (o *RobinBC) ComputeBoundaryValueMatrixContribution() float64 {
	_, den := o.denominator()
	return o.alpha / den
}

// ComputeBoundaryValueRHSContribution returns the part of φ_b not multiplying φ
func (o *RobinBC) ComputeBoundaryValueRHSContribution() float64 {
	p, den := o.denominator()
	return (o.alpha*r3.Dot(o.CellGradient(), o.NonorthogonalVector()) + o.gamma*p) / den
}

// ComputeBoundaryGradientMatrixContribution returns ∂(∂φ/∂n)/∂φ
func (o *RobinBC) ComputeBoundaryGradientMatrixContribution() float64 {
	_, den := o.denominator()
	return -o.beta / den
}

// ComputeBoundaryGradientRHSContribution returns the part of ∂φ/∂n not multiplying φ
func (o *RobinBC) ComputeBoundaryGradientRHSContribution() float64 {
	o.checkAlpha()
	return (o.gamma - o.beta*o.ComputeBoundaryValueRHSContribution()) / o.alpha
}

// denominator returns the projection p and α + βp
func (o *RobinBC) denominator() (p, den float64) {
	p = o.Projection()
	den = o.alpha + o.beta*p
	if math.Abs(den) < AlphaTol {
		chk.Panic("Robin condition %q: alpha + beta p = %g vanishes on face %d", o.ObjName, den, o.fi.ID)
	}
	return
}

func (o *RobinBC) checkAlpha() {
	if math.Abs(o.alpha) < AlphaTol {
		chk.Panic("Robin condition %q: alpha = %g is too small on face %d", o.ObjName, o.alpha, o.fi.ID)
	}
}

// FunctorCoefficients evaluates alpha, beta and gamma from functors on the face
type FunctorCoefficients struct {
	A, B, G functor.Functor
}

// Alpha returns A on the face
func (o *FunctorCoefficients) Alpha(bc *RobinBC) float64 { return o.A.AtFace(bc.FaceArg(), bc.Time()) }

// Beta returns B on the face
func (o *FunctorCoefficients) Beta(bc *RobinBC) float64 { return o.B.AtFace(bc.FaceArg(), bc.Time()) }

// Gamma returns G on the face
func (o *FunctorCoefficients) Gamma(bc *RobinBC) float64 { return o.G.AtFace(bc.FaceArg(), bc.Time()) }

// NewNeumannBC returns a condition prescribing the outward normal gradient g:
// alpha = 1, beta = 0, gamma = g
func NewNeumannBC(base storage.Base, v *Variable, g functor.Functor) *RobinBC {
	return newRobin(base, v, &FunctorCoefficients{A: functor.Constant{Value: 1}, B: functor.Constant{}, G: g})
}

// NewConvectiveBC returns the heat transfer condition -k ∂T/∂n = h (T - Tinf):
// alpha = k, beta = h, gamma = h Tinf. Use an Extrapolation of another field
// as Tinf to couple two domains
func NewConvectiveBC(base storage.Base, v *Variable, k, h, Tinf functor.Functor) (*RobinBC, error) {
	if functor.IsZero(k) {
		return nil, chk.Err("convective condition %q: conductivity must not be zero", base.ObjName)
	}
	gamma := functor.Product{A: h, B: Tinf}
	return newRobin(base, v, &FunctorCoefficients{A: k, B: h, G: gamma}), nil
}

// RadiativeCoefficients linearises -k ∂T/∂n = σε (T⁴ - Tinf⁴) about the
// face temperature T0 extrapolated from the current solution:
//
//	alpha = k
//	beta  = 4 σ ε T0³
//	gamma = σ ε (3 T0⁴ + Tinf⁴)
type RadiativeCoefficients struct {
	K          functor.Functor
	Tinf       functor.Functor
	Emissivity map[int]float64 // boundary id => emissivity
}

// NewRadiativeBC returns a radiative condition acting on base.Bnds with one
// emissivity per boundary
func NewRadiativeBC(base storage.Base, v *Variable, k, Tinf functor.Functor, emissivity []float64) (*RobinBC, error) {
	if functor.IsZero(k) {
		return nil, chk.Err("radiative condition %q: conductivity must not be zero", base.ObjName)
	}
	if len(emissivity) != len(base.Bnds) {
		return nil, chk.Err("radiative condition %q: the number of emissivities (%d) must equal the number of boundaries (%d)", base.ObjName, len(emissivity), len(base.Bnds))
	}
	c := &RadiativeCoefficients{K: k, Tinf: Tinf, Emissivity: make(map[int]float64)}
	for i, id := range base.Bnds {
		if emissivity[i] < 0 || emissivity[i] > 1 {
			return nil, chk.Err("radiative condition %q: emissivity %g of boundary %d must be in [0,1]", base.ObjName, emissivity[i], id)
		}
		c.Emissivity[id] = emissivity[i]
	}
	return newRobin(base, v, c), nil
}

// Alpha returns k
func (o *RadiativeCoefficients) Alpha(bc *RobinBC) float64 { return o.K.AtFace(bc.FaceArg(), bc.Time()) }

// Beta returns 4 σ ε T0³
func (o *RadiativeCoefficients) Beta(bc *RobinBC) float64 {
	T0 := bc.ExtrapolatedValue()
	return 4 * StefanBoltzmann * o.emissivity(bc) * T0 * T0 * T0
}

// Gamma returns σ ε (3 T0⁴ + Tinf⁴)
func (o *RadiativeCoefficients) Gamma(bc *RobinBC) float64 {
	T0 := bc.ExtrapolatedValue()
	Tinf := o.Tinf.AtFace(bc.FaceArg(), bc.Time())
	return StefanBoltzmann * o.emissivity(bc) * (3*math.Pow(T0, 4) + math.Pow(Tinf, 4))
}

func (o *RadiativeCoefficients) emissivity(bc *RobinBC) float64 {
	return o.Emissivity[bc.FaceInfo().BoundaryID()]
}
