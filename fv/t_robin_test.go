// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"math"
	"testing"

	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/functor"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/spatial/r3"
)

// boundaryCell returns one cell at the origin whose right face is at x = p
// with an optional offset of the face centroid along y
func boundaryCell(p, dy float64, phi float64, grad r3.Vec) (*Variable, *face.Info) {
	c := &face.ElemInfo{ID: 0, Centroid: r3.Vec{}, Volume: 2 * p}
	fi := face.NewInfo(7, c, nil, r3.Vec{X: p, Y: dy}, r3.Vec{X: 1}, 1, []int{3})
	v := newVariable("phi", []*face.ElemInfo{c}, []*face.Info{fi}, []float64{phi})
	v.SetGradient(0, grad)
	return v, fi
}

func robin(tst *testing.T, v *Variable, alpha, beta, gamma float64) *RobinBC {
	bc, err := NewRobinBC(storage.Base{ObjName: "robin", Bnds: []int{3}}, v,
		functor.Constant{Value: alpha}, functor.Constant{Value: beta}, functor.Constant{Value: gamma})
	require.NoError(tst, err)
	return bc
}

func Test_robin01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("robin01. boundary value identities")

	v, fi := boundaryCell(0.1, 0, 3, r3.Vec{})

	// alpha=1, beta=0: extrapolated value plus the prescribed gradient times p
	bc := robin(tst, v, 1, 0, 0)
	bc.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "φb(γ=0)", 1e-15, bc.ComputeBoundaryValue(), 3)
	bc = robin(tst, v, 1, 0, 5)
	bc.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "φb(γ=5)", 1e-15, bc.ComputeBoundaryValue(), 3.5)
	chk.Float64(tst, "∂φ/∂n(γ=5)", 1e-15, bc.ComputeBoundaryNormalGradient(), 5)

	// alpha → 0 gives the Dirichlet value γ/β
	bc = robin(tst, v, 1e-8, 2, 5)
	bc.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "φb(α→0)", 2.5e-6, bc.ComputeBoundaryValue(), 2.5)

	// alpha → ∞ gives the zero-gradient value
	bc = robin(tst, v, 1e8, 2, 5)
	bc.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "φb(α→∞)", 1e-7, bc.ComputeBoundaryValue(), 3)

	// non-orthogonal correction
	v, fi = boundaryCell(0.1, 0.2, 3, r3.Vec{X: 1, Y: 4})
	bc = robin(tst, v, 1, 0, 0)
	bc.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "p", 1e-15, bc.Projection(), 0.1)
	chk.Array(tst, "vc", 1e-15, vec(bc.NonorthogonalVector()), []float64{0, 0.2, 0})
	chk.Float64(tst, "φb(vc)", 1e-15, bc.ComputeBoundaryValue(), 3.8)
}

func Test_robin02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("robin02. matrix and RHS split")

	for _, c := range [][]float64{{1, 0, 2}, {2, 3, 4}, {0.5, 10, -1}, {3, 0.2, 7}} {
		alpha, beta, gamma := c[0], c[1], c[2]
		for _, phi := range []float64{-1, 0, 2.5} {
			v, fi := boundaryCell(0.25, 0.1, phi, r3.Vec{X: 0.3, Y: -2})
			bc := robin(tst, v, alpha, beta, gamma)
			bc.SetupFaceData(fi, face.Elem)
			a, b, g := bc.Coefficients()
			chk.Array(tst, "αβγ", 1e-17, []float64{a, b, g}, c)
			val := bc.ComputeBoundaryValueMatrixContribution()*phi + bc.ComputeBoundaryValueRHSContribution()
			grd := bc.ComputeBoundaryGradientMatrixContribution()*phi + bc.ComputeBoundaryGradientRHSContribution()
			chk.Float64(tst, io.Sf("φb(%v,%g)", c, phi), 1e-14, val, bc.ComputeBoundaryValue())
			chk.Float64(tst, io.Sf("∂φ/∂n(%v,%g)", c, phi), 1e-13, grd, bc.ComputeBoundaryNormalGradient())

			// Robin relation holds on the face
			chk.Float64(tst, "α∂φ/∂n+βφ", 1e-13, alpha*grd+beta*val, gamma)
		}
	}
}

func Test_robin03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("robin03. validation and the alpha guard")

	v, fi := boundaryCell(0.1, 0, 3, r3.Vec{})

	_, err := NewRobinBC(storage.Base{ObjName: "bad"}, v, functor.Constant{}, functor.Constant{Value: 1}, functor.Constant{})
	require.Error(tst, err)
	assert.Contains(tst, err.Error(), `"bad"`)
	_, err = NewConvectiveBC(storage.Base{ObjName: "conv"}, v, &functor.Constant{}, functor.Constant{Value: 1}, functor.Constant{})
	require.Error(tst, err)
	_, err = NewRadiativeBC(storage.Base{ObjName: "rad", Bnds: []int{1, 2}}, v, functor.Constant{Value: 1}, functor.Constant{}, []float64{0.5})
	require.Error(tst, err)
	assert.Contains(tst, err.Error(), "emissivities (1)")
	_, err = NewRadiativeBC(storage.Base{ObjName: "rad", Bnds: []int{1}}, v, functor.Constant{Value: 1}, functor.Constant{}, []float64{1.5})
	require.Error(tst, err)

	// alpha given by a non-constant functor may still vanish on a face
	bc := robin(tst, v, 1e-20, 1, 1)
	bc.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "φb", 1e-15, bc.ComputeBoundaryValue(), 1)
	assert.Panics(tst, func() { bc.ComputeBoundaryNormalGradient() })
	assert.Panics(tst, func() { bc.ComputeBoundaryGradientRHSContribution() })

	// alpha + beta p = 1 - 10×0.1 vanishes
	bc = robin(tst, v, 1, -10, 1)
	bc.SetupFaceData(fi, face.Elem)
	assert.Panics(tst, func() { bc.ComputeBoundaryValue() })
	assert.Panics(tst, func() { bc.ComputeBoundaryValueMatrixContribution() })
	assert.Panics(tst, func() { bc.ComputeBoundaryValueRHSContribution() })
	assert.Panics(tst, func() { bc.ComputeBoundaryGradientMatrixContribution() })
}

func Test_robin04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("robin04. radiative linearisation")

	T0, Tinf, eps, k := 600.0, 300.0, 0.8, 15.0
	v, fi := boundaryCell(0.05, 0, T0, r3.Vec{})
	bc, err := NewRadiativeBC(storage.Base{ObjName: "rad", Bnds: []int{3}}, v,
		functor.Constant{Value: k}, functor.Constant{Value: Tinf}, []float64{eps})
	require.NoError(tst, err)
	bc.SetupFaceData(fi, face.Elem)
	alpha, beta, gamma := bc.Coefficients()
	chk.Float64(tst, "α", 1e-15, alpha, k)

	q := func(T float64) float64 { return StefanBoltzmann * eps * (math.Pow(T, 4) - math.Pow(Tinf, 4)) }
	dqdT := fd.Derivative(q, T0, &fd.Settings{Formula: fd.Central, Step: 1e-3})
	io.Pforan("β = %v  dq/dT = %v\n", beta, dqdT)
	chk.Float64(tst, "β = dq/dT", 1e-6, beta, dqdT)

	// the linearised flux equals the radiative flux at T0
	chk.Float64(tst, "γ - βT0", 1e-9, gamma-beta*T0, -q(T0))

	// re-linearised about the new extrapolated value on the next pass
	v.SetSolution([]float64{T0 + 10})
	bc.SetupFaceData(fi, face.Elem)
	_, beta2, _ := bc.Coefficients()
	chk.Float64(tst, "β(T0+10)", 1e-12, beta2, 4*StefanBoltzmann*eps*math.Pow(T0+10, 3))
}

func Test_robin05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("robin05. Dirichlet, Neumann and outflow")

	v, fi := boundaryCell(0.1, 0.2, 3, r3.Vec{X: 1, Y: 4})

	d := NewDirichletBC(storage.Base{ObjName: "d", Bnds: []int{3}}, v, functor.Constant{Value: 5})
	d.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "φb", 1e-15, d.ComputeBoundaryValue(), 5)
	chk.Float64(tst, "∂φ/∂n", 1e-13, d.ComputeBoundaryNormalGradient(), (5-3-0.8)/0.1)
	chk.Float64(tst, "split", 1e-13, d.ComputeBoundaryGradientMatrixContribution()*3+d.ComputeBoundaryGradientRHSContribution(), d.ComputeBoundaryNormalGradient())
	chk.Float64(tst, "value split", 1e-15, d.ComputeBoundaryValueMatrixContribution()*3+d.ComputeBoundaryValueRHSContribution(), 5)

	n := NewNeumannBC(storage.Base{ObjName: "n", Bnds: []int{3}}, v, functor.Constant{Value: -2})
	n.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "∂φ/∂n", 1e-15, n.ComputeBoundaryNormalGradient(), -2)
	chk.Float64(tst, "φb", 1e-15, n.ComputeBoundaryValue(), 3+0.8-0.2)

	o := NewOutflowBC(storage.Base{ObjName: "o", Bnds: []int{3}}, v, true)
	o.SetupFaceData(fi, face.Elem)
	chk.Float64(tst, "φb", 1e-15, o.ComputeBoundaryValue(), 3+0.1+0.8)
	chk.Float64(tst, "∂φ/∂n", 1e-15, o.ComputeBoundaryNormalGradient(), 0)
	o.Extrapolate = false
	chk.Float64(tst, "φb", 1e-15, o.ComputeBoundaryValue(), 3)
}

func Test_robin06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("robin06. conjugate heat transfer across an interface")

	// solid on subdomain 1 (cell 0), fluid on subdomain 2 (cell 1); interface boundary 9
	c0 := &face.ElemInfo{ID: 0, Subdomain: 1, Centroid: r3.Vec{X: 0.5}, Volume: 1}
	c1 := &face.ElemInfo{ID: 1, Subdomain: 2, Centroid: r3.Vec{X: 1.5}, Volume: 1}
	fi := face.NewInfo(0, c0, c1, r3.Vec{X: 1}, r3.Vec{X: 1}, 1, []int{9})

	solid := NewField("Ts", 0, []int{1})
	solid.SetDof(c0, 0)
	fluid := NewField("Tf", 1, []int{2})
	fluid.SetDof(c1, 1)
	sol := []float64{4, 10}
	for _, f := range []*Field{solid, fluid} {
		f.SetupFaces([]*face.Info{fi})
		f.SetSolution(sol)
	}
	chk.String(tst, fi.FaceType("Ts").String(), "ELEM")
	chk.String(tst, fi.FaceType("Tf").String(), "NEIGHBOR")

	h := functor.Constant{Value: 2}
	vs, vf := solid.NewVariable(), fluid.NewVariable()
	bs, err := NewConvectiveBC(storage.Base{ObjName: "solid-side", Bnds: []int{9}}, vs, functor.Constant{Value: 1}, h, Extrapolation{F: fluid})
	require.NoError(tst, err)
	bf, err := NewConvectiveBC(storage.Base{ObjName: "fluid-side", Bnds: []int{9}}, vf, functor.Constant{Value: 1}, h, Extrapolation{F: solid})
	require.NoError(tst, err)
	require.NoError(tst, vs.AddBC(bs))
	require.NoError(tst, vf.AddBC(bf))

	// (4 + 2·10·0.5) / (1 + 2·0.5)
	chk.Float64(tst, "Ts face", 1e-15, vs.FaceValue(fi), 7)
	// (10 + 2·4·0.5) / (1 + 2·0.5)
	chk.Float64(tst, "Tf face", 1e-15, vf.FaceValue(fi), 7)
	chk.Float64(tst, "normal", 1e-15, bf.Normal().X, -1)

	// heat leaving the solid enters the fluid
	qs := -bs.ComputeBoundaryNormalGradient()
	bf.SetupFaceData(fi, face.Neighbor)
	qf := -bf.ComputeBoundaryNormalGradient()
	chk.Float64(tst, "qs + qf", 1e-15, qs+qf, 0)
	chk.Float64(tst, "qs", 1e-15, qs, -6)

	// extrapolation uses the cell gradient
	fluid.SetGradient(1, r3.Vec{X: 2})
	fa := face.SingleSidedArg(fi, face.Elem, face.Average, false)
	chk.Float64(tst, "Tf extrapolated", 1e-15, Extrapolation{F: fluid}.AtFace(fa, 0), 9)
}

func vec(v r3.Vec) []float64 { return []float64{v.X, v.Y, v.Z} }
