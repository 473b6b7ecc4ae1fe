// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"math"
	"testing"

	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/functor"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// line returns the cells and faces of a 1D mesh with unit cross section.
// The left boundary is 0 and the right boundary is 1
func line(xs []float64, sub func(i int) int) (cells []*face.ElemInfo, faces []*face.Info) {
	n := len(xs) - 1
	cells = make([]*face.ElemInfo, n)
	for i := 0; i < n; i++ {
		cells[i] = &face.ElemInfo{ID: i, Subdomain: sub(i), Centroid: r3.Vec{X: (xs[i] + xs[i+1]) / 2}, Volume: xs[i+1] - xs[i]}
	}
	xn := r3.Vec{X: 1}
	faces = append(faces, face.NewInfo(0, cells[0], nil, r3.Vec{X: xs[0]}, r3.Scale(-1, xn), 1, []int{0}))
	for i := 1; i < n; i++ {
		faces = append(faces, face.NewInfo(i, cells[i-1], cells[i], r3.Vec{X: xs[i]}, xn, 1, nil))
	}
	faces = append(faces, face.NewInfo(n, cells[n-1], nil, r3.Vec{X: xs[n]}, xn, 1, []int{1}))
	return
}

func everywhere(int) int { return 0 }

// newVariable returns a variable with one dof per cell
func newVariable(name string, cells []*face.ElemInfo, faces []*face.Info, sol []float64) *Variable {
	f := NewField(name, 0, nil)
	for i, c := range cells {
		f.SetDof(c, i)
	}
	f.SetupFaces(faces)
	f.SetSolution(sol)
	return f.NewVariable()
}

// assemble loops over faces and cells
func assemble(n int, faces []*face.Info, cells []*face.ElemInfo, fks []*FluxKernel, cks []CellKernel) (*asm.SysMatrix, *asm.SysVector) {
	m, r := asm.NewSysMatrix(n, n), asm.NewSysVector(n)
	for _, fi := range faces {
		for _, k := range fks {
			k.SetCurrentFaceInfo(fi)
			k.AddMatrixContribution(m)
			k.AddRightHandSideContribution(r)
		}
	}
	for _, c := range cells {
		for _, k := range cks {
			k.AddMatrixContribution(c, m)
			k.AddRightHandSideContribution(c, r)
		}
	}
	return m, r
}

func solve(tst *testing.T, m *asm.SysMatrix, r *asm.SysVector) []float64 {
	var x mat.VecDense
	err := x.SolveVec(m.Dense(), mat.NewVecDense(len(r.Data), r.Data))
	require.NoError(tst, err)
	return x.RawVector().Data
}

// counter counts evaluations
type counter struct {
	n *int
	v float64
}

func (o counter) AtElem(e *face.ElemInfo, t float64) float64 { *o.n++; return o.v }
func (o counter) AtFace(fa face.Arg, t float64) float64      { *o.n++; return o.v }

func Test_flux01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flux01. conservation on an interior face")

	e := &face.ElemInfo{ID: 0, Centroid: r3.Vec{}, Volume: 1}
	n := &face.ElemInfo{ID: 1, Centroid: r3.Vec{X: 1.5, Y: 0.5}, Volume: 2}
	fi := face.NewInfo(0, e, n, r3.Vec{X: 0.5, Y: 0.2}, r3.Vec{X: 1}, 0.8, nil)
	chk.Float64(tst, "gc", 1e-15, fi.GC(), 2.0/3.0)

	v := newVariable("u", []*face.ElemInfo{e, n}, []*face.Info{fi}, []float64{2, 5})
	v.SetGradient(0, r3.Vec{X: 1, Y: 2})
	v.SetGradient(1, r3.Vec{X: 3, Y: -1})

	dif := NewFluxKernel(storage.Base{ObjName: "diff"}, v, &Diffusion{D: functor.Constant{Value: 1.5}, NonorthogonalCorrection: true})
	adv := NewFluxKernel(storage.Base{ObjName: "adv"}, v, &Advection{Velocity: r3.Vec{X: 2, Y: 1}, Method: face.Average})
	m, r := assemble(2, []*face.Info{fi}, nil, []*FluxKernel{dif, adv}, nil)

	K := m.Dense()
	for j := 0; j < 2; j++ {
		chk.Float64(tst, io.Sf("K0%d + K1%d", j, j), 1e-14, K.At(0, j)+K.At(1, j), 0)
	}
	chk.Float64(tst, "r0 + r1", 1e-14, r.Data[0]+r.Data[1], 0)
	assert.NotZero(tst, r.Data[0])

	dcn := math.Sqrt(1.5*1.5 + 0.5*0.5)
	chk.Float64(tst, "K00", 1e-14, K.At(0, 0), 1.5*0.8/dcn+1.6*2.0/3.0)
	chk.Float64(tst, "K01", 1e-14, K.At(0, 1), -1.5*0.8/dcn+1.6/3.0)

	// gradient on face = (5/3, 1); n - e_cn = (1 - 1.5/dcn, -0.5/dcn)
	corr := 1.5 * 0.8 * (5.0/3.0*(1-1.5/dcn) - 0.5/dcn)
	chk.Float64(tst, "r0", 1e-14, r.Data[0], corr)
}

func Test_flux02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flux02. per-face caching and face sides")

	cells, faces := line([]float64{0, 1, 3}, everywhere)
	v := newVariable("u", cells, faces, []float64{1, 2})

	var count int
	k := NewFluxKernel(storage.Base{ObjName: "diff"}, v, &Diffusion{D: counter{&count, 2}})
	m, r := asm.NewSysMatrix(2, 2), asm.NewSysVector(2)

	k.SetCurrentFaceInfo(faces[1])
	k.AddMatrixContribution(m)
	k.AddRightHandSideContribution(r)
	k.AddMatrixContribution(m)
	chk.IntAssert(count, 1)

	k.SetCurrentFaceInfo(faces[1])
	k.AddRightHandSideContribution(r)
	chk.IntAssert(count, 2)

	assert.True(tst, k.HasFaceSide(faces[1], true))
	assert.True(tst, k.HasFaceSide(faces[1], false))
	assert.True(tst, k.HasFaceSide(faces[0], true))
	assert.False(tst, k.HasFaceSide(faces[0], false))

	fa := k.SingleSidedFaceArg(faces[2], face.Average, false)
	assert.True(tst, fa.OnElemSide())
	fa = k.SingleSidedFaceArg(faces[1], face.Average, false)
	assert.Nil(tst, fa.Side)

	// variable living elsewhere: every face is NEITHER
	f := NewField("w", 1, []int{5})
	f.SetupFaces(faces)
	w := f.NewVariable()
	kw := NewFluxKernel(storage.Base{ObjName: "none"}, w, &Diffusion{D: functor.Constant{Value: 1}})
	mw, rw := asm.NewSysMatrix(2, 2), asm.NewSysVector(2)
	for _, fi := range faces {
		kw.SetCurrentFaceInfo(fi)
		chk.String(tst, kw.FaceType().String(), "NEITHER")
		kw.AddMatrixContribution(mw)
		kw.AddRightHandSideContribution(rw)
		assert.False(tst, kw.HasFaceSide(fi, true))
	}
	chk.IntAssert(mw.Len(), 0)
	chk.Array(tst, "rw", 1e-17, rw.Data, []float64{0, 0})
}

func Test_flux03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flux03. diffusion with Dirichlet and convective conditions")

	xs := []float64{0, 0.1, 0.3, 0.6, 1}
	cells, faces := line(xs, everywhere)
	sol := make([]float64, len(cells))
	v := newVariable("T", cells, faces, sol)

	left := NewDirichletBC(storage.Base{ObjName: "left", Bnds: []int{0}}, v, functor.Constant{Value: 1})
	right := NewDirichletBC(storage.Base{ObjName: "right", Bnds: []int{1}}, v, functor.Constant{Value: 3})
	require.NoError(tst, v.AddBC(left))
	require.NoError(tst, v.AddBC(right))

	k := NewFluxKernel(storage.Base{ObjName: "diff"}, v, &Diffusion{D: functor.Constant{Value: 2}})
	x := solve(tst, assemble(len(cells), faces, cells, []*FluxKernel{k}, nil))
	for i, c := range cells {
		chk.Float64(tst, io.Sf("T%d", i), 1e-13, x[i], 1+2*c.Centroid.X)
	}

	// Green-Gauss recovers the exact slope
	copy(sol, x)
	v.ComputeGradients(faces)
	for _, c := range cells {
		chk.Float64(tst, io.Sf("dTdx%d", c.ID), 1e-13, v.Gradient(c.ID).X, 2)
	}

	// convective on the right: -k dT/dn = h (T - Tinf) with k=h=1, Tinf=2 => T = x
	f2 := NewField("T", 0, nil)
	for i, c := range cells {
		f2.SetDof(c, i)
	}
	f2.SetupFaces(faces)
	v2 := f2.NewVariable()
	require.NoError(tst, v2.AddBC(NewDirichletBC(storage.Base{ObjName: "left", Bnds: []int{0}}, v2, functor.Constant{Value: 0})))
	conv, err := NewConvectiveBC(storage.Base{ObjName: "conv", Bnds: []int{1}}, v2, functor.Constant{Value: 1}, functor.Constant{Value: 1}, functor.Constant{Value: 2})
	require.NoError(tst, err)
	require.NoError(tst, v2.AddBC(conv))
	k2 := NewFluxKernel(storage.Base{ObjName: "diff"}, v2, &Diffusion{D: functor.Constant{Value: 1}})
	x2 := solve(tst, assemble(len(cells), faces, cells, []*FluxKernel{k2}, nil))
	for i, c := range cells {
		chk.Float64(tst, io.Sf("T%d", i), 1e-13, x2[i], c.Centroid.X)
	}
}

func Test_flux04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flux04. advection, source and reaction")

	// u dφ/dx + c φ = s with upwind and inflow value 0; cell balance:
	// u (φ_i - φ_{i-1}) + c h φ_i = s h
	h, u, c, s := 0.25, 2.0, 3.0, 6.0
	cells, faces := line([]float64{0, 0.25, 0.5, 0.75, 1}, everywhere)
	v := newVariable("phi", cells, faces, make([]float64, 4))
	require.NoError(tst, v.AddBC(NewDirichletBC(storage.Base{ObjName: "inlet", Bnds: []int{0}}, v, functor.Constant{})))
	require.NoError(tst, v.AddBC(NewOutflowBC(storage.Base{ObjName: "outlet", Bnds: []int{1}}, v, false)))

	adv := NewFluxKernel(storage.Base{ObjName: "adv"}, v, &Advection{Velocity: r3.Vec{X: u}, Method: face.Upwind})
	src := &Source{Base: storage.Base{ObjName: "src"}, Var: v, S: functor.Constant{Value: s}}
	rea := &Reaction{Base: storage.Base{ObjName: "rea"}, Var: v, C: functor.Constant{Value: c}}
	x := solve(tst, assemble(4, faces, cells, []*FluxKernel{adv}, []CellKernel{src, rea}))

	prev := 0.0
	for i := range cells {
		expected := (s*h + u*prev) / (u + c*h)
		chk.Float64(tst, io.Sf("phi%d", i), 1e-13, x[i], expected)
		prev = expected
	}
}

func Test_flux05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flux05. at most one condition per boundary")

	cells, faces := line([]float64{0, 1}, everywhere)
	v := newVariable("u", cells, faces, []float64{0})
	require.NoError(tst, v.AddBC(NewNeumannBC(storage.Base{ObjName: "a", Bnds: []int{0, 1}}, v, functor.Constant{})))
	err := v.AddBC(NewOutflowBC(storage.Base{ObjName: "b", Bnds: []int{1}}, v, true))
	require.Error(tst, err)
	assert.Contains(tst, err.Error(), `"a"`)

	// disabled conditions are ignored
	a := v.BC(0).(*RobinBC)
	a.SetEnabled(false)
	assert.Nil(tst, v.BC(0))
	assert.Nil(tst, v.FaceBC(faces[0]))
	chk.Float64(tst, "face value", 1e-17, v.FaceValue(faces[0]), 0)
}

func Test_flux06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flux06. skewness-corrected face values")

	// two unit cells whose centroids are below the centroid of the shared face
	e := &face.ElemInfo{ID: 0, Centroid: r3.Vec{}, Volume: 1}
	n := &face.ElemInfo{ID: 1, Centroid: r3.Vec{X: 2}, Volume: 1}
	fi := face.NewInfo(0, e, n, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, 1, nil)

	// φ = x + 3y
	v := newVariable("u", []*face.ElemInfo{e, n}, []*face.Info{fi}, []float64{0, 2})
	v.SetGradient(0, r3.Vec{X: 1, Y: 3})
	v.SetGradient(1, r3.Vec{X: 1, Y: 3})

	v.Method = face.Average
	chk.Float64(tst, "average", 1e-15, v.FaceValue(fi), 1)
	v.Method = face.SkewCorrectedAverage
	chk.Float64(tst, "corrected", 1e-15, v.FaceValue(fi), 4)

	// per-argument request
	chk.Float64(tst, "arg average", 1e-15, v.AtFace(face.Arg{FI: fi, Limiter: face.Average, ElemIsUpwind: true}, 0), 1)
	chk.Float64(tst, "arg corrected", 1e-15, v.AtFace(face.Arg{FI: fi, Limiter: face.Average, ElemIsUpwind: true, CorrectSkewness: true}, 0), 4)
	chk.Float64(tst, "arg upwind", 1e-15, v.AtFace(face.Arg{FI: fi, Limiter: face.Upwind, ElemIsUpwind: true, CorrectSkewness: true}, 0), 0)

	// coupling through an extrapolation uses the field method
	x := Extrapolation{F: v.Field}
	chk.Float64(tst, "extrapolation", 1e-15, x.AtFace(face.Arg{FI: fi}, 0), 4)
}
