// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

// twoCells returns cells [0,1] and [1,3] sharing the face x=1
func twoCells() (e, n *ElemInfo, fi *Info) {
	e = &ElemInfo{ID: 0, Subdomain: 1, Centroid: r3.Vec{X: 0.5}, Volume: 1}
	n = &ElemInfo{ID: 1, Subdomain: 2, Centroid: r3.Vec{X: 2}, Volume: 2}
	fi = NewInfo(0, e, n, r3.Vec{X: 1}, r3.Vec{X: 2}, 1, []int{4})
	return
}

func Test_face01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("face01. geometry")

	_, _, fi := twoCells()
	chk.Float64(tst, "|n|", 1e-15, r3.Norm(fi.Normal), 1)
	chk.Float64(tst, "gc", 1e-15, fi.GC(), 2.0/3.0)
	chk.Float64(tst, "dcn", 1e-15, fi.DCN().X, 1.5)
	chk.Float64(tst, "dcf", 1e-15, fi.DCF().X, 0.5)
	chk.Float64(tst, "dnf", 1e-15, fi.DNF().X, -1)
	chk.IntAssert(fi.BoundaryID(), 4)
	assert.False(tst, fi.IsBoundary())
	chk.Float64(tst, "skew", 1e-15, r3.Norm(SkewnessVector(fi)), 0)

	b := NewInfo(1, fi.Elem, nil, r3.Vec{}, r3.Vec{X: -1}, 1, nil)
	assert.True(tst, b.IsBoundary())
	chk.Float64(tst, "gc", 1e-15, b.GC(), 1)
	chk.IntAssert(b.BoundaryID(), -1)
}

func Test_face02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("face02. face types and single-sided arguments")

	e, n, fi := twoCells()
	onlyOne := func(sub int) bool { return sub == 1 }
	onlyTwo := func(sub int) bool { return sub == 2 }
	both := func(sub int) bool { return true }
	none := func(sub int) bool { return false }
	assert.Equal(tst, Elem, fi.ComputeFaceType("solid", onlyOne))
	assert.Equal(tst, Neighbor, fi.ComputeFaceType("fluid", onlyTwo))
	assert.Equal(tst, Both, fi.ComputeFaceType("u", both))
	assert.Equal(tst, Neither, fi.ComputeFaceType("w", none))
	assert.Equal(tst, Elem, fi.FaceType("solid"))
	assert.Equal(tst, Neither, fi.FaceType("unknown"))
	assert.Equal(tst, "NEIGHBOR", Neighbor.String())

	a := SingleSidedArg(fi, fi.FaceType("solid"), Upwind, false)
	assert.True(tst, a.Side == e)
	assert.True(tst, a.OnElemSide())
	a = SingleSidedArg(fi, fi.FaceType("fluid"), Average, true)
	assert.True(tst, a.Side == n)
	assert.True(tst, a.OnNeighborSide())
	assert.True(tst, a.CorrectSkewness)
	a = SingleSidedArg(fi, fi.FaceType("u"), Average, false)
	assert.Nil(tst, a.Side)
}

func Test_interp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interp01. interpolation coefficients")

	_, _, fi := twoCells()
	c1, c2 := InterpCoeffs(Average, fi, true, 0)
	chk.Array(tst, "avg elem", 1e-15, []float64{c1, c2}, []float64{2.0 / 3.0, 1.0 / 3.0})
	c1, c2 = InterpCoeffs(Average, fi, false, 0)
	chk.Array(tst, "avg neigh", 1e-15, []float64{c1, c2}, []float64{1.0 / 3.0, 2.0 / 3.0})
	c1, c2 = InterpCoeffs(Upwind, fi, true, 1)
	chk.Array(tst, "up +", 1e-15, []float64{c1, c2}, []float64{1, 0})
	c1, c2 = InterpCoeffs(Upwind, fi, false, 1)
	chk.Array(tst, "up + neigh", 1e-15, []float64{c1, c2}, []float64{0, 1})
	c1, c2 = InterpCoeffs(Upwind, fi, true, -1)
	chk.Array(tst, "up -", 1e-15, []float64{c1, c2}, []float64{0, 1})

	chk.Float64(tst, "avg", 1e-15, Interpolate(Average, fi, 3, 6, 0), 4)
	chk.Float64(tst, "harm", 1e-15, Interpolate(HarmonicAverage, fi, 1, 2, 0), 1/(2.0/3.0+1.0/6.0))
	g := InterpolateVec(fi, r3.Vec{X: 3}, r3.Vec{X: 6, Y: 3})
	chk.Array(tst, "grad", 1e-15, []float64{g.X, g.Y, g.Z}, []float64{4, 1, 0})

	m, err := ParseInterpMethod("Upwind")
	assert.NoError(tst, err)
	assert.Equal(tst, Upwind, m)
	_, err = ParseInterpMethod("quick")
	assert.Error(tst, err)
	assert.Panics(tst, func() { InterpCoeffs(HarmonicAverage, fi, true, 0) })
}

func Test_interp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interp02. skewness correction")

	// the line joining the centroids crosses the face at (1,0); the face centroid is (1,1)
	e := &ElemInfo{ID: 0, Centroid: r3.Vec{}, Volume: 1}
	n := &ElemInfo{ID: 1, Centroid: r3.Vec{X: 2}, Volume: 1}
	fi := NewInfo(0, e, n, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, 1, nil)
	chk.Float64(tst, "gc", 1e-15, fi.GC(), 0.5)
	s := SkewnessVector(fi)
	chk.Array(tst, "skew", 1e-15, []float64{s.X, s.Y, s.Z}, []float64{0, 1, 0})

	// φ = x + 3y is reproduced exactly
	avg := Interpolate(SkewCorrectedAverage, fi, 0, 2, 1)
	chk.Float64(tst, "avg", 1e-15, avg, 1)
	chk.Float64(tst, "corrected", 1e-15, SkewCorrect(fi, avg, r3.Vec{X: 1, Y: 3}), 4)

	assert.True(tst, SkewCorrectedAverage.Corrected(false))
	assert.True(tst, Average.Corrected(true))
	assert.False(tst, Average.Corrected(false))
	assert.False(tst, Upwind.Corrected(true))
}
