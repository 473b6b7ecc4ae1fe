// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package functor

import (
	"math"
	"testing"

	"github.com/cpmech/goasm/face"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func Test_functor01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("functor01. constants, functions and products")

	e := &face.ElemInfo{ID: 0, Centroid: r3.Vec{X: 1, Y: 2}}
	fi := face.NewInfo(0, e, nil, r3.Vec{X: 1.5, Y: 2}, r3.Vec{X: 1}, 1, []int{1})
	fa := face.SingleSidedArg(fi, face.Elem, face.Average, false)

	c := Constant{Value: 2}
	chk.Float64(tst, "cte elem", 1e-15, c.AtElem(e, 0), 2)
	chk.Float64(tst, "cte face", 1e-15, c.AtFace(fa, 0), 2)
	assert.True(tst, IsZero(Constant{}))
	assert.True(tst, IsZero(&Constant{}))
	assert.False(tst, IsZero(c))

	fn := NewFunc(dbf.New("cte", dbf.Params{&dbf.P{N: "c", V: 3}}))
	chk.Float64(tst, "func elem", 1e-15, fn.AtElem(e, 1), 3)
	chk.Float64(tst, "func face", 1e-15, fn.AtFace(fa, 1), 3)
	assert.False(tst, IsZero(fn))

	p := Product{c, fn}
	chk.Float64(tst, "prod", 1e-15, p.AtFace(fa, 0), 6)
	chk.Float64(tst, "prod", 1e-15, p.AtElem(e, 0), 6)
}

func Test_bicubic01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bicubic01. reproduces x1² + x2³")

	x1 := []float64{0, 1, 2, 3, 4}
	x2 := []float64{0, 1, 2, 3, 4, 5}
	y := make([][]float64, len(x1))
	for i, a := range x1 {
		y[i] = make([]float64, len(x2))
		for j, b := range x2 {
			y[i][j] = a*a + b*b*b
		}
	}
	bc, err := NewBicubic(x1, x2, y)
	require.NoError(tst, err)
	chk.Float64(tst, "y(2,3)", 1e-12, bc.Sample(2, 3), 31)
	chk.Float64(tst, "y(2.5,1.7)", 1e-10, bc.Sample(2.5, 1.7), 2.5*2.5+math.Pow(1.7, 3))
	chk.Float64(tst, "y(0.3,4.4)", 1e-10, bc.Sample(0.3, 4.4), 0.09+math.Pow(4.4, 3))

	e := &face.ElemInfo{Centroid: r3.Vec{X: 2, Y: 3}}
	chk.Float64(tst, "elem", 1e-12, bc.AtElem(e, 0), 31)

	_, err = NewBicubic(x1[:3], x2, y[:3])
	assert.Error(tst, err)
	_, err = NewBicubic(x1, x2, y[:4])
	assert.Error(tst, err)
}
