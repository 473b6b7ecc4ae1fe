// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures and integration points for
// finite element and discontinuous Galerkin kernels
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// ShpFunc computes the shape functions S and, if derivs, their derivatives
// dSdR w.r.t. the natural coordinates r
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds the geometry of a reference element and scratchpad results
// of the last CalcAtIp call. A Shape must not be shared between threads
type Shape struct {

	// geometry
	Type           string      // name; e.g. "lin2"
	FaceType       string      // geometry of faces; e.g. "lin2"
	Gndim          int         // geometry dimension
	Nverts         int         // number of vertices
	NatCoords      [][]float64 // [gndim][nverts] natural coordinates of vertices
	FaceLocalVerts [][]int     // [nfaces][nfaceverts] local vertices on faces
	Func           ShpFunc     // shape functions

	// scratchpad: volume
	S    []float64   // [nverts] shape functions
	DSdR [][]float64 // [nverts][gndim] derivatives w.r.t. natural coordinates
	DxdR [][]float64 // [gndim][gndim] derivatives of real coordinates
	DRdx [][]float64 // [gndim][gndim] inverse of DxdR
	G    [][]float64 // [nverts][gndim] derivatives w.r.t. real coordinates
	J    float64     // determinant of DxdR

	// scratchpad: face
	Fnvec []float64 // [gndim] outward normal scaled by the face Jacobian

	r []float64 // natural coordinates of the current point
}

// Get returns a new shape of type geoType or nil
func Get(geoType string) *Shape {
	alloc, ok := factory[geoType]
	if !ok {
		return nil
	}
	o := alloc()
	o.S = make([]float64, o.Nverts)
	o.DSdR = alloc2(o.Nverts, o.Gndim)
	o.DxdR = alloc2(o.Gndim, o.Gndim)
	o.DRdx = alloc2(o.Gndim, o.Gndim)
	o.G = alloc2(o.Nverts, o.Gndim)
	o.Fnvec = make([]float64, o.Gndim)
	o.r = make([]float64, o.Gndim)
	return o
}

// CalcAtIp computes S and, if derivs, G and J at the integration point ip.
//
//	x -- [ndim][nverts] coordinates of vertices; ndim must equal Gndim
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {
	copy(o.r, ip[:o.Gndim])
	o.Func(o.S, o.DSdR, o.r, derivs)
	if !derivs {
		return
	}
	if len(x) != o.Gndim {
		return chk.Err("%s: coordinates must have %d rows; %d is invalid", o.Type, o.Gndim, len(x))
	}

	// dxdR := sum_m x_m * dSdR_m
	n := o.Gndim
	dxdr := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := 0.0
			for m := 0; m < o.Nverts; m++ {
				v += x[i][m] * o.DSdR[m][j]
			}
			o.DxdR[i][j] = v
			dxdr.Set(i, j, v)
		}
	}

	// J and dRdx
	o.J = mat.Det(dxdr)
	if o.J < 0 || math.Abs(o.J) < MinDetJ {
		return chk.Err("%s: Jacobian determinant %g is invalid; check the ordering of vertices", o.Type, o.J)
	}
	var drdx mat.Dense
	if err = drdx.Inverse(dxdr); err != nil {
		return chk.Err("%s: cannot invert dxdR:\n%v", o.Type, err)
	}

	// G := dSdR * dRdx
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			o.DRdx[i][j] = drdx.At(i, j)
		}
	}
	for m := 0; m < o.Nverts; m++ {
		for j := 0; j < n; j++ {
			o.G[m][j] = 0
			for k := 0; k < n; k++ {
				o.G[m][j] += o.DSdR[m][k] * o.DRdx[k][j]
			}
		}
	}
	return
}

// CalcAtFaceIp computes S and Fnvec at the face integration point ipf of
// face idxface. Only shapes with Gndim == 2 have faces with a Jacobian
func (o *Shape) CalcAtFaceIp(x [][]float64, ipf Ipoint, idxface int) (err error) {
	if o.Gndim != 2 {
		return chk.Err("%s: face integration requires a 2D shape", o.Type)
	}
	if idxface < 0 || idxface >= len(o.FaceLocalVerts) {
		return chk.Err("%s: face index %d is out of range", o.Type, idxface)
	}
	a := o.FaceLocalVerts[idxface][0]
	b := o.FaceLocalVerts[idxface][1]

	// natural coordinates on the face: linear map from [-1,1] to vertices a and b
	ξ := ipf[0]
	for i := 0; i < 2; i++ {
		o.r[i] = ((1-ξ)*o.NatCoords[i][a] + (1+ξ)*o.NatCoords[i][b]) / 2
	}
	o.Func(o.S, o.DSdR, o.r, false)

	// tangent dx/dξ and outward normal (counter-clockwise vertices)
	tx := (x[0][b] - x[0][a]) / 2
	ty := (x[1][b] - x[1][a]) / 2
	o.Fnvec[0] = ty
	o.Fnvec[1] = -tx
	return
}

// FaceCoords returns the coordinates of the vertices of face idxface
func (o *Shape) FaceCoords(x [][]float64, idxface int) (xf [][]float64) {
	verts := o.FaceLocalVerts[idxface]
	xf = alloc2(len(x), len(verts))
	for i := range x {
		for j, v := range verts {
			xf[i][j] = x[i][v]
		}
	}
	return
}

// MinDetJ is the smallest accepted Jacobian determinant
const MinDetJ = 1e-14

// factory holds the allocators of all shapes
var factory = map[string]func() *Shape{
	"lin2": newLin2,
	"qua4": newQua4,
}

func newLin2() *Shape {
	return &Shape{
		Type:           "lin2",
		Gndim:          1,
		Nverts:         2,
		NatCoords:      [][]float64{{-1, 1}},
		FaceLocalVerts: [][]int{{0}, {1}},
		Func:           FuncLin2,
	}
}

func newQua4() *Shape {
	return &Shape{
		Type:           "qua4",
		FaceType:       "lin2",
		Gndim:          2,
		Nverts:         4,
		NatCoords:      [][]float64{{-1, 1, 1, -1}, {-1, -1, 1, 1}},
		FaceLocalVerts: [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
		Func:           FuncQua4,
	}
}

// FuncLin2 calculates the shape functions of lin2
//
//	-1     0    +1
//	 0-----------1-->r
func FuncLin2(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	S[0] = (1 - r[0]) / 2
	S[1] = (1 + r[0]) / 2
	if !derivs {
		return
	}
	dSdR[0][0] = -0.5
	dSdR[1][0] = 0.5
}

// FuncQua4 calculates the shape functions of qua4
//
//	 3-----------2
//	 |     s     |
//	 |     |     |
//	 |     +--r  |
//	 |           |
//	 0-----------1
func FuncQua4(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	rr, ss := r[0], r[1]
	S[0] = (1 - rr - ss + rr*ss) / 4
	S[1] = (1 + rr - ss - rr*ss) / 4
	S[2] = (1 + rr + ss + rr*ss) / 4
	S[3] = (1 - rr + ss - rr*ss) / 4
	if !derivs {
		return
	}
	dSdR[0][0] = (-1 + ss) / 4
	dSdR[1][0] = (+1 - ss) / 4
	dSdR[2][0] = (+1 + ss) / 4
	dSdR[3][0] = (-1 - ss) / 4
	dSdR[0][1] = (-1 + rr) / 4
	dSdR[1][1] = (-1 - rr) / 4
	dSdR[2][1] = (+1 + rr) / 4
	dSdR[3][1] = (+1 - rr) / 4
}

func alloc2(m, n int) (a [][]float64) {
	a = make([][]float64, m)
	for i := range a {
		a[i] = make([]float64, n)
	}
	return
}
