// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {
	errS := 0.0
	r := make([]float64, shape.Gndim)
	for n := 0; n < shape.Nverts; n++ {
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}
		shape.Func(shape.S, shape.DSdR, r, false)
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
	}
}

// CheckShapeFace checks that the functions of vertices not on a face vanish
// on that face
func CheckShapeFace(tst *testing.T, shape *Shape, x [][]float64, tol float64, verbose bool) {
	errS := 0.0
	for k, fverts := range shape.FaceLocalVerts {
		for _, ξ := range []float64{-1, -0.3, 0.5, 1} {
			if err := shape.CalcAtFaceIp(x, Ipoint{ξ, 0, 0, 1}, k); err != nil {
				tst.Errorf("CalcAtFaceIp failed:\n%v", err)
				return
			}
			sum := 0.0
			for m := 0; m < shape.Nverts; m++ {
				on := false
				for _, v := range fverts {
					on = on || v == m
				}
				if !on {
					errS += math.Abs(shape.S[m])
				}
				sum += shape.S[m]
			}
			errS += math.Abs(sum - 1)
		}
	}
	if verbose {
		io.Pforan("%g\n", errS)
	}
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
	}
}

// CheckDSdR checks dSdR derivatives against finite differences
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {
	n := shape.Gndim
	shape.Func(shape.S, shape.DSdR, r[:n], true)
	num := mat.NewDense(shape.Nverts, n, nil)
	S := make([]float64, shape.Nverts)
	fd.Jacobian(num, func(f, x []float64) {
		shape.Func(S, nil, x, false)
		copy(f, S)
	}, r[:n], &fd.JacobianSettings{Formula: fd.Central})
	for m := 0; m < shape.Nverts; m++ {
		for i := 0; i < n; i++ {
			if verbose {
				io.Pf("dS%d/dR%d: ana = %v  num = %v\n", m, i, shape.DSdR[m][i], num.At(m, i))
			}
			chk.Float64(tst, io.Sf("dS%d/dR%d", m, i), tol, shape.DSdR[m][i], num.At(m, i))
		}
	}
}

// CheckG checks G = dS/dx derivatives against finite differences using the
// isoparametric map x(r)
func CheckG(tst *testing.T, shape *Shape, x [][]float64, ip Ipoint, tol float64, verbose bool) {
	if err := shape.CalcAtIp(x, ip, true); err != nil {
		tst.Errorf("CalcAtIp failed:\n%v", err)
		return
	}
	n := shape.Gndim
	G := alloc2(shape.Nverts, n)
	for m := range G {
		copy(G[m], shape.G[m])
	}

	// dS/dR numerically, then G = dS/dR · dR/dx with the analytical dR/dx
	num := mat.NewDense(shape.Nverts, n, nil)
	S := make([]float64, shape.Nverts)
	fd.Jacobian(num, func(f, r []float64) {
		shape.Func(S, nil, r, false)
		copy(f, S)
	}, ip[:n], &fd.JacobianSettings{Formula: fd.Central})
	for m := 0; m < shape.Nverts; m++ {
		for j := 0; j < n; j++ {
			g := 0.0
			for k := 0; k < n; k++ {
				g += num.At(m, k) * shape.DRdx[k][j]
			}
			if verbose {
				io.Pf("G[%d][%d]: ana = %v  num = %v\n", m, j, G[m][j], g)
			}
			chk.Float64(tst, io.Sf("G%d%d", m, j), tol, G[m][j], g)
		}
	}
}
