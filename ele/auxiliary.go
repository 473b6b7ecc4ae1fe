// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/goasm/shp"
)

// Cell holds a mesh cell and its coordinates matrix
type Cell struct {
	*inp.Cell
	X [][]float64 // [ndim][nverts] coordinates of vertices
}

// NewCell returns a new cell with its coordinates matrix
func NewCell(cell *inp.Cell, msh *inp.Mesh) *Cell {
	return &Cell{Cell: cell, X: BuildCoordsMatrix(cell, msh)}
}

// BuildCoordsMatrix returns the coordinate matrix of a particular Cell
func BuildCoordsMatrix(cell *inp.Cell, msh *inp.Mesh) (x [][]float64) {
	x = make([][]float64, msh.Ndim)
	for i := 0; i < msh.Ndim; i++ {
		x[i] = make([]float64, len(cell.Verts))
		for j, v := range cell.Verts {
			x[i][j] = msh.Verts[v].C[i]
		}
	}
	return
}

// Interp computes u and, if gradu != nil, ∇u at the point where s was last
// evaluated (CalcAtIp) from the values y at dofs
func Interp(s *shp.Shape, y []float64, dofs []int, gradu []float64) (u float64) {
	for i := range gradu {
		gradu[i] = 0
	}
	for m, r := range dofs {
		u += s.S[m] * y[r]
		for i := range gradu {
			gradu[i] += s.G[m][i] * y[r]
		}
	}
	return
}

// IpCoords computes the real coordinates of the point where s was last evaluated
func IpCoords(s *shp.Shape, x [][]float64, xip []float64) {
	for i := range xip {
		xip[i] = 0
		for m := 0; m < s.Nverts; m++ {
			xip[i] += s.S[m] * x[i][m]
		}
	}
}
