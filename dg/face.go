// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dg implements face kernels of the symmetric interior penalty
// discontinuous Galerkin method
package dg

import (
	"math"

	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/shp"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Face holds the geometry of a face shared by cells E and N, or of a
// boundary face of E. Integration points are given in the natural
// coordinates of each side; their weights include the face Jacobian
type Face struct {
	ID     int          // index of face
	E      *ele.Cell    // element; the normal points out of E
	N      *ele.Cell    // neighbor; nil on the boundary
	Ke     int          // local face index in E
	Kn     int          // local face index in N; -1 on the boundary
	Bnd    int          // boundary id; -1 if interior
	Normal []float64    // [ndim] unit normal
	IpsE   []shp.Ipoint // integration points in E: {r, s, 0, w·|J|}
	IpsN   []shp.Ipoint // the same points in N
	H      float64      // characteristic length: cell volume over face area
}

// IsBoundary tells whether f is on the boundary
func (o *Face) IsBoundary() bool { return o.N == nil }

// NewFace returns the face ke of e. n and kn may be nil and -1 for boundary faces.
// nipf selects the number of integration points on 2D faces; 0 means default
func NewFace(id int, e *ele.Cell, ke int, n *ele.Cell, kn, nipf int) (o *Face, err error) {
	o = &Face{ID: id, E: e, N: n, Ke: ke, Kn: kn, Bnd: -1}
	if n == nil {
		o.Kn = -1
		o.Bnd = e.FaceBnds[ke]
	}
	se := shp.Get(e.Type)
	if se == nil {
		return nil, chk.Err("face %d: cannot find shape %q", id, e.Type)
	}
	var sn *shp.Shape
	if n != nil {
		if sn = shp.Get(n.Type); sn == nil {
			return nil, chk.Err("face %d: cannot find shape %q", id, n.Type)
		}
	}
	switch se.Gndim {
	case 1:
		err = o.init1d(se, sn)
	case 2:
		err = o.init2d(se, sn, nipf)
	default:
		err = chk.Err("face %d: geometry dimension %d is not available", id, se.Gndim)
	}
	if err != nil {
		return nil, err
	}

	// characteristic length
	ve, err := volume(se, e.X)
	if err != nil {
		return nil, err
	}
	o.H = ve / o.area()
	if n != nil {
		vn, err := volume(sn, n.X)
		if err != nil {
			return nil, err
		}
		o.H = math.Min(o.H, vn/o.area())
	}
	return
}

// BuildFaces returns the interior faces, each one once with E having the
// smaller id, and the boundary faces of cells
func BuildFaces(cells []*ele.Cell, nipf int) (interior, boundary []*Face, err error) {
	for _, c := range cells {
		for k, nid := range c.Neighbors {
			var f *Face
			switch {
			case nid < 0:
				f, err = NewFace(len(boundary), c, k, nil, -1, nipf)
				if err != nil {
					return
				}
				boundary = append(boundary, f)
			case c.Id < nid:
				f, err = NewFace(len(interior), c, k, cells[nid], c.NeighFace[k], nipf)
				if err != nil {
					return
				}
				interior = append(interior, f)
			}
		}
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// init1d sets the vertex points of lin2 faces
func (o *Face) init1d(se, sn *shp.Shape) error {
	v := se.FaceLocalVerts[o.Ke][0]
	other := se.FaceLocalVerts[1-o.Ke][0]
	o.Normal = []float64{1}
	if o.E.X[0][v] < o.E.X[0][other] {
		o.Normal[0] = -1
	}
	o.IpsE = []shp.Ipoint{{se.NatCoords[0][v], 0, 0, 1}}
	if sn != nil {
		w := sn.FaceLocalVerts[o.Kn][0]
		if o.N.Verts[w] != o.E.Verts[v] {
			return chk.Err("face %d: cells %d and %d do not share vertex %d", o.ID, o.E.Id, o.N.Id, o.E.Verts[v])
		}
		o.IpsN = []shp.Ipoint{{sn.NatCoords[0][w], 0, 0, 1}}
	}
	return nil
}

// init2d maps Gauss points of the edge onto both sides
func (o *Face) init2d(se, sn *shp.Shape, nipf int) error {
	ipf, err := shp.GetIps(se.FaceType, nipf)
	if err != nil {
		return chk.Err("face %d: %v", o.ID, err)
	}
	a, b := se.FaceLocalVerts[o.Ke][0], se.FaceLocalVerts[o.Ke][1]
	t := []float64{o.E.X[0][b] - o.E.X[0][a], o.E.X[1][b] - o.E.X[1][a]}
	length := floats.Norm(t, 2)
	if length < shp.MinDetJ {
		return chk.Err("face %d: edge of cell %d has zero length", o.ID, o.E.Id)
	}
	o.Normal = []float64{t[1] / length, -t[0] / length}

	// orientation of the edge as seen from the neighbor
	reversed := false
	var an, bn int
	if sn != nil {
		an, bn = sn.FaceLocalVerts[o.Kn][0], sn.FaceLocalVerts[o.Kn][1]
		switch {
		case o.N.Verts[an] == o.E.Verts[a] && o.N.Verts[bn] == o.E.Verts[b]:
		case o.N.Verts[an] == o.E.Verts[b] && o.N.Verts[bn] == o.E.Verts[a]:
			reversed = true
		default:
			return chk.Err("face %d: cells %d and %d do not share edge %d", o.ID, o.E.Id, o.N.Id, o.Ke)
		}
	}
	for _, ip := range ipf {
		ξ, w := ip[0], ip[3]*length/2
		o.IpsE = append(o.IpsE, edgePoint(se, a, b, ξ, w))
		if sn != nil {
			if reversed {
				ξ = -ξ
			}
			o.IpsN = append(o.IpsN, edgePoint(sn, an, bn, ξ, w))
		}
	}
	return nil
}

// area returns the sum of weights
func (o *Face) area() (sum float64) {
	for _, ip := range o.IpsE {
		sum += ip[3]
	}
	return
}

// edgePoint maps ξ ∈ [-1,1] on the edge a→b to natural coordinates of s
func edgePoint(s *shp.Shape, a, b int, ξ, w float64) shp.Ipoint {
	r := ((1-ξ)*s.NatCoords[0][a] + (1+ξ)*s.NatCoords[0][b]) / 2
	q := ((1-ξ)*s.NatCoords[1][a] + (1+ξ)*s.NatCoords[1][b]) / 2
	return shp.Ipoint{r, q, 0, w}
}

// volume integrates 1 over the cell with coordinates x
func volume(s *shp.Shape, x [][]float64) (vol float64, err error) {
	ips, _, err := s.GetIps(0, 0)
	if err != nil {
		return
	}
	for _, ip := range ips {
		if err = s.CalcAtIp(x, ip, true); err != nil {
			return
		}
		vol += s.J * ip[3]
	}
	return
}
