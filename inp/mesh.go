// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"sort"

	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/spatial/r3"
)

// MeshData holds the definition of a structured (Cartesian) mesh
//
//	1D (lin2): boundary 0 is x = xmin and boundary 1 is x = xmax
//	2D (qua4): boundaries 0, 1, 2, 3 are y = ymin, x = xmax, y = ymax, x = xmin
type MeshData struct {
	Type       string           `json:"type"`       // cell type: "lin2" or "qua4"
	Xmin       []float64        `json:"xmin"`       // [ndim] lower corner
	Xmax       []float64        `json:"xmax"`       // [ndim] upper corner
	Ndiv       []int            `json:"ndiv"`       // [ndim] number of divisions
	Subdomains []*SubdomainData `json:"subdomains"` // subdomains; cells outside all boxes go to subdomain 0
	Interfaces []*InterfaceData `json:"interfaces"` // boundary ids of faces between subdomains
}

// InterfaceData gives the boundary id Bnd to faces between subdomains A and B
type InterfaceData struct {
	Bnd int `json:"bnd"` // boundary id
	A   int `json:"a"`   // subdomain on one side
	B   int `json:"b"`   // subdomain on the other side
}

// SubdomainData assigns the cells whose centroids lie inside a box to a subdomain
type SubdomainData struct {
	Id   int       `json:"id"`   // subdomain (block) id
	Xmin []float64 `json:"xmin"` // [ndim] lower corner of box
	Xmax []float64 `json:"xmax"` // [ndim] upper corner of box
}

// Vert holds vertex data
type Vert struct {
	Id   int       // id
	C    []float64 // coordinates (size==ndim)
	Bnds []int     // boundaries this vertex lies on
}

// Cell holds cell data
type Cell struct {
	Id        int    // id
	Type      string // geometry type; e.g. "qua4"
	Subdomain int    // subdomain (block) id
	Verts     []int  // vertices

	// derived
	Shp       *shp.Shape // shape structure; read-only: kernels allocate their own copies
	FaceBnds  []int      // [nfaces] boundary id of each local face; -1 if interior
	Neighbors []int      // [nfaces] neighbor cell of each local face; -1 on the boundary
	NeighFace []int      // [nfaces] local index of the face in the neighbor; -1 on the boundary
}

// Mesh holds a mesh
type Mesh struct {
	Ndim  int       // space dimension
	Xmin  []float64 // [ndim] lower corner
	Xmax  []float64 // [ndim] upper corner
	Verts []*Vert   // vertices
	Cells []*Cell   // cells

	// derived
	Subdomains []int           // sorted subdomain ids
	BndVerts   map[int][]int  // boundary id => vertices on boundary
	Interfaces map[[2]int]int // sorted pair of subdomains => boundary id
}

// NewMesh builds a Cartesian mesh
func NewMesh(dat *MeshData) (o *Mesh, err error) {

	// check input
	if dat.Type == "" {
		dat.Type = "lin2"
	}
	s := shp.Get(dat.Type)
	if s == nil {
		return nil, chk.Err("mesh: cell type %q is not available", dat.Type)
	}
	ndim := s.Gndim
	if len(dat.Xmin) != ndim || len(dat.Xmax) != ndim || len(dat.Ndiv) != ndim {
		return nil, chk.Err("mesh: xmin, xmax and ndiv must have %d components for %q cells", ndim, dat.Type)
	}
	for i := 0; i < ndim; i++ {
		if dat.Ndiv[i] < 1 {
			return nil, chk.Err("mesh: ndiv[%d]=%d is invalid", i, dat.Ndiv[i])
		}
		if dat.Xmax[i] <= dat.Xmin[i] {
			return nil, chk.Err("mesh: xmax[%d]=%g must be greater than xmin[%d]=%g", i, dat.Xmax[i], i, dat.Xmin[i])
		}
	}

	// vertices and cells
	o = &Mesh{Ndim: ndim, Xmin: dat.Xmin, Xmax: dat.Xmax}
	switch ndim {
	case 1:
		o.grid1d(dat)
	default:
		o.grid2d(dat)
	}

	// subdomains
	for _, c := range o.Cells {
		xc := o.CellCentroid(c)
		for _, sd := range dat.Subdomains {
			if len(sd.Xmin) != ndim || len(sd.Xmax) != ndim {
				return nil, chk.Err("mesh: box of subdomain %d must have %d components", sd.Id, ndim)
			}
			if inside(xc, sd.Xmin, sd.Xmax) {
				c.Subdomain = sd.Id
			}
		}
	}
	o.Interfaces = make(map[[2]int]int)
	for _, it := range dat.Interfaces {
		if it.A == it.B {
			return nil, chk.Err("mesh: interface %d must separate two different subdomains", it.Bnd)
		}
		o.Interfaces[pair(it.A, it.B)] = it.Bnd
	}
	o.connect()
	return
}

// grid1d generates lin2 cells
func (o *Mesh) grid1d(dat *MeshData) {
	nx := dat.Ndiv[0]
	dx := (dat.Xmax[0] - dat.Xmin[0]) / float64(nx)
	for i := 0; i <= nx; i++ {
		v := &Vert{Id: i, C: []float64{dat.Xmin[0] + float64(i)*dx}}
		if i == 0 {
			v.Bnds = []int{0}
		}
		if i == nx {
			v.Bnds = []int{1}
		}
		o.Verts = append(o.Verts, v)
	}
	for i := 0; i < nx; i++ {
		o.Cells = append(o.Cells, &Cell{Id: i, Type: dat.Type, Verts: []int{i, i + 1}})
	}
}

// grid2d generates qua4 cells with counter-clockwise vertices
func (o *Mesh) grid2d(dat *MeshData) {
	nx, ny := dat.Ndiv[0], dat.Ndiv[1]
	dx := (dat.Xmax[0] - dat.Xmin[0]) / float64(nx)
	dy := (dat.Xmax[1] - dat.Xmin[1]) / float64(ny)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			v := &Vert{Id: len(o.Verts), C: []float64{dat.Xmin[0] + float64(i)*dx, dat.Xmin[1] + float64(j)*dy}}
			if j == 0 {
				v.Bnds = append(v.Bnds, 0)
			}
			if i == nx {
				v.Bnds = append(v.Bnds, 1)
			}
			if j == ny {
				v.Bnds = append(v.Bnds, 2)
			}
			if i == 0 {
				v.Bnds = append(v.Bnds, 3)
			}
			o.Verts = append(o.Verts, v)
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a := i + j*(nx+1)
			o.Cells = append(o.Cells, &Cell{Id: len(o.Cells), Type: dat.Type, Verts: []int{a, a + 1, a + nx + 2, a + nx + 1}})
		}
	}
}

// connect finds neighbors and boundary ids of local faces
func (o *Mesh) connect() {
	type side struct{ cell, face int }
	faces := make(map[string]side)
	sds := make(map[int]bool)
	o.BndVerts = make(map[int][]int)
	for _, v := range o.Verts {
		for _, b := range v.Bnds {
			o.BndVerts[b] = append(o.BndVerts[b], v.Id)
		}
	}
	for _, c := range o.Cells {
		sds[c.Subdomain] = true
		c.Shp = shp.Get(c.Type)
		nf := len(c.Shp.FaceLocalVerts)
		c.FaceBnds = utl.IntVals(nf, -1)
		c.Neighbors = utl.IntVals(nf, -1)
		c.NeighFace = utl.IntVals(nf, -1)
		for k := range c.Shp.FaceLocalVerts {
			key := o.faceKey(c, k)
			if other, ok := faces[key]; ok {
				c.Neighbors[k], c.NeighFace[k] = other.cell, other.face
				nc := o.Cells[other.cell]
				nc.Neighbors[other.face], nc.NeighFace[other.face] = c.Id, k
				delete(faces, key)
				continue
			}
			faces[key] = side{c.Id, k}
		}
	}
	for _, s := range faces {
		c := o.Cells[s.cell]
		c.FaceBnds[s.face] = o.commonBoundary(c, s.face)
	}
	for id := range sds {
		o.Subdomains = append(o.Subdomains, id)
	}
	sort.Ints(o.Subdomains)
}

// faceKey returns a key identifying the face regardless of its orientation
func (o *Mesh) faceKey(c *Cell, k int) string {
	verts := make([]int, 0, 2)
	for _, m := range c.Shp.FaceLocalVerts[k] {
		verts = append(verts, c.Verts[m])
	}
	sort.Ints(verts)
	return io.Sf("%v", verts)
}

// commonBoundary returns the smallest boundary shared by all vertices of a face
func (o *Mesh) commonBoundary(c *Cell, k int) int {
	count := make(map[int]int)
	fverts := c.Shp.FaceLocalVerts[k]
	for _, m := range fverts {
		for _, b := range o.Verts[c.Verts[m]].Bnds {
			count[b]++
		}
	}
	res := -1
	for b, n := range count {
		if n == len(fverts) && (res < 0 || b < res) {
			res = b
		}
	}
	return res
}

// CellCentroid returns the mean of the vertices of c
func (o *Mesh) CellCentroid(c *Cell) (xc []float64) {
	xc = make([]float64, o.Ndim)
	for _, v := range c.Verts {
		for i := 0; i < o.Ndim; i++ {
			xc[i] += o.Verts[v].C[i] / float64(len(c.Verts))
		}
	}
	return
}

// CellVolume returns the length (1D) or area (2D) of c
func (o *Mesh) CellVolume(c *Cell) (vol float64) {
	if o.Ndim == 1 {
		return math.Abs(o.Verts[c.Verts[1]].C[0] - o.Verts[c.Verts[0]].C[0])
	}
	n := len(c.Verts)
	for k := 0; k < n; k++ {
		a, b := o.Verts[c.Verts[k]].C, o.Verts[c.Verts[(k+1)%n]].C
		vol += a[0]*b[1] - b[0]*a[1]
	}
	return vol / 2
}

// CellsIn returns the ids of cells in subdomain id
func (o *Mesh) CellsIn(id int) (cids []int) {
	for _, c := range o.Cells {
		if c.Subdomain == id {
			cids = append(cids, c.Id)
		}
	}
	return
}

// FvGeometry returns the cell and face geometry used by finite volume kernels.
// Interior faces are listed once, with the element being the cell of smaller id
func (o *Mesh) FvGeometry() (cells []*face.ElemInfo, faces []*face.Info) {
	cells = make([]*face.ElemInfo, len(o.Cells))
	for i, c := range o.Cells {
		cells[i] = &face.ElemInfo{ID: c.Id, Subdomain: c.Subdomain, Centroid: vec(o.CellCentroid(c)), Volume: o.CellVolume(c)}
	}
	for _, c := range o.Cells {
		for k, fverts := range c.Shp.FaceLocalVerts {
			n := c.Neighbors[k]
			if n >= 0 && n < c.Id {
				continue
			}
			var centroid, normal r3.Vec
			area := 1.0
			if o.Ndim == 1 {
				centroid = vec(o.Verts[c.Verts[fverts[0]]].C)
				normal = r3.Vec{X: float64(2*k - 1)}
			} else {
				a, b := vec(o.Verts[c.Verts[fverts[0]]].C), vec(o.Verts[c.Verts[fverts[1]]].C)
				t := r3.Sub(b, a)
				centroid = r3.Scale(0.5, r3.Add(a, b))
				normal = r3.Vec{X: t.Y, Y: -t.X}
				area = r3.Norm(t)
			}
			var neighbor *face.ElemInfo
			var bnds []int
			if n >= 0 {
				neighbor = cells[n]
				if id, ok := o.Interfaces[pair(c.Subdomain, o.Cells[n].Subdomain)]; ok {
					bnds = []int{id}
				}
			} else if c.FaceBnds[k] >= 0 {
				bnds = []int{c.FaceBnds[k]}
			}
			faces = append(faces, face.NewInfo(len(faces), cells[c.Id], neighbor, centroid, normal, area, bnds))
		}
	}
	return
}

// String prints a summary of the mesh
func (o *Mesh) String() string {
	return io.Sf("ndim=%d nverts=%d ncells=%d subdomains=%v", o.Ndim, len(o.Verts), len(o.Cells), o.Subdomains)
}

// pair returns a sorted pair of subdomains
func pair(a, b int) [2]int {
	if b < a {
		return [2]int{b, a}
	}
	return [2]int{a, b}
}

func inside(x, xmin, xmax []float64) bool {
	for i := range x {
		if x[i] < xmin[i] || x[i] > xmax[i] {
			return false
		}
	}
	return true
}

func vec(x []float64) (v r3.Vec) {
	v.X = x[0]
	if len(x) > 1 {
		v.Y = x[1]
	}
	return
}
