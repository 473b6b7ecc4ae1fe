// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package face holds the geometric facts about mesh faces used by face-based
// kernels and boundary conditions
package face

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/spatial/r3"
)

// Type tells which sides of a face a variable is defined on
type Type int

// face types
const (
	Neither  Type = iota // variable undefined on both sides
	Elem                 // defined on element side only
	Neighbor             // defined on neighbor side only
	Both                 // defined on both sides
)

// String returns the name of the face type
func (o Type) String() string {
	switch o {
	case Elem:
		return "ELEM"
	case Neighbor:
		return "NEIGHBOR"
	case Both:
		return "BOTH"
	}
	return "NEITHER"
}

// ElemInfo holds cell geometry
type ElemInfo struct {
	ID        int    // element id
	Subdomain int    // subdomain (block) id
	Centroid  r3.Vec // centroid
	Volume    float64
}

// Info holds the geometry of one face. The normal points from the element
// towards the neighbor; Neighbor is nil on the mesh boundary
type Info struct {
	ID          int       // face id
	Elem        *ElemInfo // element side
	Neighbor    *ElemInfo // neighbor side; nil on mesh boundary
	Centroid    r3.Vec    // face centroid
	Normal      r3.Vec    // unit normal pointing out of Elem
	Area        float64   // face area
	BoundaryIDs []int     // boundary ids attached to this face

	gc        float64         // interpolation weight of element side
	faceTypes map[string]Type // variable name => face type
}

// NewInfo returns a new face and computes its interpolation weight
func NewInfo(id int, elem, neighbor *ElemInfo, centroid, normal r3.Vec, area float64, bnds []int) (o *Info) {
	if elem == nil {
		chk.Panic("face %d must have an element side", id)
	}
	o = &Info{ID: id, Elem: elem, Neighbor: neighbor, Centroid: centroid, Area: area, BoundaryIDs: bnds}
	o.Normal = r3.Unit(normal)
	o.faceTypes = make(map[string]Type)
	o.gc = 1
	if neighbor != nil {
		dcn := r3.Dot(r3.Sub(neighbor.Centroid, elem.Centroid), o.Normal)
		dfn := r3.Dot(r3.Sub(neighbor.Centroid, centroid), o.Normal)
		if math.Abs(dcn) > 0 {
			o.gc = dfn / dcn
		}
	}
	return
}

// IsBoundary tells whether the face is on the mesh boundary
func (o *Info) IsBoundary() bool { return o.Neighbor == nil }

// GC returns the weight of the element value in linear interpolation
func (o *Info) GC() float64 { return o.gc }

// DCN returns the vector from the element centroid to the neighbor centroid
func (o *Info) DCN() r3.Vec {
	if o.Neighbor == nil {
		return o.DCF()
	}
	return r3.Sub(o.Neighbor.Centroid, o.Elem.Centroid)
}

// DCF returns the vector from the element centroid to the face centroid
func (o *Info) DCF() r3.Vec { return r3.Sub(o.Centroid, o.Elem.Centroid) }

// DNF returns the vector from the neighbor centroid to the face centroid
func (o *Info) DNF() r3.Vec {
	if o.Neighbor == nil {
		return r3.Vec{}
	}
	return r3.Sub(o.Centroid, o.Neighbor.Centroid)
}

// BoundaryID returns the boundary id of this face or -1 if there is none.
// Boundary faces are expected to carry exactly one id
func (o *Info) BoundaryID() int {
	if len(o.BoundaryIDs) == 0 {
		return -1
	}
	if DebugChecks && len(o.BoundaryIDs) > 1 {
		chk.Panic("face %d has %d boundary ids %v; only one is allowed", o.ID, len(o.BoundaryIDs), o.BoundaryIDs)
	}
	return o.BoundaryIDs[0]
}

// FaceType returns the face type of variable v; Neither if it was never set
func (o *Info) FaceType(v string) Type { return o.faceTypes[v] }

// SetFaceType sets the face type of variable v
func (o *Info) SetFaceType(v string, t Type) { o.faceTypes[v] = t }

// ComputeFaceType sets and returns the face type of variable v given a
// function telling whether v lives on a subdomain
func (o *Info) ComputeFaceType(v string, definedOn func(subdomain int) bool) (t Type) {
	onElem := definedOn(o.Elem.Subdomain)
	onNeigh := o.Neighbor != nil && definedOn(o.Neighbor.Subdomain)
	switch {
	case onElem && onNeigh:
		t = Both
	case onElem:
		t = Elem
	case onNeigh:
		t = Neighbor
	}
	o.faceTypes[v] = t
	return
}

// String returns a summary of the face
func (o *Info) String() string {
	nb := -1
	if o.Neighbor != nil {
		nb = o.Neighbor.ID
	}
	return io.Sf("face %d: elem=%d neigh=%d c=%v n=%v A=%g bnds=%v", o.ID, o.Elem.ID, nb, o.Centroid, o.Normal, o.Area, o.BoundaryIDs)
}
