// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fv implements linear finite volume kernels and boundary conditions
// following the face protocol: one flux evaluation per face applied with
// opposite signs to both sides, and boundary faces delegated to Robin-type
// boundary conditions
package fv

import (
	"sort"

	"github.com/cpmech/goasm/face"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field holds the cell values of one variable. It is shared by all threads
// and must only be modified outside assembly
type Field struct {
	Method face.InterpMethod // interpolation of interior face values

	name   string
	number int
	blocks map[int]bool           // subdomains; empty means everywhere
	elems  map[int]*face.ElemInfo // element id => cell
	dofs   map[int]int            // element id => equation number
	sol    []float64              // global solution vector
	grads  map[int]r3.Vec         // element id => Green-Gauss gradient
	time   float64                // current time
}

// NewField returns a new field living on blocks (all subdomains if empty)
func NewField(name string, number int, blocks []int) (o *Field) {
	o = &Field{name: name, number: number}
	o.blocks = make(map[int]bool)
	for _, b := range blocks {
		o.blocks[b] = true
	}
	o.elems = make(map[int]*face.ElemInfo)
	o.dofs = make(map[int]int)
	o.grads = make(map[int]r3.Vec)
	return
}

// Name returns the variable name
func (o *Field) Name() string { return o.name }

// Number returns the variable number
func (o *Field) Number() int { return o.number }

// HasBlock tells whether the variable lives on subdomain id
func (o *Field) HasBlock(id int) bool { return len(o.blocks) == 0 || o.blocks[id] }

// Blocks returns the sorted subdomains; nil means everywhere
func (o *Field) Blocks() (ids []int) {
	for id := range o.blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// SetDof attaches equation number dof to cell e
func (o *Field) SetDof(e *face.ElemInfo, dof int) {
	o.elems[e.ID] = e
	o.dofs[e.ID] = dof
}

// Dof returns the equation number of element id
func (o *Field) Dof(id int) (dof int, ok bool) {
	dof, ok = o.dofs[id]
	return
}

// Has tells whether the variable has a value on element id
func (o *Field) Has(id int) bool {
	_, ok := o.dofs[id]
	return ok
}

// NumDofs returns the number of cells carrying this variable
func (o *Field) NumDofs() int { return len(o.dofs) }

// SetSolution points the field at the global solution vector
func (o *Field) SetSolution(sol []float64) { o.sol = sol }

// SetTime sets the time used to evaluate functors
func (o *Field) SetTime(t float64) { o.time = t }

// Time returns the current time
func (o *Field) Time() float64 { return o.time }

// Value returns the cell value of element id; zero if there is no solution yet
func (o *Field) Value(id int) float64 {
	dof, ok := o.dofs[id]
	if !ok {
		chk.Panic("variable %q is not defined on element %d", o.name, id)
	}
	if dof >= len(o.sol) {
		return 0
	}
	return o.sol[dof]
}

// Gradient returns the cell gradient of element id
func (o *Field) Gradient(id int) r3.Vec { return o.grads[id] }

// SetGradient overrides the cell gradient of element id
func (o *Field) SetGradient(id int, g r3.Vec) { o.grads[id] = g }

// SetupFaces computes the face type of this variable on every face
func (o *Field) SetupFaces(faces []*face.Info) {
	for _, fi := range faces {
		fi.ComputeFaceType(o.name, func(sub int) bool { return o.HasBlock(sub) })
	}
}

// NewVariable returns a per-thread handle to the field
func (o *Field) NewVariable() *Variable {
	return &Variable{Field: o, bcs: make(map[int]BoundaryCondition)}
}

// Variable is the per-thread view of a field. It owns the boundary
// conditions because they keep per-face state
type Variable struct {
	*Field
	bcs map[int]BoundaryCondition // boundary id => condition
}

// AddBC attaches bc to all its boundaries. A boundary takes one condition only
func (o *Variable) AddBC(bc BoundaryCondition) error {
	for _, id := range bc.BoundaryIDs() {
		if old, ok := o.bcs[id]; ok {
			return chk.Err("boundary %d of variable %q already has condition %q; cannot add %q", id, o.name, old.Name(), bc.Name())
		}
	}
	for _, id := range bc.BoundaryIDs() {
		o.bcs[id] = bc
	}
	return nil
}

// BC returns the condition on boundary id or nil
func (o *Variable) BC(id int) BoundaryCondition {
	if bc, ok := o.bcs[id]; ok && bc.Enabled() {
		return bc
	}
	return nil
}

// FaceBC returns the condition acting on fi or nil
func (o *Variable) FaceBC(fi *face.Info) BoundaryCondition {
	id := fi.BoundaryID()
	if id < 0 {
		return nil
	}
	return o.BC(id)
}

// FaceValue returns the value of the variable on fi. Interior faces are
// interpolated; on one-sided faces the boundary condition supplies the value
// and the cell value is used when there is none
func (o *Variable) FaceValue(fi *face.Info) float64 {
	switch ft := fi.FaceType(o.name); ft {
	case face.Both:
		return o.interpolate(fi, o.Method, false, 1)
	case face.Elem, face.Neighbor:
		if bc := o.FaceBC(fi); bc != nil {
			bc.SetupFaceData(fi, ft)
			return bc.ComputeBoundaryValue()
		}
		return o.Value(definedSide(fi, ft).ID)
	}
	return 0
}

// FaceGradient returns the gradient on fi; interpolated on interior faces
func (o *Variable) FaceGradient(fi *face.Info) r3.Vec {
	switch ft := fi.FaceType(o.name); ft {
	case face.Both:
		return face.InterpolateVec(fi, o.Gradient(fi.Elem.ID), o.Gradient(fi.Neighbor.ID))
	case face.Elem, face.Neighbor:
		return o.Gradient(definedSide(fi, ft).ID)
	}
	return r3.Vec{}
}

// ComputeGradients computes the Green-Gauss cell gradients using the face
// values from the current solution. Must not run concurrently with assembly
func (o *Variable) ComputeGradients(faces []*face.Info) {
	grads := make(map[int]r3.Vec, len(o.dofs))
	for _, fi := range faces {
		ft := fi.FaceType(o.name)
		if ft == face.Neither {
			continue
		}
		flux := r3.Scale(o.FaceValue(fi)*fi.Area, fi.Normal)
		if ft == face.Both || ft == face.Elem {
			grads[fi.Elem.ID] = r3.Add(grads[fi.Elem.ID], flux)
		}
		if ft == face.Both || ft == face.Neighbor {
			grads[fi.Neighbor.ID] = r3.Sub(grads[fi.Neighbor.ID], flux)
		}
	}
	for id, g := range grads {
		if e, ok := o.elems[id]; ok && e.Volume > 0 {
			grads[id] = r3.Scale(1/e.Volume, g)
		}
	}
	o.grads = grads
}

// AtElem returns the cell value
func (o *Variable) AtElem(e *face.ElemInfo, t float64) float64 { return o.Value(e.ID) }

// AtFace returns the face value. Interior faces use the argument limiter
func (o *Variable) AtFace(fa face.Arg, t float64) float64 {
	ft := fa.FI.FaceType(o.name)
	if ft != face.Both {
		return o.FaceValue(fa.FI)
	}
	if fa.Side != nil {
		return o.Value(fa.Side.ID)
	}
	adv := -1.0
	if fa.ElemIsUpwind {
		adv = 1
	}
	return o.interpolate(fa.FI, fa.Limiter, fa.CorrectSkewness, adv)
}

// interpolate carries the cell values on both sides of fi to the face,
// adding the skewness correction with the interpolated gradient when needed
func (o *Field) interpolate(fi *face.Info, m face.InterpMethod, correct bool, advDotN float64) float64 {
	v := face.Interpolate(m, fi, o.Value(fi.Elem.ID), o.Value(fi.Neighbor.ID), advDotN)
	if m.Corrected(correct) {
		g := face.InterpolateVec(fi, o.Gradient(fi.Elem.ID), o.Gradient(fi.Neighbor.ID))
		v = face.SkewCorrect(fi, v, g)
	}
	return v
}

// definedSide returns the cell on the side where a one-sided variable lives
func definedSide(fi *face.Info, ft face.Type) *face.ElemInfo {
	if ft == face.Neighbor {
		return fi.Neighbor
	}
	return fi.Elem
}

// Extrapolation evaluates a field on faces by extrapolating from the cell
// where it lives with the cell gradient. It reads no boundary condition and
// is used to couple one variable to another across a face
type Extrapolation struct {
	F *Field
}

// AtElem returns the cell value
func (o Extrapolation) AtElem(e *face.ElemInfo, t float64) float64 { return o.F.Value(e.ID) }

// AtFace returns the value extrapolated to the face centroid
func (o Extrapolation) AtFace(fa face.Arg, t float64) float64 {
	fi := fa.FI
	onElem := o.F.Has(fi.Elem.ID)
	onNeigh := fi.Neighbor != nil && o.F.Has(fi.Neighbor.ID)
	if onElem && onNeigh && fa.Side == nil {
		return o.F.interpolate(fi, o.F.Method, fa.CorrectSkewness, 1)
	}
	var c *face.ElemInfo
	switch {
	case fa.Side != nil && o.F.Has(fa.Side.ID):
		c = fa.Side
	case onElem:
		c = fi.Elem
	case onNeigh:
		c = fi.Neighbor
	default:
		chk.Panic("variable %q is not defined next to face %d", o.F.name, fi.ID)
	}
	d := r3.Sub(fi.Centroid, c.Centroid)
	return o.F.Value(c.ID) + r3.Dot(o.F.Gradient(c.ID), d)
}
