// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Var is the per-thread view of a finite element (lagrange or dg) variable.
// It implements asm.Variable; Reinit selects the current element and neighbor
type Var struct {
	Name     string  // name; e.g. "u"
	Num      int     // position within the system
	Scale    float64 // scaling of residual rows
	Family   string  // "lagrange" or "dg"
	Blocks   []int   // subdomains the variable lives on
	CellDofs [][]int // [ncells] global dofs of each cell; nil where undefined. Shared and read-only

	dofs  []int // dofs of current element
	ndofs []int // dofs of current neighbor
}

// Number returns the position within the system
func (o *Var) Number() int { return o.Num }

// Dofs returns the dofs on the current element
func (o *Var) Dofs() []int { return o.dofs }

// DofsNeighbor returns the dofs on the current neighbor
func (o *Var) DofsNeighbor() []int { return o.ndofs }

// Scaling returns the scaling factor
func (o *Var) Scaling() float64 { return o.Scale }

// Reinit sets the current element e and neighbor n. A negative id clears the side
func (o *Var) Reinit(e, n int) {
	o.dofs, o.ndofs = nil, nil
	if e >= 0 {
		o.dofs = o.CellDofs[e]
	}
	if n >= 0 {
		o.ndofs = o.CellDofs[n]
	}
}

// DefinedOn tells whether the variable has dofs on cell id
func (o *Var) DefinedOn(id int) bool { return len(o.CellDofs[id]) > 0 }

// Clone returns a new view sharing the dof map; one per thread
func (o *Var) Clone() *Var {
	return &Var{Name: o.Name, Num: o.Num, Scale: o.Scale, Family: o.Family, Blocks: o.Blocks, CellDofs: o.CellDofs}
}

// Vars holds the variables of one thread, ordered by number
type Vars []*Var

// Get returns the variable named name or nil
func (o Vars) Get(name string) *Var {
	for _, v := range o {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Reinit selects the current element and neighbor of all variables
func (o Vars) Reinit(e, n int) {
	for _, v := range o {
		v.Reinit(e, n)
	}
}

// Clone clones all variables
func (o Vars) Clone() (res Vars) {
	res = make(Vars, len(o))
	for i, v := range o {
		res[i] = v.Clone()
	}
	return
}
