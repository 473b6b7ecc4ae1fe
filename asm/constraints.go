// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

// Term is one (dof, weight) pair of a linear constraint
type Term struct {
	Dof    int
	Weight float64
}

// Constraints holds linear DOF constraints of the form
//
//   u[c] = Σ_k w_k u[d_k]
//
// Hanging nodes have weights given by the parent shape functions; periodic
// boundaries have a single term with unit weight. Local vectors and matrices
// are transformed as Cᵀ r and Cᵀ K C, with the DOF lists expanded to the
// constraining DOFs, so that nothing is ever assembled into a constrained row
type Constraints struct {
	rows map[int][]Term // constrained dof => constraining terms
}

// NewConstraints returns an empty set of constraints
func NewConstraints() *Constraints {
	return &Constraints{rows: make(map[int][]Term)}
}

// Add adds the constraint u[dof] = Σ terms
func (o *Constraints) Add(dof int, terms ...Term) (err error) {
	if len(terms) == 0 {
		return chk.Err("constraint on dof %d must have at least one term", dof)
	}
	if _, ok := o.rows[dof]; ok {
		return chk.Err("dof %d is already constrained", dof)
	}
	for _, t := range terms {
		if t.Dof == dof {
			return chk.Err("dof %d cannot constrain itself", dof)
		}
		if _, ok := o.rows[t.Dof]; ok {
			return chk.Err("dof %d cannot depend on constrained dof %d", dof, t.Dof)
		}
	}
	for _, ts := range o.rows {
		for _, t := range ts {
			if t.Dof == dof {
				return chk.Err("dof %d is used by another constraint and cannot be constrained", dof)
			}
		}
	}
	o.rows[dof] = append([]Term{}, terms...)
	return
}

// AddPeriodic ties a slave dof to a master dof
func (o *Constraints) AddPeriodic(slave, master int) error {
	return o.Add(slave, Term{master, 1})
}

// AddHanging constrains a hanging dof to its parents
func (o *Constraints) AddHanging(dof int, parents []int, weights []float64) (err error) {
	if len(parents) != len(weights) {
		return chk.Err("hanging dof %d: number of parents (%d) and weights (%d) differ", dof, len(parents), len(weights))
	}
	terms := make([]Term, len(parents))
	for k, p := range parents {
		terms[k] = Term{p, weights[k]}
	}
	return o.Add(dof, terms...)
}

// Empty tells whether there are no constraints
func (o *Constraints) Empty() bool { return o == nil || len(o.rows) == 0 }

// IsConstrained tells whether dof is constrained
func (o *Constraints) IsConstrained(dof int) bool {
	if o == nil {
		return false
	}
	_, ok := o.rows[dof]
	return ok
}

// Dofs returns the constrained dofs in ascending order
func (o *Constraints) Dofs() (dofs []int) {
	if o == nil {
		return
	}
	for d := range o.rows {
		dofs = append(dofs, d)
	}
	sort.Ints(dofs)
	return
}

// ConstrainVector returns Cᵀ re and the expanded dof list. The inputs are
// returned unchanged when no dof is constrained
func (o *Constraints) ConstrainVector(re []float64, dofs []int) ([]float64, []int) {
	if !o.touches(dofs) {
		return re, dofs
	}
	expanded, c := o.transform(dofs)
	out := make([]float64, len(expanded))
	for a := range dofs {
		for b := range expanded {
			out[b] += c.At(a, b) * re[a]
		}
	}
	return out, expanded
}

// ConstrainMatrix returns Cᵢᵀ K Cⱼ and the expanded row and column dof lists.
// The inputs are returned unchanged when no dof is constrained
func (o *Constraints) ConstrainMatrix(k *Mat, idofs, jdofs []int) (*Mat, []int, []int) {
	if !o.touches(idofs) && !o.touches(jdofs) {
		return k, idofs, jdofs
	}
	iexp, ci := o.transform(idofs)
	jexp, cj := o.transform(jdofs)
	var tmp, res mat.Dense
	tmp.Mul(ci.T(), k.Dense())
	res.Mul(&tmp, cj)
	out := &Mat{M: len(iexp), N: len(jexp), Data: make([]float64, len(iexp)*len(jexp))}
	for a := 0; a < out.M; a++ {
		for b := 0; b < out.N; b++ {
			out.Set(a, b, res.At(a, b))
		}
	}
	return out, iexp, jexp
}

// EnforceRows writes the constraint equations u[c] - Σ w u[d] = 0 into the
// constrained rows of the global system. sol holds the current solution; the
// residual rows are overwritten and unit/−w entries are added to the matrix
func (o *Constraints) EnforceRows(jac Matrix, res Vector, sol []float64) {
	for _, c := range o.Dofs() {
		terms := o.rows[c]
		r := sol[c]
		rows := []int{c}
		cols := []int{c}
		vals := []float64{1}
		for _, t := range terms {
			r -= t.Weight * sol[t.Dof]
			rows = append(rows, c)
			cols = append(cols, t.Dof)
			vals = append(vals, -t.Weight)
		}
		if jac != nil {
			jac.AddEntries(rows, cols, vals)
		}
		if res != nil {
			res.InsertVector([]int{c}, []float64{r})
		}
	}
}

// String lists all constraints
func (o *Constraints) String() (l string) {
	for _, c := range o.Dofs() {
		l += io.Sf("%d =", c)
		for _, t := range o.rows[c] {
			l += io.Sf(" %+g·u%d", t.Weight, t.Dof)
		}
		l += "\n"
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *Constraints) touches(dofs []int) bool {
	if o.Empty() {
		return false
	}
	for _, d := range dofs {
		if _, ok := o.rows[d]; ok {
			return true
		}
	}
	return false
}

// transform builds the expanded dof list and the len(dofs)×len(expanded) matrix C
func (o *Constraints) transform(dofs []int) (expanded []int, c *mat.Dense) {
	pos := make(map[int]int)
	add := func(d int) {
		if _, ok := pos[d]; !ok {
			pos[d] = len(expanded)
			expanded = append(expanded, d)
		}
	}
	for _, d := range dofs {
		if terms, ok := o.rows[d]; ok {
			for _, t := range terms {
				add(t.Dof)
			}
		} else {
			add(d)
		}
	}
	c = mat.NewDense(len(dofs), len(expanded), nil)
	for a, d := range dofs {
		if terms, ok := o.rows[d]; ok {
			for _, t := range terms {
				c.Set(a, pos[t.Dof], c.At(a, pos[t.Dof])+t.Weight)
			}
		} else {
			c.Set(a, pos[d], 1)
		}
	}
	return
}
