// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fv

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/functor"
	"github.com/cpmech/goasm/storage"
)

// CellKernel adds volumetric terms of one cell to the linear system
type CellKernel interface {
	storage.Object
	AddMatrixContribution(e *face.ElemInfo, m asm.Matrix)
	AddRightHandSideContribution(e *face.ElemInfo, r asm.Vector)
}

// Source adds ∫ s dV to the RHS
type Source struct {
	storage.Base
	storage.SetupBase
	Var *Variable
	S   functor.Functor
}

// AddMatrixContribution does nothing
func (o *Source) AddMatrixContribution(e *face.ElemInfo, m asm.Matrix) {}

// AddRightHandSideContribution adds s V
func (o *Source) AddRightHandSideContribution(e *face.ElemInfo, r asm.Vector) {
	if d, ok := o.Var.Dof(e.ID); ok {
		r.AddVector([]int{d}, []float64{o.S.AtElem(e, o.Var.Time()) * e.Volume})
	}
}

// VariableDeps returns the variable number
func (o *Source) VariableDeps() []int { return []int{o.Var.Number()} }

// Reaction adds ∫ c φ dV to the matrix
type Reaction struct {
	storage.Base
	storage.SetupBase
	Var *Variable
	C   functor.Functor
}

// AddMatrixContribution adds c V to the diagonal
func (o *Reaction) AddMatrixContribution(e *face.ElemInfo, m asm.Matrix) {
	if d, ok := o.Var.Dof(e.ID); ok {
		m.AddEntries([]int{d}, []int{d}, []float64{o.C.AtElem(e, o.Var.Time()) * e.Volume})
	}
}

// AddRightHandSideContribution does nothing
func (o *Reaction) AddRightHandSideContribution(e *face.ElemInfo, r asm.Vector) {}

// VariableDeps returns the variable number
func (o *Reaction) VariableDeps() []int { return []int{o.Var.Number()} }
