// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// RowZeroer is a global matrix whose rows can be replaced by diagonal entries
type RowZeroer interface {
	ZeroRows(rows []int, diag float64)
}

// EssentialBc prescribes the values of a lagrange variable at the vertices
// of boundaries. The equations of the constrained dofs are replaced by
//
//	R_i = s·(y_i - g(t,x_i))      dR_i/dy_j = s·δij
type EssentialBc struct {
	storage.Base
	storage.SetupBase
	U    *Var        // variable
	Fcn  dbf.T       // g(t,x)
	Dofs []int       // constrained dofs
	X    [][]float64 // coordinates of constrained vertices

	vals []float64 // scratchpad
}

// NewEssentialBc returns a new essential boundary condition. vertDofs maps
// vertices to dofs of v; negative entries mark vertices without dofs
func NewEssentialBc(dat *inp.BcData, prob *inp.Problem, v *Var, vertDofs []int) (o *EssentialBc, err error) {
	if v.Family != inp.FamLagrange {
		return nil, chk.Err("essential bc %q: variable %q must be a lagrange variable", dat.Name, v.Name)
	}
	o = new(EssentialBc)
	o.ObjName = dat.Name
	o.Disabled = dat.Inact
	o.Bnds = dat.Bnds
	o.U = v
	name := dat.Fcn
	if name == "" {
		name = "zero"
	}
	if o.Fcn, err = prob.Functions.Get(name); err != nil {
		return nil, chk.Err("essential bc %q:\n%v", dat.Name, err)
	}
	seen := make(map[int]bool)
	for _, b := range dat.Bnds {
		for _, vid := range prob.Msh.BndVerts[b] {
			dof := vertDofs[vid]
			if dof < 0 || seen[dof] {
				continue
			}
			seen[dof] = true
			o.Dofs = append(o.Dofs, dof)
			o.X = append(o.X, prob.Msh.Verts[vid].C)
		}
	}
	if len(o.Dofs) == 0 {
		return nil, chk.Err("essential bc %q: boundaries %v have no dofs of %q", dat.Name, dat.Bnds, v.Name)
	}
	o.vals = make([]float64, len(o.Dofs))
	return
}

// SetValues writes the prescribed values into y
func (o *EssentialBc) SetValues(sol *Solution) {
	for k, dof := range o.Dofs {
		sol.Y[dof] = o.Fcn.F(sol.T, o.X[k])
	}
}

// SetResidual overwrites the residual rows of the constrained dofs
func (o *EssentialBc) SetResidual(b *asm.Block, res asm.Vector, sol *Solution) {
	for k, dof := range o.Dofs {
		o.vals[k] = sol.Y[dof] - o.Fcn.F(sol.T, o.X[k])
	}
	b.SetResidualBlock(res, o.vals, o.Dofs, o.U.Scale)
}

// SetJacobian replaces the Jacobian rows of the constrained dofs
func (o *EssentialBc) SetJacobian(jac RowZeroer) {
	jac.ZeroRows(o.Dofs, o.U.Scale)
}
