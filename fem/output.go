// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// VertexValues returns the values of lagrange variable name at all vertices.
// Vertices without dofs get NaN
func (o *Domain) VertexValues(name string) (vals []float64, err error) {
	v := o.Vars.Get(name)
	if v == nil {
		return nil, chk.Err("cannot find finite element variable %q", name)
	}
	vdofs := o.VertDofs[v.Num]
	if vdofs == nil {
		return nil, chk.Err("variable %q is not a lagrange variable; use CellValues instead", name)
	}
	vals = make([]float64, len(vdofs))
	for vid, dof := range vdofs {
		if dof < 0 {
			vals[vid] = math.NaN()
			continue
		}
		vals[vid] = o.Sol.Y[dof]
	}
	return
}

// CellValues returns the values of variable name at the vertices of cell cid
func (o *Domain) CellValues(name string, cid int) (vals []float64, err error) {
	v := o.Vars.Get(name)
	if v == nil {
		return nil, chk.Err("cannot find finite element variable %q", name)
	}
	if cid < 0 || cid >= len(o.Cells) || !v.DefinedOn(cid) {
		return nil, chk.Err("variable %q is not defined on cell %d", name, cid)
	}
	for _, dof := range v.CellDofs[cid] {
		vals = append(vals, o.Sol.Y[dof])
	}
	return
}

// IpsValues returns the secondary values at the integration points of cell
// cid computed by all active kernels that can output them. It uses the
// objects of thread 0 and must not run concurrently with Assemble
func (o *Domain) IpsValues(cid int) (M *ele.IpsMap, err error) {
	if cid < 0 || cid >= len(o.Cells) {
		return nil, chk.Err("cell %d does not exist", cid)
	}
	c := o.Cells[cid]
	th := o.Threads[0]
	th.Vars.Reinit(cid, -1)
	M = ele.NewIpsMap()
	for _, k := range o.Kernels.ActiveBlockObjects(c.Subdomain, 0) {
		if out, ok := k.(ele.CanOutputIps); ok {
			if err = out.OutIpVals(M, c, o.Sol); err != nil {
				return
			}
		}
	}
	return
}

// PrintResults prints the values of all variables
func (o *Main) PrintResults() {
	msh := o.Prob.Msh
	if o.Dom != nil {
		io.Pf("\n> Finite element variables @ t = %g\n", o.Dom.Sol.T)
		for _, v := range o.Dom.Vars {
			if v.Family == inp.FamLagrange {
				vals, _ := o.Dom.VertexValues(v.Name)
				io.Pf("%6s%6s%14s\n", "vert", "var", "value")
				for vid, val := range vals {
					if !math.IsNaN(val) {
						io.Pf("%6d%6s%14.6e  x = %v\n", vid, v.Name, val, msh.Verts[vid].C)
					}
				}
				continue
			}
			io.Pf("%6s%6s%14s\n", "cell", "var", "values")
			for cid := range o.Dom.Cells {
				if vals, err := o.Dom.CellValues(v.Name, cid); err == nil {
					io.Pf("%6d%6s  %v\n", cid, v.Name, vals)
				}
			}
		}
	}
	if o.Fv != nil {
		io.Pf("\n> Finite volume variables @ t = %g\n", o.Fv.T)
		io.Pf("%6s%6s%14s\n", "cell", "var", "value")
		for _, f := range o.Fv.Fields {
			for _, c := range o.Fv.Cells {
				if f.Has(c.ID) {
					io.Pf("%6d%6s%14.6e  x = %v\n", c.ID, f.Name(), f.Value(c.ID), c.Centroid)
				}
			}
		}
	}
}
