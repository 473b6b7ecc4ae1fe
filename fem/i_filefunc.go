// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// SetIniVals sets the initial values of all variables at the vertices of
// cells using the constant Init or the function IniFcn of each variable.
// Prescribed values of essential boundary conditions are set last
func (o *Domain) SetIniVals() (err error) {

	// clear state
	o.Sol.Reset()

	// loop over variables
	for _, v := range o.Vars {

		// get function
		dat := o.Prob.GetVar(v.Name)
		var fcn dbf.T = &dbf.Cte{C: dat.Init}
		if dat.IniFcn != "" {
			fcn, err = o.Prob.Functions.Get(dat.IniFcn)
			if err != nil {
				return chk.Err("cannot set initial values of %q:\n%v", v.Name, err)
			}
		}

		// set dofs; lagrange dofs shared by cells get the same value
		for _, c := range o.Msh.Cells {
			for k, dof := range v.CellDofs[c.Id] {
				o.Sol.Y[dof] = fcn.F(0, o.Msh.Verts[c.Verts[k]].C)
			}
		}
	}

	// essential boundary conditions
	for _, bc := range o.EssenBcs {
		if bc.Enabled() {
			bc.SetValues(o.Sol)
		}
	}
	o.Sol.Backup()
	return
}
