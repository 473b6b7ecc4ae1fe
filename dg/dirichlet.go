// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dg

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Dirichlet weakly imposes u = g(t,x) on boundary faces (Nitsche):
//
//	R = ∫ ( -v K∇u·N - K∇v·N (u - g) + σK/h (u - g) v ) dΓ
type Dirichlet struct {
	KernelBase
	Fcn dbf.T // g(t,x)

	xip []float64
}

// NewDirichlet returns a weak Dirichlet condition. vars are the variables of one thread
func NewDirichlet(dat *inp.BcData, prob *inp.Problem, vars ele.Vars) (o *Dirichlet, err error) {
	o = new(Dirichlet)
	o.KernelBase, err = NewKernelBase(dat.Name, dat.Inact, dat.Var, dat.Prms, "", vars)
	if err != nil {
		return nil, err
	}
	o.Bnds = dat.Bnds
	name := dat.Fcn
	if name == "" {
		name = "zero"
	}
	if o.Fcn, err = prob.Functions.Get(name); err != nil {
		return nil, chk.Err("dg dirichlet %q:\n%v", dat.Name, err)
	}
	o.xip = make([]float64, prob.Ndim)
	return
}

// AddToResidual adds the face integrals to b.Re
func (o *Dirichlet) AddToResidual(b *asm.Block, f *Face, sol *ele.Solution) (err error) {
	if !f.IsBoundary() || len(o.U.Dofs()) == 0 {
		return
	}
	re := b.Re(o.U.Num)
	pen := o.Penalty(f)
	for ip := range f.IpsE {
		e, err := o.Eval(f, 0, ip, sol.Y)
		if err != nil {
			return err
		}
		e.X(f.E, o.xip)
		w := f.IpsE[ip][3]
		d := e.U - o.Fcn.F(sol.T, o.xip)
		for i := range re {
			re[i] += w * (-o.K*e.Dudn*e.S[i] - o.K*e.Gn[i]*d + pen*d*e.S[i])
		}
	}
	return
}

// AddToJacobian adds dR/du to b.Kee
func (o *Dirichlet) AddToJacobian(b *asm.Block, f *Face, sol *ele.Solution) (err error) {
	if !f.IsBoundary() || len(o.U.Dofs()) == 0 {
		return
	}
	K := b.Kee(o.U.Num, o.U.Num)
	pen := o.Penalty(f)
	for ip := range f.IpsE {
		e, err := o.Eval(f, 0, ip, sol.Y)
		if err != nil {
			return err
		}
		w := f.IpsE[ip][3]
		for i := 0; i < K.M; i++ {
			for j := 0; j < K.N; j++ {
				K.Add(i, j, w*(-o.K*e.Gn[j]*e.S[i]-o.K*e.Gn[i]*e.S[j]+pen*e.S[j]*e.S[i]))
			}
		}
	}
	return
}
