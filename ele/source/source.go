// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package source implements volumetric source kernels
package source

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Source implements the volumetric source
//
//	R_m = - ∫ S_m (s(t,x) + c·v) dΩ
//
// where v is an optional coupled variable; e.g. heat generated by a reaction
type Source struct {
	ele.KernelBase
	Sfun dbf.T    // s(t,x); may be nil
	C    float64  // coupling coefficient
	V    *ele.Var // coupled variable; may be nil

	xip []float64
}

// register kernel
func init() {
	ele.SetAllocator("source", func(dat *inp.KernelData, prob *inp.Problem, vars ele.Vars) (ele.Kernel, error) {
		var o Source
		var err error
		o.KernelBase, err = ele.NewKernelBase(dat, vars)
		if err != nil {
			return nil, err
		}
		if dat.Fcn != "" {
			if o.Sfun, err = prob.Functions.Get(dat.Fcn); err != nil {
				return nil, err
			}
		}
		if len(dat.Coupled) > 0 {
			if o.V = vars.Get(dat.Coupled[0]); o.V == nil {
				return nil, chk.Err("cannot find coupled variable %q", dat.Coupled[0])
			}
			o.C = inp.Prm(dat.Prms, "c", 1)
		}
		if o.Sfun == nil && o.V == nil {
			return nil, chk.Err("source needs a function or a coupled variable")
		}
		o.xip = make([]float64, prob.Ndim)
		return &o, nil
	})
}

// VariableDeps returns the variables read by the kernel
func (o *Source) VariableDeps() []int {
	if o.V != nil {
		return []int{o.U.Num, o.V.Num}
	}
	return []int{o.U.Num}
}

// AddToResidual adds R to b.Re
func (o *Source) AddToResidual(b *asm.Block, c *ele.Cell, sol *ele.Solution) (err error) {
	dofs := o.U.Dofs()
	if len(dofs) == 0 {
		return
	}
	s, ips, _, err := o.Shape(c)
	if err != nil {
		return
	}
	re := b.Re(o.U.Num)
	for _, ip := range ips {
		if err = s.CalcAtIp(c.X, ip, true); err != nil {
			return
		}
		coef := s.J * ip[3]
		val := 0.0
		if o.Sfun != nil {
			ele.IpCoords(s, c.X, o.xip)
			val = o.Sfun.F(sol.T, o.xip)
		}
		if o.V != nil {
			val += o.C * ele.Interp(s, sol.Y, o.V.Dofs(), nil)
		}
		for m := range dofs {
			re[m] -= coef * s.S[m] * val
		}
	}
	return
}

// AddToJacobian adds dR/dv to b.Kee(u,v)
func (o *Source) AddToJacobian(b *asm.Block, c *ele.Cell, sol *ele.Solution) (err error) {
	dofs := o.U.Dofs()
	if o.V == nil || len(dofs) == 0 || len(o.V.Dofs()) == 0 {
		return
	}
	if !b.Coupled(o.U.Num, o.V.Num) {
		return chk.Err("kernel %q: residual of %q must be coupled to %q", o.ObjName, o.U.Name, o.V.Name)
	}
	s, ips, _, err := o.Shape(c)
	if err != nil {
		return
	}
	K := b.Kee(o.U.Num, o.V.Num)
	for _, ip := range ips {
		if err = s.CalcAtIp(c.X, ip, true); err != nil {
			return
		}
		coef := s.J * ip[3]
		for m := range dofs {
			for n := range o.V.Dofs() {
				K.Add(m, n, -coef*s.S[m]*s.S[n]*o.C)
			}
		}
	}
	return
}
