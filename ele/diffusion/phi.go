// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
)

// Phi implements a kernel for the transport equation
//
//	  dφ       ∂φ
//	ρ -- + v . -- = 0
//	  dt       ∂x
//
// Notes: v is a constant vector given by parameters vx and vy
type Phi struct {
	ele.KernelBase
	Ndim int       // space dimension
	Rho  float64   // coefficient of the time derivative
	V    []float64 // [ndim] velocity
}

// register kernel
func init() {
	ele.SetAllocator("advection", func(dat *inp.KernelData, prob *inp.Problem, vars ele.Vars) (ele.Kernel, error) {
		var o Phi
		var err error
		o.KernelBase, err = ele.NewKernelBase(dat, vars)
		if err != nil {
			return nil, err
		}
		o.Ndim = prob.Ndim
		o.Rho = inp.Prm(dat.Prms, "rho", 1)
		o.V = []float64{inp.Prm(dat.Prms, "vx", 0), inp.Prm(dat.Prms, "vy", 0)}[:o.Ndim]
		return &o, nil
	})
}

// AddToResidual adds R to b.Re
func (o *Phi) AddToResidual(b *asm.Block, c *ele.Cell, sol *ele.Solution) (err error) {
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
		for m := range dofs {
			for n, r := range dofs {
				if sol.Transient() {
					re[m] += coef * s.S[m] * s.S[n] * o.Rho * (sol.Y[r] - sol.Yold[r]) / sol.Dt
				}
				for j := 0; j < o.Ndim; j++ {
					re[m] += coef * s.S[m] * o.V[j] * s.G[n][j] * sol.Y[r]
				}
			}
		}
	}
	return
}

// AddToJacobian adds dR/dφ to b.Kee
func (o *Phi) AddToJacobian(b *asm.Block, c *ele.Cell, sol *ele.Solution) (err error) {
	dofs := o.U.Dofs()
	if len(dofs) == 0 {
		return
	}
	s, ips, _, err := o.Shape(c)
	if err != nil {
		return
	}
	K := b.Kee(o.U.Num, o.U.Num)
	for _, ip := range ips {
		if err = s.CalcAtIp(c.X, ip, true); err != nil {
			return
		}
		coef := s.J * ip[3]
		for m := range dofs {
			for n := range dofs {
				if sol.Transient() {
					K.Add(m, n, coef*s.S[m]*s.S[n]*o.Rho/sol.Dt)
				}
				for j := 0; j < o.Ndim; j++ {
					K.Add(m, n, coef*s.S[m]*o.V[j]*s.G[n][j])
				}
			}
		}
	}
	return
}
