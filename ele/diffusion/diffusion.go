// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package diffusion implements kernels for diffusion and advection problems
package diffusion

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Diffusion implements a kernel for solving the diffusion equation expressed as
//
//	  du                                      du
//	ρ ── + div w = s      with      w = -k(u) ──
//	  dt                                      dx
type Diffusion struct {
	ele.KernelBase

	// basic data
	Ndim int   // space dimension
	Mdl  M1    // model
	Sfun dbf.T // s(t,x) function; may be nil

	// scratchpad
	Xip   []float64 // real coordinates of ip
	Uval  float64   // u(t,x) scalar field @ ip
	Gradu []float64 // [ndim] ∇u(t,x): gradient of u @ ip
	Wvec  []float64 // [ndim] w(t,x) vector @ ip
	Tmp   []float64 // auxiliary vector
}

// register kernel
func init() {
	ele.SetAllocator("diffusion", func(dat *inp.KernelData, prob *inp.Problem, vars ele.Vars) (ele.Kernel, error) {
		var o Diffusion
		var err error
		o.KernelBase, err = ele.NewKernelBase(dat, vars)
		if err != nil {
			return nil, err
		}
		o.Ndim = prob.Ndim
		if err = o.Mdl.Init(o.Ndim, dat.Prms); err != nil {
			return nil, err
		}
		if prob.Data.Steady {
			o.Mdl.Rho = 0
		}
		if dat.Fcn != "" {
			if o.Sfun, err = prob.Functions.Get(dat.Fcn); err != nil {
				return nil, err
			}
		}
		o.Xip = make([]float64, o.Ndim)
		o.Gradu = make([]float64, o.Ndim)
		o.Wvec = make([]float64, o.Ndim)
		o.Tmp = make([]float64, o.Ndim)
		return &o, nil
	})
}

// AddToResidual adds R to b.Re
func (o *Diffusion) AddToResidual(b *asm.Block, c *ele.Cell, sol *ele.Solution) (err error) {
	dofs := o.U.Dofs()
	if len(dofs) == 0 {
		return
	}
	s, ips, _, err := o.Shape(c)
	if err != nil {
		return
	}
	re := b.Re(o.U.Num)
	ρ := o.rho(sol)
	var sval float64
	for _, ip := range ips {

		// interpolation functions, gradients and variables @ ip
		if err = s.CalcAtIp(c.X, ip, true); err != nil {
			return
		}
		o.Uval = ele.Interp(s, sol.Y, dofs, o.Gradu)
		coef := s.J * ip[3]
		if o.Sfun != nil {
			ele.IpCoords(s, c.X, o.Xip)
			sval = o.Sfun.F(sol.T, o.Xip)
		}
		o.flux()

		// residual
		dudt := 0.0
		if ρ > 0 {
			dudt = (o.Uval - ele.Interp(s, sol.Yold, dofs, nil)) / sol.Dt
		}
		for m := range dofs {
			re[m] += coef * s.S[m] * (ρ*dudt - sval)
			for i := 0; i < o.Ndim; i++ {
				re[m] -= coef * s.G[m][i] * o.Wvec[i]
			}
		}
	}
	return
}

// AddToJacobian adds dR/du to b.Kee
func (o *Diffusion) AddToJacobian(b *asm.Block, c *ele.Cell, sol *ele.Solution) (err error) {
	dofs := o.U.Dofs()
	if len(dofs) == 0 {
		return
	}
	s, ips, _, err := o.Shape(c)
	if err != nil {
		return
	}
	K := b.Kee(o.U.Num, o.U.Num)
	ρ := o.rho(sol)
	for _, ip := range ips {
		if err = s.CalcAtIp(c.X, ip, true); err != nil {
			return
		}
		o.Uval = ele.Interp(s, sol.Y, dofs, o.Gradu)
		coef := s.J * ip[3]
		kval := o.Mdl.Kval(o.Uval)
		dkdu := o.Mdl.DkDu(o.Uval)

		// K := dR/du
		for n := range dofs {
			for j := 0; j < o.Ndim; j++ {
				o.Tmp[j] = s.S[n]*dkdu*o.Gradu[j] + kval*s.G[n][j]
			}
			for m := range dofs {
				if ρ > 0 {
					K.Add(m, n, coef*s.S[m]*s.S[n]*ρ/sol.Dt)
				}
				for i := 0; i < o.Ndim; i++ {
					for j := 0; j < o.Ndim; j++ {
						K.Add(m, n, coef*s.G[m][i]*o.Mdl.Kcte[i][j]*o.Tmp[j])
					}
				}
			}
		}
	}
	return
}

// OutIpKeys returns the integration points' keys
func (o *Diffusion) OutIpKeys() []string {
	return []string{"wx", "wy"}[:o.Ndim]
}

// OutIpVals computes the flux w @ integration points
func (o *Diffusion) OutIpVals(M *ele.IpsMap, c *ele.Cell, sol *ele.Solution) (err error) {
	dofs := o.U.Dofs()
	if len(dofs) == 0 {
		return
	}
	s, ips, _, err := o.Shape(c)
	if err != nil {
		return
	}
	keys := o.OutIpKeys()
	for idx, ip := range ips {
		if err = s.CalcAtIp(c.X, ip, true); err != nil {
			return chk.Err("cannot compute flux of cell %d:\n%v", c.Id, err)
		}
		o.Uval = ele.Interp(s, sol.Y, dofs, o.Gradu)
		o.flux()
		for i, key := range keys {
			M.Set(key, idx, len(ips), o.Wvec[i])
		}
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// flux computes w = -k(u)·kcte·∇u from Uval and Gradu
func (o *Diffusion) flux() {
	kval := o.Mdl.Kval(o.Uval)
	for i := 0; i < o.Ndim; i++ {
		o.Wvec[i] = 0
		for j := 0; j < o.Ndim; j++ {
			o.Wvec[i] -= kval * o.Mdl.Kcte[i][j] * o.Gradu[j]
		}
	}
}

// rho returns the coefficient of the time derivative; zero if steady
func (o *Diffusion) rho(sol *ele.Solution) float64 {
	if !sol.Transient() {
		return 0
	}
	return o.Mdl.Rho
}
