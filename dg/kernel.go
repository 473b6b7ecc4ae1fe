// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dg

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/goasm/shp"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// DefaultSigma is the penalty factor used when none is given
const DefaultSigma = 10.0

// FaceKernel defines kernels integrating over faces. Interior kernels write
// into b.Re, b.Rn and the four Jacobian blocks; boundary kernels (with
// boundary ids) only write into b.Re and b.Kee
type FaceKernel interface {
	storage.Object
	Var() *ele.Var
	AddToResidual(b *asm.Block, f *Face, sol *ele.Solution) error
	AddToJacobian(b *asm.Block, f *Face, sol *ele.Solution) error
}

// Side holds values on one side of a face at the current point
type Side struct {
	S     []float64 // shape functions
	Gn    []float64 // normal derivatives G·N of shape functions
	U     float64   // u
	Gradu []float64 // ∇u
	Dudn  float64   // ∇u·N

	shape *shp.Shape
}

// KernelBase holds data shared by face kernels
type KernelBase struct {
	storage.Base
	storage.SetupBase
	U     *ele.Var // dg variable
	K     float64  // diffusivity
	Sigma float64  // penalty factor

	sides map[string]*[2]Side
}

// NewKernelBase sets the common data. Parameters: k (default 1) and sigma;
// the "!sigma:" key of extra overrides sigma
func NewKernelBase(name string, inact bool, vname string, prms dbf.Params, extra string, vars ele.Vars) (o KernelBase, err error) {
	o.ObjName = name
	o.Disabled = inact
	o.U = vars.Get(vname)
	if o.U == nil {
		return o, chk.Err("face kernel %q: cannot find variable %q", name, vname)
	}
	if o.U.Family != inp.FamDG {
		return o, chk.Err("face kernel %q: variable %q must be a dg variable", name, vname)
	}
	o.Blocks = o.U.Blocks
	o.K = inp.Prm(prms, "k", 1)
	o.Sigma = inp.Prm(prms, "sigma", DefaultSigma)
	if s, found := io.Keycode(extra, "sigma"); found {
		o.Sigma = io.Atof(s)
	}
	if o.K <= 0 || o.Sigma <= 0 {
		return o, chk.Err("face kernel %q: k=%g and sigma=%g must be positive", name, o.K, o.Sigma)
	}
	return
}

// Var returns the variable
func (o *KernelBase) Var() *ele.Var { return o.U }

// VariableDeps returns the variables read by the kernel
func (o *KernelBase) VariableDeps() []int { return []int{o.U.Num} }

// Penalty returns σ·K/h
func (o *KernelBase) Penalty(f *Face) float64 { return o.Sigma * o.K / f.H }

// Eval computes the values at the ip-th point of side 0 (E) or 1 (N)
func (o *KernelBase) Eval(f *Face, side, ip int, y []float64) (s *Side, err error) {
	c, ips, dofs := f.E, f.IpsE, o.U.Dofs()
	if side == 1 {
		c, ips, dofs = f.N, f.IpsN, o.U.DofsNeighbor()
	}
	if o.sides == nil {
		o.sides = make(map[string]*[2]Side)
	}
	pair, ok := o.sides[c.Type]
	if !ok {
		pair = new([2]Side)
		for i := range pair {
			sh := shp.Get(c.Type)
			if sh == nil {
				return nil, chk.Err("face kernel %q: cannot find shape %q", o.ObjName, c.Type)
			}
			pair[i] = Side{S: sh.S, Gn: make([]float64, sh.Nverts), Gradu: make([]float64, sh.Gndim), shape: sh}
		}
		o.sides[c.Type] = pair
	}
	s = &pair[side]
	if err = s.shape.CalcAtIp(c.X, ips[ip], true); err != nil {
		return nil, chk.Err("face kernel %q: cell %d:\n%v", o.ObjName, c.Id, err)
	}
	for m := range s.Gn {
		s.Gn[m] = dotN(s.shape.G[m], f.Normal)
	}
	s.U = ele.Interp(s.shape, y, dofs, s.Gradu)
	s.Dudn = dotN(s.Gradu, f.Normal)
	return
}

// X computes the real coordinates of the point last evaluated
func (o *Side) X(c *ele.Cell, x []float64) { ele.IpCoords(o.shape, c.X, x) }

// dotN returns v·N
func dotN(v, normal []float64) (res float64) {
	for i, n := range normal {
		res += v[i] * n
	}
	return
}
