// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/goasm/shp"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gonum.org/v1/gonum/floats"
)

// NaturalBc holds information on natural boundary conditions such as
// fluxes acting on faces of cells
//
//	key "qn"   (type "flux"):       R_m += ∫ qn(t,x) S_m dΓ              qn is the outward flux
//	key "conv" (type "convection"): R_m += ∫ h (u - uinf(t,x)) S_m dΓ
type NaturalBc struct {
	storage.Base
	storage.SetupBase
	Key string  // "qn" or "conv"
	U   *Var    // variable
	Fcn dbf.T   // qn(t,x) or uinf(t,x)
	H   float64 // heat transfer coefficient ("conv")

	shapes map[string]*shp.Shape
	xip    []float64
}

// NewNaturalBc returns a natural boundary condition. vars are the variables of one thread
func NewNaturalBc(dat *inp.BcData, prob *inp.Problem, vars Vars) (o *NaturalBc, err error) {
	o = new(NaturalBc)
	o.ObjName = dat.Name
	o.Disabled = dat.Inact
	o.Bnds = dat.Bnds
	o.U = vars.Get(dat.Var)
	if o.U == nil {
		return nil, chk.Err("natural bc %q: cannot find variable %q", dat.Name, dat.Var)
	}
	switch dat.Type {
	case "flux":
		o.Key = "qn"
	case "convection":
		o.Key = "conv"
		if !inp.HasPrm(dat.Prms, "h") {
			return nil, chk.Err("natural bc %q: parameter 'h' is required by convection", dat.Name)
		}
		o.H = inp.Prm(dat.Prms, "h", 0)
		if o.H < 0 {
			return nil, chk.Err("natural bc %q: heat transfer coefficient h=%g must not be negative", dat.Name, o.H)
		}
	default:
		return nil, chk.Err("natural bc %q: type %q is invalid", dat.Name, dat.Type)
	}
	name := dat.Fcn
	if name == "" {
		name = "zero"
	}
	if o.Fcn, err = prob.Functions.Get(name); err != nil {
		return nil, chk.Err("natural bc %q:\n%v", dat.Name, err)
	}
	o.xip = make([]float64, prob.Ndim)
	o.shapes = make(map[string]*shp.Shape)
	return
}

// Var returns the variable
func (o *NaturalBc) Var() *Var { return o.U }

// VariableDeps returns the variables read by the boundary condition
func (o *NaturalBc) VariableDeps() []int { return []int{o.U.Num} }

// AddToResidualFace adds the face integral to b.Re
func (o *NaturalBc) AddToResidualFace(b *asm.Block, c *Cell, iface int, sol *Solution) (err error) {
	dofs := o.U.Dofs()
	if len(dofs) == 0 {
		return
	}
	re := b.Re(o.U.Num)
	return o.integrate(c, iface, func(s *shp.Shape, coef float64) {
		IpCoords(s, c.X, o.xip)
		f := o.Fcn.F(sol.T, o.xip)
		if o.Key == "conv" {
			u := 0.0
			for m, r := range dofs {
				u += s.S[m] * sol.Y[r]
			}
			f = o.H * (u - f)
		}
		for m := range dofs {
			re[m] += coef * f * s.S[m]
		}
	})
}

// AddToJacobianFace adds dR/du to b.Kee
func (o *NaturalBc) AddToJacobianFace(b *asm.Block, c *Cell, iface int, sol *Solution) (err error) {
	dofs := o.U.Dofs()
	if len(dofs) == 0 || o.Key != "conv" {
		return
	}
	K := b.Kee(o.U.Num, o.U.Num)
	return o.integrate(c, iface, func(s *shp.Shape, coef float64) {
		for m := range dofs {
			for n := range dofs {
				K.Add(m, n, coef*o.H*s.S[m]*s.S[n])
			}
		}
	})
}

// integrate calls fcn at each integration point of face iface. In 1D the
// face is a vertex and the integral is the value there
func (o *NaturalBc) integrate(c *Cell, iface int, fcn func(s *shp.Shape, coef float64)) (err error) {
	s, ok := o.shapes[c.Type]
	if !ok {
		if s = shp.Get(c.Type); s == nil {
			return chk.Err("natural bc %q: cannot find shape %q", o.ObjName, c.Type)
		}
		o.shapes[c.Type] = s
	}
	if s.Gndim == 1 {
		v := s.FaceLocalVerts[iface][0]
		if err = s.CalcAtIp(c.X, shp.Ipoint{s.NatCoords[0][v], 0, 0, 1}, false); err != nil {
			return
		}
		fcn(s, 1)
		return
	}
	_, ipf, err := s.GetIps(0, 0)
	if err != nil {
		return
	}
	for _, ip := range ipf {
		if err = s.CalcAtFaceIp(c.X, ip, iface); err != nil {
			return
		}
		fcn(s, ip[3]*floats.Norm(s.Fnvec, 2))
	}
	return
}
