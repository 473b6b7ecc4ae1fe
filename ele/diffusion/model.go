// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// M1 implements a model for diffusion problems with nonlinear coefficient
//
//	kten = kval(u) * kcte
//
//	kval = a0  +  a1 u  +  a2 u² +  a3 u³
type M1 struct {
	A0, A1, A2, A3 float64
	Rho            float64     // coefficient of the time derivative
	Kcte           [][]float64 // [ndim][ndim] constant part of the conductivity tensor
}

// Init initialises this structure. Either 'k' (isotropic) or 'kx' and 'ky' must be given
func (o *M1) Init(ndim int, prms dbf.Params) (err error) {

	// a[i] parameters
	o.A0 = inp.Prm(prms, "a0", 1)
	o.A1 = inp.Prm(prms, "a1", 0)
	o.A2 = inp.Prm(prms, "a2", 0)
	o.A3 = inp.Prm(prms, "a3", 0)
	o.Rho = inp.Prm(prms, "rho", 0)

	// kcte parameters
	var kx, ky float64
	switch {
	case inp.HasPrm(prms, "k"):
		kx = inp.Prm(prms, "k", 0)
		ky = kx
	case inp.HasPrm(prms, "kx") && (ndim == 1 || inp.HasPrm(prms, "ky")):
		kx = inp.Prm(prms, "kx", 0)
		ky = inp.Prm(prms, "ky", 0)
	default:
		return chk.Err("M1 model: either 'k' (isotropic) or ['kx', 'ky'] must be given in the parameters")
	}
	if kx <= 0 || (ndim > 1 && ky <= 0) {
		return chk.Err("M1 model: conductivities must be positive; kx=%g ky=%g are invalid", kx, ky)
	}

	// ktensor
	o.Kcte = make([][]float64, ndim)
	for i := range o.Kcte {
		o.Kcte[i] = make([]float64, ndim)
	}
	o.Kcte[0][0] = kx
	if ndim > 1 {
		o.Kcte[1][1] = ky
	}
	return
}

// Kval computes k(u)
func (o *M1) Kval(u float64) float64 {
	return o.A0 + o.A1*u + o.A2*u*u + o.A3*u*u*u
}

// DkDu computes dk/du
func (o *M1) DkDu(u float64) float64 {
	return o.A1 + 2.0*o.A2*u + 3.0*o.A3*u*u
}
