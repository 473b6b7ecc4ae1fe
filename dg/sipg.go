// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dg

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
)

// Diffusion implements the interior face terms of the symmetric interior
// penalty method for -div(K ∇u) = s. With [v] = ve - vn and {v} = (ve + vn)/2:
//
//	R = ∫ ( -[v]{K∇u·N} - {K∇v·N}[u] + σK/h [u][v] ) dΓ
type Diffusion struct {
	KernelBase
}

// register kernel
func init() {
	SetAllocator("dgdiffusion", func(dat *inp.KernelData, prob *inp.Problem, vars ele.Vars) (FaceKernel, error) {
		var o Diffusion
		var err error
		o.KernelBase, err = NewKernelBase(dat.Name, dat.Inact, dat.Var, dat.Prms, dat.Extra, vars)
		if err != nil {
			return nil, err
		}
		if len(dat.Blocks) > 0 {
			o.Blocks = dat.Blocks
		}
		o.Flags = dat.Flags
		o.Deps = dat.DependsOn
		return &o, nil
	})
}

// AddToResidual adds the face integrals to b.Re and b.Rn
func (o *Diffusion) AddToResidual(b *asm.Block, f *Face, sol *ele.Solution) (err error) {
	if f.IsBoundary() || len(o.U.Dofs()) == 0 || len(o.U.DofsNeighbor()) == 0 {
		return
	}
	re, rn := b.Re(o.U.Num), b.Rn(o.U.Num)
	pen := o.Penalty(f)
	for ip := range f.IpsE {
		e, err := o.Eval(f, 0, ip, sol.Y)
		if err != nil {
			return err
		}
		n, err := o.Eval(f, 1, ip, sol.Y)
		if err != nil {
			return err
		}
		w := f.IpsE[ip][3]
		kg := o.K * (e.Dudn + n.Dudn) / 2
		jump := e.U - n.U
		for i := range re {
			re[i] += w * (-kg*e.S[i] - o.K*e.Gn[i]*jump/2 + pen*jump*e.S[i])
		}
		for i := range rn {
			rn[i] += w * (kg*n.S[i] - o.K*n.Gn[i]*jump/2 - pen*jump*n.S[i])
		}
	}
	return
}

// AddToJacobian adds the four blocks dR/du to b
func (o *Diffusion) AddToJacobian(b *asm.Block, f *Face, sol *ele.Solution) (err error) {
	if f.IsBoundary() || len(o.U.Dofs()) == 0 || len(o.U.DofsNeighbor()) == 0 {
		return
	}
	u := o.U.Num
	Kee, Ken, Kne, Knn := b.Kee(u, u), b.Ken(u, u), b.Kne(u, u), b.Knn(u, u)
	pen := o.Penalty(f)
	h := o.K / 2
	for ip := range f.IpsE {
		e, err := o.Eval(f, 0, ip, sol.Y)
		if err != nil {
			return err
		}
		n, err := o.Eval(f, 1, ip, sol.Y)
		if err != nil {
			return err
		}
		w := f.IpsE[ip][3]
		for i := 0; i < Kee.M; i++ {
			for j := 0; j < Kee.N; j++ {
				Kee.Add(i, j, w*(-h*e.Gn[j]*e.S[i]-h*e.Gn[i]*e.S[j]+pen*e.S[j]*e.S[i]))
			}
			for j := 0; j < Ken.N; j++ {
				Ken.Add(i, j, w*(-h*n.Gn[j]*e.S[i]+h*e.Gn[i]*n.S[j]-pen*n.S[j]*e.S[i]))
			}
		}
		for i := 0; i < Knn.M; i++ {
			for j := 0; j < Kne.N; j++ {
				Kne.Add(i, j, w*(h*e.Gn[j]*n.S[i]-h*n.Gn[i]*e.S[j]-pen*e.S[j]*n.S[i]))
			}
			for j := 0; j < Knn.N; j++ {
				Knn.Add(i, j, w*(h*n.Gn[j]*n.S[i]+h*n.Gn[i]*n.S[j]+pen*n.S[j]*n.S[i]))
			}
		}
	}
	return
}

// factory ////////////////////////////////////////////////////////////////////////////////////////////

// AllocatorType defines a function that allocates an interior face kernel
type AllocatorType func(dat *inp.KernelData, prob *inp.Problem, vars ele.Vars) (FaceKernel, error)

// New returns a new interior face kernel
func New(dat *inp.KernelData, prob *inp.Problem, vars ele.Vars) (k FaceKernel, err error) {
	fcn, ok := allocators[dat.Type]
	if !ok {
		return nil, chk.Err("cannot get allocator for face kernel {name=%q, type=%q}", dat.Name, dat.Type)
	}
	if k, err = fcn(dat, prob, vars); err != nil {
		err = chk.Err("cannot allocate face kernel {name=%q, type=%q}:\n%v", dat.Name, dat.Type, err)
	}
	return
}

// Has tells whether face kernel type name is available
func Has(name string) bool {
	_, ok := allocators[name]
	return ok
}

// SetAllocator sets a new callback function to allocate a face kernel
func SetAllocator(kernelName string, fcn AllocatorType) {
	if _, ok := allocators[kernelName]; ok {
		chk.Panic("cannot set allocator function for %q because face kernel name exists already", kernelName)
	}
	allocators[kernelName] = fcn
}

// allocators holds all face kernel allocators
var allocators = make(map[string]AllocatorType)
