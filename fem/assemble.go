// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sync"

	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
)

// residualFlags lists the execution flags of kernels contributing to R and J
var residualFlags = []storage.ExecFlag{storage.ExecLinear, storage.ExecNonlinear}

// Assemble computes the residual R(y) and, if jacobian, the Jacobian J = dR/dy
// at the current solution. Each thread assembles its cells and faces into the
// caches of its own block; the caches are added to R and J afterwards in
// thread order. Constrained rows and essential boundary conditions are set last
func (o *Domain) Assemble(jacobian bool) (err error) {

	// clear global system
	o.R.Zero()
	if jacobian {
		o.J.Zero()
	}

	// run threads
	errs := make([]error, o.Nthreads)
	var wg sync.WaitGroup
	for tid := range o.Threads {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			errs[tid] = o.assembleThread(tid, jacobian)
		}(tid)
	}
	wg.Wait()
	for tid, e := range errs {
		if e != nil {
			return chk.Err("assembly failed on thread %d:\n%v", tid, e)
		}
	}

	// scatter caches
	for _, th := range o.Threads {
		th.Block.AddCachedResidual(o.R)
		if jacobian {
			th.Block.AddCachedJacobian(o.J)
		}
	}

	// constrained rows
	if !o.Cons.Empty() {
		if jacobian {
			o.Cons.EnforceRows(o.J, o.R, o.Sol.Y)
		} else {
			o.Cons.EnforceRows(nil, o.R, o.Sol.Y)
		}
	}

	// essential boundary conditions
	b := o.Threads[0].Block
	for _, bc := range o.EssenBcs {
		if !bc.Enabled() {
			continue
		}
		bc.SetResidual(b, o.R, o.Sol)
		if jacobian {
			bc.SetJacobian(o.J)
		}
	}
	return
}

// assembleThread assembles the cells and dg faces of thread tid
func (o *Domain) assembleThread(tid int, jacobian bool) (err error) {
	th := o.Threads[tid]
	b := th.Block
	sol := o.Sol

	// setup
	o.Kernels.ResidualSetup(tid)
	o.FaceKernels.ResidualSetup(tid)
	if jacobian {
		o.Kernels.JacobianSetup(tid)
		o.FaceKernels.JacobianSetup(tid)
	}

	// cells
	for _, cid := range th.Cells {
		c := o.Cells[cid]
		th.Vars.Reinit(cid, -1)
		b.Prepare()
		for _, f := range residualFlags {
			for _, k := range o.Kernels.Flag(f).ActiveBlockObjects(c.Subdomain, tid) {
				if f == storage.ExecNonlinear && runsOn(k, storage.ExecLinear) {
					continue
				}
				if err = k.AddToResidual(b, c, sol); err != nil {
					return
				}
				if jacobian {
					if err = k.AddToJacobian(b, c, sol); err != nil {
						return
					}
				}
			}
		}
		for iface, bnd := range c.FaceBnds {
			if bnd < 0 {
				continue
			}
			for _, k := range o.BndKernels.ActiveBoundaryObjects(bnd, tid) {
				if err = k.AddToResidualFace(b, c, iface, sol); err != nil {
					return
				}
				if jacobian {
					if err = k.AddToJacobianFace(b, c, iface, sol); err != nil {
						return
					}
				}
			}
		}
		b.CacheResidual()
		if jacobian {
			b.CacheJacobian()
		}
	}

	// interior dg faces
	for _, idx := range th.Faces {
		f := o.Interior[idx]
		th.Vars.Reinit(f.E.Id, f.N.Id)
		b.Prepare()
		b.PrepareNeighbor()
		for _, flag := range residualFlags {
			for _, k := range o.FaceKernels.Flag(flag).ActiveObjects(tid) {
				if flag == storage.ExecNonlinear && runsOn(k, storage.ExecLinear) {
					continue
				}
				if err = k.AddToResidual(b, f, sol); err != nil {
					return
				}
				if jacobian {
					if err = k.AddToJacobian(b, f, sol); err != nil {
						return
					}
				}
			}
		}
		b.CacheResidual()
		b.CacheResidualNeighbor()
		if jacobian {
			b.CacheJacobian()
			b.CacheJacobianNeighbor()
		}
	}

	// boundary dg faces
	for _, idx := range th.Bfaces {
		f := o.Boundary[idx]
		if !o.DgBcs.HasActiveBoundaryObjectsOn(f.Bnd, tid) {
			continue
		}
		th.Vars.Reinit(f.E.Id, -1)
		b.Prepare()
		for _, k := range o.DgBcs.ActiveBoundaryObjects(f.Bnd, tid) {
			if err = k.AddToResidual(b, f, sol); err != nil {
				return
			}
			if jacobian {
				if err = k.AddToJacobian(b, f, sol); err != nil {
					return
				}
			}
		}
		b.CacheResidual()
		if jacobian {
			b.CacheJacobian()
		}
	}
	return
}

// runsOn tells whether obj runs on flag f. Objects without flags run on ExecLinear
func runsOn(obj any, f storage.ExecFlag) bool {
	e, ok := obj.(storage.Executable)
	if !ok || len(e.ExecuteOn()) == 0 {
		return f == storage.ExecLinear
	}
	for _, g := range e.ExecuteOn() {
		if g == f {
			return true
		}
	}
	return false
}
