// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SolverImplicit solves the finite element system with the backward Euler
// method and Newton-Raphson iterations. The finite volume system, if any, is
// solved after the finite element system at every time step
type SolverImplicit struct {
	Dom *Domain   // finite element system; may be nil
	Fv  *FvSystem // finite volume system; may be nil
	T   float64   // current time
	Nit []int     // number of Newton iterations of each time step
}

// set factory
func init() {
	allocators["imp"] = func(dom *Domain, fvs *FvSystem) Solver {
		return &SolverImplicit{Dom: dom, Fv: fvs}
	}
}

// Run runs the time loop up to tf
func (o *SolverImplicit) Run(tf float64, dtFunc dbf.T, verbose bool) (err error) {

	// time loop
	var Δt float64
	for o.T < tf {

		// time increment
		Δt = dtFunc.F(o.T, nil)
		if o.T+Δt >= tf {
			Δt = tf - o.T
		}
		if Δt < 1e-14 {
			return chk.Err("Δt increment is too small: %g", Δt)
		}

		// time update
		o.T += Δt

		// message
		if verbose && !o.showR() {
			io.PfWhite("%30.15f\r", o.T)
		}

		// finite element system
		if o.Dom != nil {
			nit, err := runIterations(o.T, Δt, o.Dom)
			if err != nil {
				return err
			}
			o.Nit = append(o.Nit, nit)
		}

		// finite volume system
		if o.Fv != nil {
			if err = o.Fv.Solve(o.T); err != nil {
				return
			}
		}
	}
	if verbose && !o.showR() {
		io.Pf("\n")
	}
	return
}

// showR tells whether residuals are printed
func (o *SolverImplicit) showR() bool {
	if o.Dom != nil {
		return o.Dom.Prob.Data.ShowR
	}
	return o.Fv != nil && o.Fv.Prob.Data.ShowR
}

// runIterations solves the nonlinear problem of one time step; it returns
// the number of iterations
func runIterations(t, Δt float64, d *Domain) (it int, err error) {

	// time and increments
	sol := d.Sol
	sol.Backup()
	sol.T = t
	sol.Dt = Δt
	for i := range sol.ΔY {
		sol.ΔY[i] = 0
	}

	// prescribed values
	for _, bc := range d.EssenBcs {
		if bc.Enabled() {
			bc.SetValues(sol)
		}
	}
	for tid := range d.Threads {
		d.Kernels.TimestepSetup(tid)
		d.FaceKernels.TimestepSetup(tid)
	}

	// auxiliary variables
	slv := d.Prob.Solver
	var largR, largR0, Lδy float64

	// message
	if d.Prob.Data.ShowR {
		io.Pf("\n%13s%4s%23s%23s\n", "t", "it", "largR", "Lδy")
		defer func() {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", t, it, largR, Lδy)
		}()
	}

	// iterations
	var δy mat.VecDense
	for it = 0; it < slv.NmaxIt; it++ {

		// residual and Jacobian
		if err = d.Assemble(true); err != nil {
			return
		}

		// check convergence on residual
		largR = floats.Norm(d.R.Data, math.Inf(1))
		if it == 0 {
			largR0 = largR
		}
		if largR < slv.Atol || largR < slv.Rtol*largR0 {
			return
		}

		// solve J δy = -R
		if err = δy.SolveVec(d.J.Dense(), mat.NewVecDense(d.Ny, d.R.Data)); err != nil {
			return it, chk.Err("cannot solve linear system at t=%g, it=%d:\n%v", t, it, err)
		}

		// update
		Lδy = 0
		for i := range sol.Y {
			δ := -δy.AtVec(i)
			sol.Y[i] += δ
			sol.ΔY[i] += δ
			Lδy = math.Max(Lδy, math.Abs(δ))
		}
		if math.IsNaN(Lδy) {
			return it, chk.Err("NaN found in solution increment at t=%g, it=%d", t, it)
		}
	}
	return it, chk.Err("Newton-Raphson did not converge after %d iterations at t=%g; largR = %g", slv.NmaxIt, t, largR)
}
