// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the driver of finite element, discontinuous Galerkin
// and finite volume systems
package fem

import (
	"time"

	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Main holds all data for a simulation
type Main struct {
	Prob    *inp.Problem // problem data
	Dom     *Domain      // finite element (lagrange and dg) system; nil if there are no such variables
	Fv      *FvSystem    // finite volume system; nil if there are no fv variables
	Solver  Solver       // solver; e.g. implicit
	ShowMsg bool         // show messages
}

// NewMain reads a problem file and allocates a new Main structure
//
//	Input:
//	 path    -- problem (.json) filename including full path
//	 verbose -- show messages
func NewMain(path string, verbose bool) (o *Main, err error) {
	prob, err := inp.ReadProblem(path)
	if err != nil {
		return
	}
	return NewMainProblem(prob, verbose)
}

// NewMainProblem allocates a new Main structure for a problem already read
func NewMainProblem(prob *inp.Problem, verbose bool) (o *Main, err error) {

	// new Main object
	o = new(Main)
	o.Prob = prob
	o.ShowMsg = verbose
	if prob.NfeVars+prob.NfvVars == 0 {
		return nil, chk.Err("problem has no variables")
	}
	if o.ShowMsg {
		io.Pf("> Problem %q: %s\n", prob.Key, prob.Data.Desc)
	}

	// allocate systems
	if prob.NfeVars > 0 {
		if o.Dom, err = NewDomain(prob, verbose); err != nil {
			return nil, err
		}
	}
	if prob.NfvVars > 0 {
		if o.Fv, err = NewFvSystem(prob, verbose); err != nil {
			return nil, err
		}
	}

	// allocate solver
	alloc, ok := allocators[prob.Solver.Type]
	if !ok {
		return nil, chk.Err("cannot find solver type named %q", prob.Solver.Type)
	}
	o.Solver = alloc(o.Dom, o.Fv)
	return
}

// Run sets the initial values and runs the time loop up to the final time
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// initial values
	if err = o.SetIniVals(); err != nil {
		return
	}

	// message
	if o.ShowMsg {
		io.Pf("> Running %q solver\n", o.Prob.Solver.Type)
	}

	// time loop
	return o.Solver.Run(o.Prob.Control.Tf, o.Prob.Control.DtFunc, o.ShowMsg)
}

// SetIniVals sets the initial values of all systems and calls the initial
// setup of all objects
func (o *Main) SetIniVals() (err error) {
	if o.ShowMsg {
		io.Pf("> Setting initial values\n")
	}
	if o.Dom != nil {
		if err = o.Dom.SetIniVals(); err != nil {
			return
		}
		for tid := range o.Dom.Threads {
			o.Dom.Kernels.InitialSetup(tid)
			o.Dom.BndKernels.InitialSetup(tid)
			o.Dom.FaceKernels.InitialSetup(tid)
			o.Dom.DgBcs.InitialSetup(tid)
		}
	}
	if o.Fv != nil {
		if err = o.Fv.SetIniVals(); err != nil {
			return
		}
		for tid := range o.Fv.Threads {
			o.Fv.Fluxes.InitialSetup(tid)
			o.Fv.CellKernels.InitialSetup(tid)
			o.Fv.Bcs.InitialSetup(tid)
		}
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// onexit prints final message with cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	return prevErr
}
