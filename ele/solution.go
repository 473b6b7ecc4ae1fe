// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Solution holds the solution data @ dofs of the finite element system
//
//	y = { u_0 ... u_nvars-1 } (ny x 1)
type Solution struct {

	// current state
	T    float64   // current time
	Y    []float64 // dofs (solution variables)
	Yold []float64 // dofs at the beginning of the time step

	// auxiliary
	Dt float64   // current time increment
	ΔY []float64 // total increment (for nonlinear solver)

	// problem definition
	Steady bool // steady simulation; time derivatives are skipped
}

// NewSolution allocates a new solution with ny dofs
func NewSolution(ny int, steady bool) (o *Solution) {
	o = new(Solution)
	o.Y = make([]float64, ny)
	o.Yold = make([]float64, ny)
	o.ΔY = make([]float64, ny)
	o.Steady = steady
	return
}

// Reset clear values
func (o *Solution) Reset() {
	o.T = 0
	for i := 0; i < len(o.Y); i++ {
		o.Y[i] = 0
		o.Yold[i] = 0
		o.ΔY[i] = 0
	}
}

// Backup copies Y into Yold; called at the beginning of each time step
func (o *Solution) Backup() {
	copy(o.Yold, o.Y)
}

// Transient tells whether time derivatives must be computed
func (o *Solution) Transient() bool { return !o.Steady && o.Dt > 0 }
