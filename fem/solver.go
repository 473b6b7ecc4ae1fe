// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/fun/dbf"

// Solver implements the actual solver (time loop)
type Solver interface {
	Run(tf float64, dtFunc dbf.T, verbose bool) (err error)
}

// allocators holds all available solvers
var allocators = make(map[string]func(dom *Domain, fvs *FvSystem) Solver)
