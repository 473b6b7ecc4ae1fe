// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// GetFvDiffusionFlags returns the flags of finite volume diffusion kernels
func GetFvDiffusionFlags(extra string) (nonorth bool) {

	// flag: non-orthogonal correction
	if s_nonorth, found := io.Keycode(extra, "nonorth"); found {
		nonorth = io.Atob(s_nonorth)
	}
	return
}

// GetFvAdvectionFlags returns the flags of finite volume advection kernels.
// The interpolation of the variable (def) is used unless "interp" is given
func GetFvAdvectionFlags(extra string, def face.InterpMethod) (method face.InterpMethod, err error) {

	// defaults
	method = def

	// flag: interpolation method
	if s_interp, found := io.Keycode(extra, "interp"); found {
		if method, err = face.ParseInterpMethod(s_interp); err != nil {
			return
		}
	}

	// check
	if method != face.Average && method != face.Upwind {
		return method, chk.Err("advection requires average or upwind interpolation; %v is invalid", method)
	}
	return
}

// GetFvOutflowFlags returns the flags of outflow boundary conditions
func GetFvOutflowFlags(extra string) (extrapolate bool) {

	// flag: extrapolate with the cell gradient
	if s_extrap, found := io.Keycode(extra, "extrap"); found {
		extrapolate = io.Atob(s_extrap)
	}
	return
}
