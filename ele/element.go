// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements finite element kernels
package ele

import (
	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/goasm/shp"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Kernel defines what all volume kernels must implement. Kernels write into
// the local buffers of b, which the driver prepares for the current cell
type Kernel interface {
	storage.Object
	Var() *Var                                               // variable whose residual rows are written
	AddToResidual(b *asm.Block, c *Cell, sol *Solution) error // adds R to b.Re
	AddToJacobian(b *asm.Block, c *Cell, sol *Solution) error // adds dR/dy to b.Kee
}

// BoundaryKernel defines kernels integrating over boundary faces of cells
type BoundaryKernel interface {
	storage.Object
	storage.BoundaryRestricted
	Var() *Var
	AddToResidualFace(b *asm.Block, c *Cell, iface int, sol *Solution) error
	AddToJacobianFace(b *asm.Block, c *Cell, iface int, sol *Solution) error
}

// CanOutputIps defines kernels that can output integration points' values
type CanOutputIps interface {
	OutIpKeys() []string                                    // integration points' keys; e.g. "wx"
	OutIpVals(M *IpsMap, c *Cell, sol *Solution) (err error) // integration points' values corresponding to keys
}

// KernelBase holds data shared by kernels. Shapes are allocated lazily, so
// each kernel (one per thread) owns its scratchpad
type KernelBase struct {
	storage.Base
	storage.SetupBase
	U    *Var // variable whose residual rows are written
	Nip  int  // number of integration points; 0 selects the default
	Nipf int  // number of integration points on faces; 0 selects the default

	shapes map[string]*shp.Shape
}

// NewKernelBase sets the common data of kernel dat. Kernels without blocks
// run on all blocks of their variable
func NewKernelBase(dat *inp.KernelData, vars Vars) (o KernelBase, err error) {
	o.ObjName = dat.Name
	o.Disabled = dat.Inact
	o.Blocks = dat.Blocks
	o.Flags = dat.Flags
	o.Deps = dat.DependsOn
	o.U = vars.Get(dat.Var)
	if o.U == nil {
		return o, chk.Err("kernel %q: cannot find variable %q", dat.Name, dat.Var)
	}
	if len(o.Blocks) == 0 {
		o.Blocks = o.U.Blocks
	}
	if s, found := io.Keycode(dat.Extra, "nip"); found {
		o.Nip = io.Atoi(s)
	}
	if s, found := io.Keycode(dat.Extra, "nipf"); found {
		o.Nipf = io.Atoi(s)
	}
	return
}

// Var returns the variable whose residual rows are written
func (o *KernelBase) Var() *Var { return o.U }

// VariableDeps returns the variables read by the kernel
func (o *KernelBase) VariableDeps() []int { return []int{o.U.Num} }

// Shape returns the shape and integration points of cell c
func (o *KernelBase) Shape(c *Cell) (s *shp.Shape, ips, ipf []shp.Ipoint, err error) {
	if o.shapes == nil {
		o.shapes = make(map[string]*shp.Shape)
	}
	s, ok := o.shapes[c.Type]
	if !ok {
		s = shp.Get(c.Type)
		if s == nil {
			return nil, nil, nil, chk.Err("kernel %q: cannot find shape %q", o.ObjName, c.Type)
		}
		o.shapes[c.Type] = s
	}
	ips, ipf, err = s.GetIps(o.Nip, o.Nipf)
	if err != nil {
		err = chk.Err("kernel %q: cannot get integration points with nip=%d and nipf=%d:\n%v", o.ObjName, o.Nip, o.Nipf, err)
	}
	return
}
