// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
)

// AllocatorType defines a function that allocates a kernel. vars are the
// variables of the thread the kernel will run on
type AllocatorType func(dat *inp.KernelData, prob *inp.Problem, vars Vars) (Kernel, error)

// New returns a new kernel from factory
func New(dat *inp.KernelData, prob *inp.Problem, vars Vars) (k Kernel, err error) {
	fcn, ok := allocators[dat.Type]
	if !ok {
		err = chk.Err("cannot get allocator for kernel {name=%q, type=%q}", dat.Name, dat.Type)
		return
	}
	k, err = fcn(dat, prob, vars)
	if err != nil {
		err = chk.Err("cannot allocate kernel {name=%q, type=%q}:\n%v", dat.Name, dat.Type, err)
	}
	return
}

// Has tells whether kernel type name is available
func Has(name string) bool {
	_, ok := allocators[name]
	return ok
}

// SetAllocator sets a new callback function to allocate a kernel
func SetAllocator(kernelName string, fcn AllocatorType) {
	if _, ok := allocators[kernelName]; ok {
		chk.Panic("cannot set allocator function for %q because kernel name exists already", kernelName)
	}
	allocators[kernelName] = fcn
}

// GetAllocator gets callback function to allocate a kernel
func GetAllocator(kernelName string) AllocatorType {
	if fcn, ok := allocators[kernelName]; ok {
		return fcn
	}
	chk.Panic("cannot get allocator function for kernel %q", kernelName)
	return nil
}

// allocators holds all kernel allocators
var allocators = make(map[string]AllocatorType)
