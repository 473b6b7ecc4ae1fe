// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ExecFlag tells when an object runs
type ExecFlag int

// execution flags
const (
	ExecInitial       ExecFlag = iota // once, before the first timestep
	ExecTimestepBegin                 // at the start of each timestep
	ExecLinear                        // on every linear residual evaluation
	ExecNonlinear                     // on every nonlinear residual evaluation
	ExecTimestepEnd                   // at the end of each timestep
	ExecFinal                         // once, at the end of the run
	ExecCustom                        // when explicitly requested
)

// AllExecFlags lists all flags in their natural order
var AllExecFlags = []ExecFlag{ExecInitial, ExecTimestepBegin, ExecLinear, ExecNonlinear, ExecTimestepEnd, ExecFinal, ExecCustom}

var execFlagNames = []string{"initial", "timestep_begin", "linear", "nonlinear", "timestep_end", "final", "custom"}

// String returns the flag name
func (o ExecFlag) String() string {
	if o < 0 || int(o) >= len(execFlagNames) {
		return "unknown"
	}
	return execFlagNames[o]
}

// ParseExecFlag returns the flag named name (case insensitive)
func ParseExecFlag(name string) (f ExecFlag, err error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range execFlagNames {
		if n == key {
			return ExecFlag(i), nil
		}
	}
	return 0, chk.Err("unknown execution flag %q; valid flags are %v", name, execFlagNames)
}

// ParseExecFlags parses a list of flag names; owner names the object in errors
func ParseExecFlags(owner string, names []string) (flags []ExecFlag, err error) {
	for _, n := range names {
		f, e := ParseExecFlag(n)
		if e != nil {
			return nil, chk.Err("object %q: %v", owner, e)
		}
		flags = append(flags, f)
	}
	return
}

// ExecWarehouse adds a per-flag index to Warehouse. The embedded warehouse
// holds every object regardless of flags; Flag(f) returns an independent
// warehouse with the objects declaring f
type ExecWarehouse[T Object] struct {
	*Warehouse[T]
	byFlag map[ExecFlag]*Warehouse[T]
}

// NewExecWarehouse returns a new warehouse for nthreads threads
func NewExecWarehouse[T Object](nthreads int) (o *ExecWarehouse[T]) {
	o = new(ExecWarehouse[T])
	o.Warehouse = NewWarehouse[T](nthreads)
	o.byFlag = make(map[ExecFlag]*Warehouse[T], len(AllExecFlags))
	for _, f := range AllExecFlags {
		o.byFlag[f] = NewWarehouse[T](nthreads)
	}
	return
}

// AddObject adds obj to the combined warehouse and to the warehouse of every
// flag obj declares. Objects declaring no flags run on ExecLinear
func (o *ExecWarehouse[T]) AddObject(obj T, tid int) {
	o.Warehouse.AddObject(obj, tid)
	flags := []ExecFlag{ExecLinear}
	if e, ok := any(obj).(Executable); ok && len(e.ExecuteOn()) > 0 {
		flags = e.ExecuteOn()
	}
	seen := make(map[ExecFlag]bool, len(flags))
	for _, f := range flags {
		if seen[f] {
			continue
		}
		seen[f] = true
		w, ok := o.byFlag[f]
		if !ok {
			chk.Panic("object %q declares unknown execution flag %d", obj.Name(), int(f))
		}
		w.AddObject(obj, tid)
	}
}

// Flag returns the warehouse of objects running on f
func (o *ExecWarehouse[T]) Flag(f ExecFlag) *Warehouse[T] {
	w, ok := o.byFlag[f]
	if !ok {
		chk.Panic("unknown execution flag %d", int(f))
	}
	return w
}

// UpdateActive updates the combined and all per-flag warehouses
func (o *ExecWarehouse[T]) UpdateActive(tid int) {
	o.Warehouse.UpdateActive(tid)
	for _, f := range AllExecFlags {
		o.byFlag[f].UpdateActive(tid)
	}
}

// Sort sorts the combined and all per-flag warehouses
func (o *ExecWarehouse[T]) Sort(tid int) error {
	if err := o.Warehouse.Sort(tid); err != nil {
		return err
	}
	for _, f := range AllExecFlags {
		if err := o.byFlag[f].Sort(tid); err != nil {
			if cerr, ok := err.(*CyclicDependencyError); ok {
				return cerr.at(io.Sf("flag %s", f))
			}
			return err
		}
	}
	return nil
}
