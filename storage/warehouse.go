// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// threadStore holds the lists of one thread
type threadStore[T Object] struct {
	all            []T         // insertion-ordered objects
	active         []T         // enabled subset of all
	allBlock       map[int][]T // subdomain id => objects
	activeBlock    map[int][]T // subdomain id => enabled objects
	allBoundary    map[int][]T // boundary id => objects
	activeBoundary map[int][]T // boundary id => enabled objects
}

func newThreadStore[T Object]() *threadStore[T] {
	return &threadStore[T]{
		allBlock:       make(map[int][]T),
		activeBlock:    make(map[int][]T),
		allBoundary:    make(map[int][]T),
		activeBoundary: make(map[int][]T),
	}
}

// Warehouse holds one copy of every list per thread. Each thread must only
// touch its own tid; lists returned by the query methods must not be modified
type Warehouse[T Object] struct {
	threads []*threadStore[T]
}

// NewWarehouse returns a new warehouse for nthreads threads
func NewWarehouse[T Object](nthreads int) (o *Warehouse[T]) {
	if nthreads < 1 {
		chk.Panic("number of threads must be at least 1; %d is invalid", nthreads)
	}
	o = new(Warehouse[T])
	o.threads = make([]*threadStore[T], nthreads)
	for tid := range o.threads {
		o.threads[tid] = newThreadStore[T]()
	}
	return
}

// NumThreads returns the number of threads
func (o *Warehouse[T]) NumThreads() int { return len(o.threads) }

// AddObject appends obj to the lists of thread tid. Boundary-restricted
// objects go to the boundary index; otherwise block-restricted objects go to
// the subdomain index
func (o *Warehouse[T]) AddObject(obj T, tid int) {
	s := o.thread(tid)
	s.all = append(s.all, obj)
	enabled := obj.Enabled()
	if enabled {
		s.active = append(s.active, obj)
	}
	if bids := boundaries(obj); len(bids) > 0 {
		for _, id := range bids {
			s.allBoundary[id] = append(s.allBoundary[id], obj)
			if enabled {
				s.activeBoundary[id] = append(s.activeBoundary[id], obj)
			}
		}
		return
	}
	if blk, ok := any(obj).(BlockRestricted); ok {
		for _, id := range blk.BlockIDs() {
			s.allBlock[id] = append(s.allBlock[id], obj)
			if enabled {
				s.activeBlock[id] = append(s.activeBlock[id], obj)
			}
		}
	}
}

// UpdateActive recomputes all active lists of thread tid from the enabled
// state. Lists returned before the call keep their contents
func (o *Warehouse[T]) UpdateActive(tid int) {
	s := o.thread(tid)
	s.active = filterEnabled(nil, s.all)
	s.activeBlock = make(map[int][]T, len(s.allBlock))
	for id, objs := range s.allBlock {
		if act := filterEnabled(nil, objs); len(act) > 0 {
			s.activeBlock[id] = act
		}
	}
	s.activeBoundary = make(map[int][]T, len(s.allBoundary))
	for id, objs := range s.allBoundary {
		if act := filterEnabled(nil, objs); len(act) > 0 {
			s.activeBoundary[id] = act
		}
	}
}

// Sort orders every subdomain list, every boundary list and the list of all
// objects of thread tid by their dependencies, then updates the active lists
// A dependency cycle is returned as *CyclicDependencyError
func (o *Warehouse[T]) Sort(tid int) error {
	s := o.thread(tid)
	for _, id := range sortedKeys(s.allBlock) {
		sorted, cerr := resolve(s.allBlock[id])
		if cerr != nil {
			return cerr.at(io.Sf("subdomain %d", id))
		}
		s.allBlock[id] = sorted
	}
	for _, id := range sortedKeys(s.allBoundary) {
		sorted, cerr := resolve(s.allBoundary[id])
		if cerr != nil {
			return cerr.at(io.Sf("boundary %d", id))
		}
		s.allBoundary[id] = sorted
	}
	sorted, cerr := resolve(s.all)
	if cerr != nil {
		return cerr.at("all objects")
	}
	s.all = sorted
	o.UpdateActive(tid)
	return nil
}

// queries /////////////////////////////////////////////////////////////////////////////////////////

// Size returns the number of objects of thread tid
func (o *Warehouse[T]) Size(tid int) int { return len(o.thread(tid).all) }

// Objects returns all objects of thread tid
func (o *Warehouse[T]) Objects(tid int) []T { return o.thread(tid).all }

// ActiveObjects returns the enabled objects of thread tid
func (o *Warehouse[T]) ActiveObjects(tid int) []T { return o.thread(tid).active }

// BlockObjects returns all objects on subdomain id
func (o *Warehouse[T]) BlockObjects(id, tid int) []T { return o.thread(tid).allBlock[id] }

// ActiveBlockObjects returns the enabled objects on subdomain id
func (o *Warehouse[T]) ActiveBlockObjects(id, tid int) []T { return o.thread(tid).activeBlock[id] }

// BoundaryObjects returns all objects on boundary id
func (o *Warehouse[T]) BoundaryObjects(id, tid int) []T { return o.thread(tid).allBoundary[id] }

// ActiveBoundaryObjects returns the enabled objects on boundary id
func (o *Warehouse[T]) ActiveBoundaryObjects(id, tid int) []T {
	return o.thread(tid).activeBoundary[id]
}

// HasObjects tells whether thread tid holds any object
func (o *Warehouse[T]) HasObjects(tid int) bool { return len(o.thread(tid).all) > 0 }

// HasActiveObjects tells whether thread tid holds any enabled object
func (o *Warehouse[T]) HasActiveObjects(tid int) bool { return len(o.thread(tid).active) > 0 }

// HasActiveBlockObjects tells whether any subdomain has enabled objects
func (o *Warehouse[T]) HasActiveBlockObjects(tid int) bool {
	for _, objs := range o.thread(tid).activeBlock {
		if len(objs) > 0 {
			return true
		}
	}
	return false
}

// HasActiveBlockObjectsOn tells whether subdomain id has enabled objects
func (o *Warehouse[T]) HasActiveBlockObjectsOn(id, tid int) bool {
	return len(o.thread(tid).activeBlock[id]) > 0
}

// HasActiveBoundaryObjects tells whether any boundary has enabled objects
func (o *Warehouse[T]) HasActiveBoundaryObjects(tid int) bool {
	for _, objs := range o.thread(tid).activeBoundary {
		if len(objs) > 0 {
			return true
		}
	}
	return false
}

// HasActiveBoundaryObjectsOn tells whether boundary id has enabled objects
func (o *Warehouse[T]) HasActiveBoundaryObjectsOn(id, tid int) bool {
	return len(o.thread(tid).activeBoundary[id]) > 0
}

// HasBoundaryObjects tells whether boundary id has objects, enabled or not
func (o *Warehouse[T]) HasBoundaryObjects(id, tid int) bool {
	return len(o.thread(tid).allBoundary[id]) > 0
}

// ActiveBlocks returns the sorted subdomain ids with enabled objects
func (o *Warehouse[T]) ActiveBlocks(tid int) (ids []int) {
	for _, id := range sortedKeys(o.thread(tid).activeBlock) {
		if len(o.thread(tid).activeBlock[id]) > 0 {
			ids = append(ids, id)
		}
	}
	return
}

// Object returns the object named name
func (o *Warehouse[T]) Object(name string, tid int) (obj T, err error) {
	for _, obj = range o.thread(tid).all {
		if obj.Name() == name {
			return
		}
	}
	var zero T
	return zero, chk.Err("cannot find object named %q", name)
}

// ActiveObject returns the enabled object named name
func (o *Warehouse[T]) ActiveObject(name string, tid int) (obj T, err error) {
	for _, obj = range o.thread(tid).active {
		if obj.Name() == name {
			return
		}
	}
	var zero T
	return zero, chk.Err("cannot find active object named %q", name)
}

// HasActiveObject tells whether an enabled object named name exists
func (o *Warehouse[T]) HasActiveObject(name string, tid int) bool {
	_, err := o.ActiveObject(name, tid)
	return err == nil
}

// VariableDependencies returns the sorted union of variables read by the
// enabled objects of thread tid
func (o *Warehouse[T]) VariableDependencies(tid int) (vars []int) {
	set := make(map[int]bool)
	for _, obj := range o.thread(tid).active {
		if vd, ok := any(obj).(VariableDependent); ok {
			for _, v := range vd.VariableDeps() {
				set[v] = true
			}
		}
	}
	for v := range set {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	return
}

// ActiveObjectsString returns the names of enabled objects, one per line,
// each line starting with prefix
func (o *Warehouse[T]) ActiveObjectsString(tid int, prefix string) string {
	var lines []string
	for _, obj := range o.thread(tid).active {
		lines = append(lines, io.Sf("%s%s", prefix, obj.Name()))
	}
	return strings.Join(lines, "\n")
}

// lifecycle ///////////////////////////////////////////////////////////////////////////////////////

// InitialSetup calls InitialSetup on every enabled object, in order
func (o *Warehouse[T]) InitialSetup(tid int) { o.fanout(tid, Setup.InitialSetup) }

// TimestepSetup calls TimestepSetup on every enabled object, in order
func (o *Warehouse[T]) TimestepSetup(tid int) { o.fanout(tid, Setup.TimestepSetup) }

// SubdomainSetup calls SubdomainSetup on every enabled object, in order
func (o *Warehouse[T]) SubdomainSetup(tid int) { o.fanout(tid, Setup.SubdomainSetup) }

// JacobianSetup calls JacobianSetup on every enabled object, in order
func (o *Warehouse[T]) JacobianSetup(tid int) { o.fanout(tid, Setup.JacobianSetup) }

// ResidualSetup calls ResidualSetup on every enabled object, in order
func (o *Warehouse[T]) ResidualSetup(tid int) { o.fanout(tid, Setup.ResidualSetup) }

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *Warehouse[T]) thread(tid int) *threadStore[T] {
	if DebugChecks && (tid < 0 || tid >= len(o.threads)) {
		chk.Panic("thread id %d is out of range [0, %d)", tid, len(o.threads))
	}
	return o.threads[tid]
}

func (o *Warehouse[T]) fanout(tid int, call func(Setup)) {
	for _, obj := range o.thread(tid).active {
		if s, ok := any(obj).(Setup); ok {
			call(s)
		}
	}
}

func filterEnabled[T Object](dst, src []T) []T {
	for _, obj := range src {
		if obj.Enabled() {
			dst = append(dst, obj)
		}
	}
	return dst
}

func sortedKeys[T any](m map[int][]T) (keys []int) {
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return
}
