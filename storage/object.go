// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package storage implements per-thread warehouses of physics objects with
// active filtering, subdomain/boundary indexing, execution-flag partitioning
// and dependency ordering
package storage

// Object is the minimal capability set of a stored object
type Object interface {
	Name() string  // unique name; used in lookups and error messages
	Enabled() bool // current enabled state; may change at any time
}

// BlockRestricted objects run on the listed subdomains
type BlockRestricted interface {
	BlockIDs() []int
}

// BoundaryRestricted objects run on the listed boundaries. An object with a
// non-empty list of boundaries is never stored in the subdomain index
type BoundaryRestricted interface {
	BoundaryIDs() []int
}

// Dependent objects must run after the objects supplying the given names
type Dependent interface {
	DependsOn() []string
}

// Supplier objects supply names other objects may depend on. Objects not
// implementing this interface supply their own Name()
type Supplier interface {
	Supplies() []string
}

// Executable objects declare when they run
type Executable interface {
	ExecuteOn() []ExecFlag
}

// VariableDependent objects report the variables they read
type VariableDependent interface {
	VariableDeps() []int
}

// Setup is the set of lifecycle calls fanned out over active objects
type Setup interface {
	InitialSetup()
	TimestepSetup()
	SubdomainSetup()
	JacobianSetup()
	ResidualSetup()
}

// SetupBase implements Setup with no-ops; embed it and override what is needed
type SetupBase struct{}

func (SetupBase) InitialSetup()   {}
func (SetupBase) TimestepSetup()  {}
func (SetupBase) SubdomainSetup() {}
func (SetupBase) JacobianSetup()  {}
func (SetupBase) ResidualSetup()  {}

// supplies returns the names supplied by obj
func supplies[T Object](obj T) []string {
	if s, ok := any(obj).(Supplier); ok {
		return s.Supplies()
	}
	return []string{obj.Name()}
}

// dependsOn returns the names obj depends on
func dependsOn[T Object](obj T) []string {
	if d, ok := any(obj).(Dependent); ok {
		return d.DependsOn()
	}
	return nil
}

// boundaries returns the boundary restriction of obj; nil if not restricted
func boundaries[T Object](obj T) []int {
	if b, ok := any(obj).(BoundaryRestricted); ok {
		return b.BoundaryIDs()
	}
	return nil
}
