// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

// Base holds the declarations every stored object makes at construction.
// Embed it to implement Object, BlockRestricted, BoundaryRestricted,
// Executable and Dependent
type Base struct {
	ObjName  string     // unique name
	Disabled bool       // disabled objects are excluded from active lists
	Blocks   []int      // subdomains the object runs on
	Bnds     []int      // boundaries the object runs on
	Flags    []ExecFlag // when the object runs
	Deps     []string   // names of objects that must run first
}

// Name returns the object name
func (o *Base) Name() string { return o.ObjName }

// Enabled tells whether the object is enabled
func (o *Base) Enabled() bool { return !o.Disabled }

// SetEnabled enables or disables the object. Warehouses only see the change
// after UpdateActive
func (o *Base) SetEnabled(enabled bool) { o.Disabled = !enabled }

// BlockIDs returns the subdomains
func (o *Base) BlockIDs() []int { return o.Blocks }

// BoundaryIDs returns the boundaries
func (o *Base) BoundaryIDs() []int { return o.Bnds }

// ExecuteOn returns the execution flags
func (o *Base) ExecuteOn() []ExecFlag { return o.Flags }

// DependsOn returns the dependencies
func (o *Base) DependsOn() []string { return o.Deps }
