// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "github.com/cpmech/gosl/chk"

// ResidualCache holds deferred (row, value) residual entries. After each
// flush the buffers are cleared and reserved to twice the largest number of
// entries seen so far
type ResidualCache struct {
	rows    []int
	vals    []float64
	maxSeen int
}

// Append appends one entry
func (o *ResidualCache) Append(row int, val float64) {
	o.rows = append(o.rows, row)
	o.vals = append(o.vals, val)
}

// Len returns the number of pending entries
func (o *ResidualCache) Len() int { return len(o.vals) }

// Cap returns the reserved capacity
func (o *ResidualCache) Cap() int { return cap(o.vals) }

// MaxSeen returns the high-water mark of pending entries over all flushes
func (o *ResidualCache) MaxSeen() int { return o.maxSeen }

// Flush scatters all pending entries into res and resets the cache
func (o *ResidualCache) Flush(res Vector) {
	if DebugChecks && len(o.rows) != len(o.vals) {
		chk.Panic("number of cached residuals (%d) and number of rows (%d) must match", len(o.vals), len(o.rows))
	}
	if len(o.vals) > 0 {
		res.AddVector(o.rows, o.vals)
	}
	if o.maxSeen < len(o.vals) {
		o.maxSeen = len(o.vals)
	}
	o.rows = reserveInts(o.rows, 2*o.maxSeen)
	o.vals = reserveFloats(o.vals, 2*o.maxSeen)
}

// JacobianCache holds deferred (row, col, value) Jacobian entries with the
// same growth policy as ResidualCache
type JacobianCache struct {
	rows    []int
	cols    []int
	vals    []float64
	maxSeen int
}

// Append appends one entry
func (o *JacobianCache) Append(row, col int, val float64) {
	o.rows = append(o.rows, row)
	o.cols = append(o.cols, col)
	o.vals = append(o.vals, val)
}

// Len returns the number of pending entries
func (o *JacobianCache) Len() int { return len(o.vals) }

// Cap returns the reserved capacity
func (o *JacobianCache) Cap() int { return cap(o.vals) }

// MaxSeen returns the high-water mark of pending entries over all flushes
func (o *JacobianCache) MaxSeen() int { return o.maxSeen }

// Flush scatters all pending entries into jac and resets the cache
func (o *JacobianCache) Flush(jac Matrix) {
	if DebugChecks && (len(o.rows) != len(o.cols) || len(o.rows) != len(o.vals)) {
		chk.Panic("cached jacobian sizes must be the same: rows=%d cols=%d vals=%d", len(o.rows), len(o.cols), len(o.vals))
	}
	if len(o.vals) > 0 {
		jac.AddEntries(o.rows, o.cols, o.vals)
	}
	if o.maxSeen < len(o.vals) {
		o.maxSeen = len(o.vals)
	}
	o.rows = reserveInts(o.rows, 2*o.maxSeen)
	o.cols = reserveInts(o.cols, 2*o.maxSeen)
	o.vals = reserveFloats(o.vals, 2*o.maxSeen)
}

// reserveInts clears v keeping at least n capacity
func reserveInts(v []int, n int) []int {
	if cap(v) < n {
		return make([]int, 0, n)
	}
	return v[:0]
}

// reserveFloats clears v keeping at least n capacity
func reserveFloats(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, 0, n)
	}
	return v[:0]
}
