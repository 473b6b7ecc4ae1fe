// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"sort"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// Vector is the global residual (or right-hand side) vector. Implementations
// must be safe for concurrent use by all assembly threads
type Vector interface {
	AddVector(rows []int, vals []float64)    // accumulates vals[k] into rows[k]
	InsertVector(rows []int, vals []float64) // overwrites rows[k] with vals[k]
}

// Matrix is the global sparse Jacobian (or system matrix). Implementations
// must be safe for concurrent use by all assembly threads
type Matrix interface {
	AddMatrix(rows, cols []int, k *Mat)           // accumulates k[a][b] into (rows[a], cols[b])
	AddEntries(rows, cols []int, vals []float64) // accumulates vals[k] into (rows[k], cols[k])
}

// SysVector implements Vector with a plain slice guarded by a mutex
type SysVector struct {
	mu   sync.Mutex
	Data []float64
}

// NewSysVector returns a zeroed global vector
func NewSysVector(n int) *SysVector {
	return &SysVector{Data: make([]float64, n)}
}

// AddVector accumulates values
func (o *SysVector) AddVector(rows []int, vals []float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, r := range rows {
		o.Data[r] += vals[k]
	}
}

// InsertVector overwrites values
func (o *SysVector) InsertVector(rows []int, vals []float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, r := range rows {
		o.Data[r] = vals[k]
	}
}

// Zero clears all values
func (o *SysVector) Zero() {
	o.mu.Lock()
	clear(o.Data)
	o.mu.Unlock()
}

// SysMatrix implements Matrix by collecting (i,j,x) entries that are turned
// into a la.Triplet when the assembly is finished. Duplicated entries are
// summed by the triplet conversion
type SysMatrix struct {
	mu    sync.Mutex
	m, n  int
	rows  []int
	cols  []int
	vals  []float64
	zrows map[int]float64 // rows replaced by diag*δij
}

// NewSysMatrix returns an empty m×n global matrix
func NewSysMatrix(m, n int) *SysMatrix {
	return &SysMatrix{m: m, n: n}
}

// Size returns the dimensions
func (o *SysMatrix) Size() (m, n int) { return o.m, o.n }

// AddMatrix accumulates a dense block
func (o *SysMatrix) AddMatrix(rows, cols []int, k *Mat) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for a, i := range rows {
		for b, j := range cols {
			o.rows = append(o.rows, i)
			o.cols = append(o.cols, j)
			o.vals = append(o.vals, k.At(a, b))
		}
	}
}

// AddEntries accumulates individual entries
func (o *SysMatrix) AddEntries(rows, cols []int, vals []float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rows = append(o.rows, rows...)
	o.cols = append(o.cols, cols...)
	o.vals = append(o.vals, vals...)
}

// ZeroRows discards everything assembled into the given rows and puts diag
// on their diagonal. Entries added afterwards into these rows are discarded too
func (o *SysMatrix) ZeroRows(rows []int, diag float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.zrows == nil {
		o.zrows = make(map[int]float64)
	}
	for _, r := range rows {
		o.zrows[r] = diag
	}
}

// Zero removes all entries
func (o *SysMatrix) Zero() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rows = o.rows[:0]
	o.cols = o.cols[:0]
	o.vals = o.vals[:0]
	o.zrows = nil
}

// Len returns the number of stored (possibly repeated) entries
func (o *SysMatrix) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.vals)
}

// Triplet returns the assembled matrix in triplet format
func (o *SysMatrix) Triplet() (t *la.Triplet) {
	o.mu.Lock()
	defer o.mu.Unlock()
	t = new(la.Triplet)
	t.Init(o.m, o.n, len(o.vals)+len(o.zrows))
	for k, i := range o.rows {
		if _, zeroed := o.zrows[i]; zeroed {
			continue
		}
		t.Put(i, o.cols[k], o.vals[k])
	}
	zr := make([]int, 0, len(o.zrows))
	for r := range o.zrows {
		zr = append(zr, r)
	}
	sort.Ints(zr)
	for _, r := range zr {
		t.Put(r, r, o.zrows[r])
	}
	return
}

// Dense returns the assembled matrix as a gonum dense matrix
func (o *SysMatrix) Dense() *mat.Dense {
	if o.m == 0 || o.n == 0 {
		chk.Panic("cannot convert empty %d×%d matrix to dense", o.m, o.n)
	}
	a := o.Triplet().ToDense()
	d := mat.NewDense(o.m, o.n, nil)
	for i := 0; i < o.m; i++ {
		for j := 0; j < o.n; j++ {
			d.Set(i, j, a.Get(i, j))
		}
	}
	return d
}
