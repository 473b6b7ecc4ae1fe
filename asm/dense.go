// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Mat is a small dense row-major matrix used for local Jacobian blocks.
// Unlike mat.Dense, it may have zero rows or columns; this happens whenever
// a variable is not defined on the current element or side.
type Mat struct {
	M, N int       // dimensions
	Data []float64 // [M*N] row-major values
}

// Resize sets the dimensions of the matrix and zeroes all values. The
// underlying storage is reused if it is large enough
func (o *Mat) Resize(m, n int) {
	o.M, o.N = m, n
	sz := m * n
	if cap(o.Data) < sz {
		o.Data = make([]float64, sz)
		return
	}
	o.Data = o.Data[:sz]
	clear(o.Data)
}

// Zero sets all values to zero
func (o *Mat) Zero() { clear(o.Data) }

// Empty tells whether the matrix has no entries
func (o *Mat) Empty() bool { return o.M == 0 || o.N == 0 }

// At returns the (i,j) value
func (o *Mat) At(i, j int) float64 { return o.Data[i*o.N+j] }

// Set sets the (i,j) value
func (o *Mat) Set(i, j int, v float64) { o.Data[i*o.N+j] = v }

// Add adds v to the (i,j) value
func (o *Mat) Add(i, j int, v float64) { o.Data[i*o.N+j] += v }

// Scale multiplies all values by s
func (o *Mat) Scale(s float64) { floats.Scale(s, o.Data) }

// CopyFrom resizes o to match a and copies its values
func (o *Mat) CopyFrom(a *Mat) {
	o.Resize(a.M, a.N)
	copy(o.Data, a.Data)
}

// Dense returns a gonum view sharing o's data; nil if empty
func (o *Mat) Dense() *mat.Dense {
	if o.Empty() {
		return nil
	}
	return mat.NewDense(o.M, o.N, o.Data)
}

// String returns a formatted table
func (o *Mat) String() (l string) {
	for i := 0; i < o.M; i++ {
		for j := 0; j < o.N; j++ {
			l += io.Sf("%13.6e", o.At(i, j))
		}
		l += "\n"
	}
	return
}

// resizeVec resizes v to n zeroed entries, reusing its storage when possible
func resizeVec(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	v = v[:n]
	clear(v)
	return v
}
