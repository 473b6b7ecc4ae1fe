// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// CouplingMatrix tells whether the residual of variable i depends on variable j
type CouplingMatrix struct {
	n    int    // number of variables
	data []bool // [n*n] row-major
}

// NewCouplingMatrix returns an n×n coupling matrix without any coupling
func NewCouplingMatrix(n int) (o *CouplingMatrix) {
	o = new(CouplingMatrix)
	o.n = n
	o.data = make([]bool, n*n)
	return
}

// FullCoupling returns a matrix where every variable depends on all others
func FullCoupling(n int) (o *CouplingMatrix) {
	o = NewCouplingMatrix(n)
	for k := range o.data {
		o.data[k] = true
	}
	return
}

// DiagonalCoupling returns a matrix where each variable only depends on itself
func DiagonalCoupling(n int) (o *CouplingMatrix) {
	o = NewCouplingMatrix(n)
	for i := 0; i < n; i++ {
		o.data[i*n+i] = true
	}
	return
}

// CouplingFromPairs returns a matrix with the diagonal plus the given (i,j) pairs set
func CouplingFromPairs(n int, pairs [][]int) (o *CouplingMatrix, err error) {
	o = DiagonalCoupling(n)
	for _, p := range pairs {
		if len(p) != 2 {
			return nil, chk.Err("coupling pair must have two entries; %v is invalid", p)
		}
		if p[0] < 0 || p[0] >= n || p[1] < 0 || p[1] >= n {
			return nil, chk.Err("coupling pair %v is out of range for %d variables", p, n)
		}
		o.Set(p[0], p[1], true)
	}
	return
}

// Size returns the number of variables
func (o *CouplingMatrix) Size() int { return o.n }

// Get returns the (i,j) coupling flag
func (o *CouplingMatrix) Get(i, j int) bool { return o.data[i*o.n+j] }

// Set sets the (i,j) coupling flag
func (o *CouplingMatrix) Set(i, j int, coupled bool) { o.data[i*o.n+j] = coupled }

// Entries returns the (i,j) pairs with nonzero coupling, column-major: the
// outer loop runs over j and the inner loop over i
func (o *CouplingMatrix) Entries() (entries [][2]int) {
	for j := 0; j < o.n; j++ {
		for i := 0; i < o.n; i++ {
			if o.data[i*o.n+j] {
				entries = append(entries, [2]int{i, j})
			}
		}
	}
	return
}

// Diagonal tells whether every nonzero entry lies on the diagonal
func (o *CouplingMatrix) Diagonal() bool {
	for i := 0; i < o.n; i++ {
		for j := 0; j < o.n; j++ {
			if i != j && o.data[i*o.n+j] {
				return false
			}
		}
	}
	return true
}

// String returns a 0/1 table
func (o *CouplingMatrix) String() (l string) {
	for i := 0; i < o.n; i++ {
		for j := 0; j < o.n; j++ {
			if o.Get(i, j) {
				l += io.Sf("%2d", 1)
			} else {
				l += io.Sf("%2d", 0)
			}
		}
		l += "\n"
	}
	return
}
