// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
)

func Test_cache01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cache01. repeated cached residual")

	u := &tvar{0, []int{0, 2, 4}, nil, 0.5}
	b := NewBlock([]Variable{u}, FullCoupling(1), nil)
	for k := 0; k < 5; k++ {
		b.Prepare()
		copy(b.Re(0), []float64{2, 4, 6})
		b.CacheResidualBlock(b.Re(0), u.Dofs(), u.Scaling())
		chk.Array(tst, "zeroed", 1e-15, b.Re(0), []float64{0, 0, 0})
		chk.IntAssert(b.ResidualCache().Len(), 3)

		res := NewSysVector(5)
		b.AddCachedResidual(res)
		chk.Array(tst, io.Sf("res%d", k), 1e-15, res.Data, []float64{1, 0, 2, 0, 3})
		chk.IntAssert(b.ResidualCache().Len(), 0)
		chk.IntAssert(b.ResidualCache().MaxSeen(), 3)
		assert.GreaterOrEqual(tst, b.ResidualCache().Cap(), 6)
	}
}

func Test_cache02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cache02. high-water mark")

	var c ResidualCache
	res := NewSysVector(10)
	sizes := []int{3, 7, 2, 5}
	hw := 0
	for _, n := range sizes {
		for i := 0; i < n; i++ {
			c.Append(i, 1)
		}
		if n > hw {
			hw = n
		}
		c.Flush(res)
		chk.IntAssert(c.MaxSeen(), hw)
		assert.GreaterOrEqual(tst, c.Cap(), hw)
		assert.GreaterOrEqual(tst, c.Cap(), 2*hw)
	}
	chk.Float64(tst, "res0", 1e-15, res.Data[0], 4)
	chk.Float64(tst, "res6", 1e-15, res.Data[6], 1)
}

func Test_cache03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cache03. repeated cached jacobian")

	u := &tvar{0, []int{1, 0}, nil, 2}
	b := NewBlock([]Variable{u}, FullCoupling(1), nil)
	var first [][]float64
	for k := 0; k < 4; k++ {
		b.Prepare()
		b.Kee(0, 0).Set(0, 0, 1)
		b.Kee(0, 0).Set(0, 1, 2)
		b.Kee(0, 0).Set(1, 1, 3)
		b.CacheJacobian()
		chk.IntAssert(b.JacobianCache().Len(), 4)
		jac := NewSysMatrix(2, 2)
		b.AddCachedJacobian(jac)
		K := denseValues(jac)
		if first == nil {
			first = K
		}
		chk.Deep2(tst, io.Sf("K%d", k), 1e-15, K, first)
		chk.IntAssert(b.JacobianCache().MaxSeen(), 4)
		assert.GreaterOrEqual(tst, b.JacobianCache().Cap(), 8)
	}
	chk.Array(tst, "K1", 1e-15, first[1], []float64{4, 2})
	chk.Array(tst, "K0", 1e-15, first[0], []float64{6, 0})
}
