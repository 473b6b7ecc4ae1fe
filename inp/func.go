// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/goasm/functor"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
)

// FuncData holds function definition
type FuncData struct {
	Name string     `json:"name"` // name of function. ex: zero, tinf, myfunction1, etc.
	Type string     `json:"type"` // type of function. ex: cte, rmp, bicubic
	Prms dbf.Params `json:"prms"` // parameters

	// tabulated data for type "bicubic": Table[i][j] = y(X1[i], X2[j])
	X1    []float64   `json:"x1"`    // first (x) coordinates
	X2    []float64   `json:"x2"`    // second (y) coordinates
	Table [][]float64 `json:"table"` // values
}

// FuncsData holds functions
type FuncsData []*FuncData

// Get returns function by name
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "zero" || name == "none" {
		fcn = &dbf.Cte{C: 0}
		return
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = f.alloc()
			if err != nil {
				err = chk.Err("cannot get function named %q because of the following error:\n%v", name, err)
			}
			return
		}
	}
	err = chk.Err("cannot find function named %q\n", name)
	return
}

// Functor returns the function named name as a space-time functor. An empty
// name gives the constant def
func (o FuncsData) Functor(name string, def float64) (functor.Functor, error) {
	if name == "" {
		return functor.Constant{Value: def}, nil
	}
	if name == "zero" || name == "none" {
		return functor.Constant{}, nil
	}
	f, err := o.Get(name)
	if err != nil {
		return nil, err
	}
	if t, ok := f.(*tableFunc); ok {
		return t.tab, nil
	}
	return functor.NewFunc(f), nil
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////////

// alloc allocates the function; gosl panics on unknown types are returned as errors
func (o FuncData) alloc() (fcn dbf.T, err error) {
	if o.Type == "bicubic" {
		tab, err := functor.NewBicubic(o.X1, o.X2, o.Table)
		if err != nil {
			return nil, err
		}
		return &tableFunc{tab}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			fcn, err = nil, chk.Err("%v", r)
		}
	}()
	return dbf.New(o.Type, o.Prms), nil
}

// tableFunc is a time-independent function y(x, y) sampled from a table
type tableFunc struct {
	tab *functor.Bicubic
}

func (o *tableFunc) Init(prms dbf.Params) {}
func (o *tableFunc) G(t float64, x []float64) float64 { return 0 }
func (o *tableFunc) H(t float64, x []float64) float64 { return 0 }
func (o *tableFunc) F(t float64, x []float64) float64 { return o.tab.Sample(coord(x, 0), coord(x, 1)) }
func (o *tableFunc) Grad(v []float64, t float64, x []float64) {
	fd.Gradient(v, func(y []float64) float64 { return o.F(t, y) }, x, nil)
}

// coord returns x[i] or zero if x has fewer components
func coord(x []float64, i int) float64 {
	if i < len(x) {
		return x[i]
	}
	return 0
}

// String prints one function
func (o FuncData) String() string {
	l := io.Sf("    {\n      \"name\":%q, \"type\":%q, \"prms\" : [\n", o.Name, o.Type)
	for i, p := range o.Prms {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("        {\"n\":%q, \"v\":%g}", p.N, p.V)
	}
	return l + "\n      ]\n    }"
}

// String prints functions
func (o FuncsData) String() string {
	if len(o) == 0 {
		return "  \"functions\" : []"
	}
	l := "  \"functions\" : [\n"
	for i, f := range o {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("%v", f)
	}
	l += "\n  ]"
	return l
}
