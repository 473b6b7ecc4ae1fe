// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"strings"
	"testing"

	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run reads and runs the problem in path
func run(tst *testing.T, path string) (main *Main) {
	main, err := NewMain(path, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, main.Run())
	return
}

// runJSON runs a problem given as JSON; nthreads > 0 overrides the number of threads
func runJSON(tst *testing.T, problem string, nthreads int) (main *Main) {
	prob, err := inp.ReadProblemBytes([]byte(problem))
	require.NoError(tst, err)
	if nthreads > 0 {
		prob.Data.Nthreads = nthreads
	}
	main, err = NewMainProblem(prob, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, main.Run())
	return
}

// checkVerts compares the values of a lagrange variable at all vertices with the exact solution
func checkVerts(tst *testing.T, main *Main, name string, tol float64, exact func(x []float64) float64) {
	vals, err := main.Dom.VertexValues(name)
	require.NoError(tst, err)
	for vid, v := range main.Prob.Msh.Verts {
		chk.Float64(tst, io.Sf("%s @ %v", name, v.C), tol, vals[vid], exact(v.C))
	}
}

const oneFcn = `{"name":"one", "type":"cte", "prms":[{"n":"c", "v":1}]}`

func Test_fe01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fe01. steady conduction with source and inflow")

	// -u'' = 2, u(0) = 0, -u'(1) = -1  =>  u = 3x - x²
	main := run(tst, "data/heat1d.json")
	assert.Nil(tst, main.Fv)
	chk.IntAssert(main.Dom.Ny, 5)
	exact := func(x []float64) float64 { return 3*x[0] - x[0]*x[0] }
	checkVerts(tst, main, "u", 1e-12, exact)

	// flux: constant in each cell
	for _, c := range main.Dom.Cells {
		M, err := main.Dom.IpsValues(c.Id)
		require.NoError(tst, err)
		x0, x1 := c.X[0][0], c.X[0][1]
		w := -(exact([]float64{x1}) - exact([]float64{x0})) / (x1 - x0)
		require.NotEmpty(tst, (*M)["wx"])
		for idx := range (*M)["wx"] {
			chk.Float64(tst, io.Sf("wx @ cell %d", c.Id), 1e-12, M.Get("wx", idx), w)
		}
	}

	// values per cell
	c := main.Dom.Cells[0]
	vals, err := main.Dom.CellValues("u", c.Id)
	require.NoError(tst, err)
	chk.Array(tst, "u @ cell 0", 1e-12, vals, []float64{exact([]float64{c.X[0][0]}), exact([]float64{c.X[0][1]})})
	_, err = main.Dom.CellValues("v", 0)
	assert.Error(tst, err)
	_, err = main.Dom.IpsValues(10)
	assert.Error(tst, err)
}

const plate = `{
  "data" : { "steady":true },
  "functions" : [ ` + oneFcn + ` ],
  "mesh" : { "type":"qua4", "xmin":[0,0], "xmax":[1,1], "ndiv":[4,4] },
  "variables" : [ { "name":"u" } ],
  "kernels" : [
    { "name":"cond", "type":"diffusion", "var":"u", "prms":[ {"n":"kx", "v":2}, {"n":"ky", "v":3} ] }
  ],
  "bcs" : [
    { "name":"left",  "type":"dirichlet", "var":"u", "bnds":[3] },
    { "name":"right", "type":"dirichlet", "var":"u", "bnds":[1], "fcn":"one" }
  ]
}`

const square = `{
  "data" : { "steady":true },
  "functions" : [ ` + oneFcn + ` ],
  "mesh" : { "type":"qua4", "xmin":[0,0], "xmax":[1,1], "ndiv":[5,4] },
  "variables" : [ { "name":"u" } ],
  "kernels" : [
    { "name":"cond", "type":"diffusion", "var":"u", "prms":[ {"n":"k", "v":1} ] },
    { "name":"heat", "type":"source", "var":"u", "fcn":"one" }
  ],
  "bcs" : [
    { "name":"walls", "type":"dirichlet", "var":"u", "bnds":[0,1,2,3] }
  ]
}`

func Test_fe02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fe02. 2D conduction and threads")

	// linear solution is reproduced exactly
	main := runJSON(tst, plate, 1)
	checkVerts(tst, main, "u", 1e-12, func(x []float64) float64 { return x[0] })
	chk.IntAssert(len(main.Dom.Threads), 1)

	// the same solution with any number of threads
	ref := runJSON(tst, square, 1)
	yref := append([]float64{}, ref.Dom.Sol.Y...)
	for _, nthreads := range []int{2, 3, 7} {
		main = runJSON(tst, square, nthreads)
		chk.IntAssert(len(main.Dom.Threads), nthreads)
		chk.Array(tst, io.Sf("y with %d threads", nthreads), 1e-13, main.Dom.Sol.Y, yref)
	}

	// interior values are positive and symmetric about x = 0.5
	vals, err := ref.Dom.VertexValues("u")
	require.NoError(tst, err)
	msh := ref.Prob.Msh
	for i, a := range msh.Verts {
		if a.C[0] > 0 && a.C[0] < 1 && a.C[1] > 0 && a.C[1] < 1 {
			assert.Greater(tst, vals[i], 0.0)
		}
		for j, b := range msh.Verts {
			if math.Abs(a.C[0]+b.C[0]-1) < 1e-12 && math.Abs(a.C[1]-b.C[1]) < 1e-12 {
				chk.Float64(tst, io.Sf("u(%v) == u(%v)", a.C, b.C), 1e-13, vals[i], vals[j])
			}
		}
	}
}

const transient = `{
  "data" : { "steady":false },
  "functions" : [ ` + oneFcn + ` ],
  "control" : { "tf":20, "dt":0.5 },
  "mesh" : { "type":"lin2", "xmin":[0], "xmax":[1], "ndiv":[4] },
  "variables" : [ { "name":"u", "init":0 } ],
  "kernels" : [
    { "name":"cond", "type":"diffusion", "var":"u", "prms":[ {"n":"k", "v":1}, {"n":"rho", "v":1} ] }
  ],
  "bcs" : [
    { "name":"left", "type":"dirichlet", "var":"u", "bnds":[0], "fcn":"one" }
  ]
}`

func Test_fe03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fe03. transient conduction")

	main := runJSON(tst, transient, 0)
	slv := main.Solver.(*SolverImplicit)
	chk.Float64(tst, "t", 1e-14, slv.T, 20)
	chk.Float64(tst, "sol.T", 1e-14, main.Dom.Sol.T, 20)
	chk.IntAssert(len(slv.Nit), 40)
	checkVerts(tst, main, "u", 1e-8, func(x []float64) float64 { return 1 })

	// the interior heats up monotonically: u decreases away from the hot end
	main = runJSON(tst, replace(tst, transient, `"tf":20`, `"tf":0.5`), 0)
	vals, err := main.Dom.VertexValues("u")
	require.NoError(tst, err)
	for vid, v := range main.Prob.Msh.Verts {
		if v.C[0] > 0 {
			assert.Less(tst, vals[vid], 1.0)
			assert.Greater(tst, vals[vid], 0.0)
		}
	}
}

const convection = `{
  "data" : { "steady":true },
  "functions" : [ ` + oneFcn + ` ],
  "mesh" : { "type":"lin2", "xmin":[0], "xmax":[1], "ndiv":[3] },
  "variables" : [ { "name":"u" } ],
  "kernels" : [
    { "name":"cond", "type":"diffusion", "var":"u", "prms":[ {"n":"k", "v":1} ] }
  ],
  "bcs" : [
    { "name":"left",  "type":"dirichlet",  "var":"u", "bnds":[0], "fcn":"one" },
    { "name":"right", "type":"convection", "var":"u", "bnds":[1], "prms":[ {"n":"h", "v":1} ] }
  ]
}`

func Test_fe04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fe04. convection")

	// -u'(1) = h (u(1) - 0)  =>  u = 1 - x/2
	main := runJSON(tst, convection, 2)
	checkVerts(tst, main, "u", 1e-12, func(x []float64) float64 { return 1 - x[0]/2 })
}

const dgbar = `{
  "data" : { "steady":true },
  "functions" : [ ` + oneFcn + ` ],
  "mesh" : { "type":"lin2", "xmin":[0], "xmax":[1], "ndiv":[4] },
  "variables" : [ { "name":"u", "family":"dg" } ],
  "kernels" : [
    { "name":"vol",  "type":"diffusion",   "var":"u", "prms":[ {"n":"k", "v":1} ] },
    { "name":"sipg", "type":"dgdiffusion", "var":"u", "prms":[ {"n":"k", "v":1} ] }
  ],
  "bcs" : [
    { "name":"left",  "type":"dgdirichlet", "var":"u", "bnds":[0] },
    { "name":"right", "type":"dgdirichlet", "var":"u", "bnds":[1], "fcn":"one" }
  ]
}`

func Test_fe05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fe05. discontinuous Galerkin")

	for _, nthreads := range []int{1, 2} {
		main := runJSON(tst, dgbar, nthreads)
		chk.IntAssert(main.Dom.Ny, 8)
		chk.IntAssert(len(main.Dom.Interior), 3)
		chk.IntAssert(len(main.Dom.Boundary), 2)
		assert.Nil(tst, main.Dom.VertDofs[0])
		for _, c := range main.Dom.Cells {
			vals, err := main.Dom.CellValues("u", c.Id)
			require.NoError(tst, err)
			chk.Array(tst, io.Sf("u @ cell %d", c.Id), 1e-10, vals, c.X[0])
		}
		_, err := main.Dom.VertexValues("u")
		assert.Error(tst, err)
	}
}

const periodic = `{
  "data" : { "steady":true },
  "functions" : [ ` + oneFcn + ` ],
  "mesh" : {
    "type":"qua4", "xmin":[0,0], "xmax":[1,1], "ndiv":[4,4],
    "subdomains" : [ { "id":1, "xmin":[0,0], "xmax":[0.5,1] } ]
  },
  "variables" : [ { "name":"u" } ],
  "kernels" : [
    { "name":"cond", "type":"diffusion", "var":"u", "prms":[ {"n":"k", "v":1} ] },
    { "name":"heat", "type":"source",    "var":"u", "fcn":"one", "blocks":[1] }
  ],
  "bcs" : [
    { "name":"bottom", "type":"dirichlet", "var":"u", "bnds":[0] },
    { "name":"top",    "type":"dirichlet", "var":"u", "bnds":[2] }
  ],
  "constraints" : [
    { "type":"periodic", "var":"u", "slave":3, "master":1 }
  ]
}`

func Test_fe06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fe06. periodic constraints")

	// largest difference between u(0,y) and u(1,y)
	gap := func(main *Main) (largest float64) {
		vals, err := main.Dom.VertexValues("u")
		require.NoError(tst, err)
		msh := main.Prob.Msh
		for _, s := range msh.BndVerts[3] {
			for _, m := range msh.BndVerts[1] {
				if math.Abs(msh.Verts[s].C[1]-msh.Verts[m].C[1]) < 1e-12 {
					largest = math.Max(largest, math.Abs(vals[s]-vals[m]))
				}
			}
		}
		return
	}

	// heating on the left half only
	main := runJSON(tst, periodic, 2)
	chk.IntAssert(len(main.Dom.Cons.Dofs()), 5)
	chk.Float64(tst, "gap", 1e-12, gap(main), 0)

	// without constraints the sides differ
	prob, err := inp.ReadProblemBytes([]byte(periodic))
	require.NoError(tst, err)
	prob.Constraints = nil
	free, err := NewMainProblem(prob, false)
	require.NoError(tst, err)
	require.NoError(tst, free.Run())
	assert.Nil(tst, free.Dom.Cons)
	assert.Greater(tst, gap(free), 1e-4)
}

func Test_fe07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fe07. errors")

	alloc := func(problem string) error {
		prob, err := inp.ReadProblemBytes([]byte(problem))
		require.NoError(tst, err)
		_, err = NewMainProblem(prob, false)
		return err
	}

	// solver type
	assert.Error(tst, alloc(replace(tst, convection, `"data" : { "steady":true }`, `"data" : { "steady":true }, "solver" : { "type":"unknown" }`)))

	// finite volume condition on a lagrange variable
	assert.Error(tst, alloc(replace(tst, convection, `"type":"convection"`, `"type":"fvconvective"`)))

	// finite volume kernel on a lagrange variable
	assert.Error(tst, alloc(replace(tst, convection, `"type":"diffusion"`, `"type":"fvdiffusion"`)))

	// unknown boundary condition
	assert.Error(tst, alloc(replace(tst, convection, `"type":"convection"`, `"type":"unknown"`)))

	// unknown kernel
	assert.Error(tst, alloc(replace(tst, convection, `"type":"diffusion"`, `"type":"unknown"`)))

	// essential condition on a dg variable
	assert.Error(tst, alloc(replace(tst, dgbar, `"type":"dgdirichlet", "var":"u", "bnds":[0]`, `"type":"dirichlet", "var":"u", "bnds":[0]`)))

	// missing function
	assert.Error(tst, alloc(replace(tst, convection, `"fcn":"one"`, `"fcn":"missing"`)))

	// cyclic dependencies
	cyclic := replace(tst, square, `"name":"heat", "type":"source", "var":"u", "fcn":"one"`, `"name":"heat", "type":"source", "var":"u", "fcn":"one", "depends_on":["cond"]`)
	assert.NoError(tst, alloc(cyclic))
	cyclic = replace(tst, cyclic, `"name":"cond", "type":"diffusion", "var":"u", "prms":[ {"n":"k", "v":1} ]`, `"name":"cond", "type":"diffusion", "var":"u", "prms":[ {"n":"k", "v":1} ], "depends_on":["heat"]`)
	err := alloc(cyclic)
	require.Error(tst, err)
	assert.Contains(tst, err.Error(), "heat")
}

// replace replaces the first occurrence of old in s by new; old must be found
func replace(tst *testing.T, s, old, new string) string {
	require.Contains(tst, s, old)
	return strings.Replace(s, old, new, 1)
}
