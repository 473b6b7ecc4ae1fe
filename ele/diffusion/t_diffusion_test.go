// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"testing"

	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// problem reads a problem with one lagrange variable "u" numbered by vertices
func problem(tst *testing.T, mesh, kernels, bcs string, steady bool) (prob *inp.Problem, vars ele.Vars, cells []*ele.Cell, b *asm.Block) {
	data := `"data":{"steady":false}`
	if steady {
		data = `"data":{"steady":true}`
	}
	prob, err := inp.ReadProblemBytes([]byte(`{` + data + `,` + mesh + `,"variables":[{"name":"u"}],
		"kernels":[` + kernels + `],"bcs":[` + bcs + `]}`))
	require.NoError(tst, err)
	v := &ele.Var{Name: "u", Scale: 1, Family: inp.FamLagrange, Blocks: prob.Msh.Subdomains}
	for _, c := range prob.Msh.Cells {
		v.CellDofs = append(v.CellDofs, append([]int{}, c.Verts...))
		cells = append(cells, ele.NewCell(c, prob.Msh))
	}
	vars = ele.Vars{v}
	b = asm.NewBlock([]asm.Variable{v}, asm.FullCoupling(1), nil)
	return
}

// residual assembles the global residual of kernel k
func residual(tst *testing.T, k ele.Kernel, vars ele.Vars, cells []*ele.Cell, b *asm.Block, sol *ele.Solution) []float64 {
	R := asm.NewSysVector(len(sol.Y))
	for _, c := range cells {
		vars.Reinit(c.Id, -1)
		b.Prepare()
		require.NoError(tst, k.AddToResidual(b, c, sol))
		b.AddResidual(R)
	}
	return R.Data
}

// jacobian assembles the global Jacobian of kernel k
func jacobian(tst *testing.T, k ele.Kernel, vars ele.Vars, cells []*ele.Cell, b *asm.Block, sol *ele.Solution) *mat.Dense {
	n := len(sol.Y)
	J := asm.NewSysMatrix(n, n)
	for _, c := range cells {
		vars.Reinit(c.Id, -1)
		b.Prepare()
		require.NoError(tst, k.AddToJacobian(b, c, sol))
		b.AddJacobian(J)
	}
	return J.Dense()
}

// checkJacobian compares the analytical Jacobian with finite differences
func checkJacobian(tst *testing.T, k ele.Kernel, vars ele.Vars, cells []*ele.Cell, b *asm.Block, sol *ele.Solution, tol float64) {
	n := len(sol.Y)
	ana := jacobian(tst, k, vars, cells, b, sol)
	num := mat.NewDense(n, n, nil)
	y0 := append([]float64{}, sol.Y...)
	fd.Jacobian(num, func(f, y []float64) {
		copy(sol.Y, y)
		copy(f, residual(tst, k, vars, cells, b, sol))
	}, y0, &fd.JacobianSettings{Formula: fd.Central})
	copy(sol.Y, y0)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if chk.Verbose {
				io.Pf("K%d%d: ana = %v  num = %v\n", i, j, ana.At(i, j), num.At(i, j))
			}
			chk.Float64(tst, io.Sf("K%d%d", i, j), tol, ana.At(i, j), num.At(i, j))
		}
	}
}

const qua1 = `"mesh":{"type":"qua4","xmin":[0,0],"xmax":[2,1],"ndiv":[1,1]}`
const qua2 = `"mesh":{"type":"qua4","xmin":[0,0],"xmax":[2,2],"ndiv":[2,2]}`
const lin3 = `"mesh":{"type":"lin2","xmin":[0],"xmax":[3],"ndiv":[3]}`

func Test_diffusion01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("diffusion01. nonlinear transient Jacobian")

	prob, vars, cells, b := problem(tst, qua1,
		`{"name":"d","type":"diffusion","var":"u","fcn":"s","prms":[
			{"n":"a0","v":1},{"n":"a1","v":0.5},{"n":"a2","v":0.1},{"n":"rho","v":2},{"n":"kx","v":1},{"n":"ky","v":3}]}`,
		``, false)
	k, err := ele.New(prob.Kernels[0], prob, vars)
	require.Error(tst, err) // function "s" does not exist

	prob.Kernels[0].Fcn = ""
	k, err = ele.New(prob.Kernels[0], prob, vars)
	require.NoError(tst, err)
	chk.String(tst, k.Name(), "d")
	chk.Ints(tst, "blocks", k.(*Diffusion).BlockIDs(), []int{0})

	sol := ele.NewSolution(4, false)
	sol.Dt = 0.1
	copy(sol.Y, []float64{1, 2, 0.5, -1})
	copy(sol.Yold, []float64{0.8, 1.5, 0.4, -0.7})
	checkJacobian(tst, k, vars, cells, b, sol, 1e-7)

	// steady: time derivative vanishes
	sol.Steady = true
	R := residual(tst, k, vars, cells, b, sol)
	sum := 0.0
	for _, r := range R {
		sum += r
	}
	chk.Float64(tst, "ΣR (no sources)", 1e-13, sum, 0)
}

func Test_diffusion02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("diffusion02. patch test and fluxes")

	prob, vars, cells, b := problem(tst, qua2, `{"name":"d","type":"diffusion","var":"u","prms":[{"n":"k","v":2}]}`, ``, true)
	k, err := ele.New(prob.Kernels[0], prob, vars)
	require.NoError(tst, err)

	// u = 1 + 2x + 3y
	sol := ele.NewSolution(len(prob.Msh.Verts), true)
	for i, v := range prob.Msh.Verts {
		sol.Y[i] = 1 + 2*v.C[0] + 3*v.C[1]
	}
	R := residual(tst, k, vars, cells, b, sol)
	chk.Float64(tst, "R @ interior vertex", 1e-13, R[4], 0)

	// w = -k ∇u
	M := ele.NewIpsMap()
	vars.Reinit(3, -1)
	require.NoError(tst, k.(ele.CanOutputIps).OutIpVals(M, cells[3], sol))
	chk.Strings(tst, "keys", M.Keys(), []string{"wx", "wy"})
	for idx := 0; idx < 4; idx++ {
		chk.Float64(tst, "wx", 1e-14, M.Get("wx", idx), -4)
		chk.Float64(tst, "wy", 1e-14, M.Get("wy", idx), -6)
	}
	chk.Float64(tst, "missing", 1e-15, M.Get("wz", 0), 0)
}

func Test_diffusion03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("diffusion03. 1D conduction with natural and essential bcs")

	// -u'' = 0 on [0,3]; u(0) = 1; outward flux on the right qn = -2 => u = 1 + 2x
	prob, vars, cells, b := problem(tst, lin3, `{"name":"d","type":"diffusion","var":"u","prms":[{"n":"k","v":1}]}`,
		`{"name":"left","type":"dirichlet","var":"u","bnds":[0],"fcn":"one"},
		 {"name":"right","type":"flux","var":"u","bnds":[1],"fcn":"qn"}`, true)
	prob.Functions = inp.FuncsData{
		{Name: "one", Type: "cte", Prms: dbf.Params{&dbf.P{N: "c", V: 1}}},
		{Name: "qn", Type: "cte", Prms: dbf.Params{&dbf.P{N: "c", V: -2}}},
	}
	k, err := ele.New(prob.Kernels[0], prob, vars)
	require.NoError(tst, err)
	nbc, err := ele.NewNaturalBc(prob.Bcs[1], prob, vars)
	require.NoError(tst, err)
	ebc, err := ele.NewEssentialBc(prob.Bcs[0], prob, vars[0], []int{0, 1, 2, 3})
	require.NoError(tst, err)
	chk.Ints(tst, "ebc dofs", ebc.Dofs, []int{0})

	// Newton iteration (linear problem: one step)
	n := len(prob.Msh.Verts)
	sol := ele.NewSolution(n, true)
	ebc.SetValues(sol)
	R := asm.NewSysVector(n)
	J := asm.NewSysMatrix(n, n)
	for _, c := range cells {
		vars.Reinit(c.Id, -1)
		b.Prepare()
		require.NoError(tst, k.AddToResidual(b, c, sol))
		require.NoError(tst, k.AddToJacobian(b, c, sol))
		for iface, bnd := range c.FaceBnds {
			if bnd == 1 {
				require.NoError(tst, nbc.AddToResidualFace(b, c, iface, sol))
				require.NoError(tst, nbc.AddToJacobianFace(b, c, iface, sol))
			}
		}
		b.AddResidual(R)
		b.AddJacobian(J)
	}
	ebc.SetResidual(b, R, sol)
	ebc.SetJacobian(J)
	chk.Float64(tst, "R0", 1e-15, R.Data[0], 0)
	chk.Float64(tst, "R3", 1e-15, R.Data[3], -2)

	var du mat.VecDense
	rhs := mat.NewVecDense(n, nil)
	for i := range R.Data {
		rhs.SetVec(i, -R.Data[i])
	}
	require.NoError(tst, du.SolveVec(J.Dense(), rhs))
	for i := range sol.Y {
		sol.Y[i] += du.AtVec(i)
	}
	chk.Array(tst, "u", 1e-13, sol.Y, []float64{1, 3, 5, 7})
}

func Test_diffusion04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("diffusion04. advection and convection Jacobians")

	prob, vars, cells, b := problem(tst, qua1,
		`{"name":"a","type":"advection","var":"u","prms":[{"n":"vx","v":1.5},{"n":"vy","v":-0.5},{"n":"rho","v":3}]}`,
		`{"name":"c","type":"convection","var":"u","bnds":[1,2],"prms":[{"n":"h","v":4}]}`, false)
	k, err := ele.New(prob.Kernels[0], prob, vars)
	require.NoError(tst, err)
	sol := ele.NewSolution(4, false)
	sol.Dt = 0.5
	copy(sol.Y, []float64{1, 2, 0.5, -1})
	copy(sol.Yold, []float64{0.8, 1.5, 0.4, -0.7})
	checkJacobian(tst, k, vars, cells, b, sol, 1e-8)

	// uniform field is not advected
	copy(sol.Y, []float64{2, 2, 2, 2})
	copy(sol.Yold, sol.Y)
	chk.Array(tst, "R", 1e-14, residual(tst, k, vars, cells, b, sol), []float64{0, 0, 0, 0})

	// convection on the right (x=2) and top (y=1) faces: R = ∫ h (u - 0) S dΓ
	nbc, err := ele.NewNaturalBc(prob.Bcs[0], prob, vars)
	require.NoError(tst, err)
	chk.Ints(tst, "bnds", nbc.BoundaryIDs(), []int{1, 2})
	R := asm.NewSysVector(4)
	vars.Reinit(0, -1)
	b.Prepare()
	for iface, bnd := range cells[0].FaceBnds {
		if bnd == 1 || bnd == 2 {
			require.NoError(tst, nbc.AddToResidualFace(b, cells[0], iface, sol))
		}
	}
	b.AddResidual(R)
	// right face has length 1 and top face has length 2; u = 2
	// vertex 1 (2,0): right only => h u L/2 = 4
	// vertex 2 (2,1): both => 4 + 8 = 12; vertex 3 (0,1): top only => 8
	chk.Array(tst, "R", 1e-13, R.Data, []float64{0, 4, 8, 12})

	// errors
	_, err = ele.NewNaturalBc(&inp.BcData{Name: "x", Type: "convection", Var: "u", Bnds: []int{0}}, prob, vars)
	require.Error(tst, err)
	_, err = ele.NewNaturalBc(&inp.BcData{Name: "x", Type: "slip", Var: "u", Bnds: []int{0}}, prob, vars)
	require.Error(tst, err)
	_, err = ele.New(&inp.KernelData{Name: "x", Type: "unknown", Var: "u"}, prob, vars)
	require.Error(tst, err)
	_, err = ele.New(&inp.KernelData{Name: "x", Type: "diffusion", Var: "u"}, prob, vars)
	require.Error(tst, err) // missing k
}
