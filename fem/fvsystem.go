// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"sync"

	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/functor"
	"github.com/cpmech/goasm/fv"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// FvThread holds the mutable state used by one finite volume assembly goroutine
type FvThread struct {
	Vars  []*fv.Variable // [nfields] views owning the boundary conditions
	Faces []int          // indices of faces assembled by this thread
	Cells []int          // ids of cells assembled by this thread
	A     *asm.SysMatrix // partial system matrix
	B     *asm.SysVector // partial right-hand side
}

// FvSystem holds the linear finite volume system A φ = b of all fv
// variables. Nonlinear boundary conditions are handled by Picard iterations
type FvSystem struct {

	// init
	ShowMsg  bool             // show messages
	Prob     *inp.Problem     // input data
	Nthreads int              // number of assembly threads
	Cells    []*face.ElemInfo // [ncells] cell geometry
	Faces    []*face.Info     // all faces
	Fields   []*fv.Field      // [nfields] shared cell data of each variable
	N        int              // total number of dofs

	// threads and objects
	Threads     []*FvThread
	Fluxes      *storage.ExecWarehouse[*fv.FluxKernel]   // face kernels
	CellKernels *storage.ExecWarehouse[fv.CellKernel]    // volume kernels
	Bcs         *storage.Warehouse[fv.BoundaryCondition] // boundary conditions

	// solution
	T    float64   // current time
	Sol  []float64 // cell values
	Nit  int       // number of Picard iterations of the last solve
	Dmax float64   // largest change of the last Picard iteration
}

// NewFvSystem numbers the cells of all fv variables of prob and allocates
// kernels and boundary conditions for every thread
func NewFvSystem(prob *inp.Problem, verbose bool) (o *FvSystem, err error) {

	// init
	o = new(FvSystem)
	o.ShowMsg = verbose
	o.Prob = prob
	o.Nthreads = prob.Data.Nthreads
	o.Cells, o.Faces = prob.Msh.FvGeometry()

	// fields and dofs
	for _, dat := range prob.VarsOf(true) {
		f := fv.NewField(dat.Name, dat.Number, dat.Blocks)
		f.Method = dat.Method
		start := o.N
		for _, c := range o.Cells {
			if f.HasBlock(c.Subdomain) {
				f.SetDof(c, o.N)
				o.N++
			}
		}
		if o.N == start {
			return nil, chk.Err("variable %q has no cells on blocks %v", dat.Name, dat.Blocks)
		}
		f.SetupFaces(o.Faces)
		o.Fields = append(o.Fields, f)
	}
	o.Sol = make([]float64, o.N)
	for _, f := range o.Fields {
		f.SetSolution(o.Sol)
	}
	if o.ShowMsg {
		io.Pf("> Finite volume system: %d variables and %d dofs\n", len(o.Fields), o.N)
	}

	// threads
	o.Threads = make([]*FvThread, o.Nthreads)
	for tid := range o.Threads {
		th := &FvThread{A: asm.NewSysMatrix(o.N, o.N), B: asm.NewSysVector(o.N)}
		for _, f := range o.Fields {
			th.Vars = append(th.Vars, f.NewVariable())
		}
		o.Threads[tid] = th
	}
	for i := range o.Faces {
		o.Threads[i%o.Nthreads].Faces = append(o.Threads[i%o.Nthreads].Faces, i)
	}
	for i, c := range o.Cells {
		o.Threads[i%o.Nthreads].Cells = append(o.Threads[i%o.Nthreads].Cells, c.ID)
	}

	// boundary conditions and kernels
	if err = o.setBcs(); err != nil {
		return
	}
	if err = o.setKernels(); err != nil {
		return
	}
	return
}

// field returns the field named name or nil
func (o *FvSystem) field(name string) *fv.Field {
	for _, f := range o.Fields {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// setBcs allocates the boundary conditions of fv variables on every thread
func (o *FvSystem) setBcs() (err error) {
	o.Bcs = storage.NewWarehouse[fv.BoundaryCondition](o.Nthreads)
	for _, dat := range o.Prob.Bcs {
		if !isFv(dat.Type) {
			if o.field(dat.Var) != nil {
				return chk.Err("boundary condition %q: type %q cannot act on finite volume variable %q", dat.Name, dat.Type, dat.Var)
			}
			continue
		}
		f := o.field(dat.Var)
		if f == nil {
			return chk.Err("boundary condition %q: variable %q is not a finite volume variable", dat.Name, dat.Var)
		}
		for tid, th := range o.Threads {
			v := th.Vars[f.Number()]
			bc, err := o.newBc(dat, v)
			if err != nil {
				return err
			}
			if err = v.AddBC(bc); err != nil {
				return err
			}
			o.Bcs.AddObject(bc, tid)
		}
	}
	for tid := range o.Threads {
		if err = o.Bcs.Sort(tid); err != nil {
			return
		}
	}
	return
}

// newBc allocates one boundary condition acting on v
func (o *FvSystem) newBc(dat *inp.BcData, v *fv.Variable) (bc fv.BoundaryCondition, err error) {
	base := storage.Base{ObjName: dat.Name, Disabled: dat.Inact, Bnds: dat.Bnds}
	funcs := o.Prob.Functions
	cte := func(name string, def float64) functor.Functor {
		return functor.Constant{Value: inp.Prm(dat.Prms, name, def)}
	}
	fcn := func(name string, def float64) (functor.Functor, error) {
		g, err := funcs.Functor(dat.Fcn, inp.Prm(dat.Prms, name, def))
		if err != nil {
			return nil, chk.Err("boundary condition %q:\n%v", dat.Name, err)
		}
		return g, nil
	}
	var g functor.Functor
	switch dat.Type {
	case "fvdirichlet":
		if g, err = fcn("value", 0); err != nil {
			return
		}
		return fv.NewDirichletBC(base, v, g), nil
	case "fvneumann":
		if g, err = fcn("value", 0); err != nil {
			return
		}
		return fv.NewNeumannBC(base, v, g), nil
	case "fvrobin":
		if g, err = fcn("gamma", 0); err != nil {
			return
		}
		return fv.NewRobinBC(base, v, cte("alpha", 1), cte("beta", 0), g)
	case "fvoutflow":
		return fv.NewOutflowBC(base, v, GetFvOutflowFlags(dat.Extra)), nil
	case "fvconvective":
		if g, err = fcn("tinf", 0); err != nil {
			return
		}
		return fv.NewConvectiveBC(base, v, cte("k", 1), cte("h", 0), g)
	case "fvconjugate":
		other := o.field(dat.Coupled)
		if other == nil || other == v.Field {
			return nil, chk.Err("boundary condition %q: coupled variable %q must be another finite volume variable", dat.Name, dat.Coupled)
		}
		return fv.NewConvectiveBC(base, v, cte("k", 1), cte("h", 0), fv.Extrapolation{F: other})
	case "fvradiative":
		if g, err = fcn("tinf", 0); err != nil {
			return
		}
		return fv.NewRadiativeBC(base, v, cte("k", 1), g, dat.Emissivity)
	}
	return nil, chk.Err("boundary condition %q: type %q is invalid", dat.Name, dat.Type)
}

// setKernels allocates the kernels of fv variables on every thread
func (o *FvSystem) setKernels() (err error) {
	o.Fluxes = storage.NewExecWarehouse[*fv.FluxKernel](o.Nthreads)
	o.CellKernels = storage.NewExecWarehouse[fv.CellKernel](o.Nthreads)
	for _, dat := range o.Prob.Kernels {
		if !isFv(dat.Type) {
			if o.field(dat.Var) != nil {
				return chk.Err("kernel %q: type %q cannot act on finite volume variable %q", dat.Name, dat.Type, dat.Var)
			}
			continue
		}
		f := o.field(dat.Var)
		if f == nil {
			return chk.Err("kernel %q: variable %q is not a finite volume variable", dat.Name, dat.Var)
		}
		base := storage.Base{ObjName: dat.Name, Disabled: dat.Inact, Blocks: dat.Blocks, Flags: dat.Flags, Deps: dat.DependsOn}
		if len(base.Blocks) == 0 {
			base.Blocks = f.Blocks()
		}
		if len(base.Blocks) == 0 {
			base.Blocks = o.Prob.Msh.Subdomains
		}
		for tid, th := range o.Threads {
			v := th.Vars[f.Number()]
			switch dat.Type {
			case "fvdiffusion":
				D, err := o.Prob.Functions.Functor(dat.Fcn, inp.Prm(dat.Prms, "k", 1))
				if err != nil {
					return chk.Err("kernel %q:\n%v", dat.Name, err)
				}
				term := &fv.Diffusion{D: D, NonorthogonalCorrection: GetFvDiffusionFlags(dat.Extra)}
				o.Fluxes.AddObject(fv.NewFluxKernel(base, v, term), tid)
			case "fvadvection":
				method, err := GetFvAdvectionFlags(dat.Extra, f.Method)
				if err != nil {
					return chk.Err("kernel %q:\n%v", dat.Name, err)
				}
				vel := r3.Vec{X: inp.Prm(dat.Prms, "vx", 0), Y: inp.Prm(dat.Prms, "vy", 0)}
				term := &fv.Advection{Velocity: vel, Method: method}
				o.Fluxes.AddObject(fv.NewFluxKernel(base, v, term), tid)
			case "fvsource":
				S, err := o.Prob.Functions.Functor(dat.Fcn, inp.Prm(dat.Prms, "s", 0))
				if err != nil {
					return chk.Err("kernel %q:\n%v", dat.Name, err)
				}
				o.CellKernels.AddObject(&fv.Source{Base: base, Var: v, S: S}, tid)
			case "fvreaction":
				C, err := o.Prob.Functions.Functor(dat.Fcn, inp.Prm(dat.Prms, "c", 0))
				if err != nil {
					return chk.Err("kernel %q:\n%v", dat.Name, err)
				}
				o.CellKernels.AddObject(&fv.Reaction{Base: base, Var: v, C: C}, tid)
			default:
				return chk.Err("kernel %q: type %q is invalid", dat.Name, dat.Type)
			}
		}
	}
	for tid := range o.Threads {
		if err = o.Fluxes.Sort(tid); err != nil {
			return
		}
		if err = o.CellKernels.Sort(tid); err != nil {
			return
		}
	}
	if o.ShowMsg {
		io.Pf("%s", o.Fluxes.ActiveObjectsString(0, "> Flux kernel: "))
		io.Pf("%s", o.CellKernels.ActiveObjectsString(0, "> Cell kernel: "))
	}
	return
}

// SetIniVals sets the initial cell values
func (o *FvSystem) SetIniVals() (err error) {
	for _, f := range o.Fields {
		dat := o.Prob.GetVar(f.Name())
		ini, err := o.Prob.Functions.Functor(dat.IniFcn, dat.Init)
		if err != nil {
			return chk.Err("initial values of %q:\n%v", f.Name(), err)
		}
		for _, c := range o.Cells {
			if dof, ok := f.Dof(c.ID); ok {
				o.Sol[dof] = ini.AtElem(c, 0)
			}
		}
	}
	return
}

// Solve solves the system at time t. Cell gradients and nonlinear boundary
// conditions are updated between Picard iterations until the largest change
// of the cell values is smaller than FvTol
func (o *FvSystem) Solve(t float64) (err error) {
	o.T = t
	for _, f := range o.Fields {
		f.SetTime(t)
	}
	for tid := range o.Threads {
		o.Fluxes.TimestepSetup(tid)
		o.CellKernels.TimestepSetup(tid)
	}
	tol := o.Prob.Solver.FvTol
	for o.Nit = 1; o.Nit <= o.Prob.Solver.FvMaxIt; o.Nit++ {
		for _, v := range o.Threads[0].Vars {
			v.ComputeGradients(o.Faces)
		}
		A, b := o.Assemble()
		var x mat.VecDense
		if err = x.SolveVec(A, mat.NewVecDense(o.N, b)); err != nil {
			return chk.Err("cannot solve finite volume system at t=%g:\n%v", t, err)
		}
		o.Dmax = 0
		for i := range o.Sol {
			o.Dmax = math.Max(o.Dmax, math.Abs(x.AtVec(i)-o.Sol[i]))
			o.Sol[i] = x.AtVec(i)
		}
		if o.Prob.Data.ShowR {
			io.Pf("%13.6e%4d%23.15e\n", t, o.Nit, o.Dmax)
		}
		if o.Dmax < tol {
			return
		}
	}
	return chk.Err("finite volume system did not converge after %d iterations at t=%g; change = %g", o.Prob.Solver.FvMaxIt, t, o.Dmax)
}

// Assemble assembles A and b with the current solution. Each thread fills its
// own partial system; the partial systems are summed in thread order
func (o *FvSystem) Assemble() (A *mat.Dense, b []float64) {
	var wg sync.WaitGroup
	for tid := range o.Threads {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			o.assembleThread(tid)
		}(tid)
	}
	wg.Wait()
	A = mat.NewDense(o.N, o.N, nil)
	b = make([]float64, o.N)
	for _, th := range o.Threads {
		A.Add(A, th.A.Dense())
		floats.Add(b, th.B.Data)
	}
	return
}

// assembleThread assembles the faces and cells of thread tid
func (o *FvSystem) assembleThread(tid int) {
	th := o.Threads[tid]
	th.A.Zero()
	th.B.Zero()
	for _, idx := range th.Faces {
		fi := o.Faces[idx]
		for _, f := range residualFlags {
			for _, k := range o.Fluxes.Flag(f).ActiveObjects(tid) {
				if f == storage.ExecNonlinear && runsOn(k, storage.ExecLinear) {
					continue
				}
				// the variable's face type decides; the kernel blocks only select cells
				if !k.HasFaceSide(fi, true) && !k.HasFaceSide(fi, false) {
					continue
				}
				k.SetCurrentFaceInfo(fi)
				k.AddMatrixContribution(th.A)
				k.AddRightHandSideContribution(th.B)
			}
		}
	}
	for _, cid := range th.Cells {
		e := o.Cells[cid]
		for _, f := range residualFlags {
			for _, k := range o.CellKernels.Flag(f).ActiveBlockObjects(e.Subdomain, tid) {
				if f == storage.ExecNonlinear && runsOn(k, storage.ExecLinear) {
					continue
				}
				k.AddMatrixContribution(e, th.A)
				k.AddRightHandSideContribution(e, th.B)
			}
		}
	}
}

// Value returns the value of variable name at cell id
func (o *FvSystem) Value(name string, id int) (val float64, err error) {
	f := o.field(name)
	if f == nil || !f.Has(id) {
		return 0, chk.Err("finite volume variable %q is not defined on cell %d", name, id)
	}
	return f.Value(id), nil
}
