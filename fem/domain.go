// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"
	"strings"

	"github.com/cpmech/goasm/asm"
	"github.com/cpmech/goasm/dg"
	"github.com/cpmech/goasm/ele"
	"github.com/cpmech/goasm/inp"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Thread holds the mutable state used by one assembly goroutine
type Thread struct {
	Vars   ele.Vars   // views of all variables; Reinit selects the current cell
	Block  *asm.Block // local residual and Jacobian buffers
	Cells  []int      // ids of cells assembled by this thread
	Faces  []int      // indices of interior dg faces assembled by this thread
	Bfaces []int      // indices of boundary dg faces assembled by this thread
}

// Domain holds the finite element (lagrange and dg) system: variables, dof
// numbering, kernels stored per thread, and the global residual and Jacobian
type Domain struct {

	// init
	Verbose  bool                // verbose
	ShowMsg  bool                // show messages
	Prob     *inp.Problem        // input data
	Msh      *inp.Mesh           // mesh
	Nthreads int                 // number of assembly threads
	Cells    []*ele.Cell         // [ncells] all cells with coordinates
	Vars     ele.Vars            // master variables; never reinitialised
	VertDofs [][]int             // [nvars][nverts] dofs of lagrange variables at vertices; -1 means none. nil for dg variables
	Ny       int                 // total number of dofs
	Cm       *asm.CouplingMatrix // coupling between variables
	Cons     *asm.Constraints    // periodic and hanging dof constraints; may be nil

	// dg faces
	Interior []*dg.Face // interior faces
	Boundary []*dg.Face // boundary faces

	// threads and kernels
	Threads     []*Thread
	Kernels     *storage.ExecWarehouse[ele.Kernel]     // volume kernels
	BndKernels  *storage.Warehouse[ele.BoundaryKernel] // natural boundary conditions
	FaceKernels *storage.ExecWarehouse[dg.FaceKernel]  // interior face kernels
	DgBcs       *storage.Warehouse[dg.FaceKernel]      // weak boundary conditions of dg variables
	EssenBcs    []*ele.EssentialBc                     // essential boundary conditions

	// solution and global system
	Sol *ele.Solution  // solution state
	R   *asm.SysVector // residual
	J   *asm.SysMatrix // Jacobian == dR/dy
}

// NewDomain numbers the dofs of all finite element variables of prob and
// allocates kernels and boundary conditions for every thread
func NewDomain(prob *inp.Problem, verbose bool) (o *Domain, err error) {

	// init
	o = new(Domain)
	o.Verbose = verbose
	o.ShowMsg = verbose
	o.Prob = prob
	o.Msh = prob.Msh
	o.Nthreads = prob.Data.Nthreads
	o.Cells = make([]*ele.Cell, len(o.Msh.Cells))
	for i, c := range o.Msh.Cells {
		o.Cells[i] = ele.NewCell(c, o.Msh)
	}

	// variables and dofs
	if err = o.numberDofs(); err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> Domain: %d variables and %d dofs\n", len(o.Vars), o.Ny)
	}

	// coupling and constraints
	if err = o.setCoupling(); err != nil {
		return
	}
	if err = o.setConstraints(); err != nil {
		return
	}

	// dg faces
	for _, v := range o.Vars {
		if v.Family == inp.FamDG {
			o.Interior, o.Boundary, err = dg.BuildFaces(o.Cells, 0)
			if err != nil {
				return nil, chk.Err("cannot build faces of dg variable %q:\n%v", v.Name, err)
			}
			break
		}
	}

	// threads
	o.Threads = make([]*Thread, o.Nthreads)
	for tid := range o.Threads {
		th := &Thread{Vars: o.Vars.Clone()}
		avars := make([]asm.Variable, len(th.Vars))
		for i, v := range th.Vars {
			avars[i] = v
		}
		th.Block = asm.NewBlock(avars, o.Cm, o.Cons)
		o.Threads[tid] = th
	}
	for i, c := range o.Cells {
		o.Threads[i%o.Nthreads].Cells = append(o.Threads[i%o.Nthreads].Cells, c.Id)
	}
	for i := range o.Interior {
		o.Threads[i%o.Nthreads].Faces = append(o.Threads[i%o.Nthreads].Faces, i)
	}
	for i := range o.Boundary {
		o.Threads[i%o.Nthreads].Bfaces = append(o.Threads[i%o.Nthreads].Bfaces, i)
	}

	// kernels and boundary conditions
	if err = o.setKernels(); err != nil {
		return
	}
	if err = o.setBcs(); err != nil {
		return
	}

	// solution and global system
	o.Sol = ele.NewSolution(o.Ny, prob.Data.Steady)
	o.R = asm.NewSysVector(o.Ny)
	o.J = asm.NewSysMatrix(o.Ny, o.Ny)
	return
}

// numberDofs numbers the dofs variable by variable. Vertices shared by cells
// get one dof of each lagrange variable; dg variables get one dof per cell vertex
func (o *Domain) numberDofs() (err error) {
	for _, dat := range o.Prob.VarsOf(false) {
		blocks := dat.Blocks
		if len(blocks) == 0 {
			blocks = o.Msh.Subdomains
		}
		v := &ele.Var{Name: dat.Name, Num: dat.Number, Scale: dat.Scaling, Family: dat.Family, Blocks: blocks}
		v.CellDofs = make([][]int, len(o.Msh.Cells))
		var vdofs []int
		if dat.Family == inp.FamLagrange {
			vdofs = utl.IntVals(len(o.Msh.Verts), -1)
		}
		start := o.Ny
		for _, c := range o.Msh.Cells {
			if utl.IntIndexSmall(blocks, c.Subdomain) < 0 {
				continue
			}
			dofs := make([]int, len(c.Verts))
			for k, vid := range c.Verts {
				if vdofs == nil {
					dofs[k] = o.Ny
					o.Ny++
					continue
				}
				if vdofs[vid] < 0 {
					vdofs[vid] = o.Ny
					o.Ny++
				}
				dofs[k] = vdofs[vid]
			}
			v.CellDofs[c.Id] = dofs
		}
		if o.Ny == start {
			return chk.Err("variable %q has no dofs on blocks %v", dat.Name, blocks)
		}
		o.Vars = append(o.Vars, v)
		o.VertDofs = append(o.VertDofs, vdofs)
	}
	return
}

// setCoupling sets the coupling matrix; variables are only coupled to
// themselves unless pairs are given
func (o *Domain) setCoupling() (err error) {
	n := len(o.Vars)
	if len(o.Prob.Coupling) == 0 {
		o.Cm = asm.DiagonalCoupling(n)
		return
	}
	var pairs [][]int
	for _, p := range o.Prob.Coupling {
		a, b := o.Vars.Get(p[0]), o.Vars.Get(p[1])
		if a == nil || b == nil {
			continue // finite volume pair
		}
		pairs = append(pairs, []int{a.Num, b.Num})
	}
	o.Cm, err = asm.CouplingFromPairs(n, pairs)
	return
}

// setConstraints sets periodic and hanging dof constraints
func (o *Domain) setConstraints() (err error) {
	if len(o.Prob.Constraints) == 0 {
		return
	}
	o.Cons = asm.NewConstraints()
	for i, c := range o.Prob.Constraints {
		v := o.Vars.Get(c.Var)
		vdofs := o.VertDofs[v.Num]
		dof := func(vid int) (int, error) {
			if vid < 0 || vid >= len(vdofs) || vdofs[vid] < 0 {
				return -1, chk.Err("constraint %d: vertex %d has no dof of %q", i, vid, c.Var)
			}
			return vdofs[vid], nil
		}
		switch c.Type {
		case "periodic":
			slaves := o.sortedBndVerts(c.Slave)
			masters := o.sortedBndVerts(c.Master)
			if len(slaves) == 0 || len(slaves) != len(masters) {
				return chk.Err("constraint %d: boundaries %d and %d must have the same positive number of vertices; %d != %d", i, c.Slave, c.Master, len(slaves), len(masters))
			}
			for k := range slaves {
				s, err := dof(slaves[k])
				if err != nil {
					return err
				}
				m, err := dof(masters[k])
				if err != nil {
					return err
				}
				if err = o.Cons.AddPeriodic(s, m); err != nil {
					return chk.Err("constraint %d:\n%v", i, err)
				}
			}
		case "hanging":
			d, err := dof(c.Vert)
			if err != nil {
				return err
			}
			parents := make([]int, len(c.Parents))
			for k, p := range c.Parents {
				if parents[k], err = dof(p); err != nil {
					return err
				}
			}
			if err = o.Cons.AddHanging(d, parents, c.Weights); err != nil {
				return chk.Err("constraint %d:\n%v", i, err)
			}
		}
	}
	if o.ShowMsg {
		io.Pf("> Constraints: %v\n", o.Cons.Dofs())
	}
	return
}

// sortedBndVerts returns the vertices of boundary id sorted by coordinates
func (o *Domain) sortedBndVerts(id int) (verts []int) {
	verts = append(verts, o.Msh.BndVerts[id]...)
	sort.Slice(verts, func(a, b int) bool {
		xa, xb := o.Msh.Verts[verts[a]].C, o.Msh.Verts[verts[b]].C
		for i := range xa {
			if xa[i] != xb[i] {
				return xa[i] < xb[i]
			}
		}
		return false
	})
	return
}

// setKernels allocates one copy of each finite element kernel per thread.
// Finite volume kernels are skipped
func (o *Domain) setKernels() (err error) {
	o.Kernels = storage.NewExecWarehouse[ele.Kernel](o.Nthreads)
	o.FaceKernels = storage.NewExecWarehouse[dg.FaceKernel](o.Nthreads)
	for _, dat := range o.Prob.Kernels {
		if isFv(dat.Type) {
			if o.Vars.Get(dat.Var) != nil {
				return chk.Err("kernel %q: finite volume kernel cannot act on finite element variable %q", dat.Name, dat.Var)
			}
			continue
		}
		for tid, th := range o.Threads {
			if dg.Has(dat.Type) {
				k, err := dg.New(dat, o.Prob, th.Vars)
				if err != nil {
					return err
				}
				o.FaceKernels.AddObject(k, tid)
				continue
			}
			k, err := ele.New(dat, o.Prob, th.Vars)
			if err != nil {
				return err
			}
			o.Kernels.AddObject(k, tid)
		}
	}
	for tid := range o.Threads {
		if err = o.Kernels.Sort(tid); err != nil {
			return
		}
		if err = o.FaceKernels.Sort(tid); err != nil {
			return
		}
	}
	if o.ShowMsg {
		io.Pf("%s", o.Kernels.ActiveObjectsString(0, "> Kernel: "))
		io.Pf("%s", o.FaceKernels.ActiveObjectsString(0, "> Face kernel: "))
	}
	return
}

// setBcs allocates the boundary conditions of finite element variables
func (o *Domain) setBcs() (err error) {
	o.BndKernels = storage.NewWarehouse[ele.BoundaryKernel](o.Nthreads)
	o.DgBcs = storage.NewWarehouse[dg.FaceKernel](o.Nthreads)
	for _, dat := range o.Prob.Bcs {
		if isFv(dat.Type) {
			if o.Vars.Get(dat.Var) != nil {
				return chk.Err("boundary condition %q: finite volume condition cannot act on finite element variable %q", dat.Name, dat.Var)
			}
			continue
		}
		switch dat.Type {
		case "dirichlet":
			v := o.Vars.Get(dat.Var)
			if v == nil {
				return chk.Err("essential bc %q: variable %q is not a finite element variable", dat.Name, dat.Var)
			}
			bc, err := ele.NewEssentialBc(dat, o.Prob, v, o.VertDofs[v.Num])
			if err != nil {
				return err
			}
			o.EssenBcs = append(o.EssenBcs, bc)
		case "flux", "convection":
			for tid, th := range o.Threads {
				bc, err := ele.NewNaturalBc(dat, o.Prob, th.Vars)
				if err != nil {
					return err
				}
				o.BndKernels.AddObject(bc, tid)
			}
		case "dgdirichlet":
			for tid, th := range o.Threads {
				bc, err := dg.NewDirichlet(dat, o.Prob, th.Vars)
				if err != nil {
					return err
				}
				o.DgBcs.AddObject(bc, tid)
			}
		default:
			return chk.Err("boundary condition %q: type %q is invalid", dat.Name, dat.Type)
		}
	}
	for tid := range o.Threads {
		if err = o.BndKernels.Sort(tid); err != nil {
			return
		}
		if err = o.DgBcs.Sort(tid); err != nil {
			return
		}
	}
	return
}

// isFv tells whether a kernel or boundary condition type belongs to the finite volume system
func isFv(kind string) bool { return strings.HasPrefix(kind, "fv") }
