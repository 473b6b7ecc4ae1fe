// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package asm implements the per-thread local assembly buffer that turns
// dense element (and element/neighbor) residuals and Jacobians into global
// sparse contributions
package asm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Variable is the per-thread view of a field that the local buffer needs
// to size and scatter its blocks. DOF lists refer to the current element
// (and neighbor) and are updated by the driver before each Prepare
type Variable interface {
	Number() int         // id of variable within its system
	Dofs() []int         // global dofs on current element; empty if undefined there
	DofsNeighbor() []int // global dofs on current neighbor; empty if undefined there
	Scaling() float64    // scaling factor applied to residual and Jacobian rows
}

// Coupling identifies one of the four element/neighbor Jacobian blocks
type Coupling int

// couplings
const (
	ElementElement Coupling = iota
	ElementNeighbor
	NeighborElement
	NeighborNeighbor
)

// Block holds the dense local residual vectors and Jacobian blocks of one
// thread. Contents are valid between Prepare (or PrepareNeighbor) and the
// matching Add/Cache/Set call; another Prepare resets them.
// A Block must never be shared among threads
type Block struct {
	vars      []Variable      // all variables of the system, indexed by Number()
	cm        *CouplingMatrix // coupling matrix
	cmEntry   [][2]int        // nonzero (i,j) pairs of cm, column-major
	blockDiag bool            // cm has diagonal entries only; store one block per row
	cons      *Constraints    // dof constraints; may be nil

	re  [][]float64 // [nvars] element residuals
	rn  [][]float64 // [nvars] neighbor residuals
	kee [][]*Mat    // [nvars][nvars or 1] element-element blocks
	ken [][]*Mat    // [nvars][nvars or 1] element-neighbor blocks
	kne [][]*Mat    // [nvars][nvars or 1] neighbor-element blocks
	knn [][]*Mat    // [nvars][nvars or 1] neighbor-neighbor blocks

	rcache ResidualCache // deferred residual entries
	jcache JacobianCache // deferred Jacobian entries

	tmpRe   []float64 // scratchpad: scaled residual
	tmpDofs []int     // scratchpad: copy of dof list
	tmpKe   Mat       // scratchpad: scaled Jacobian
}

// NewBlock allocates and initialises a new local buffer
func NewBlock(vars []Variable, cm *CouplingMatrix, cons *Constraints) (o *Block) {
	o = new(Block)
	o.Init(vars, cm, cons)
	return
}

// Init computes the coupling entries and allocates the outer containers.
// Blocks stay empty until the first Prepare
func (o *Block) Init(vars []Variable, cm *CouplingMatrix, cons *Constraints) {
	nvars := len(vars)
	if cm.Size() != nvars {
		chk.Panic("coupling matrix size (%d) must equal the number of variables (%d)", cm.Size(), nvars)
	}
	for i, v := range vars {
		if v.Number() != i {
			chk.Panic("variable at position %d has number %d; variables must be given in order", i, v.Number())
		}
	}
	o.vars = vars
	o.cm = cm
	o.cons = cons
	o.cmEntry = cm.Entries()
	o.blockDiag = cm.Diagonal()
	ncols := nvars
	if o.blockDiag {
		ncols = 1
	}
	o.re = make([][]float64, nvars)
	o.rn = make([][]float64, nvars)
	o.kee = allocBlocks(nvars, ncols)
	o.ken = allocBlocks(nvars, ncols)
	o.kne = allocBlocks(nvars, ncols)
	o.knn = allocBlocks(nvars, ncols)
}

// NumVars returns the number of variables
func (o *Block) NumVars() int { return len(o.vars) }

// Coupled tells whether the residual of ivar depends on jvar
func (o *Block) Coupled(ivar, jvar int) bool { return o.cm.Get(ivar, jvar) }

// BlockDiagonal tells whether only one Jacobian block per variable is stored
func (o *Block) BlockDiagonal() bool { return o.blockDiag }

// Prepare resizes and zeroes the element residuals and the element-element
// Jacobian blocks to the current element's dof counts
func (o *Block) Prepare() {
	for _, e := range o.cmEntry {
		i, j := e[0], e[1]
		o.Kee(i, j).Resize(len(o.vars[i].Dofs()), len(o.vars[j].Dofs()))
	}
	for i, v := range o.vars {
		o.re[i] = resizeVec(o.re[i], len(v.Dofs()))
	}
}

// PrepareNeighbor resizes and zeroes the neighbor residuals and the
// element-neighbor, neighbor-element and neighbor-neighbor Jacobian blocks
func (o *Block) PrepareNeighbor() {
	for _, e := range o.cmEntry {
		i, j := e[0], e[1]
		ni, nj := len(o.vars[i].Dofs()), len(o.vars[j].Dofs())
		mi, mj := len(o.vars[i].DofsNeighbor()), len(o.vars[j].DofsNeighbor())
		o.Ken(i, j).Resize(ni, mj)
		o.Kne(i, j).Resize(mi, nj)
		o.Knn(i, j).Resize(mi, mj)
	}
	for i, v := range o.vars {
		o.rn[i] = resizeVec(o.rn[i], len(v.DofsNeighbor()))
	}
}

// PrepareBlock resizes and zeroes the residual of ivar and the (ivar,jvar)
// element block to len(dofs)
func (o *Block) PrepareBlock(ivar, jvar int, dofs []int) {
	n := len(dofs)
	o.re[ivar] = resizeVec(o.re[ivar], n)
	o.Kee(ivar, jvar).Resize(n, n)
}

// Re returns the element residual of ivar
func (o *Block) Re(ivar int) []float64 { return o.re[ivar] }

// Rn returns the neighbor residual of ivar
func (o *Block) Rn(ivar int) []float64 { return o.rn[ivar] }

// Kee returns the element-element block (ivar,jvar)
func (o *Block) Kee(ivar, jvar int) *Mat { return o.kee[ivar][o.col(jvar)] }

// Ken returns the element-neighbor block (ivar,jvar)
func (o *Block) Ken(ivar, jvar int) *Mat { return o.ken[ivar][o.col(jvar)] }

// Kne returns the neighbor-element block (ivar,jvar)
func (o *Block) Kne(ivar, jvar int) *Mat { return o.kne[ivar][o.col(jvar)] }

// Knn returns the neighbor-neighbor block (ivar,jvar)
func (o *Block) Knn(ivar, jvar int) *Mat { return o.knn[ivar][o.col(jvar)] }

// K returns the Jacobian block of the given kind
func (o *Block) K(kind Coupling, ivar, jvar int) *Mat {
	switch kind {
	case ElementNeighbor:
		return o.Ken(ivar, jvar)
	case NeighborElement:
		return o.Kne(ivar, jvar)
	case NeighborNeighbor:
		return o.Knn(ivar, jvar)
	}
	return o.Kee(ivar, jvar)
}

// residual blocks //////////////////////////////////////////////////////////////////////////////////

// AddResidualBlock constrains and scales block, then accumulates it into res
func (o *Block) AddResidualBlock(res Vector, block []float64, dofs []int, scale float64) {
	if len(dofs) == 0 {
		return
	}
	re, di := o.transformResidual(block, dofs, scale)
	res.AddVector(di, re)
}

// CacheResidualBlock constrains and scales block, appends the result to the
// residual cache and zeroes block
func (o *Block) CacheResidualBlock(block []float64, dofs []int, scale float64) {
	if len(dofs) > 0 {
		re, di := o.transformResidual(block, dofs, scale)
		for k, r := range di {
			o.rcache.Append(r, re[k])
		}
	}
	clear(block)
}

// SetResidualBlock constrains and scales block, then overwrites the
// corresponding entries of res
func (o *Block) SetResidualBlock(res Vector, block []float64, dofs []int, scale float64) {
	if len(dofs) == 0 {
		return
	}
	re, di := o.transformResidual(block, dofs, scale)
	res.InsertVector(di, re)
}

// AddCachedResidual scatters the residual cache into res
func (o *Block) AddCachedResidual(res Vector) { o.rcache.Flush(res) }

// ResidualCache gives access to the residual cache
func (o *Block) ResidualCache() *ResidualCache { return &o.rcache }

// AddResidual accumulates the element residuals of all variables
func (o *Block) AddResidual(res Vector) {
	for i, v := range o.vars {
		o.AddResidualBlock(res, o.re[i], v.Dofs(), v.Scaling())
	}
}

// AddResidualNeighbor accumulates the neighbor residuals of all variables
func (o *Block) AddResidualNeighbor(res Vector) {
	for i, v := range o.vars {
		o.AddResidualBlock(res, o.rn[i], v.DofsNeighbor(), v.Scaling())
	}
}

// CacheResidual caches the element residuals of all variables
func (o *Block) CacheResidual() {
	for i, v := range o.vars {
		o.CacheResidualBlock(o.re[i], v.Dofs(), v.Scaling())
	}
}

// CacheResidualNeighbor caches the neighbor residuals of all variables
func (o *Block) CacheResidualNeighbor() {
	for i, v := range o.vars {
		o.CacheResidualBlock(o.rn[i], v.DofsNeighbor(), v.Scaling())
	}
}

// SetResidual overwrites global entries with the element residuals
func (o *Block) SetResidual(res Vector) {
	for i, v := range o.vars {
		o.SetResidualBlock(res, o.re[i], v.Dofs(), v.Scaling())
	}
}

// SetResidualNeighbor overwrites global entries with the neighbor residuals
func (o *Block) SetResidualNeighbor(res Vector) {
	for i, v := range o.vars {
		o.SetResidualBlock(res, o.rn[i], v.DofsNeighbor(), v.Scaling())
	}
}

// jacobian blocks //////////////////////////////////////////////////////////////////////////////////

// AddJacobianBlock constrains and scales block, then accumulates it into jac
func (o *Block) AddJacobianBlock(jac Matrix, block *Mat, idofs, jdofs []int, scale float64) {
	if len(idofs) == 0 || len(jdofs) == 0 {
		return
	}
	k, di, dj := o.transformJacobian(block, idofs, jdofs, scale)
	jac.AddMatrix(di, dj, k)
}

// CacheJacobianBlock constrains and scales block, appends the result to the
// Jacobian cache and zeroes block
func (o *Block) CacheJacobianBlock(block *Mat, idofs, jdofs []int, scale float64) {
	if len(idofs) > 0 && len(jdofs) > 0 {
		k, di, dj := o.transformJacobian(block, idofs, jdofs, scale)
		for a, i := range di {
			for b, j := range dj {
				o.jcache.Append(i, j, k.At(a, b))
			}
		}
	}
	block.Zero()
}

// AddCachedJacobian scatters the Jacobian cache into jac
func (o *Block) AddCachedJacobian(jac Matrix) { o.jcache.Flush(jac) }

// JacobianCache gives access to the Jacobian cache
func (o *Block) JacobianCache() *JacobianCache { return &o.jcache }

// AddJacobian accumulates the element-element blocks of all coupled pairs
func (o *Block) AddJacobian(jac Matrix) {
	for _, e := range o.cmEntry {
		iv, jv := o.vars[e[0]], o.vars[e[1]]
		o.AddJacobianBlock(jac, o.Kee(e[0], e[1]), iv.Dofs(), jv.Dofs(), iv.Scaling())
	}
}

// AddJacobianNeighbor accumulates the element-neighbor, neighbor-element and
// neighbor-neighbor blocks of all coupled pairs
func (o *Block) AddJacobianNeighbor(jac Matrix) {
	for _, e := range o.cmEntry {
		i, j := e[0], e[1]
		iv, jv := o.vars[i], o.vars[j]
		s := iv.Scaling()
		o.AddJacobianBlock(jac, o.Ken(i, j), iv.Dofs(), jv.DofsNeighbor(), s)
		o.AddJacobianBlock(jac, o.Kne(i, j), iv.DofsNeighbor(), jv.Dofs(), s)
		o.AddJacobianBlock(jac, o.Knn(i, j), iv.DofsNeighbor(), jv.DofsNeighbor(), s)
	}
}

// CacheJacobian caches the element-element blocks of all coupled pairs
func (o *Block) CacheJacobian() {
	for _, e := range o.cmEntry {
		iv, jv := o.vars[e[0]], o.vars[e[1]]
		o.CacheJacobianBlock(o.Kee(e[0], e[1]), iv.Dofs(), jv.Dofs(), iv.Scaling())
	}
}

// CacheJacobianNeighbor caches the three neighbor blocks of all coupled pairs
func (o *Block) CacheJacobianNeighbor() {
	for _, e := range o.cmEntry {
		i, j := e[0], e[1]
		iv, jv := o.vars[i], o.vars[j]
		s := iv.Scaling()
		o.CacheJacobianBlock(o.Ken(i, j), iv.Dofs(), jv.DofsNeighbor(), s)
		o.CacheJacobianBlock(o.Kne(i, j), iv.DofsNeighbor(), jv.Dofs(), s)
		o.CacheJacobianBlock(o.Knn(i, j), iv.DofsNeighbor(), jv.DofsNeighbor(), s)
	}
}

// String prints the current local buffers
func (o *Block) String() (l string) {
	for i := range o.vars {
		l += io.Sf("Re[%d] = %v\n", i, o.re[i])
		if len(o.rn[i]) > 0 {
			l += io.Sf("Rn[%d] = %v\n", i, o.rn[i])
		}
	}
	for _, e := range o.cmEntry {
		l += io.Sf("Kee[%d][%d] =\n%v", e[0], e[1], o.Kee(e[0], e[1]))
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func allocBlocks(nrows, ncols int) (k [][]*Mat) {
	k = make([][]*Mat, nrows)
	for i := 0; i < nrows; i++ {
		k[i] = make([]*Mat, ncols)
		for j := 0; j < ncols; j++ {
			k[i][j] = new(Mat)
		}
	}
	return
}

// col maps a variable number to the stored column
func (o *Block) col(jvar int) int {
	if o.blockDiag {
		return 0
	}
	return jvar
}

// transformResidual applies constraints and scaling without touching block
func (o *Block) transformResidual(block []float64, dofs []int, scale float64) ([]float64, []int) {
	if DebugChecks && len(block) != len(dofs) {
		chk.Panic("residual block size (%d) must equal the number of dofs (%d)", len(block), len(dofs))
	}
	o.tmpRe = append(o.tmpRe[:0], block...)
	o.tmpDofs = append(o.tmpDofs[:0], dofs...)
	re, di := o.cons.ConstrainVector(o.tmpRe, o.tmpDofs)
	if scale != 1 {
		for k := range re {
			re[k] *= scale
		}
	}
	return re, di
}

// transformJacobian applies constraints and scaling without touching block
func (o *Block) transformJacobian(block *Mat, idofs, jdofs []int, scale float64) (*Mat, []int, []int) {
	if DebugChecks && (block.M != len(idofs) || block.N != len(jdofs)) {
		chk.Panic("jacobian block size (%d×%d) must equal the number of dofs (%d×%d)", block.M, block.N, len(idofs), len(jdofs))
	}
	o.tmpKe.CopyFrom(block)
	k, di, dj := o.cons.ConstrainMatrix(&o.tmpKe, idofs, jdofs)
	if scale != 1 {
		k.Scale(scale)
	}
	return k, di, dj
}
