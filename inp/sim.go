// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.json) problem file
package inp

import (
	"encoding/json"
	goio "io"
	"path/filepath"

	"github.com/cpmech/goasm/face"
	"github.com/cpmech/goasm/storage"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// variable families
const (
	FamLagrange = "lagrange" // continuous nodal variable
	FamDG       = "dg"       // discontinuous nodal variable; vertices are duplicated per cell
	FamFV       = "fv"       // cell-centred finite volume variable
)

// Data holds global data for simulations
type Data struct {
	Desc     string `json:"desc"`     // description of simulation
	Steady   bool   `json:"steady"`   // steady simulation
	Nthreads int    `json:"nthreads"` // number of assembly threads
	ShowR    bool   `json:"showr"`    // show residual values
}

// SolverData holds solver data
type SolverData struct {
	Type    string  `json:"type"`    // solver type; e.g. "imp" (implicit Newton)
	NmaxIt  int     `json:"nmaxit"`  // number of max iterations of the Newton solver
	Atol    float64 `json:"atol"`    // absolute tolerance
	Rtol    float64 `json:"rtol"`    // relative tolerance
	FvMaxIt int     `json:"fvmaxit"` // max Picard iterations of finite volume systems with nonlinear boundary conditions
	FvTol   float64 `json:"fvtol"`   // tolerance on the change of finite volume solutions between Picard iterations
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf    float64 `json:"tf"`    // final time
	Dt    float64 `json:"dt"`    // time step size (if constant)
	DtFcn string  `json:"dtfcn"` // time step size (function name)

	// derived
	DtFunc dbf.T `json:"-"` // time step function
}

// VarData holds the definition of one variable
type VarData struct {
	Name    string  `json:"name"`    // name; e.g. "u", "T"
	Family  string  `json:"family"`  // "lagrange", "dg" or "fv"
	Blocks  []int   `json:"blocks"`  // subdomains the variable lives on; empty means everywhere
	Scaling float64 `json:"scaling"` // scaling of residual rows; zero means 1
	Interp  string  `json:"interp"`  // fv only: face interpolation; e.g. "average", "upwind"
	Init    float64 `json:"init"`    // initial value
	IniFcn  string  `json:"inifcn"`  // function giving the initial value; overrides Init

	// derived
	Number int               `json:"-"` // position within its system (FE or FV)
	Method face.InterpMethod `json:"-"` // parsed Interp
}

// KernelData holds the definition of one kernel
type KernelData struct {
	Name      string     `json:"name"`       // unique name
	Type      string     `json:"type"`       // kernel type; e.g. "diffusion", "fvadvection"
	Var       string     `json:"var"`        // variable whose residual the kernel contributes to
	Coupled   []string   `json:"coupled"`    // other variables read by the kernel
	Blocks    []int      `json:"blocks"`     // subdomains; empty means all blocks of Var
	Prms      dbf.Params `json:"prms"`       // parameters
	Fcn       string     `json:"fcn"`        // function name; e.g. source s(t,x)
	Extra     string     `json:"extra"`      // extra flags; e.g. "!nip:4 !sigma:10"
	ExecuteOn []string   `json:"execute_on"` // execution flags; empty means "linear"
	DependsOn []string   `json:"depends_on"` // names of kernels that must run first
	Inact     bool       `json:"inact"`      // inactive

	// derived
	Flags []storage.ExecFlag `json:"-"` // parsed ExecuteOn
}

// BcData holds the definition of one boundary condition
type BcData struct {
	Name       string     `json:"name"`       // unique name
	Type       string     `json:"type"`       // type; e.g. "dirichlet", "fvconvective"
	Var        string     `json:"var"`        // variable
	Bnds       []int      `json:"bnds"`       // boundary ids
	Fcn        string     `json:"fcn"`        // function name; e.g. prescribed value
	Prms       dbf.Params `json:"prms"`       // parameters
	Emissivity []float64  `json:"emissivity"` // radiative only: one value per boundary
	Coupled    string     `json:"coupled"`    // conjugate only: variable on the other side
	Extra      string     `json:"extra"`      // extra flags; e.g. "!extrap:1"
	Inact      bool       `json:"inact"`      // inactive
}

// ConsData holds the definition of dof constraints of a lagrange variable
type ConsData struct {
	Type    string    `json:"type"`    // "periodic" or "hanging"
	Var     string    `json:"var"`     // variable
	Slave   int       `json:"slave"`   // periodic: boundary with constrained vertices
	Master  int       `json:"master"`  // periodic: boundary with master vertices
	Vert    int       `json:"vert"`    // hanging: constrained vertex
	Parents []int     `json:"parents"` // hanging: parent vertices
	Weights []float64 `json:"weights"` // hanging: weights of parents
}

// Problem holds all problem data
type Problem struct {

	// input
	Data        Data          `json:"data"`        // global data
	Functions   FuncsData     `json:"functions"`   // all functions
	Solver      SolverData    `json:"solver"`      // solver data
	Control     TimeControl   `json:"control"`     // time control
	Mesh        MeshData      `json:"mesh"`        // mesh
	Variables   []*VarData    `json:"variables"`   // variables
	Coupling    [][]string    `json:"coupling"`    // pairs of coupled variables {residual, variable}; empty means diagonal
	Kernels     []*KernelData `json:"kernels"`     // kernels
	Bcs         []*BcData     `json:"bcs"`         // boundary conditions
	Constraints []*ConsData   `json:"constraints"` // dof constraints

	// derived
	Key     string `json:"-"` // problem key; e.g. heat01.json => heat01
	Ndim    int    `json:"-"` // space dimension
	Msh     *Mesh  `json:"-"` // mesh
	NfeVars int    `json:"-"` // number of lagrange and dg variables
	NfvVars int    `json:"-"` // number of fv variables
}

// ReadProblem reads and checks a problem file
func ReadProblem(path string) (o *Problem, err error) {
	b, err := readFile(path)
	if err != nil {
		return nil, chk.Err("ReadProblem: cannot read problem file %q:\n%v", path, err)
	}
	o, err = ReadProblemBytes(b)
	if err != nil {
		return nil, chk.Err("ReadProblem: problem file %q is invalid:\n%v", path, err)
	}
	o.Key = io.FnKey(filepath.Base(path))
	return
}

// ReadProblemBytes reads and checks a problem given as JSON
func ReadProblemBytes(b []byte) (o *Problem, err error) {
	o = new(Problem)
	o.Data.SetDefault()
	o.Solver.SetDefault()
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot unmarshal problem:\n%v", err)
	}
	err = o.PostProcess()
	return
}

// SetDefault sets default values
func (o *Data) SetDefault() {
	o.Nthreads = 1
}

// SetDefault sets default values
func (o *SolverData) SetDefault() {
	o.Type = "imp"
	o.NmaxIt = 20
	o.Atol = 1e-8
	o.Rtol = 1e-10
	o.FvMaxIt = 50
	o.FvTol = 1e-10
}

// PostProcess checks the input and computes derived data
func (o *Problem) PostProcess() (err error) {

	// global data
	if o.Data.Nthreads < 1 {
		return chk.Err("number of threads must be positive; %d is invalid", o.Data.Nthreads)
	}

	// mesh
	o.Msh, err = NewMesh(&o.Mesh)
	if err != nil {
		return
	}
	o.Ndim = o.Msh.Ndim

	// time control
	if err = o.Control.PostProcess(o.Functions, o.Data.Steady); err != nil {
		return
	}

	// variables
	names := make(map[string]bool)
	o.NfeVars, o.NfvVars = 0, 0
	for _, v := range o.Variables {
		if names[v.Name] {
			return chk.Err("variable %q is defined more than once", v.Name)
		}
		names[v.Name] = true
		if v.Scaling == 0 {
			v.Scaling = 1
		}
		switch v.Family {
		case "", FamLagrange, FamDG:
			if v.Family == "" {
				v.Family = FamLagrange
			}
			v.Number = o.NfeVars
			o.NfeVars++
		case FamFV:
			if v.Interp == "" {
				v.Interp = "average"
			}
			if v.Method, err = face.ParseInterpMethod(v.Interp); err != nil {
				return chk.Err("variable %q: %v", v.Name, err)
			}
			v.Number = o.NfvVars
			o.NfvVars++
		default:
			return chk.Err("variable %q: family %q is invalid", v.Name, v.Family)
		}
	}

	// coupling
	for _, pair := range o.Coupling {
		if len(pair) != 2 {
			return chk.Err("coupling %v must have two variable names", pair)
		}
		a, b := o.GetVar(pair[0]), o.GetVar(pair[1])
		if a == nil || b == nil {
			return chk.Err("coupling %v refers to an unknown variable", pair)
		}
		if (a.Family == FamFV) != (b.Family == FamFV) {
			return chk.Err("coupling %v mixes finite volume and finite element variables", pair)
		}
	}

	// kernels
	knames := make(map[string]bool)
	for _, k := range o.Kernels {
		if knames[k.Name] {
			return chk.Err("kernel %q is defined more than once", k.Name)
		}
		knames[k.Name] = true
		if o.GetVar(k.Var) == nil {
			return chk.Err("kernel %q: cannot find variable %q", k.Name, k.Var)
		}
		for _, c := range k.Coupled {
			if o.GetVar(c) == nil {
				return chk.Err("kernel %q: cannot find coupled variable %q", k.Name, c)
			}
		}
		if k.Flags, err = storage.ParseExecFlags(k.Name, k.ExecuteOn); err != nil {
			return
		}
	}

	// boundary conditions
	bnames := make(map[string]bool)
	for _, bc := range o.Bcs {
		if bnames[bc.Name] {
			return chk.Err("boundary condition %q is defined more than once", bc.Name)
		}
		bnames[bc.Name] = true
		if o.GetVar(bc.Var) == nil {
			return chk.Err("boundary condition %q: cannot find variable %q", bc.Name, bc.Var)
		}
		if len(bc.Bnds) == 0 {
			return chk.Err("boundary condition %q: at least one boundary id must be given", bc.Name)
		}
		if bc.Coupled != "" && o.GetVar(bc.Coupled) == nil {
			return chk.Err("boundary condition %q: cannot find coupled variable %q", bc.Name, bc.Coupled)
		}
	}

	// constraints
	for i, c := range o.Constraints {
		v := o.GetVar(c.Var)
		if v == nil || v.Family != FamLagrange {
			return chk.Err("constraint %d: variable %q must be a lagrange variable", i, c.Var)
		}
		switch c.Type {
		case "periodic":
		case "hanging":
			if len(c.Parents) != len(c.Weights) {
				return chk.Err("constraint %d: %d parents and %d weights are inconsistent", i, len(c.Parents), len(c.Weights))
			}
		default:
			return chk.Err("constraint %d: type %q is invalid", i, c.Type)
		}
	}
	return
}

// PostProcess sets the time step function
func (o *TimeControl) PostProcess(funcs FuncsData, steady bool) (err error) {
	if o.Tf < 1e-14 {
		o.Tf = 1
	}
	if o.DtFcn == "" {
		if o.Dt < 1e-14 {
			o.Dt = o.Tf
		}
		o.DtFunc = &dbf.Cte{C: o.Dt}
		return
	}
	o.DtFunc, err = funcs.Get(o.DtFcn)
	if err != nil {
		return
	}
	o.Dt = o.DtFunc.F(0, nil)
	if o.Dt < 1e-14 && !steady {
		return chk.Err("time step function %q gives invalid dt=%g", o.DtFcn, o.Dt)
	}
	return
}

// GetVar returns the variable named name or nil
func (o *Problem) GetVar(name string) *VarData {
	for _, v := range o.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// VarsOf returns the variables of one system: fv or not
func (o *Problem) VarsOf(fv bool) (vars []*VarData) {
	for _, v := range o.Variables {
		if (v.Family == FamFV) == fv {
			vars = append(vars, v)
		}
	}
	return
}

// GetInfo writes the problem as indented JSON
func (o *Problem) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// Prm returns the value of parameter name or def if it is not given
func Prm(prms dbf.Params, name string, def float64) float64 {
	for _, p := range prms {
		if p.N == name {
			return p.V
		}
	}
	return def
}

// HasPrm tells whether parameter name is given
func HasPrm(prms dbf.Params, name string) bool {
	for _, p := range prms {
		if p.N == name {
			return true
		}
	}
	return false
}

// readFile reads a file; gosl panics on failure are returned as errors
func readFile(path string) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, chk.Err("%v", r)
		}
	}()
	return io.ReadFile(path), nil
}
