// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CyclicDependencyError lists the objects involved in dependency cycles
type CyclicDependencyError struct {
	Where  string     // list where the cycle was found; e.g. "subdomain 1"
	Cycles [][]string // names of objects in each strongly connected component
}

// Error returns the message
func (o *CyclicDependencyError) Error() string {
	cycles := make([]string, len(o.Cycles))
	for i, c := range o.Cycles {
		cycles[i] = strings.Join(c, " <-> ")
	}
	where := ""
	if o.Where != "" {
		where = " (" + o.Where + ")"
	}
	return io.Sf("cyclic dependency detected%s among: %s", where, strings.Join(cycles, "; "))
}

// at records where the cycle was found
func (o *CyclicDependencyError) at(where string) *CyclicDependencyError {
	if o.Where == "" {
		o.Where = where
	} else {
		o.Where = where + ", " + o.Where
	}
	return o
}

// dependencyGraph builds the graph with one node per object (id = insertion
// index) and an edge j → i whenever object i depends on a name supplied by j
func dependencyGraph[T Object](objs []T) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	suppliers := make(map[string][]int)
	for i, obj := range objs {
		g.AddNode(simple.Node(i))
		for _, name := range supplies(obj) {
			suppliers[name] = append(suppliers[name], i)
		}
	}
	for i, obj := range objs {
		for _, name := range dependsOn(obj) {
			for _, j := range suppliers[name] {
				if j != i {
					g.SetEdge(g.NewEdge(simple.Node(j), simple.Node(i)))
				}
			}
		}
	}
	return g
}

// resolve returns objs in dependency order. Objects without a relative order
// keep their insertion order: at each step the ready object with the lowest
// insertion index is taken
func resolve[T Object](objs []T) (sorted []T, cerr *CyclicDependencyError) {
	if len(objs) < 2 {
		return objs, nil
	}
	g := dependencyGraph(objs)
	if _, err := topo.Sort(g); err != nil {
		if u, ok := err.(topo.Unorderable); ok {
			return nil, cyclicError(objs, u)
		}
		chk.Panic("cannot sort dependency graph: %v", err)
	}
	n := len(objs)
	indeg := make([]int, n)
	for i := 0; i < n; i++ {
		indeg[i] = g.To(int64(i)).Len()
	}
	done := make([]bool, n)
	sorted = make([]T, 0, n)
	for len(sorted) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indeg[i] == 0 {
				next = i
				break
			}
		}
		done[next] = true
		sorted = append(sorted, objs[next])
		to := g.From(int64(next))
		for to.Next() {
			indeg[to.Node().ID()]--
		}
	}
	return
}

// cyclicError converts gonum's unorderable components into names
func cyclicError[T Object](objs []T, u topo.Unorderable) *CyclicDependencyError {
	e := new(CyclicDependencyError)
	for _, comp := range u {
		ids := make([]int, len(comp))
		for k, nd := range comp {
			ids[k] = int(nd.ID())
		}
		sort.Ints(ids)
		names := make([]string, len(ids))
		for k, id := range ids {
			names[k] = objs[id].Name()
		}
		e.Cycles = append(e.Cycles, names)
	}
	return e
}
