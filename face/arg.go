// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package face

import "gonum.org/v1/gonum/spatial/r3"

// Arg is the context used to evaluate a functor on a face
type Arg struct {
	FI              *Info        // face
	Limiter         InterpMethod // interpolation used when both sides are available
	ElemIsUpwind    bool         // element side is upwind
	CorrectSkewness bool         // apply skewness correction
	Side            *ElemInfo    // evaluate as seen from this cell; nil means both sides
}

// SingleSidedArg returns the argument for evaluating a functor on fi as
// seen from the only side where it is defined. On faces of type Both or
// Neither no side is selected
func SingleSidedArg(fi *Info, ft Type, limiter InterpMethod, correctSkewness bool) Arg {
	a := Arg{FI: fi, Limiter: limiter, ElemIsUpwind: true, CorrectSkewness: correctSkewness}
	switch ft {
	case Elem:
		a.Side = fi.Elem
	case Neighbor:
		a.Side = fi.Neighbor
	}
	return a
}

// Point returns the face centroid
func (o Arg) Point() r3.Vec { return o.FI.Centroid }

// OnElemSide tells whether the argument is single-sided on the element side
func (o Arg) OnElemSide() bool { return o.Side != nil && o.Side == o.FI.Elem }

// OnNeighborSide tells whether the argument is single-sided on the neighbor side
func (o Arg) OnNeighborSide() bool {
	return o.Side != nil && o.FI.Neighbor != nil && o.Side == o.FI.Neighbor
}
