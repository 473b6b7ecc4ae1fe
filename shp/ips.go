// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Ipoint holds the natural coordinates and weight of an integration point:
// {r, s, t, w}
type Ipoint []float64

// Gauss-Legendre points on [-1,1]
var gauss1d = map[int][]Ipoint{
	1: {{0, 0, 0, 2}},
	2: {
		{-1 / math.Sqrt(3), 0, 0, 1},
		{+1 / math.Sqrt(3), 0, 0, 1},
	},
	3: {
		{-math.Sqrt(3.0 / 5.0), 0, 0, 5.0 / 9.0},
		{0, 0, 0, 8.0 / 9.0},
		{+math.Sqrt(3.0 / 5.0), 0, 0, 5.0 / 9.0},
	},
}

// tensor returns the tensor product of n1d×n1d Gauss points
func tensor(n1d int) (ips []Ipoint) {
	for _, b := range gauss1d[n1d] {
		for _, a := range gauss1d[n1d] {
			ips = append(ips, Ipoint{a[0], b[0], 0, a[3] * b[3]})
		}
	}
	return
}

// ipsfactory holds integration points of each geometry type. nip => points
var ipsfactory = map[string]map[int][]Ipoint{
	"lin2": gauss1d,
	"qua4": {1: tensor(1), 4: tensor(2), 9: tensor(3)},
}

// default number of integration points
var ipsdefault = map[string]int{"lin2": 2, "qua4": 4}

// GetIps returns the integration points of the element and of its faces.
// Zero nip or nipf selects the default
func (o *Shape) GetIps(nip, nipf int) (ips, ipf []Ipoint, err error) {
	ips, err = GetIps(o.Type, nip)
	if err != nil || o.FaceType == "" {
		return
	}
	ipf, err = GetIps(o.FaceType, nipf)
	return
}

// GetIps returns nip integration points of shape geoType; zero selects the default
func GetIps(geoType string, nip int) ([]Ipoint, error) {
	db, ok := ipsfactory[geoType]
	if !ok {
		return nil, chk.Err("cannot find integration points for %q", geoType)
	}
	if nip == 0 {
		nip = ipsdefault[geoType]
	}
	ips, ok := db[nip]
	if !ok {
		return nil, chk.Err("number of integration points %d is not available for %q", nip, geoType)
	}
	return ips, nil
}
