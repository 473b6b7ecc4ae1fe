// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goasm/dg"
	"github.com/cpmech/goasm/ele/diffusion"
	"github.com/cpmech/goasm/ele/source"
)

// enforce loading of all kernels
func init() {
	_ = diffusion.Diffusion{}
	_ = source.Source{}
	_ = dg.Diffusion{}
}
