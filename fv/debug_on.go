// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build debug

package fv

// DebugChecks enables contract assertions on the per-element path
const DebugChecks = true
