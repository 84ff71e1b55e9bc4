// Copyright 2024 The evmaot Authors
// This file is part of the evmaot library.
//
// The evmaot library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The evmaot library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the evmaot library. If not, see <http://www.gnu.org/licenses/>.

// Package backend defines the Backend interface a compiled ir.Module is
// handed to, and ships a reference in-process interpreting implementation.
// The real native-code backend spec.md treats as out of scope would consume
// the same ir.Module; this package exists so the rest of the pipeline is
// testable without one (SPEC_FULL.md §1).
package backend

import (
	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/ir"
)

// Compiled is whatever a Backend produces from an ir.Module. The reference
// backend's Compiled value is itself runnable; a native backend's Compiled
// would be a loaded function pointer plus whatever linking metadata it
// needs.
type Compiled interface {
	// Run executes the compiled function against ctx starting with
	// gasLimit available, returning the gas actually consumed.
	Run(ctx *host.Context, gasLimit uint64) (gasUsed uint64)
}

// Backend turns an ir.Module into something runnable (spec.md §1: "this
// repo supplies a reference backend... swapping in a real backend only
// requires implementing this interface").
type Backend interface {
	Compile(mod *ir.Module) (Compiled, error)
}
