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

package backend

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/host"
)

const maxMemorySize = 1 << 32 // generous upper bound; bigger requests are treated as allocation faults

// chargeGas deducts amount from the frame's remaining gas, faulting with
// FaultOutOfGas if insufficient. Returns false on fault so callers can
// return from the handler immediately.
func (f *Frame) chargeGas(amount uint64) bool {
	if f.GasRemaining < amount {
		f.Ctx.Fault(host.FaultOutOfGas)
		return false
	}
	f.GasRemaining -= amount
	return true
}

// toWordAligned rounds size up to the next multiple of 32, matching the
// memory invariant of spec.md §3.
func toWordAligned(size uint64) uint64 {
	return (size + 31) / 32 * 32
}

// ensureMemory grows Ctx.Memory to cover [offset, offset+size), charging the
// marginal expansion cost. Returns ok=false (having already faulted) if the
// requested region is unrepresentable or gas runs out.
func (f *Frame) ensureMemory(offsetI, sizeI *uint256.Int) (offset, size uint64, ok bool) {
	if sizeI.IsZero() {
		return 0, 0, true
	}
	if !offsetI.IsUint64() || !sizeI.IsUint64() {
		f.Ctx.Fault(host.FaultMemoryAllocation)
		return 0, 0, false
	}
	offset, size = offsetI.Uint64(), sizeI.Uint64()
	end := offset + size
	if end < offset || end > maxMemorySize {
		f.Ctx.Fault(host.FaultMemoryAllocation)
		return 0, 0, false
	}

	newSize := toWordAligned(end)
	lastSize := f.Ctx.Memory.Len()
	if newSize > lastSize {
		if !f.chargeGas(gas.MemoryExpansionCost(lastSize, newSize)) {
			return 0, 0, false
		}
		f.Ctx.Memory.Resize(newSize)
	}
	return offset, size, true
}

// clampUint64 converts v to uint64,
// saturating at ^uint64(0) for values that do not fit (used for sizes/
// offsets that would fault on any subsequent bounds check anyway).
func clampUint64(v *uint256.Int) uint64 {
	if v.IsUint64() {
		return v.Uint64()
	}
	return ^uint64(0)
}
