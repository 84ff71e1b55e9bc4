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

// SLOAD/SSTORE/TLOAD/TSTORE, grounded on the four-case rule in package gas
// (gas.SstoreCost) rather than reimplementing it here.
package backend

import (
	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/opcodes"
	"github.com/evmaot/evmaot/params"
)

func init() {
	register(opcodes.SLOAD, opSload)
	register(opcodes.SSTORE, opSstore)
	register(opcodes.TLOAD, opTload)
	register(opcodes.TSTORE, opTstore)
}

func opSload(f *Frame) {
	key := f.Stack.Peek(0)
	cold := f.Ctx.IsStorageSlotCold(key)
	if cold {
		if !f.chargeGas(params.ColdSloadCost - params.WarmStorageReadCost) {
			return
		}
	}
	v := f.Ctx.ReadStorage(key)
	key.Set(&v)
}

func opSstore(f *Frame) {
	if f.GasRemaining < params.SstoreSentryGas {
		f.Ctx.Fault(host.FaultOutOfGas)
		return
	}

	key := f.Stack.Pop()
	value := f.Stack.Pop()

	cold := f.Ctx.IsStorageSlotCold(&key)
	original := f.Ctx.OriginalStorage(&key)
	current := f.Ctx.ReadStorage(&key)

	cost, refund := gas.SstoreCost(&original, &current, &value, cold)
	if !f.chargeGas(cost) {
		return
	}
	if refund > 0 {
		f.Ctx.GasRefund += uint64(refund)
	} else if refund < 0 {
		decrease := uint64(-refund)
		if decrease > f.Ctx.GasRefund {
			f.Ctx.GasRefund = 0
		} else {
			f.Ctx.GasRefund -= decrease
		}
	}
	f.Ctx.WriteStorage(&key, &value)
}

func opTload(f *Frame) {
	key := f.Stack.Peek(0)
	v := f.Ctx.ReadTransient(key)
	key.Set(&v)
}

func opTstore(f *Frame) {
	key := f.Stack.Pop()
	value := f.Stack.Pop()
	f.Ctx.WriteTransient(&key, &value)
}
