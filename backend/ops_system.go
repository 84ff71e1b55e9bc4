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

// CREATE/CALL/CALLCODE/CREATE2/DELEGATECALL/STATICCALL: multi-contract
// orchestration beyond one call frame is a spec Non-goal, so these handlers
// charge the composed gas cost exactly as a real implementation would
// (package gas is unaware of the stub) and report failure (0 pushed) rather
// than actually dispatching a nested call. A real backend wires these
// through host.Context to an orchestrator; this one does not have one.
package backend

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/opcodes"
)

func init() {
	register(opcodes.CALL, opCall)
	register(opcodes.CALLCODE, opCall)
	register(opcodes.DELEGATECALL, opDelegateStaticCall)
	register(opcodes.STATICCALL, opDelegateStaticCall)
	register(opcodes.CREATE, opCreate)
	register(opcodes.CREATE2, opCreate2)
}

func opCall(f *Frame) {
	gasW := f.Stack.Pop()
	addrW := f.Stack.Pop()
	value := f.Stack.Pop()
	inOffset := f.Stack.Pop()
	inSize := f.Stack.Pop()
	outOffset := f.Stack.Pop()
	outSize := f.Stack.Pop()

	addr := extractAddr(&addrW)
	cold := f.Ctx.IsAddressCold(addr)
	calleeEmpty := !f.Ctx.AccountExists(addr)

	if _, _, ok := f.ensureMemory(&inOffset, &inSize); !ok {
		return
	}
	if _, _, ok := f.ensureMemory(&outOffset, &outSize); !ok {
		return
	}

	accessCost, _ := gas.CallGas(gas.CallGasParams{
		AvailableGas: f.GasRemaining,
		Requested:    &gasW,
		Value:        &value,
		ColdAccess:   cold,
		CalleeEmpty:  calleeEmpty,
	})
	// The warm floor was already charged as CALL's static cost.
	if !f.chargeGas(accessCost - gas.AccessCost(false)) {
		return
	}

	// No nested call frame: report failure, matching the single-frame
	// model's scope boundary.
	f.Stack.Push(new(uint256.Int))
}

func opDelegateStaticCall(f *Frame) {
	gasW := f.Stack.Pop()
	addrW := f.Stack.Pop()
	inOffset := f.Stack.Pop()
	inSize := f.Stack.Pop()
	outOffset := f.Stack.Pop()
	outSize := f.Stack.Pop()

	addr := extractAddr(&addrW)
	cold := f.Ctx.IsAddressCold(addr)

	if _, _, ok := f.ensureMemory(&inOffset, &inSize); !ok {
		return
	}
	if _, _, ok := f.ensureMemory(&outOffset, &outSize); !ok {
		return
	}

	accessCost, _ := gas.CallGas(gas.CallGasParams{
		AvailableGas: f.GasRemaining,
		Requested:    &gasW,
		ColdAccess:   cold,
	})
	if !f.chargeGas(accessCost - gas.AccessCost(false)) {
		return
	}

	f.Stack.Push(new(uint256.Int))
}

func opCreate(f *Frame) {
	value := f.Stack.Pop()
	offset := f.Stack.Pop()
	size := f.Stack.Pop()
	_ = value

	_, sz, ok := f.ensureMemory(&offset, &size)
	if !ok {
		return
	}
	if !f.chargeGas(gas.InitCodeCost(sz)) {
		return
	}

	// No account-creation/sub-execution orchestrator in the single-frame
	// model: report failure (address 0) rather than a synthesized address.
	f.Stack.Push(new(uint256.Int))
}

func opCreate2(f *Frame) {
	value := f.Stack.Pop()
	offset := f.Stack.Pop()
	size := f.Stack.Pop()
	salt := f.Stack.Pop()
	_, _ = value, salt

	_, sz, ok := f.ensureMemory(&offset, &size)
	if !ok {
		return
	}
	if !f.chargeGas(gas.InitCodeCost(sz)) {
		return
	}

	f.Stack.Push(new(uint256.Int))
}
