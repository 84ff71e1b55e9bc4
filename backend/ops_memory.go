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
	"github.com/evmaot/evmaot/opcodes"
)

func init() {
	register(opcodes.POP, opPop)
	register(opcodes.MLOAD, opMload)
	register(opcodes.MSTORE, opMstore)
	register(opcodes.MSTORE8, opMstore8)
	register(opcodes.MSIZE, opMsize)
	register(opcodes.MCOPY, opMcopy)
	register(opcodes.PC, opPc)
	register(opcodes.GAS, opGas)
	register(opcodes.JUMPDEST, opJumpdest)
}

func opPop(f *Frame) {
	f.Stack.Pop()
}

func opMload(f *Frame) {
	offsetW := f.Stack.Peek(0)
	size := uint256.NewInt(32)
	offset, _, ok := f.ensureMemory(offsetW, size)
	if !ok {
		return
	}
	word := f.Ctx.Memory.Get(offset, 32)
	offsetW.SetBytes(word)
}

func opMstore(f *Frame) {
	offsetW := f.Stack.Pop()
	value := f.Stack.Pop()
	size := uint256.NewInt(32)
	offset, _, ok := f.ensureMemory(&offsetW, size)
	if !ok {
		return
	}
	f.Ctx.Memory.Set32(offset, value.Bytes32())
}

func opMstore8(f *Frame) {
	offsetW := f.Stack.Pop()
	value := f.Stack.Pop()
	size := uint256.NewInt(1)
	offset, _, ok := f.ensureMemory(&offsetW, size)
	if !ok {
		return
	}
	f.Ctx.Memory.Set8(offset, byte(value.Uint64()))
}

func opMsize(f *Frame) {
	v := uint256.NewInt(f.Ctx.Memory.Len())
	f.Stack.Push(v)
}

func opMcopy(f *Frame) {
	destOffsetW := f.Stack.Pop()
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()

	_, size, ok := f.ensureMemory(&offsetW, &sizeW)
	if !ok {
		return
	}
	destOffset, _, ok := f.ensureMemory(&destOffsetW, &sizeW)
	if !ok {
		return
	}
	if !f.chargeGas(gas.CopyCost(size)) {
		return
	}
	offset := clampUint64(&offsetW)
	data := f.Ctx.Memory.Get(offset, size)
	f.Ctx.Memory.Set(destOffset, data)
}

func opPc(f *Frame) {
	v := uint256.NewInt(f.PC)
	f.Stack.Push(v)
}

func opGas(f *Frame) {
	v := uint256.NewInt(f.GasRemaining)
	f.Stack.Push(v)
}

func opJumpdest(f *Frame) {
	// JUMPDEST is purely a landing pad; the gas/stack checks already ran.
}
