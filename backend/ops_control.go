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

// JUMP/JUMPI only stage the target PC and condition on the Frame; the
// terminator interpretation in interpreter.go's Run loop is what actually
// branches, per spec.md §9 ("EVM faults ... are explicit branches to a
// single revert/halt block ... do not rely on language-level unwinding").
package backend

import (
	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/opcodes"
)

func init() {
	register(opcodes.JUMP, opJump)
	register(opcodes.JUMPI, opJumpi)
	register(opcodes.STOP, opStop)
	register(opcodes.RETURN, opReturn)
	register(opcodes.REVERT, opRevert)
	register(opcodes.INVALID, opInvalid)
	register(opcodes.SELFDESTRUCT, opSelfdestruct)
}

func opJump(f *Frame) {
	target := f.Stack.Pop()
	f.pendingTarget = clampUint64(&target)
}

func opJumpi(f *Frame) {
	target := f.Stack.Pop()
	cond := f.Stack.Pop()
	f.jumpCond = !cond.IsZero()
	if f.jumpCond {
		f.pendingTarget = clampUint64(&target)
	}
}

func opStop(f *Frame) {
	f.Ctx.ExitStatus = host.ExitStop
}

func opReturn(f *Frame) {
	offset := f.Stack.Pop()
	size := f.Stack.Pop()
	off, sz, ok := f.ensureMemory(&offset, &size)
	if !ok {
		return
	}
	f.Ctx.WriteResult(uint32(off), uint32(sz), host.ExitReturn)
}

func opRevert(f *Frame) {
	offset := f.Stack.Pop()
	size := f.Stack.Pop()
	off, sz, ok := f.ensureMemory(&offset, &size)
	if !ok {
		return
	}
	f.Ctx.WriteResult(uint32(off), uint32(sz), host.ExitRevert)
}

func opInvalid(f *Frame) {
	f.Ctx.Fault(host.FaultInvalidOpcode)
}

func opSelfdestruct(f *Frame) {
	beneficiaryWord := f.Stack.Pop()
	f.Ctx.Selfdestruct(extractAddr(&beneficiaryWord))
	f.Ctx.GasRefund += 0 // EIP-3529 removed the selfdestruct refund; kept as an explicit no-op for readers diffing against pre-London behavior.
	f.Ctx.ExitStatus = host.ExitStop
}
