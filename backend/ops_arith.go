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

// Opcode handlers for 256-bit arithmetic (spec.md §8: div-by-zero returns
// zero rather than faulting, per EVM semantics, invariant 6).
package backend

import (
	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/opcodes"
)

func init() {
	register(opcodes.ADD, opAdd)
	register(opcodes.MUL, opMul)
	register(opcodes.SUB, opSub)
	register(opcodes.DIV, opDiv)
	register(opcodes.SDIV, opSDiv)
	register(opcodes.MOD, opMod)
	register(opcodes.SMOD, opSMod)
	register(opcodes.ADDMOD, opAddMod)
	register(opcodes.MULMOD, opMulMod)
	register(opcodes.EXP, opExp)
	register(opcodes.SIGNEXTEND, opSignExtend)
}

func opAdd(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Add(&x, y)
}

func opMul(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Mul(&x, y)
}

func opSub(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Sub(&x, y)
}

func opDiv(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Div(&x, y)
}

func opSDiv(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.SDiv(&x, y)
}

func opMod(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Mod(&x, y)
}

func opSMod(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.SMod(&x, y)
}

func opAddMod(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Pop()
	z := f.Stack.Peek(0)
	z.AddMod(&x, &y, z)
}

func opMulMod(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Pop()
	z := f.Stack.Peek(0)
	z.MulMod(&x, &y, z)
}

func opExp(f *Frame) {
	base := f.Stack.Pop()
	exponent := f.Stack.Peek(0)
	if !f.chargeGas(gas.ExpCost(exponent) - gas.Slow) {
		return
	}
	exponent.Exp(&base, exponent)
}

func opSignExtend(f *Frame) {
	byteNum := f.Stack.Pop()
	value := f.Stack.Peek(0)
	value.ExtendSign(value, &byteNum)
}
