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

	"github.com/evmaot/evmaot/opcodes"
)

func init() {
	register(opcodes.LT, opLt)
	register(opcodes.GT, opGt)
	register(opcodes.SLT, opSlt)
	register(opcodes.SGT, opSgt)
	register(opcodes.EQ, opEq)
	register(opcodes.ISZERO, opIsZero)
	register(opcodes.AND, opAnd)
	register(opcodes.OR, opOr)
	register(opcodes.XOR, opXor)
	register(opcodes.NOT, opNot)
	register(opcodes.BYTE, opByte)
	register(opcodes.SHL, opShl)
	register(opcodes.SHR, opShr)
	register(opcodes.SAR, opSar)
}

func boolToInt(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}

func opLt(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Set(boolToInt(x.Lt(y)))
}

func opGt(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Set(boolToInt(x.Gt(y)))
}

func opSlt(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Set(boolToInt(x.Slt(y)))
}

func opSgt(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Set(boolToInt(x.Sgt(y)))
}

func opEq(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Set(boolToInt(x.Eq(y)))
}

func opIsZero(f *Frame) {
	x := f.Stack.Peek(0)
	x.Set(boolToInt(x.IsZero()))
}

func opAnd(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.And(&x, y)
}

func opOr(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Or(&x, y)
}

func opXor(f *Frame) {
	x := f.Stack.Pop()
	y := f.Stack.Peek(0)
	y.Xor(&x, y)
}

func opNot(f *Frame) {
	x := f.Stack.Peek(0)
	x.Not(x)
}

func opByte(f *Frame) {
	n := f.Stack.Pop()
	x := f.Stack.Peek(0)
	x.Byte(&n)
}

func opShl(f *Frame) {
	shift := f.Stack.Pop()
	value := f.Stack.Peek(0)
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
}

func opShr(f *Frame) {
	shift := f.Stack.Pop()
	value := f.Stack.Peek(0)
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
}

func opSar(f *Frame) {
	shift := f.Stack.Pop()
	value := f.Stack.Peek(0)
	if shift.GtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return
	}
	value.SRsh(value, uint(shift.Uint64()))
}
