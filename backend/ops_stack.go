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

// PUSH0..PUSH32, DUPn, SWAPn, LOGn: families whose handler is
// opcode-independent apart from a width/depth parameter derived from the
// opcode byte itself, registered in a loop rather than 16+ near-identical
// register() calls.
package backend

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/opcodes"
)

func init() {
	register(opcodes.PUSH0, opPush)
	for n := opcodes.PUSH1; n <= opcodes.PUSH32; n++ {
		register(n, opPush)
	}
	for n := opcodes.DUP1; n <= opcodes.DUP16; n++ {
		register(n, makeDup(opcodes.DupDepth(n)))
	}
	for n := opcodes.SWAP1; n <= opcodes.SWAP16; n++ {
		register(n, makeSwap(opcodes.SwapDepth(n)))
	}
	for n := opcodes.LOG0; n <= opcodes.LOG4; n++ {
		register(n, makeLog(opcodes.LogTopics(n)))
	}
}

func opPush(f *Frame) {
	v := f.pushValue
	f.Stack.Push(&v)
}

func makeDup(n int) opFunc {
	return func(f *Frame) {
		f.Stack.Dup(n)
	}
}

func makeSwap(n int) opFunc {
	return func(f *Frame) {
		f.Stack.Swap(n)
	}
}

func makeLog(topicCount int) opFunc {
	return func(f *Frame) {
		offset := f.Stack.Pop()
		size := f.Stack.Pop()
		topics := make([]uint256.Int, topicCount)
		for i := 0; i < topicCount; i++ {
			topics[i] = f.Stack.Pop()
		}
		off, sz, ok := f.ensureMemory(&offset, &size)
		if !ok {
			return
		}
		if !f.chargeGas(gas.LogCost(topicCount, sz)) {
			return
		}
		f.Ctx.AppendLog(uint32(off), uint32(sz), topics)
	}
}
