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

package host

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/params"
)

// Stack is the contiguous array of up to params.StackLimit 256-bit words
// spec.md §3 describes. Overflow/underflow are supposed to be caught by the
// generator's KindStackCheck instructions before Push/Pop are ever called;
// these panic on violation as a last-resort invariant guard, the same way
// indexing past a Go slice's bounds would.
type Stack struct {
	data []uint256.Int
}

// NewStack allocates a stack with params.StackLimit capacity, mirroring the
// teacher's "alloca of 1024 words" prologue (spec.md §4.3).
func NewStack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, params.StackLimit)}
}

// Len returns the current stack depth.
func (s *Stack) Len() int { return len(s.data) }

// Push appends v to the top of the stack.
func (s *Stack) Push(v *uint256.Int) {
	if len(s.data) >= params.StackLimit {
		panic("host: stack push exceeds limit, KindStackCheck should have caught this")
	}
	s.data = append(s.data, *v)
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() uint256.Int {
	n := len(s.data)
	if n == 0 {
		panic("host: stack pop on empty stack, KindStackCheck should have caught this")
	}
	v := s.data[n-1]
	s.data = s.data[:n-1]
	return v
}

// Peek returns the value at depth n from the top without popping (n=0 is
// the top element), used by MLOAD/MSTORE-family opcodes that read the top
// without consuming it ahead of computing a result.
func (s *Stack) Peek(n int) *uint256.Int {
	return &s.data[len(s.data)-1-n]
}

// Dup pushes a copy of the value at depth n-1 from the top (DUPn).
func (s *Stack) Dup(n int) {
	if len(s.data) >= params.StackLimit {
		panic("host: stack push exceeds limit, KindStackCheck should have caught this")
	}
	v := s.data[len(s.data)-n]
	s.data = append(s.data, v)
}

// Swap exchanges the top element with the element at depth n (SWAPn).
func (s *Stack) Swap(n int) {
	top := len(s.data) - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}
