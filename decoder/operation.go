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

// Package decoder translates a linear EVM bytecode stream into a Program: an
// ordered operation list plus the set of valid JUMPDEST program counters.
package decoder

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/opcodes"
)

// Operation is one decoded instruction: an opcode plus, for PUSH, its
// immediate value and the byte width it was encoded with (needed to
// round-trip PUSH1 0x00 distinctly from PUSH2 0x0000, etc).
type Operation struct {
	Op         opcodes.OpCode
	PC         uint64
	PushWidth  int          // only meaningful when Op is a PUSH
	PushValue  uint256.Int  // only meaningful when Op is a PUSH
}

// Program is the decoded form of a contract's bytecode: an ordered
// operation list and the set of PCs that are legal jump targets.
type Program struct {
	Code      []byte
	Ops       []Operation
	Jumpdests JumpdestSet
}

// JumpdestSet is the set of PCs pointing at a JUMPDEST opcode, computed once
// at decode time. It is the only legal destination set for JUMP/JUMPI.
type JumpdestSet map[uint64]bool

// Has reports whether pc is a valid jump destination.
func (s JumpdestSet) Has(pc uint64) bool { return s[pc] }

// SortedPCs returns the jumpdest PCs in ascending order, used by the code
// generator to build the jump-table switch with a deterministic case order
// (spec: "Tie-breaking: case order follows ascending PC").
func (s JumpdestSet) SortedPCs() []uint64 {
	out := make([]uint64, 0, len(s))
	for pc := range s {
		out = append(out, pc)
	}
	// insertion sort is fine: jumpdest sets are small relative to code size
	// and this keeps the package free of a sort.Slice closure allocation
	// per call site that builds the jump table.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
