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

// Package ir is the compiler intermediate representation the code
// generator emits and a backend consumes. Blocks are addressed by stable
// integer index rather than pointer so that the CFG's back-edges (loops
// formed by JUMP) are plain indices into Function.Blocks, not owning
// references (spec.md §9, "Cyclic graphs").
package ir

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/opcodes"
)

// InstrKind tags the shape of an Instr. The generator and any backend agree
// on this single tagged union rather than one Go type per opcode (spec.md
// §9, "Polymorphism": "Prefer a tagged-union with a single dispatch in the
// generator over per-instruction classes").
type InstrKind int

const (
	// KindGasCheck loads the gas counter, compares it with StaticGas, and
	// faults (jump to Function.FaultBlock) if insufficient; otherwise
	// subtracts and stores back. Spec.md §4.3 step 1.
	KindGasCheck InstrKind = iota
	// KindStackCheck verifies depth >= StackPop and (if StackPush > 0)
	// remaining capacity >= StackPush, faulting otherwise. Spec.md §4.3
	// step 2.
	KindStackCheck
	// KindOp performs the operation's value materialization and side
	// effects (step 3-6): an opcode-specific backend table dispatches on
	// Op, the one place decoder and codegen agree on instruction shape
	// (spec.md §9, "Polymorphism").
	KindOp
)

// Instr is a single IR instruction within a Block.
type Instr struct {
	Kind InstrKind

	// KindGasCheck
	StaticGas uint64

	// KindStackCheck
	StackPop  int
	StackPush int

	// KindOp
	Op        opcodes.OpCode
	PushValue uint256.Int // embedded PUSH immediate, set only when Op is a PUSH
	PC        uint64      // source program counter, used by the PC opcode and fault reporting
}

// TermKind tags a Block's terminator.
type TermKind int

const (
	// TermGoto unconditionally transfers to Next.
	TermGoto TermKind = iota
	// TermGotoJumpTable unconditionally transfers to the function's
	// jump-table block (used by JUMP, after KindOp has stored the target
	// PC on the frame).
	TermGotoJumpTable
	// TermCondGotoJumpTable transfers to the jump-table block if the
	// frame's pending-jump flag was set by a JUMPI KindOp (condition was
	// nonzero), otherwise falls through to Next.
	TermCondGotoJumpTable
	// TermSwitch is the jump-table block's terminator: a dense switch over
	// Cases (PC -> block index), falling back to Default (the fault
	// block) for any PC that is not a JUMPDEST (spec.md §4.5).
	TermSwitch
	// TermReturn halts the function. Used by STOP/RETURN/REVERT/
	// SELFDESTRUCT blocks (which set the exit status via KindOp before
	// reaching it) and by Function.FaultBlock.
	TermReturn
)

// Terminator ends a Block.
type Terminator struct {
	Kind TermKind

	Next           int // TermGoto, TermCondGotoJumpTable fallthrough
	JumpTableBlock int // TermGotoJumpTable, TermCondGotoJumpTable

	// TermSwitch: case order is ascending PC (spec.md §4.3,
	// "Tie-breaking: case order follows ascending PC"), kept here as a
	// parallel slice of PCs alongside Cases map for deterministic
	// iteration by any backend that lowers this to a real jump table.
	CasePCs []uint64
	Cases   map[uint64]int
	Default int
}

// Block is one basic block: a straight-line instruction sequence ending in
// exactly one Terminator.
type Block struct {
	ID    int
	PC    uint64 // source PC this block lowers (0 for synthetic blocks)
	Label string // debug label: mnemonic, "jumptable", "fault", ...
	Instrs []Instr
	Term   Terminator
}

// Function is the single per-contract function the generator builds (spec.md
// §4.3: "Generates one IR function per program").
type Function struct {
	Blocks []*Block

	EntryBlock     int
	JumpTableBlock int
	FaultBlock     int
}

// Module holds the compiled function plus the decoded jumpdest set the
// generator used to build the jump table, handed to a Backend.
type Module struct {
	Func      *Function
	Jumpdests map[uint64]int // PC -> block index, mirrors Function.JumpTableBlock's Cases
}

// NewFunction creates an empty function and allocates its fault block,
// which every other block's checks fault into.
func NewFunction() *Function {
	f := &Function{}
	f.FaultBlock = f.AddBlock("fault")
	f.Blocks[f.FaultBlock].Term = Terminator{Kind: TermReturn}
	return f
}

// AddBlock appends a new empty block and returns its index.
func (f *Function) AddBlock(label string) int {
	id := len(f.Blocks)
	f.Blocks = append(f.Blocks, &Block{ID: id, Label: label})
	return id
}
