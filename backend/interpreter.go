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

	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/ir"
	"github.com/evmaot/evmaot/opcodes"
	"github.com/evmaot/evmaot/params"
)

// Frame is the per-invocation interpreter state the run loop threads
// through every opcode handler, the equivalent of the teacher's
// (pc, interpreter, contract, memory, stack) argument tuple collapsed into
// one receiver (core/vm/instructions.go).
type Frame struct {
	Stack *host.Stack
	Ctx   *host.Context

	GasRemaining uint64

	// set by opJump/opJumpi, read by the jump-table terminator.
	pendingTarget uint64
	jumpCond      bool

	// PC and pushValue carry the current instruction's source PC and (for
	// PUSH opcodes) immediate value into the handler, since handlers only
	// receive the Frame.
	PC        uint64
	pushValue uint256.Int

	returnData []byte
}

// opFunc is the single dispatch shape every opcode handler implements
// (spec.md §9, "Polymorphism": "a single dispatch in the generator/backend
// over the tag").
type opFunc func(f *Frame)

var dispatch = map[opcodes.OpCode]opFunc{}

// register is called from each ops_*.go file's init to populate dispatch,
// keeping the table's construction next to the handlers it names (the
// teacher does the analogous thing with newFrontierInstructionSet's
// literal map in jump_table.go).
func register(op opcodes.OpCode, fn opFunc) {
	if _, exists := dispatch[op]; exists {
		panic("backend: duplicate opcode registration for " + op.String())
	}
	dispatch[op] = fn
}

// interpreter is the reference Backend.Compile result: it re-walks the same
// ir.Module on every Run rather than lowering to any lower-level form,
// which is acceptable because this package stands in for a native backend,
// not for one (SPEC_FULL.md §1).
type interpreter struct {
	mod *ir.Module
}

// ReferenceBackend is the Backend implementation this repo ships.
type ReferenceBackend struct{}

// Compile returns a runnable wrapping mod; this reference backend performs
// no lowering, it interprets the IR directly.
func (ReferenceBackend) Compile(mod *ir.Module) (Compiled, error) {
	return &interpreter{mod: mod}, nil
}

// Run executes the function from its entry block until a TermReturn is
// reached, either because an opcode finished the call normally (STOP,
// RETURN, REVERT, SELFDESTRUCT) or because control reached
// Function.FaultBlock, which follows the last operation and is the entry of
// an empty program. A fault does not branch to that block: it is recorded
// on ctx and Run returns at once with the whole gas limit consumed.
func (in *interpreter) Run(ctx *host.Context, gasLimit uint64) uint64 {
	f := &Frame{
		Stack:        host.NewStack(),
		Ctx:          ctx,
		GasRemaining: gasLimit,
	}

	fn := in.mod.Func
	current := fn.EntryBlock

	for {
		block := fn.Blocks[current]
		halted := f.execBlock(block)
		if halted {
			break
		}

		switch block.Term.Kind {
		case ir.TermGoto:
			current = block.Term.Next
		case ir.TermGotoJumpTable:
			current = block.Term.JumpTableBlock
		case ir.TermCondGotoJumpTable:
			if f.jumpCond {
				current = block.Term.JumpTableBlock
			} else {
				current = block.Term.Next
			}
		case ir.TermSwitch:
			dest, ok := block.Term.Cases[f.pendingTarget]
			if !ok {
				ctx.Fault(host.FaultInvalidJump)
				// Halt implies all remaining gas is consumed (spec.md §3).
				return gasLimit
			}
			current = dest
		case ir.TermReturn:
			return gasLimit - f.GasRemaining
		}
	}

	// Reached only via the halted break above, i.e. after a fault: every
	// ctx.Fault call sets ExitError, and a Halt consumes the full gas limit.
	return gasLimit
}

// execBlock runs every instruction in block against f, returning true if
// execution should stop immediately (a fault occurred, bypassing the
// terminator entirely since the fault already set ctx.ExitStatus).
func (f *Frame) execBlock(block *ir.Block) (halted bool) {
	for _, instr := range block.Instrs {
		switch instr.Kind {
		case ir.KindGasCheck:
			if f.GasRemaining < instr.StaticGas {
				f.Ctx.Fault(host.FaultOutOfGas)
				return true
			}
			f.GasRemaining -= instr.StaticGas

		case ir.KindStackCheck:
			if f.Stack.Len() < instr.StackPop {
				f.Ctx.Fault(host.FaultStackUnderflow)
				return true
			}
			depthAfterPop := f.Stack.Len() - instr.StackPop
			if depthAfterPop+instr.StackPush > params.StackLimit {
				f.Ctx.Fault(host.FaultStackOverflow)
				return true
			}

		case ir.KindOp:
			handler, ok := dispatch[instr.Op]
			if !ok {
				f.Ctx.Fault(host.FaultInvalidOpcode)
				return true
			}
			f.PC = instr.PC
			f.pushValue = instr.PushValue
			handler(f)
			if f.Ctx.FaultReason != host.FaultNone {
				return true
			}
		}
	}
	return false
}
