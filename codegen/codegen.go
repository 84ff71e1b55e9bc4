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

// Package codegen lowers a decoded Program into the compiler IR (package
// ir), following the six-step pattern of spec.md §4.3: gas check, stack
// check, materialize operands, dynamic cost, side effects, push results.
// Steps 1-2 are emitted as their own IR instructions (KindGasCheck,
// KindStackCheck); steps 3-6 are folded into a single KindOp instruction a
// backend's per-opcode table interprets (spec.md §9, "Polymorphism").
package codegen

import (
	"github.com/pkg/errors"

	"github.com/evmaot/evmaot/chainconfig"
	"github.com/evmaot/evmaot/decoder"
	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/ir"
	"github.com/evmaot/evmaot/opcodes"
)

// CodegenError reports a problem found while lowering a Program, distinct
// from a runtime fault: it means the generator itself cannot produce valid
// IR for the input, not that the generated code would fault when run.
type CodegenError struct {
	PC     uint64
	Reason string
}

func (e *CodegenError) Error() string {
	return "codegen error at pc=" + itoa64(e.PC) + ": " + e.Reason
}

func itoa64(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Options controls code generation.
type Options struct {
	Rules chainconfig.Rules
}

// DefaultOptions returns the always-on rule set (SPEC_FULL.md Open Question
// #1).
func DefaultOptions() Options {
	return Options{Rules: chainconfig.Default()}
}

// generator holds the mutable state threaded through Generate's single pass
// over prog.Ops.
type generator struct {
	prog  *decoder.Program
	rules chainconfig.Rules
	fn    *ir.Function

	// pcBlock maps a source PC to the block index whose first instruction
	// lowers it, populated in a first pass so that forward references (a
	// PUSH immediately followed by a JUMP to a later JUMPDEST) resolve
	// correctly on the second pass that fills instruction bodies.
	pcBlock map[uint64]int
}

// Generate lowers prog into an ir.Module. Every Operation becomes exactly
// one block (spec.md §4.3: "one basic block per source instruction, to keep
// the JUMPDEST dispatch table's granularity at the instruction level").
func Generate(prog *decoder.Program, opts Options) (*ir.Module, error) {
	g := &generator{
		prog:    prog,
		rules:   opts.Rules,
		fn:      ir.NewFunction(),
		pcBlock: make(map[uint64]int),
	}

	// Pass 1: allocate one block per operation so jump targets resolve.
	for _, op := range prog.Ops {
		label := op.Op.String()
		idx := g.fn.AddBlock(label)
		g.fn.Blocks[idx].PC = op.PC
		g.pcBlock[op.PC] = idx
	}
	if len(prog.Ops) == 0 {
		g.fn.EntryBlock = g.fn.FaultBlock
	} else {
		g.fn.EntryBlock = g.pcBlock[prog.Ops[0].PC]
	}

	// The jump-table block: a dense switch over JUMPDEST PCs, built once
	// and shared by every JUMP/JUMPI in the function (spec.md §4.5).
	jtIdx := g.fn.AddBlock("jumptable")
	g.fn.JumpTableBlock = jtIdx
	jumpdests := prog.Jumpdests.SortedPCs()
	term := ir.Terminator{Kind: ir.TermSwitch, Default: g.fn.FaultBlock, Cases: make(map[uint64]int)}
	for _, pc := range jumpdests {
		term.CasePCs = append(term.CasePCs, pc)
		term.Cases[pc] = g.pcBlock[pc]
	}
	g.fn.Blocks[jtIdx].Term = term

	moduleJumpdests := make(map[uint64]int, len(jumpdests))
	for _, pc := range jumpdests {
		moduleJumpdests[pc] = g.pcBlock[pc]
	}

	// Pass 2: fill each block's body and terminator.
	for i, op := range prog.Ops {
		blockIdx := g.pcBlock[op.PC]
		next := g.fn.FaultBlock
		if i+1 < len(prog.Ops) {
			next = g.pcBlock[prog.Ops[i+1].PC]
		}
		if err := g.lower(blockIdx, op, next); err != nil {
			return nil, err
		}
	}

	return &ir.Module{Func: g.fn, Jumpdests: moduleJumpdests}, nil
}

// lower fills in the block at blockIdx for op, falling through to next on
// ordinary (non-branching) control flow.
func (g *generator) lower(blockIdx int, op decoder.Operation, next int) error {
	block := g.fn.Blocks[blockIdx]

	if !g.rules.Enabled(op.Op) {
		// Disabled by the active rule set: decode succeeded but this
		// opcode does not exist under these rules, matching spec.md
		// §4.1's "unmapped byte" treatment deferred to runtime.
		block.Instrs = append(block.Instrs, ir.Instr{Kind: ir.KindOp, Op: opcodes.INVALID, PC: op.PC})
		block.Term = ir.Terminator{Kind: ir.TermReturn}
		return nil
	}

	staticGas, ok := gas.StaticCosts[op.Op]
	if !ok && !opcodes.IsPush(op.Op) && !opcodes.IsDup(op.Op) && !opcodes.IsSwap(op.Op) && !opcodes.IsLog(op.Op) {
		return errors.WithStack(&CodegenError{PC: op.PC, Reason: "no static gas cost for opcode " + op.Op.String()})
	}
	block.Instrs = append(block.Instrs, ir.Instr{Kind: ir.KindGasCheck, StaticGas: staticGas})

	pop, push := stackDelta(op.Op)
	block.Instrs = append(block.Instrs, ir.Instr{Kind: ir.KindStackCheck, StackPop: pop, StackPush: push})

	block.Instrs = append(block.Instrs, ir.Instr{
		Kind:      ir.KindOp,
		Op:        op.Op,
		PushValue: op.PushValue,
		PC:        op.PC,
	})

	switch {
	case op.Op == opcodes.JUMP:
		block.Term = ir.Terminator{Kind: ir.TermGotoJumpTable, JumpTableBlock: g.fn.JumpTableBlock}
	case op.Op == opcodes.JUMPI:
		block.Term = ir.Terminator{Kind: ir.TermCondGotoJumpTable, JumpTableBlock: g.fn.JumpTableBlock, Next: next}
	case isTerminal(op.Op):
		block.Term = ir.Terminator{Kind: ir.TermReturn}
	default:
		block.Term = ir.Terminator{Kind: ir.TermGoto, Next: next}
	}

	return nil
}

// isTerminal reports whether op always ends the function's control flow.
func isTerminal(op opcodes.OpCode) bool {
	switch op {
	case opcodes.STOP, opcodes.RETURN, opcodes.REVERT, opcodes.INVALID, opcodes.SELFDESTRUCT:
		return true
	default:
		return false
	}
}

// stackDelta returns the pop/push counts for op, resolving the
// immediate-dependent families (PUSH, DUP, SWAP, LOG) that
// opcodes.FixedStackDeltas does not cover.
func stackDelta(op opcodes.OpCode) (pop, push int) {
	if d, ok := opcodes.FixedStackDeltas[op]; ok {
		return d.Pop, d.Push
	}
	switch {
	case opcodes.IsPush(op):
		return 0, 1
	case opcodes.IsDup(op):
		return opcodes.DupDepth(op), opcodes.DupDepth(op) + 1
	case opcodes.IsSwap(op):
		return opcodes.SwapDepth(op) + 1, opcodes.SwapDepth(op) + 1
	case opcodes.IsLog(op):
		return opcodes.LogTopics(op) + 2, 0
	default:
		return 0, 0
	}
}
