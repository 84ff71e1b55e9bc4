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

package decoder

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/evmaot/evmaot/opcodes"
)

// DecodeError reports a decode-time problem. It is only ever returned when
// Strict is set; the runtime-faithful (non-strict) decoder never fails — a
// truncated PUSH immediate is zero-padded and an unmapped byte becomes
// opcodes.INVALID, deferred to a runtime fault if it is ever reached.
type DecodeError struct {
	PC     uint64
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at pc=%d: %s", e.PC, e.Reason)
}

// Options controls decode strictness.
type Options struct {
	// Strict rejects truncated PUSH immediates and unmapped opcodes instead
	// of papering over them. The runtime-faithful decoder (Strict: false)
	// is what the code generator and executor use.
	Strict bool
}

// Decode performs the single forward pass described in spec.md §4.1: read
// one byte at a time, special-casing PUSHn (consume n immediate bytes,
// never decoded as opcodes themselves) and JUMPDEST (recorded in the
// jumpdest set). Unmapped bytes decode to opcodes.INVALID and do not abort
// the scan; they only fault if actually reached at runtime.
func Decode(code []byte, opts Options) (*Program, error) {
	prog := &Program{
		Code:      code,
		Jumpdests: make(JumpdestSet),
	}

	pc := uint64(0)
	for pc < uint64(len(code)) {
		op := opcodes.OpCode(code[pc])

		switch {
		case op == opcodes.PUSH0:
			prog.Ops = append(prog.Ops, Operation{Op: op, PC: pc})
			pc++

		case opcodes.IsPush(op):
			width := opcodes.PushWidth(op)
			start := pc + 1
			end := start + uint64(width)

			var raw [32]byte
			if end > uint64(len(code)) {
				if opts.Strict {
					return nil, errors.WithStack(&DecodeError{PC: pc, Reason: "truncated PUSH immediate"})
				}
				// zero-pad: copy whatever bytes exist, leave the rest zero.
				if start < uint64(len(code)) {
					copy(raw[32-width:], code[start:])
				}
			} else {
				copy(raw[32-width:], code[start:end])
			}

			var val uint256.Int
			val.SetBytes(raw[:])
			prog.Ops = append(prog.Ops, Operation{Op: op, PC: pc, PushWidth: width, PushValue: val})

			if end > uint64(len(code)) {
				pc = uint64(len(code))
			} else {
				pc = end
			}

		case op == opcodes.JUMPDEST:
			prog.Jumpdests[pc] = true
			prog.Ops = append(prog.Ops, Operation{Op: op, PC: pc})
			pc++

		case isMapped(op):
			prog.Ops = append(prog.Ops, Operation{Op: op, PC: pc})
			pc++

		default:
			if opts.Strict {
				return nil, errors.WithStack(&DecodeError{PC: pc, Reason: "unknown opcode"})
			}
			prog.Ops = append(prog.Ops, Operation{Op: opcodes.INVALID, PC: pc})
			pc++
		}
	}

	return prog, nil
}

// isMapped reports whether op is a specified instruction (not counting PUSH
// and JUMPDEST, handled separately above).
func isMapped(op opcodes.OpCode) bool {
	if _, ok := opcodes.FixedStackDeltas[op]; ok {
		return true
	}
	return opcodes.IsDup(op) || opcodes.IsSwap(op) || opcodes.IsLog(op)
}

// Encode renders a Program back to bytecode and is used by the round-trip
// property test (spec.md §8.2): decode(B) then Encode yields B again when
// every byte of B is a mapped opcode or PUSH data and no PUSH is truncated.
// Unmapped bytes come back as INVALID (0xFE), and a truncated PUSH comes
// back at its full width with the missing bytes as zeros.
func Encode(prog *Program) []byte {
	out := make([]byte, 0, len(prog.Code))
	for _, op := range prog.Ops {
		out = append(out, byte(op.Op))
		if opcodes.IsPush(op.Op) && op.PushWidth > 0 {
			b := op.PushValue.Bytes32()
			out = append(out, b[32-op.PushWidth:]...)
		}
	}
	return out
}
