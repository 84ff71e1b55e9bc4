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

// FaultReason enumerates the RuntimeFault causes of spec.md §7. A fault is
// never a Go error: it sets ExitStatus and a reason on the Context and the
// backend's run loop returns normally (spec.md, "Propagation policy").
type FaultReason int

const (
	FaultNone FaultReason = iota
	FaultOutOfGas
	FaultStackOverflow
	FaultStackUnderflow
	FaultInvalidJump
	FaultInvalidOpcode
	FaultMemoryAllocation
	FaultStaticCallViolation
	FaultCallDepthExceeded
)

func (r FaultReason) String() string {
	switch r {
	case FaultNone:
		return "none"
	case FaultOutOfGas:
		return "out of gas"
	case FaultStackOverflow:
		return "stack overflow"
	case FaultStackUnderflow:
		return "stack underflow"
	case FaultInvalidJump:
		return "invalid jump"
	case FaultInvalidOpcode:
		return "invalid opcode"
	case FaultMemoryAllocation:
		return "memory allocation failure"
	case FaultStaticCallViolation:
		return "static call violation"
	case FaultCallDepthExceeded:
		return "call depth exceeded"
	default:
		return "unknown fault"
	}
}

// Fault records reason as the cause of this invocation's Halt: exit status
// becomes ExitError and all remaining gas is consumed (spec.md §3,
// "Execution result": "Halt implies ... all remaining gas consumed").
func (c *Context) Fault(reason FaultReason) {
	c.FaultReason = reason
	c.ExitStatus = ExitError
}
