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

// Package gas implements the static and dynamic cost formulas of spec.md
// §4.2, adapted from the teacher's core/vm/gas.go (_baseCheck table,
// quadMemGas, callGas) to the post-Berlin/London/Cancun rule set this spec
// targets (warm/cold access, EIP-3529 refunds).
package gas

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/opcodes"
	"github.com/evmaot/evmaot/params"
)

// Step costs, named the way the teacher names them (GasQuickStep,
// GasFastestStep, ...) in core/vm/gas.go.
const (
	Zero    uint64 = 0
	Quick   uint64 = 2
	Fastest uint64 = 3
	Fast    uint64 = 5
	Mid     uint64 = 8
	Slow    uint64 = 10
	Ext     uint64 = 20
)

// StaticCosts is the per-opcode base gas cost charged before any dynamic
// component (spec.md §4.3 step 1). Opcodes with an entirely dynamic cost
// (SSTORE, EXP's dynamic component, CALL, LOG, ...) still carry their fixed
// floor here; their variable component is computed by the functions below.
var StaticCosts = map[opcodes.OpCode]uint64{
	opcodes.STOP: Zero,
	opcodes.ADD:  Fastest, opcodes.SUB: Fastest, opcodes.LT: Fastest, opcodes.GT: Fastest,
	opcodes.SLT: Fastest, opcodes.SGT: Fastest, opcodes.EQ: Fastest, opcodes.ISZERO: Fastest,
	opcodes.AND: Fastest, opcodes.OR: Fastest, opcodes.XOR: Fastest, opcodes.NOT: Fastest,
	opcodes.BYTE: Fastest, opcodes.SHL: Fastest, opcodes.SHR: Fastest, opcodes.SAR: Fastest,
	opcodes.CALLDATALOAD: Fastest, opcodes.MLOAD: Fastest, opcodes.MSTORE: Fastest, opcodes.MSTORE8: Fastest,
	opcodes.MUL: Fast, opcodes.DIV: Fast, opcodes.SDIV: Fast, opcodes.MOD: Fast, opcodes.SMOD: Fast,
	opcodes.SIGNEXTEND: Fast,
	opcodes.ADDMOD:      Mid, opcodes.MULMOD: Mid, opcodes.JUMP: Mid,
	opcodes.JUMPI: Slow,
	opcodes.EXP:   Slow,
	opcodes.ADDRESS: Quick, opcodes.ORIGIN: Quick, opcodes.CALLER: Quick, opcodes.CALLVALUE: Quick,
	opcodes.CODESIZE: Quick, opcodes.GASPRICE: Quick, opcodes.COINBASE: Quick, opcodes.TIMESTAMP: Quick,
	opcodes.NUMBER: Quick, opcodes.CALLDATASIZE: Quick, opcodes.PREVRANDAO: Quick, opcodes.GASLIMIT: Quick,
	opcodes.POP: Quick, opcodes.PC: Quick, opcodes.MSIZE: Quick, opcodes.GAS: Quick,
	opcodes.CHAINID: Quick, opcodes.SELFBALANCE: 5, opcodes.BASEFEE: Quick,
	opcodes.BLOBHASH: Fastest, opcodes.BLOBBASEFEE: Quick,
	opcodes.BLOCKHASH: Ext,
	opcodes.JUMPDEST:  1,
	opcodes.PUSH0:     2,
	opcodes.KECCAK256: 30,
	opcodes.MCOPY:     Fastest,
	opcodes.TLOAD:     100,
	opcodes.TSTORE:    100,
	opcodes.CALLDATACOPY: Fastest, opcodes.CODECOPY: Fastest,
	opcodes.RETURN: Zero, opcodes.REVERT: Zero, opcodes.INVALID: Zero,
	// EIP-2929 cold-by-default opcodes carry their warm floor here; the
	// caller adds only the cold surcharge on top (ColdSloadCost minus this
	// floor for SLOAD, AccessCost below minus this floor for accounts).
	opcodes.BALANCE: params.WarmStorageReadCost, opcodes.EXTCODESIZE: params.WarmStorageReadCost,
	opcodes.EXTCODECOPY: params.WarmStorageReadCost, opcodes.EXTCODEHASH: params.WarmStorageReadCost,
	opcodes.SLOAD: params.WarmStorageReadCost,
	opcodes.CALL: params.WarmStorageReadCost, opcodes.CALLCODE: params.WarmStorageReadCost,
	opcodes.DELEGATECALL: params.WarmStorageReadCost, opcodes.STATICCALL: params.WarmStorageReadCost,
	opcodes.CREATE: 32000, opcodes.CREATE2: 32000,
	opcodes.SELFDESTRUCT: 5000,
	opcodes.LOG0: Zero, opcodes.LOG1: Zero, opcodes.LOG2: Zero, opcodes.LOG3: Zero, opcodes.LOG4: Zero,
	opcodes.SSTORE: Zero, // entirely dynamic, see SstoreCost
}

func init() {
	for n := 1; n <= 32; n++ {
		StaticCosts[opcodes.PUSH1+opcodes.OpCode(n-1)] = Fastest
	}
	for n := 1; n <= 16; n++ {
		StaticCosts[opcodes.DUP1+opcodes.OpCode(n-1)] = Fastest
		StaticCosts[opcodes.SWAP1+opcodes.OpCode(n-1)] = Fastest
	}
}

// AccessCost returns the EIP-2929 cost for touching an account: the cold
// account cost on first touch this transaction, the cheap warm cost
// afterwards. Storage slots are priced with params.ColdSloadCost instead.
func AccessCost(cold bool) uint64 {
	if cold {
		return params.ColdAccountAccessCost
	}
	return params.WarmStorageReadCost
}

// toWordSize rounds size bytes up to the nearest 32-byte word count,
// mirroring the teacher's core/vm/gas.go#toWordSize.
func toWordSize(size uint64) uint64 {
	return (size + 31) / 32
}

// MemoryExpansionCost implements spec.md's f(sz) = sz²/512 + 3·sz formula
// over word counts, charging only the marginal cost of growing from
// lastSize to newSize (both in bytes, newSize already rounded by the
// caller to a 32-byte boundary per spec.md §3's memory invariant).
func MemoryExpansionCost(lastSize, newSize uint64) uint64 {
	if newSize <= lastSize {
		return 0
	}
	return memCost(toWordSize(newSize)) - memCost(toWordSize(lastSize))
}

func memCost(words uint64) uint64 {
	return words*words/512 + 3*words
}

// CopyCost implements spec.md's "3 · ceil(size / 32)" memory-copy formula
// (CALLDATACOPY, CODECOPY, EXTCODECOPY, RETURNDATACOPY, MCOPY).
func CopyCost(size uint64) uint64 {
	return 3 * toWordSize(size)
}

// ExpCost implements "10 + 50 · ceil(bit_length(exponent) / 8)".
func ExpCost(exponent *uint256.Int) uint64 {
	bitlen := exponent.BitLen()
	if bitlen == 0 {
		return 10
	}
	return 10 + 50*uint64((bitlen+7)/8)
}

// LogCost implements "375 · (1 + topic_count) + 8 · size" (memory expansion
// is charged separately by the caller via MemoryExpansionCost).
func LogCost(topicCount int, size uint64) uint64 {
	return 375*uint64(1+topicCount) + 8*size
}

// InitCodeCost implements "2 · ceil(init_code_length / 32)" (CREATE/CREATE2
// init-code word cost, EIP-3860).
func InitCodeCost(initCodeLen uint64) uint64 {
	return 2 * toWordSize(initCodeLen)
}

// CallGasParams is the input to CallGas.
type CallGasParams struct {
	AvailableGas uint64       // gas remaining in the caller's frame before this CALL
	Requested    *uint256.Int // gas amount the stack asked to forward
	Value        *uint256.Int // value being transferred, or nil/zero
	ColdAccess   bool         // first touch of the callee address this tx
	CalleeEmpty  bool         // callee account does not exist (CALL only)
}

// CallGas computes the access-cost component charged to the caller and the
// gas actually forwarded to the callee, implementing spec.md's composed
// CALL formula: access cost (warm/cold), + NOT_ZERO_VALUE_COST when
// transferring value, + EMPTY_CALLEE_COST when the recipient is a new
// account, the 63/64 forwarding cap, and the stipend added back for
// value-transferring calls.
func CallGas(p CallGasParams) (accessCost uint64, forwardedGas uint64) {
	accessCost = AccessCost(p.ColdAccess)

	transfersValue := p.Value != nil && !p.Value.IsZero()
	if transfersValue {
		accessCost += params.NotZeroValueCost
	}
	if transfersValue && p.CalleeEmpty {
		accessCost += params.EmptyCalleeCost
	}

	var remaining uint64
	if p.AvailableGas > accessCost {
		remaining = p.AvailableGas - accessCost
	}
	cap63 := remaining - remaining/64

	forwardedGas = cap63
	if p.Requested != nil && p.Requested.IsUint64() && p.Requested.Uint64() < cap63 {
		forwardedGas = p.Requested.Uint64()
	}
	if transfersValue {
		forwardedGas += params.CallStipend
	}
	return accessCost, forwardedGas
}

// SstoreCost implements the four-case SSTORE rule of spec.md §4.2
// (EIP-2200 value-transition cases composed with the EIP-2929 cold
// surcharge and the EIP-3529 reduced refund table). original is the value
// at the start of the transaction, current is the value before this
// SSTORE, new is the value being written. refund may be negative (reversing
// a refund granted earlier in the same transaction).
func SstoreCost(original, current, new *uint256.Int, cold bool) (gasCost uint64, refund int64) {
	if current.Eq(new) {
		// No-op: the value isn't actually changing.
		if cold {
			return params.ColdSloadCost, 0
		}
		return params.WarmStorageReadCost, 0
	}

	isOriginalZero := original.IsZero()

	if original.Eq(current) {
		// Fresh write within this transaction.
		if isOriginalZero {
			gasCost = params.SstoreSetGas
		} else {
			gasCost = params.SstoreResetGas
			if new.IsZero() {
				refund += params.SstoreClearRefund
			}
		}
	} else {
		// Dirty slot: this transaction already wrote it at least once.
		gasCost = params.WarmStorageReadCost

		if !isOriginalZero {
			if current.IsZero() {
				refund -= params.SstoreClearRefund
			}
			if new.IsZero() {
				refund += params.SstoreClearRefund
			}
		}

		if original.Eq(new) {
			if isOriginalZero {
				refund += int64(params.SstoreSetGas) - int64(params.WarmStorageReadCost)
			} else {
				refund += int64(params.SstoreResetGas) - int64(params.WarmStorageReadCost)
			}
		}
	}

	if cold {
		gasCost += params.ColdSloadCost
	}
	return gasCost, refund
}

// CapRefund applies the EIP-3529 refund cap: total refund never exceeds
// gasUsed / MaxRefundQuotient.
func CapRefund(gasUsed uint64, refund uint64) uint64 {
	cap := gasUsed / params.MaxRefundQuotient
	if refund > cap {
		return cap
	}
	return refund
}
