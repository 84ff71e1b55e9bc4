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

// Package params collects the protocol-wide numeric constants that are not
// themselves formulas (those live in package gas).
package params

const (
	// StackLimit is the maximum number of 256-bit words the EVM stack may
	// hold at once (spec.md §3: "a contiguous array of up to 1024 words").
	StackLimit = 1024

	// MaxCallDepth bounds call-frame nesting per spec.md §7
	// ("depth > 1024" is a RuntimeFault).
	MaxCallDepth = 1024

	// WordSize is the width, in bytes, of an EVM stack/memory word.
	WordSize = 32

	// Transaction-level costs (spec.md §4.2), applied outside the
	// per-opcode path.
	TxBaseCost                  = 21000
	TxDataZeroByteCost          = 4
	TxDataNonZeroByteCost       = 16
	TxAccessListAddressCost     = 2400
	TxAccessListStorageKeyCost  = 1900
	TxCreateCost                = 32000

	// CallStipend is the fixed gas amount granted to the callee when a
	// call transfers value (spec.md glossary: "Stipend").
	CallStipend = 2300

	// SstoreSentryGas is the minimum gas that must remain before SSTORE
	// does any work at all (spec.md §4.2, "SSTORE gate"). Distinct from
	// CallStipend even though the values coincide (EIP-2200).
	SstoreSentryGas = 2300

	// Gas-schedule constants referenced directly by more than one formula.
	WarmStorageReadCost   = 100
	ColdSloadCost         = 2100
	ColdAccountAccessCost = 2600
	WarmMemoryAccessCost  = 100
	NotZeroValueCost      = 9000
	EmptyCalleeCost       = 25000

	SstoreSetGas      = 20000
	SstoreResetGas    = 2900
	SstoreResetColdAddGas = 2200
	SstoreClearRefund = 4800
	SstoreNoopGas     = 100

	MaxRefundQuotient = 5 // EIP-3529: refund capped at gas_used / 5
)
