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

// Package host implements the runtime host described in spec.md §4.4: the
// single mutable context generated code is handed a borrowed pointer to,
// exposing the syscall surface of spec.md §6. It owns everything that
// cannot be expressed purely as generated code: memory, the staged storage
// overlay, logs, and the tx/block environment.
package host

import "github.com/holiman/uint256"

// Address is a 20-byte account address.
type Address [20]byte

// Hash is a 32-byte digest or storage key.
type Hash [32]byte

// BigToHash left-pads/truncates a uint256 into a 32-byte storage key.
func BigToHash(v *uint256.Int) Hash {
	return Hash(v.Bytes32())
}

// TxEnv is the transaction environment (spec.md §4.4).
type TxEnv struct {
	Caller   Address
	Origin   Address
	Value    uint256.Int
	GasPrice uint256.Int
	Data     []byte
	To       *Address // nil for contract creation
}

// BlockEnv is the block environment (spec.md §4.4).
type BlockEnv struct {
	Number      uint64
	Timestamp   uint64
	Coinbase    Address
	BaseFee     uint256.Int
	PrevRandao  Hash
	GasLimit    uint64
	BlobHashes  []Hash
	BlobBaseFee uint256.Int
}

// ChainEnv is the chain configuration (spec.md §4.4).
type ChainEnv struct {
	ChainID uint64
}

// Log is a single LOG record (spec.md §3, "Execution result").
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// ExitStatus encodes the byte spec.md §6 says main() returns: 0 = Return,
// 1 = Stop, 2 = Revert, 3 = Error.
type ExitStatus byte

const (
	ExitReturn ExitStatus = 0
	ExitStop   ExitStatus = 1
	ExitRevert ExitStatus = 2
	ExitError  ExitStatus = 3
)
