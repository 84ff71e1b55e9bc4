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

package precompiles

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/evmaot/evmaot/internal/xlog"
)

const ecrecoverGas = 3000

// ecrecoverContract is address 0x01, grounded on core/vm/contracts.go's
// ecrecover (which itself shells out to crypto.Ecrecover); this
// implementation uses btcec/v2 directly instead of the teacher's cgo
// secp256k1 binding.
type ecrecoverContract struct{}

func (ecrecoverContract) RequiredGas([]byte) uint64 { return ecrecoverGas }

func (ecrecoverContract) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 128)

	var hash [32]byte
	copy(hash[:], input[:32])

	v := input[63]
	if !allZero(input[32:63]) || (v != 27 && v != 28) {
		xlog.V(xlog.Debug).Infof("ecrecover: malformed recovery id")
		return nil, nil
	}

	// btcec's RecoverCompact expects (recoveryID, r, s); the EVM wire
	// format is (r, s, v), so rebuild in the library's order.
	compact := make([]byte, 65)
	compact[0] = v
	copy(compact[1:33], input[64:96])
	copy(compact[33:65], input[96:128])

	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		xlog.V(xlog.Debug).Infof("ecrecover: signature rejected: %v", err)
		return nil, nil
	}

	out := make([]byte, 32)
	copy(out[12:], addressFromPubkey(pub))
	return out, nil
}

func addressFromPubkey(pub *btcec.PublicKey) []byte {
	// Ethereum addresses are the low 20 bytes of keccak256 of the
	// uncompressed public key's X||Y coordinates (no leading 0x04 byte).
	serialized := pub.SerializeUncompressed()[1:]
	h := keccak256(serialized)
	return h[12:]
}

func rightPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size]
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
