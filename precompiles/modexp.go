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

// modexpContract is address 0x05 (core/vm/contracts.go's bigModExp), built
// directly on math/big: no library in the retrieved pack offers a big-int
// modexp implementation and math/big.Int.Exp is itself the primitive every
// Go bignum library, including the pack's own dependencies, is built on.
package precompiles

import "math/big"

const modexpMinGas = 200

type modexpContract struct{}

func (modexpContract) RequiredGas(input []byte) uint64 {
	baseLen, expLen, modLen := modexpLengths(input)
	adjExpLen := modexpAdjustedExpLen(input, baseLen, expLen)
	maxLen := baseLen
	if modLen > maxLen {
		maxLen = modLen
	}
	words := (maxLen + 7) / 8
	complexity := words * words
	gas := complexity * max64(adjExpLen, 1) / 3
	if gas < modexpMinGas {
		return modexpMinGas
	}
	return gas
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func modexpLengths(input []byte) (baseLen, expLen, modLen uint64) {
	input = rightPad(input, 96)
	baseLen = big.NewInt(0).SetBytes(input[0:32]).Uint64()
	expLen = big.NewInt(0).SetBytes(input[32:64]).Uint64()
	modLen = big.NewInt(0).SetBytes(input[64:96]).Uint64()
	return
}

// modexpAdjustedExpLen implements EIP-198's bit-length-of-exponent discount:
// when the exponent is small, charge by its actual bit length rather than
// its byte length.
func modexpAdjustedExpLen(input []byte, baseLen, expLen uint64) uint64 {
	if expLen == 0 {
		return 0
	}
	const headerLen = 96
	expStart := headerLen + baseLen
	var expHead []byte
	if uint64(len(input)) > expStart {
		end := expStart + expLen
		if end > uint64(len(input)) {
			end = uint64(len(input))
		}
		expHead = input[expStart:end]
	}
	expVal := new(big.Int).SetBytes(expHead)
	bitLen := uint64(expVal.BitLen())

	if expLen <= 32 {
		if bitLen == 0 {
			return 0
		}
		return bitLen - 1
	}
	adjusted := 8 * (expLen - 32)
	if bitLen > 0 {
		adjusted += bitLen - 1
	}
	return adjusted
}

func (modexpContract) Run(input []byte) ([]byte, error) {
	baseLen, expLen, modLen := modexpLengths(input)
	input = rightPad(input, 96)

	const headerLen = 96
	body := input[headerLen:]
	body = rightPad(body, int(baseLen+expLen+modLen))

	base := new(big.Int).SetBytes(body[0:baseLen])
	exp := new(big.Int).SetBytes(body[baseLen : baseLen+expLen])
	mod := new(big.Int).SetBytes(body[baseLen+expLen : baseLen+expLen+modLen])

	out := make([]byte, modLen)
	if mod.Sign() == 0 {
		return out, nil
	}
	result := new(big.Int).Exp(base, exp, mod)
	result.FillBytes(out)
	return out, nil
}
