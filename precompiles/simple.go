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
	"crypto/sha256"
)

const (
	sha256PerWordGas = 12
	sha256BaseGas    = 60
	identityPerWordGas = 3
	identityBaseGas    = 15
)

func words(size int) uint64 {
	return uint64((size + 31) / 32)
}

// sha256Contract is address 0x02 (core/vm/contracts.go's sha256hash).
type sha256Contract struct{}

func (sha256Contract) RequiredGas(input []byte) uint64 {
	return sha256BaseGas + words(len(input))*sha256PerWordGas
}

func (sha256Contract) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// identityContract is address 0x04 (core/vm/contracts.go's dataCopy).
type identityContract struct{}

func (identityContract) RequiredGas(input []byte) uint64 {
	return identityBaseGas + words(len(input))*identityPerWordGas
}

func (identityContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}
