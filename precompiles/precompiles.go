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

// Package precompiles implements the small fixed-address native contracts
// every EVM ships, following the (gas, call) pair shape of
// core/vm/contracts.go's PrecompiledContract interface.
package precompiles

import "github.com/evmaot/evmaot/host"

// Contract is the interface every precompiled address implements, matching
// the teacher's PrecompiledContract shape (core/vm/contracts.go): a gas
// estimator and the call itself.
type Contract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// Address 0x01..0x09 per the Ethereum precompile registry. 0x06-0x08
// (the BN256 pairing-curve operations) are not implemented: no library in
// the retrieved pack provides an alt_bn128 implementation and the spec does
// not name them, so wiring them would mean hand-rolling elliptic curve
// pairing math with no grounding source.
var Registry = map[host.Address]Contract{
	addr(1): ecrecoverContract{},
	addr(2): sha256Contract{},
	addr(3): ripemd160Contract{},
	addr(4): identityContract{},
	addr(5): modexpContract{},
	addr(9): blake2FContract{},
}

func addr(n byte) host.Address {
	var a host.Address
	a[19] = n
	return a
}

// Lookup returns the precompile at addr, if any.
func Lookup(a host.Address) (Contract, bool) {
	c, ok := Registry[a]
	return c, ok
}
