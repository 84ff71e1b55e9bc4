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

// blake2FContract is address 0x09 (EIP-152, added after the teacher's era).
// The BLAKE2b compression function F is implemented directly from RFC 7693
// since the pack carries no blake2b library reaching this primitive
// (x/crypto's blake2b package exposes the full hash, not the bare
// variable-round compression function EIP-152 calls for).
package precompiles

import (
	"encoding/binary"
	"errors"
)

var blake2fIV = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

var blake2fSigma = [10][16]byte{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
}

type blake2FContract struct{}

func (blake2FContract) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(input[0:4]))
}

func (blake2FContract) Run(input []byte) ([]byte, error) {
	if len(input) != 213 {
		return nil, errors.New("blake2f: invalid input length")
	}
	final := input[212]
	if final != 0 && final != 1 {
		return nil, errors.New("blake2f: invalid final block indicator")
	}

	rounds := binary.BigEndian.Uint32(input[0:4])

	var h [8]uint64
	for i := 0; i < 8; i++ {
		h[i] = binary.LittleEndian.Uint64(input[4+i*8:])
	}
	var m [16]uint64
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint64(input[68+i*8:])
	}
	t0 := binary.LittleEndian.Uint64(input[196:])
	t1 := binary.LittleEndian.Uint64(input[204:])

	blake2fCompress(&h, m, t0, t1, final == 1, rounds)

	out := make([]byte, 64)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], h[i])
	}
	return out, nil
}

func blake2fG(v *[16]uint64, a, b, c, d int, x, y uint64) {
	v[a] = v[a] + v[b] + x
	v[d] = rotr64(v[d]^v[a], 32)
	v[c] = v[c] + v[d]
	v[b] = rotr64(v[b]^v[c], 24)
	v[a] = v[a] + v[b] + y
	v[d] = rotr64(v[d]^v[a], 16)
	v[c] = v[c] + v[d]
	v[b] = rotr64(v[b]^v[c], 63)
}

func rotr64(x uint64, n uint) uint64 { return x>>n | x<<(64-n) }

func blake2fCompress(h *[8]uint64, m [16]uint64, t0, t1 uint64, final bool, rounds uint32) {
	var v [16]uint64
	copy(v[0:8], h[0:8])
	copy(v[8:16], blake2fIV[0:8])
	v[12] ^= t0
	v[13] ^= t1
	if final {
		v[14] = ^v[14]
	}

	for r := uint32(0); r < rounds; r++ {
		s := blake2fSigma[r%10]
		blake2fG(&v, 0, 4, 8, 12, m[s[0]], m[s[1]])
		blake2fG(&v, 1, 5, 9, 13, m[s[2]], m[s[3]])
		blake2fG(&v, 2, 6, 10, 14, m[s[4]], m[s[5]])
		blake2fG(&v, 3, 7, 11, 15, m[s[6]], m[s[7]])
		blake2fG(&v, 0, 5, 10, 15, m[s[8]], m[s[9]])
		blake2fG(&v, 1, 6, 11, 12, m[s[10]], m[s[11]])
		blake2fG(&v, 2, 7, 8, 13, m[s[12]], m[s[13]])
		blake2fG(&v, 3, 4, 9, 14, m[s[14]], m[s[15]])
	}

	for i := 0; i < 8; i++ {
		h[i] ^= v[i] ^ v[i+8]
	}
}
