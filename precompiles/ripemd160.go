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

// RIPEMD-160 (precompile 0x03) by hand, not via golang.org/x/crypto: the
// pack's copy of x/crypto no longer vendors the ripemd160 subpackage, and
// no other library in the retrieved pack provides it (DESIGN.md). The
// algorithm itself follows the 1996 Dobbertin/Bosselaers/Preneel reference.
package precompiles

import "encoding/binary"

const (
	ripemdBlockSize = 64
	ripemdSize      = 20
	ripemdBaseGas   = 600
	ripemdPerWordGas = 120
)

// ripemd160Contract is address 0x03 (core/vm/contracts.go's ripemd160hash).
type ripemd160Contract struct{}

func (ripemd160Contract) RequiredGas(input []byte) uint64 {
	return ripemdBaseGas + words(len(input))*ripemdPerWordGas
}

func (ripemd160Contract) Run(input []byte) ([]byte, error) {
	sum := ripemd160Sum(input)
	out := make([]byte, 32)
	copy(out[12:], sum[:])
	return out, nil
}

func ripemd160Sum(msg []byte) [ripemdSize]byte {
	h0, h1, h2, h3, h4 := uint32(0x67452301), uint32(0xefcdab89), uint32(0x98badcfe), uint32(0x10325476), uint32(0xc3d2e1f0)

	msgLenBits := uint64(len(msg)) * 8
	padded := append([]byte{}, msg...)
	padded = append(padded, 0x80)
	for len(padded)%ripemdBlockSize != 56 {
		padded = append(padded, 0)
	}
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], msgLenBits)
	padded = append(padded, lenBuf[:]...)

	var x [16]uint32
	for off := 0; off < len(padded); off += ripemdBlockSize {
		block := padded[off : off+ripemdBlockSize]
		for i := 0; i < 16; i++ {
			x[i] = binary.LittleEndian.Uint32(block[i*4:])
		}

		a, b, c, d, e := h0, h1, h2, h3, h4
		aa, bb, cc, dd, ee := h0, h1, h2, h3, h4

		for j := 0; j < 80; j++ {
			a, b, c, d, e = ripemdRound(a, b, c, d, e, x, j, false)
			aa, bb, cc, dd, ee = ripemdRound(aa, bb, cc, dd, ee, x, j, true)
		}

		t := h1 + c + dd
		h1 = h2 + d + ee
		h2 = h3 + e + aa
		h3 = h4 + a + bb
		h4 = h0 + b + cc
		h0 = t
	}

	var out [ripemdSize]byte
	binary.LittleEndian.PutUint32(out[0:], h0)
	binary.LittleEndian.PutUint32(out[4:], h1)
	binary.LittleEndian.PutUint32(out[8:], h2)
	binary.LittleEndian.PutUint32(out[12:], h3)
	binary.LittleEndian.PutUint32(out[16:], h4)
	return out
}

var ripemdMsgOrderLeft = [80]int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	7, 4, 13, 1, 10, 6, 15, 3, 12, 0, 9, 5, 2, 14, 11, 8,
	3, 10, 14, 4, 9, 15, 8, 1, 2, 7, 0, 6, 13, 11, 5, 12,
	1, 9, 11, 10, 0, 8, 12, 4, 13, 3, 7, 15, 14, 5, 6, 2,
	4, 0, 5, 9, 7, 12, 2, 10, 14, 1, 3, 8, 11, 6, 15, 13,
}

var ripemdMsgOrderRight = [80]int{
	5, 14, 7, 0, 9, 2, 11, 4, 13, 6, 15, 8, 1, 10, 3, 12,
	6, 11, 3, 7, 0, 13, 5, 10, 14, 15, 8, 12, 4, 9, 1, 2,
	15, 5, 1, 3, 7, 14, 6, 9, 11, 8, 12, 2, 10, 0, 4, 13,
	8, 6, 4, 1, 3, 11, 15, 0, 5, 12, 2, 13, 9, 7, 10, 14,
	12, 15, 10, 4, 1, 5, 8, 7, 6, 2, 13, 14, 0, 3, 9, 11,
}

var ripemdShiftLeft = [80]uint32{
	11, 14, 15, 12, 5, 8, 7, 9, 11, 13, 14, 15, 6, 7, 9, 8,
	7, 6, 8, 13, 11, 9, 7, 15, 7, 12, 15, 9, 11, 7, 13, 12,
	11, 13, 6, 7, 14, 9, 13, 15, 14, 8, 13, 6, 5, 12, 7, 5,
	11, 12, 14, 15, 14, 15, 9, 8, 9, 14, 5, 6, 8, 6, 5, 12,
	9, 15, 5, 11, 6, 8, 13, 12, 5, 12, 13, 14, 11, 8, 5, 6,
}

var ripemdShiftRight = [80]uint32{
	8, 9, 9, 11, 13, 15, 15, 5, 7, 7, 8, 11, 14, 14, 12, 6,
	9, 13, 15, 7, 12, 8, 9, 11, 7, 7, 12, 7, 6, 15, 13, 11,
	9, 7, 15, 11, 8, 6, 6, 14, 12, 13, 5, 14, 13, 13, 7, 5,
	15, 5, 8, 11, 14, 14, 6, 14, 6, 9, 12, 9, 12, 5, 15, 8,
	8, 5, 12, 9, 12, 5, 14, 6, 8, 13, 6, 5, 15, 13, 11, 11,
}

var ripemdKLeft = [5]uint32{0x00000000, 0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e}
var ripemdKRight = [5]uint32{0x50a28be6, 0x5c4dd124, 0x6d703ef3, 0x7a6d76e9, 0x00000000}

func ripemdF(j int, x, y, z uint32) uint32 {
	switch {
	case j < 16:
		return x ^ y ^ z
	case j < 32:
		return (x & y) | (^x & z)
	case j < 48:
		return (x | ^y) ^ z
	case j < 64:
		return (x & z) | (y & ^z)
	default:
		return x ^ (y | ^z)
	}
}

func rol(x uint32, n uint32) uint32 { return x<<n | x>>(32-n) }

// ripemdRound applies one of the 80 steps of either the left or right line
// to (a,b,c,d,e) and returns the rotated quintuple, matching the reference
// algorithm's in-place update expressed functionally.
func ripemdRound(a, b, c, d, e uint32, x [16]uint32, j int, right bool) (uint32, uint32, uint32, uint32, uint32) {
	var order *[80]int
	var shift *[80]uint32
	var k [5]uint32
	fj := j
	if right {
		order, shift, k = &ripemdMsgOrderRight, &ripemdShiftRight, ripemdKRight
		fj = 79 - j
	} else {
		order, shift, k = &ripemdMsgOrderLeft, &ripemdShiftLeft, ripemdKLeft
	}
	kIdx := j / 16
	t := rol(a+ripemdF(fj, b, c, d)+x[order[j]]+k[kIdx], shift[j]) + e
	return e, t, b, rol(c, 10), d
}
