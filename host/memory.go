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

// Memory is the byte-addressable, zero-initialized, monotonically growing
// region spec.md §3 describes. It only ever grows within one invocation.
type Memory struct {
	store []byte
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory { return &Memory{} }

// Len returns the current high-water mark, always a multiple of 32 once any
// extension has happened (spec.md §3 invariant).
func (m *Memory) Len() uint64 { return uint64(len(m.store)) }

// Resize grows the backing store to newSize bytes, which the caller must
// have already rounded up to a 32-byte boundary (spec.md §4.3,
// "extend_memory syscall"). Shrinking is a no-op: EVM memory never shrinks
// within an invocation.
func (m *Memory) Resize(newSize uint64) {
	if newSize <= uint64(len(m.store)) {
		return
	}
	grown := make([]byte, newSize)
	copy(grown, m.store)
	m.store = grown
}

// Get returns a copy of size bytes starting at offset. Callers must have
// already extended memory to cover [offset, offset+size).
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// Set writes data into memory at offset. Callers must have already
// extended memory to cover [offset, offset+len(data)).
func (m *Memory) Set(offset uint64, data []byte) {
	copy(m.store[offset:], data)
}

// Set32 writes a left-padded-to-32 word at offset (MSTORE).
func (m *Memory) Set32(offset uint64, word [32]byte) {
	copy(m.store[offset:offset+32], word[:])
}

// Set8 writes the low byte of val at offset (MSTORE8).
func (m *Memory) Set8(offset uint64, val byte) {
	m.store[offset] = val
}
