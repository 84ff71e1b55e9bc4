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

import (
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

func hashCode(code []byte) Hash {
	var h Hash
	sum := sha3.NewLegacyKeccak256()
	sum.Write(code)
	sum.Sum(h[:0])
	return h
}

// Database is the state-database collaborator spec.md §1 places out of
// scope: account balance/code/storage lookups behind an interface, so this
// module never depends on a concrete storage engine. Context stages writes
// in an in-memory overlay and only ever reads "original" values from
// Database (spec.md §3, "Storage view").
type Database interface {
	GetBalance(addr Address) uint256.Int
	GetCodeHash(addr Address) Hash
	GetCode(addr Address) []byte
	AccountExists(addr Address) bool
	GetCommittedStorage(addr Address, key Hash) uint256.Int
	GetBlockHash(number uint64) Hash
}

// MemoryDatabase is a minimal in-memory Database used by tests and the CLI
// smoke driver, the way the teacher's tests reach for ethdb.MemDatabase
// (core/vm/instructions_test.go).
type MemoryDatabase struct {
	Balances   map[Address]uint256.Int
	Codes      map[Address][]byte
	Storage    map[Address]map[Hash]uint256.Int
	BlockHashes map[uint64]Hash
}

// NewMemoryDatabase returns an empty MemoryDatabase.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		Balances:    make(map[Address]uint256.Int),
		Codes:       make(map[Address][]byte),
		Storage:     make(map[Address]map[Hash]uint256.Int),
		BlockHashes: make(map[uint64]Hash),
	}
}

func (db *MemoryDatabase) GetBalance(addr Address) uint256.Int {
	return db.Balances[addr]
}

func (db *MemoryDatabase) GetCodeHash(addr Address) Hash {
	code := db.Codes[addr]
	if len(code) == 0 {
		return Hash{}
	}
	return hashCode(code)
}

func (db *MemoryDatabase) GetCode(addr Address) []byte {
	return db.Codes[addr]
}

func (db *MemoryDatabase) AccountExists(addr Address) bool {
	if _, ok := db.Balances[addr]; ok {
		return true
	}
	_, ok := db.Codes[addr]
	return ok
}

func (db *MemoryDatabase) GetCommittedStorage(addr Address, key Hash) uint256.Int {
	slots, ok := db.Storage[addr]
	if !ok {
		return uint256.Int{}
	}
	return slots[key]
}

func (db *MemoryDatabase) GetBlockHash(number uint64) Hash {
	return db.BlockHashes[number]
}
