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

package decoder

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"

	"github.com/evmaot/evmaot/internal/xlog"
)

// CodeHash is the keccak256 digest of a contract's code, used as the decode
// cache key. It generalizes the teacher's per-contract "jumpdests" cache
// (core/vm/vm.go: "codehash is used when doing jump dest caching") to the
// whole decoded Program, not just the jumpdest set.
type CodeHash [32]byte

// HashCode computes the CodeHash for a code slice.
func HashCode(code []byte) CodeHash {
	var h CodeHash
	sum := sha3.NewLegacyKeccak256()
	sum.Write(code)
	sum.Sum(h[:0])
	return h
}

// Cache memoizes Decode by code hash so that repeated invocations of the
// same contract within a process (or across a benchmark run) do not re-scan
// the bytecode on every call.
type Cache struct {
	lru *lru.Cache[CodeHash, *Program]
}

// DefaultCacheSize is the number of decoded programs kept resident. Chosen
// to comfortably hold a benchmark suite's worth of distinct contracts
// without unbounded growth across a long-running executor.
const DefaultCacheSize = 256

// NewCache builds a decode cache with the given capacity. A non-positive
// size falls back to DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[CodeHash, *Program](size)
	if err != nil {
		// Only returned by golang-lru for size <= 0, already guarded above.
		panic(err)
	}
	return &Cache{lru: c}
}

// DecodeCached decodes code, or returns the cached Program for codehash if
// this cache has already decoded it once.
func (c *Cache) DecodeCached(codehash CodeHash, code []byte, opts Options) (*Program, error) {
	if prog, ok := c.lru.Get(codehash); ok {
		xlog.V(xlog.Debug).Infof("decode cache hit for %x", codehash[:4])
		return prog, nil
	}

	prog, err := Decode(code, opts)
	if err != nil {
		return nil, err
	}

	xlog.V(xlog.Debug).Infof("decode cache miss for %x, %d ops", codehash[:4], len(prog.Ops))
	c.lru.Add(codehash, prog)
	return prog, nil
}
