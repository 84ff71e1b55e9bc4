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

	"github.com/evmaot/evmaot/internal/xlog"
)

// Context is the single mutable runtime host described in spec.md §4.4. It
// is exclusively owned by the executor for the duration of one invocation;
// generated code (here, the reference backend) holds a borrowed reference
// that does not outlive the call (spec.md, "Ownership").
//
// Its method set is the syscall ABI of spec.md §6: a real native backend
// would emit calls to C-convention thunks with this parameter shape, this
// in-process backend just calls the methods directly (see SPEC_FULL.md §6).
type Context struct {
	Tx    TxEnv
	Block BlockEnv
	Chain ChainEnv
	DB    Database

	Address  Address // the currently executing contract
	CodeHash Hash

	// Staged storage overlay: writes made during this invocation, not yet
	// committed to Database (spec.md §3, "Storage view").
	overlay map[Hash]uint256.Int
	// transient storage (EIP-1153): scoped to the transaction, never
	// persisted, always starts empty.
	transient map[Hash]uint256.Int

	// Per-transaction access set (EIP-2929 warm/cold tracking, spec.md §9
	// Open Questions: "must add a per-transaction access set").
	accessedAddresses map[Address]bool
	accessedSlots     map[Hash]bool

	Memory *Memory
	Logs   []Log

	GasRefund uint64

	Output     []byte
	ExitStatus ExitStatus
	FaultReason FaultReason
}

// NewContext builds a Context for one top-level invocation.
func NewContext(tx TxEnv, block BlockEnv, chain ChainEnv, db Database, address Address, codeHash Hash) *Context {
	return &Context{
		Tx:                tx,
		Block:             block,
		Chain:             chain,
		DB:                db,
		Address:           address,
		CodeHash:          codeHash,
		overlay:           make(map[Hash]uint256.Int),
		transient:         make(map[Hash]uint256.Int),
		accessedAddresses: map[Address]bool{address: true, tx.Origin: true},
		accessedSlots:     make(map[Hash]bool),
		Memory:            NewMemory(),
	}
}

// --- syscalls (spec.md §6) ---

// WriteResult records the return-data descriptor and exit status. It takes
// no gas argument: the backend tracks the remaining gas and the executor
// reports it; the host context only keeps the output bytes and the status.
func (c *Context) WriteResult(offset, size uint32, status ExitStatus) {
	c.Output = c.Memory.Get(uint64(offset), uint64(size))
	c.ExitStatus = status
}

// ExtendMemory grows memory to newSize (already 32-aligned by the caller)
// and returns nothing: Go slices do not need a raw base pointer handed
// back to generated code, which reaches memory through c.Memory.
func (c *Context) ExtendMemory(newSize uint32) {
	c.Memory.Resize(uint64(newSize))
}

// ReadStorage is the read_storage syscall: the staged overlay shadows the
// database's original value.
func (c *Context) ReadStorage(key *uint256.Int) uint256.Int {
	hk := BigToHash(key)
	if v, ok := c.overlay[hk]; ok {
		return v
	}
	return c.DB.GetCommittedStorage(c.Address, hk)
}

// OriginalStorage returns the value as of the start of the transaction
// (before this invocation staged anything), used by the SSTORE gas rule's
// "original" operand.
func (c *Context) OriginalStorage(key *uint256.Int) uint256.Int {
	return c.DB.GetCommittedStorage(c.Address, BigToHash(key))
}

// WriteStorage stages an SSTORE write in the overlay. Gas accounting is the
// codegen/gas package's job; this syscall only performs the write.
func (c *Context) WriteStorage(key, val *uint256.Int) {
	c.overlay[BigToHash(key)] = *val
}

// IsStorageSlotCold reports whether key has not yet been touched this
// transaction and marks it warm as a side effect (EIP-2929).
func (c *Context) IsStorageSlotCold(key *uint256.Int) bool {
	hk := BigToHash(key)
	if c.accessedSlots[hk] {
		return false
	}
	c.accessedSlots[hk] = true
	return true
}

// IsAddressCold reports whether addr has not yet been touched this
// transaction and marks it warm as a side effect (EIP-2929).
func (c *Context) IsAddressCold(addr Address) bool {
	if c.accessedAddresses[addr] {
		return false
	}
	c.accessedAddresses[addr] = true
	return true
}

// ReadTransient is the TLOAD syscall (EIP-1153): always starts at zero,
// never touches Database.
func (c *Context) ReadTransient(key *uint256.Int) uint256.Int {
	return c.transient[BigToHash(key)]
}

// WriteTransient is the TSTORE syscall.
func (c *Context) WriteTransient(key, val *uint256.Int) {
	c.transient[BigToHash(key)] = *val
}

// AppendLog is the append_log[_with_N_topics] syscall family collapsed to
// one Go method taking the topics as a slice.
func (c *Context) AppendLog(offset, size uint32, topics []uint256.Int) {
	data := c.Memory.Get(uint64(offset), uint64(size))
	hashes := make([]Hash, len(topics))
	for i := range topics {
		hashes[i] = BigToHash(&topics[i])
	}
	c.Logs = append(c.Logs, Log{Address: c.Address, Topics: hashes, Data: data})
}

// GetCalldata is get_calldata_ptr/get_calldata_size_syscall collapsed.
func (c *Context) GetCalldata() []byte { return c.Tx.Data }

// Callvalue/Caller/Gasprice/Basefee are store_in_*_ptr syscalls.
func (c *Context) Callvalue() uint256.Int { return c.Tx.Value }
func (c *Context) Caller() Address        { return c.Tx.Caller }
func (c *Context) Gasprice() uint256.Int  { return c.Tx.GasPrice }
func (c *Context) Basefee() uint256.Int   { return c.Block.BaseFee }
func (c *Context) Origin() Address        { return c.Tx.Origin }
func (c *Context) BlockNumber() uint64    { return c.Block.Number }
func (c *Context) ChainID() uint64        { return c.Chain.ChainID }

// Balance, ExtcodeSize, ExtcodeHash, ExtcodeCopy, Blockhash are the
// remaining environment syscalls of spec.md's "analogous" row.
func (c *Context) Balance(addr Address) uint256.Int { return c.DB.GetBalance(addr) }
func (c *Context) ExtcodeSize(addr Address) int     { return len(c.DB.GetCode(addr)) }
func (c *Context) ExtcodeHash(addr Address) Hash    { return c.DB.GetCodeHash(addr) }
func (c *Context) ExtcodeCopy(addr Address) []byte  { return c.DB.GetCode(addr) }
func (c *Context) Blockhash(number uint64) Hash     { return c.DB.GetBlockHash(number) }
func (c *Context) AccountExists(addr Address) bool  { return c.DB.AccountExists(addr) }

// Keccak256 is the keccak256 syscall.
func (c *Context) Keccak256(data []byte) Hash {
	var h Hash
	sum := sha3.NewLegacyKeccak256()
	sum.Write(data)
	sum.Sum(h[:0])
	return h
}

// Selfdestruct records the account as destroyed by logging it; a full node
// would schedule account deletion at end-of-transaction, out of scope for
// the single-frame model this module implements (spec.md §1, Non-goals).
func (c *Context) Selfdestruct(beneficiary Address) {
	xlog.V(xlog.Debug).Infof("selfdestruct %x -> %x", c.Address, beneficiary)
}

// Overlay exposes the staged writes for test assertions. The executor does
// not read it; staged writes stay in the Context and never reach Database.
func (c *Context) Overlay() map[Hash]uint256.Int { return c.overlay }

// ResetExecutionState clears per-invocation fields so an executor can reuse
// one Context across benchmark iterations (spec.md §5, "Memory buffer ...
// reset between invocations if the executor is reused").
func (c *Context) ResetExecutionState() {
	c.Memory = NewMemory()
	c.Logs = nil
	c.Output = nil
	c.ExitStatus = 0
	c.FaultReason = FaultNone
	c.GasRefund = 0
	c.overlay = make(map[Hash]uint256.Int)
}
