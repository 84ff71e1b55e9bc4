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

// Opcode handlers reading the transaction/block/chain environment exposed
// by host.Context (grounded on core/vm/environment.go's Environment
// interface: Origin, BlockNumber, Coinbase, Time, Difficulty, GasLimit).
package backend

import (
	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/opcodes"
)

func init() {
	register(opcodes.ADDRESS, opAddress)
	register(opcodes.BALANCE, opBalance)
	register(opcodes.ORIGIN, opOrigin)
	register(opcodes.CALLER, opCaller)
	register(opcodes.CALLVALUE, opCallvalue)
	register(opcodes.CALLDATALOAD, opCalldataload)
	register(opcodes.CALLDATASIZE, opCalldatasize)
	register(opcodes.CALLDATACOPY, opCalldatacopy)
	register(opcodes.CODESIZE, opCodesize)
	register(opcodes.CODECOPY, opCodecopy)
	register(opcodes.GASPRICE, opGasprice)
	register(opcodes.EXTCODESIZE, opExtcodesize)
	register(opcodes.EXTCODECOPY, opExtcodecopy)
	register(opcodes.RETURNDATASIZE, opReturndatasize)
	register(opcodes.RETURNDATACOPY, opReturndatacopy)
	register(opcodes.EXTCODEHASH, opExtcodehash)
	register(opcodes.KECCAK256, opKeccak256)

	register(opcodes.BLOCKHASH, opBlockhash)
	register(opcodes.COINBASE, opCoinbase)
	register(opcodes.TIMESTAMP, opTimestamp)
	register(opcodes.NUMBER, opNumber)
	register(opcodes.PREVRANDAO, opPrevrandao)
	register(opcodes.GASLIMIT, opGaslimit)
	register(opcodes.CHAINID, opChainid)
	register(opcodes.SELFBALANCE, opSelfbalance)
	register(opcodes.BASEFEE, opBasefee)
	register(opcodes.BLOBHASH, opBlobhash)
	register(opcodes.BLOBBASEFEE, opBlobbasefee)
}

func addressToUint256(addr [20]byte) uint256.Int {
	var v uint256.Int
	v.SetBytes(addr[:])
	return v
}

func hashToUint256(h [32]byte) uint256.Int {
	var v uint256.Int
	v.SetBytes(h[:])
	return v
}

func opAddress(f *Frame) {
	v := addressToUint256(f.Ctx.Address)
	f.Stack.Push(&v)
}

func opBalance(f *Frame) {
	addrWord := f.Stack.Peek(0)
	var addr [20]byte
	b := addrWord.Bytes20()
	copy(addr[:], b[:])
	if f.Ctx.IsAddressCold(addr) {
		if !f.chargeGas(gas.AccessCost(true) - gas.AccessCost(false)) {
			return
		}
	}
	bal := f.Ctx.Balance(addr)
	addrWord.Set(&bal)
}

func opOrigin(f *Frame) {
	v := addressToUint256(f.Ctx.Origin())
	f.Stack.Push(&v)
}

func opCaller(f *Frame) {
	v := addressToUint256(f.Ctx.Caller())
	f.Stack.Push(&v)
}

func opCallvalue(f *Frame) {
	v := f.Ctx.Callvalue()
	f.Stack.Push(&v)
}

func opCalldataload(f *Frame) {
	offsetW := f.Stack.Peek(0)
	data := f.Ctx.GetCalldata()
	offset := clampUint64(offsetW)
	var window [32]byte
	if offset < uint64(len(data)) {
		copy(window[:], data[offset:])
	}
	offsetW.SetBytes(window[:])
}

func opCalldatasize(f *Frame) {
	v := uint256.NewInt(uint64(len(f.Ctx.GetCalldata())))
	f.Stack.Push(v)
}

func opCalldatacopy(f *Frame) {
	destOffsetW := f.Stack.Pop()
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()
	destOffset, size, ok := f.ensureMemory(&destOffsetW, &sizeW)
	if !ok {
		return
	}
	if !f.chargeGas(gas.CopyCost(size)) {
		return
	}
	data := f.Ctx.GetCalldata()
	offset := clampUint64(&offsetW)
	window := make([]byte, size)
	if offset < uint64(len(data)) {
		copy(window, data[offset:])
	}
	f.Ctx.Memory.Set(destOffset, window)
}

func opCodesize(f *Frame) {
	v := uint256.NewInt(uint64(len(f.Ctx.DB.GetCode(f.Ctx.Address))))
	f.Stack.Push(v)
}

func opCodecopy(f *Frame) {
	destOffsetW := f.Stack.Pop()
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()
	destOffset, size, ok := f.ensureMemory(&destOffsetW, &sizeW)
	if !ok {
		return
	}
	if !f.chargeGas(gas.CopyCost(size)) {
		return
	}
	code := f.Ctx.DB.GetCode(f.Ctx.Address)
	offset := clampUint64(&offsetW)
	window := make([]byte, size)
	if offset < uint64(len(code)) {
		copy(window, code[offset:])
	}
	f.Ctx.Memory.Set(destOffset, window)
}

func opGasprice(f *Frame) {
	v := f.Ctx.Gasprice()
	f.Stack.Push(&v)
}

func extractAddr(v *uint256.Int) [20]byte {
	var addr [20]byte
	b := v.Bytes20()
	copy(addr[:], b[:])
	return addr
}

func opExtcodesize(f *Frame) {
	addrWord := f.Stack.Peek(0)
	addr := extractAddr(addrWord)
	if f.Ctx.IsAddressCold(addr) {
		if !f.chargeGas(gas.AccessCost(true) - gas.AccessCost(false)) {
			return
		}
	}
	addrWord.SetUint64(uint64(f.Ctx.ExtcodeSize(addr)))
}

func opExtcodecopy(f *Frame) {
	addrW := f.Stack.Pop()
	destOffsetW := f.Stack.Pop()
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()
	addr := extractAddr(&addrW)
	if f.Ctx.IsAddressCold(addr) {
		if !f.chargeGas(gas.AccessCost(true) - gas.AccessCost(false)) {
			return
		}
	}
	destOffset, size, ok := f.ensureMemory(&destOffsetW, &sizeW)
	if !ok {
		return
	}
	if !f.chargeGas(gas.CopyCost(size)) {
		return
	}
	code := f.Ctx.ExtcodeCopy(addr)
	offset := clampUint64(&offsetW)
	window := make([]byte, size)
	if offset < uint64(len(code)) {
		copy(window, code[offset:])
	}
	f.Ctx.Memory.Set(destOffset, window)
}

func opReturndatasize(f *Frame) {
	v := uint256.NewInt(uint64(len(f.returnData)))
	f.Stack.Push(v)
}

func opReturndatacopy(f *Frame) {
	destOffsetW := f.Stack.Pop()
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()
	destOffset, size, ok := f.ensureMemory(&destOffsetW, &sizeW)
	if !ok {
		return
	}
	if !f.chargeGas(gas.CopyCost(size)) {
		return
	}
	offset := clampUint64(&offsetW)
	if offset+size > uint64(len(f.returnData)) {
		f.Ctx.Fault(host.FaultMemoryAllocation)
		return
	}
	f.Ctx.Memory.Set(destOffset, f.returnData[offset:offset+size])
}

func opExtcodehash(f *Frame) {
	addrWord := f.Stack.Peek(0)
	addr := extractAddr(addrWord)
	if f.Ctx.IsAddressCold(addr) {
		if !f.chargeGas(gas.AccessCost(true) - gas.AccessCost(false)) {
			return
		}
	}
	if !f.Ctx.AccountExists(addr) {
		addrWord.Clear()
		return
	}
	h := f.Ctx.ExtcodeHash(addr)
	addrWord.SetBytes(h[:])
}

func opKeccak256(f *Frame) {
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Peek(0)
	offset, size, ok := f.ensureMemory(&offsetW, sizeW)
	if !ok {
		return
	}
	if !f.chargeGas(gas.CopyCost(size) * 2) { // word cost 6, already charged 30 static + 3*words via CopyCost*2 == 6*words
		return
	}
	data := f.Ctx.Memory.Get(offset, size)
	h := f.Ctx.Keccak256(data)
	sizeW.SetBytes(h[:])
}

func opBlockhash(f *Frame) {
	numW := f.Stack.Peek(0)
	h := f.Ctx.Blockhash(clampUint64(numW))
	numW.SetBytes(h[:])
}

func opCoinbase(f *Frame) {
	v := addressToUint256(f.Ctx.Block.Coinbase)
	f.Stack.Push(&v)
}

func opTimestamp(f *Frame) {
	v := uint256.NewInt(f.Ctx.Block.Timestamp)
	f.Stack.Push(v)
}

func opNumber(f *Frame) {
	v := uint256.NewInt(f.Ctx.BlockNumber())
	f.Stack.Push(v)
}

func opPrevrandao(f *Frame) {
	v := hashToUint256(f.Ctx.Block.PrevRandao)
	f.Stack.Push(&v)
}

func opGaslimit(f *Frame) {
	v := uint256.NewInt(f.Ctx.Block.GasLimit)
	f.Stack.Push(v)
}

func opChainid(f *Frame) {
	v := uint256.NewInt(f.Ctx.ChainID())
	f.Stack.Push(v)
}

func opSelfbalance(f *Frame) {
	bal := f.Ctx.Balance(f.Ctx.Address)
	f.Stack.Push(&bal)
}

func opBasefee(f *Frame) {
	v := f.Ctx.Basefee()
	f.Stack.Push(&v)
}

func opBlobhash(f *Frame) {
	idxWord := f.Stack.Peek(0)
	idx := clampUint64(idxWord)
	if idx < uint64(len(f.Ctx.Block.BlobHashes)) {
		idxWord.SetBytes(f.Ctx.Block.BlobHashes[idx][:])
	} else {
		idxWord.Clear()
	}
}

func opBlobbasefee(f *Frame) {
	v := f.Ctx.Block.BlobBaseFee
	f.Stack.Push(&v)
}
