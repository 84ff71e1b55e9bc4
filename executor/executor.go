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

// Package executor orchestrates the pipeline spec.md §1 describes as the
// repo's shape: decode -> codegen -> backend compile -> bind syscalls ->
// invoke, then maps the exit byte of spec.md §6/§7 back into a result a
// caller can branch on, the way the teacher's EVM.Run wraps
// core/vm/vm.go#Run's return path (OutOfGasError vs. a plain return vs. the
// bytes a RETURN opcode staged).
package executor

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evmaot/evmaot/backend"
	"github.com/evmaot/evmaot/codegen"
	"github.com/evmaot/evmaot/decoder"
	"github.com/evmaot/evmaot/gas"
	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/precompiles"
)

// ExecutionResult is the outcome of one Executor.Execute call, collapsing
// spec.md §3's "Execution result" record (exit status, output bytes, gas
// remaining, logs) into the shape a caller actually wants to branch on.
type ExecutionResult struct {
	Status      host.ExitStatus
	FaultReason host.FaultReason
	ReturnData  []byte
	GasUsed     uint64
	GasRefund   uint64
	Logs        []host.Log
}

// Success reports whether the invocation completed normally (STOP or
// RETURN).
func (r *ExecutionResult) Success() bool {
	return r.Status == host.ExitReturn || r.Status == host.ExitStop
}

// Reverted reports whether the invocation executed a REVERT.
func (r *ExecutionResult) Reverted() bool { return r.Status == host.ExitRevert }

// Halted reports whether the invocation stopped on a runtime fault
// (spec.md §7: out-of-gas, invalid jump, stack violation, ...).
func (r *ExecutionResult) Halted() bool { return r.Status == host.ExitError }

// Options configures an Executor.
type Options struct {
	Codegen  codegen.Options
	Backend  backend.Backend
	CacheLen int
	Registry prometheus.Registerer
}

// DefaultOptions returns the always-on rule set backed by the reference
// interpreter, registering its metrics against the default global registry.
func DefaultOptions() Options {
	return Options{
		Codegen:  codegen.DefaultOptions(),
		Backend:  backend.ReferenceBackend{},
		CacheLen: decoder.DefaultCacheSize,
		Registry: prometheus.DefaultRegisterer,
	}
}

// Executor ties together a decode cache, a code generator and a Backend. One
// Executor can service many invocations against many different contracts;
// the per-invocation state lives entirely in the host.Context Execute
// builds, never in the Executor itself.
type Executor struct {
	cache   *decoder.Cache
	backend backend.Backend
	opts    codegen.Options
	metrics *metrics
}

// New builds an Executor from opts. A nil Backend becomes ReferenceBackend
// and a nil Registry a fresh prometheus registry; CacheLen is passed to
// decoder.NewCache and Codegen is used as given.
func New(opts Options) *Executor {
	if opts.Backend == nil {
		opts.Backend = backend.ReferenceBackend{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	return &Executor{
		cache:   decoder.NewCache(opts.CacheLen),
		backend: opts.Backend,
		opts:    opts.Codegen,
		metrics: newMetrics(opts.Registry),
	}
}

// Execute runs code as the contract at address, against the given
// transaction/block/chain environment and state database, with gasLimit
// available. address is also checked against the precompile registry first
// (spec.md §4.6): a call that targets a precompiled address never reaches
// the decoder.
func (e *Executor) Execute(code []byte, tx host.TxEnv, block host.BlockEnv, chain host.ChainEnv, db host.Database, address host.Address, gasLimit uint64) (*ExecutionResult, error) {
	if contract, ok := precompiles.Lookup(address); ok {
		return e.executePrecompile(contract, address, tx, gasLimit)
	}
	return e.executeContract(code, tx, block, chain, db, address, gasLimit)
}

func (e *Executor) executePrecompile(contract precompiles.Contract, address host.Address, tx host.TxEnv, gasLimit uint64) (*ExecutionResult, error) {
	e.metrics.precompiles.WithLabelValues(strconv.Itoa(int(address[19]))).Inc()

	required := contract.RequiredGas(tx.Data)
	if required > gasLimit {
		// Precompile failures never consume the gas they would have
		// required (spec.md §4.6).
		result := &ExecutionResult{Status: host.ExitError, FaultReason: host.FaultOutOfGas, GasUsed: 0}
		e.record(result)
		return result, nil
	}

	out, err := contract.Run(tx.Data)
	if err != nil {
		result := &ExecutionResult{Status: host.ExitRevert, ReturnData: nil, GasUsed: 0}
		e.record(result)
		return result, nil
	}

	result := &ExecutionResult{Status: host.ExitReturn, ReturnData: out, GasUsed: required}
	e.record(result)
	return result, nil
}

func (e *Executor) executeContract(code []byte, tx host.TxEnv, block host.BlockEnv, chain host.ChainEnv, db host.Database, address host.Address, gasLimit uint64) (*ExecutionResult, error) {
	codehash := decoder.HashCode(code)

	prog, err := e.cache.DecodeCached(codehash, code, decoder.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "executor: decode")
	}

	mod, err := codegen.Generate(prog, e.opts)
	if err != nil {
		return nil, errors.Wrap(err, "executor: codegen")
	}

	compiled, err := e.backend.Compile(mod)
	if err != nil {
		return nil, errors.Wrap(err, "executor: backend compile")
	}

	ctx := host.NewContext(tx, block, chain, db, address, host.Hash(codehash))
	gasUsed := compiled.Run(ctx, gasLimit)

	refund := gas.CapRefund(gasUsed, ctx.GasRefund)

	result := &ExecutionResult{
		Status:      ctx.ExitStatus,
		FaultReason: ctx.FaultReason,
		ReturnData:  ctx.Output,
		GasUsed:     gasUsed,
		GasRefund:   refund,
		Logs:        ctx.Logs,
	}
	e.record(result)
	return result, nil
}

func (e *Executor) record(r *ExecutionResult) {
	e.metrics.invocations.WithLabelValues(statusLabel(r.Status)).Inc()
	e.metrics.gasUsed.Observe(float64(r.GasUsed))
	if r.Status == host.ExitError {
		e.metrics.faults.WithLabelValues(r.FaultReason.String()).Inc()
	}
}

func statusLabel(s host.ExitStatus) string {
	switch s {
	case host.ExitReturn:
		return "return"
	case host.ExitStop:
		return "stop"
	case host.ExitRevert:
		return "revert"
	default:
		return "error"
	}
}
