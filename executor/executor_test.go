package executor

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/opcodes"
)

func newTestExecutor() *Executor {
	opts := DefaultOptions()
	opts.Registry = prometheus.NewRegistry()
	return New(opts)
}

func TestExecuteSimpleAdditionReturnsResult(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 3,
		byte(opcodes.PUSH1), 4,
		byte(opcodes.ADD),
		byte(opcodes.PUSH1), 0,
		byte(opcodes.MSTORE),
		byte(opcodes.PUSH1), 32,
		byte(opcodes.PUSH1), 0,
		byte(opcodes.RETURN),
	}
	e := newTestExecutor()
	result, err := e.Execute(code, host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, 100000)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Success() {
		t.Fatalf("got status %v, want success", result.Status)
	}
	var got uint256.Int
	got.SetBytes(result.ReturnData)
	if !got.Eq(uint256.NewInt(7)) {
		t.Fatalf("got %v, want 7", got)
	}
	if result.GasUsed == 0 {
		t.Fatalf("expected nonzero gas usage")
	}
}

func TestExecuteRevertReportsRevertedNotSuccess(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 0,
		byte(opcodes.PUSH1), 0,
		byte(opcodes.REVERT),
	}
	e := newTestExecutor()
	result, err := e.Execute(code, host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, 100000)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Reverted() || result.Success() {
		t.Fatalf("got status %v, want Reverted", result.Status)
	}
}

func TestExecuteOutOfGasHalts(t *testing.T) {
	code := []byte{byte(opcodes.PUSH1), 1, byte(opcodes.PUSH1), 2, byte(opcodes.ADD)}
	e := newTestExecutor()
	result, err := e.Execute(code, host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, 1)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Halted() {
		t.Fatalf("got status %v, want Halted", result.Status)
	}
	if result.FaultReason != host.FaultOutOfGas {
		t.Fatalf("got fault %v, want FaultOutOfGas", result.FaultReason)
	}
	if result.GasUsed != 1 {
		t.Fatalf("got gasUsed %d, want full gas limit 1 consumed on halt", result.GasUsed)
	}
}

// TestExecuteStackOverflowHalts exercises spec.md §8 scenario #4 at the
// executor layer: PUSH0 x1024 succeeds, the 1025th push halts.
func TestExecuteStackOverflowHalts(t *testing.T) {
	code := bytes.Repeat([]byte{byte(opcodes.PUSH0)}, 1025)
	e := newTestExecutor()
	result, err := e.Execute(code, host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, 1000000)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Halted() || result.FaultReason != host.FaultStackOverflow {
		t.Fatalf("got status=%v fault=%v, want Halted/FaultStackOverflow", result.Status, result.FaultReason)
	}
	if result.GasUsed != 1000000 {
		t.Fatalf("got gasUsed %d, want full gas limit consumed on halt", result.GasUsed)
	}
}

func TestExecuteInvalidJumpHalts(t *testing.T) {
	code := []byte{byte(opcodes.PUSH1), 9, byte(opcodes.JUMP)}
	e := newTestExecutor()
	result, err := e.Execute(code, host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, 100000)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Halted() || result.FaultReason != host.FaultInvalidJump {
		t.Fatalf("got status=%v fault=%v, want Halted/FaultInvalidJump", result.Status, result.FaultReason)
	}
}

func TestExecuteStopIsSuccessWithNoOutput(t *testing.T) {
	code := []byte{byte(opcodes.PUSH1), 1, byte(opcodes.PUSH1), 2, byte(opcodes.ADD), byte(opcodes.STOP)}
	e := newTestExecutor()
	result, err := e.Execute(code, host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, 100000)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Success() || len(result.ReturnData) != 0 {
		t.Fatalf("got status=%v data=%x, want success with no output", result.Status, result.ReturnData)
	}
}

func TestExecuteSameCodeReusesDecodeCache(t *testing.T) {
	code := []byte{byte(opcodes.PUSH1), 1, byte(opcodes.STOP)}
	e := newTestExecutor()
	for i := 0; i < 3; i++ {
		result, err := e.Execute(code, host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, 100000)
		if err != nil {
			t.Fatalf("execute iteration %d: %v", i, err)
		}
		if !result.Success() {
			t.Fatalf("iteration %d: got status %v, want success", i, result.Status)
		}
	}
}

func TestExecuteAgainstPrecompileAddressBypassesDecode(t *testing.T) {
	e := newTestExecutor()
	var identityAddr host.Address
	identityAddr[19] = 4
	tx := host.TxEnv{Data: []byte("hello")}
	result, err := e.Execute(nil, tx, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), identityAddr, 100000)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Success() {
		t.Fatalf("got status %v, want success", result.Status)
	}
	if string(result.ReturnData) != "hello" {
		t.Fatalf("got %q, want %q", result.ReturnData, "hello")
	}
}

func TestExecutePrecompileOutOfGasHalts(t *testing.T) {
	e := newTestExecutor()
	var sha256Addr host.Address
	sha256Addr[19] = 2
	tx := host.TxEnv{Data: make([]byte, 1024)}
	result, err := e.Execute(nil, tx, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), sha256Addr, 1)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.Halted() || result.FaultReason != host.FaultOutOfGas {
		t.Fatalf("got status=%v fault=%v, want Halted/FaultOutOfGas", result.Status, result.FaultReason)
	}
	if result.GasUsed != 0 {
		t.Fatalf("got gasUsed %d, want 0: precompile failures never consume the gas they would have required", result.GasUsed)
	}
}
