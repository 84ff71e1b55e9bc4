package backend

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/codegen"
	"github.com/evmaot/evmaot/decoder"
	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/opcodes"
)

func run(t *testing.T, code []byte, gasLimit uint64) (*host.Context, uint64) {
	t.Helper()
	prog, err := decoder.Decode(code, decoder.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	mod, err := codegen.Generate(prog, codegen.DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	compiled, err := ReferenceBackend{}.Compile(mod)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ctx := host.NewContext(host.TxEnv{}, host.BlockEnv{}, host.ChainEnv{}, host.NewMemoryDatabase(), host.Address{1}, host.Hash{})
	gasUsed := compiled.Run(ctx, gasLimit)
	return ctx, gasUsed
}

func TestRunSimpleAdditionReturnsResult(t *testing.T) {
	// PUSH1 3 PUSH1 4 ADD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
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
	ctx, gasUsed := run(t, code, 100000)
	if ctx.ExitStatus != host.ExitReturn {
		t.Fatalf("got status %v, want ExitReturn", ctx.ExitStatus)
	}
	var got uint256.Int
	got.SetBytes(ctx.Output)
	if !got.Eq(uint256.NewInt(7)) {
		t.Fatalf("got %v, want 7", got)
	}
	if gasUsed == 0 {
		t.Fatalf("expected nonzero gas usage")
	}
}

func TestRunDivisionByZeroReturnsZeroNotFault(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 0,
		byte(opcodes.PUSH1), 5,
		byte(opcodes.DIV),
		byte(opcodes.PUSH1), 0,
		byte(opcodes.MSTORE),
		byte(opcodes.PUSH1), 32,
		byte(opcodes.PUSH1), 0,
		byte(opcodes.RETURN),
	}
	ctx, _ := run(t, code, 100000)
	if ctx.ExitStatus != host.ExitReturn {
		t.Fatalf("got status %v, want ExitReturn", ctx.ExitStatus)
	}
	var got uint256.Int
	got.SetBytes(ctx.Output)
	if !got.IsZero() {
		t.Fatalf("div by zero should yield 0, got %v", got)
	}
}

func TestRunInvalidJumpHalts(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 9,
		byte(opcodes.JUMP),
	}
	ctx, gasUsed := run(t, code, 100000)
	if ctx.ExitStatus != host.ExitError {
		t.Fatalf("got status %v, want ExitError", ctx.ExitStatus)
	}
	if ctx.FaultReason != host.FaultInvalidJump {
		t.Fatalf("got fault %v, want FaultInvalidJump", ctx.FaultReason)
	}
	if gasUsed != 100000 {
		t.Fatalf("got gasUsed %d, want full gas limit consumed on halt", gasUsed)
	}
}

func TestRunOutOfGasHalts(t *testing.T) {
	code := []byte{byte(opcodes.PUSH1), 1, byte(opcodes.PUSH1), 2, byte(opcodes.ADD)}
	ctx, gasUsed := run(t, code, 1) // not enough for even the first PUSH1
	if ctx.ExitStatus != host.ExitError || ctx.FaultReason != host.FaultOutOfGas {
		t.Fatalf("got status=%v fault=%v, want ExitError/FaultOutOfGas", ctx.ExitStatus, ctx.FaultReason)
	}
	if gasUsed != 1 {
		t.Fatalf("got gasUsed %d, want full gas limit 1 consumed on halt (spec.md §3: Halt consumes all remaining gas)", gasUsed)
	}
}

// TestRunStackOverflowHalts exercises spec.md §8 scenario #4: PUSH0 x1024
// succeeds, the 1025th push overflows the stack and halts.
func TestRunStackOverflowHalts(t *testing.T) {
	code := bytes.Repeat([]byte{byte(opcodes.PUSH0)}, 1025)
	ctx, gasUsed := run(t, code, 1000000)
	if ctx.ExitStatus != host.ExitError || ctx.FaultReason != host.FaultStackOverflow {
		t.Fatalf("got status=%v fault=%v, want ExitError/FaultStackOverflow", ctx.ExitStatus, ctx.FaultReason)
	}
	if gasUsed != 1000000 {
		t.Fatalf("got gasUsed %d, want full gas limit consumed on halt", gasUsed)
	}
}

// TestRunFibonacciViaLoop exercises spec.md §8 scenario #2: an iterative
// fibonacci(10) computed via JUMPDEST/JUMP, the standard a,b = b,a+b
// iteration expressed in stack operations.
func TestRunFibonacciViaLoop(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 10, // counter
		byte(opcodes.PUSH1), 0, // a
		byte(opcodes.PUSH1), 1, // b
		byte(opcodes.JUMPDEST), // pc=6, loop start
		byte(opcodes.DUP3),
		byte(opcodes.ISZERO),
		byte(opcodes.PUSH1), 24, // pc=9,10 -> end
		byte(opcodes.JUMPI),
		byte(opcodes.SWAP1),
		byte(opcodes.DUP2),
		byte(opcodes.ADD),
		byte(opcodes.SWAP2),
		byte(opcodes.PUSH1), 1,
		byte(opcodes.SWAP1),
		byte(opcodes.SUB),
		byte(opcodes.SWAP2),
		byte(opcodes.PUSH1), 6, // back to loop start
		byte(opcodes.JUMP),
		byte(opcodes.JUMPDEST), // pc=24, end
		byte(opcodes.POP),
		byte(opcodes.SWAP1),
		byte(opcodes.MSTORE),
		byte(opcodes.PUSH1), 32,
		byte(opcodes.PUSH1), 0,
		byte(opcodes.RETURN),
	}
	ctx, _ := run(t, code, 1000000)
	if ctx.ExitStatus != host.ExitReturn {
		t.Fatalf("got status %v, want ExitReturn", ctx.ExitStatus)
	}
	var got uint256.Int
	got.SetBytes(ctx.Output)
	if !got.Eq(uint256.NewInt(55)) {
		t.Fatalf("got fib(10)=%v, want 55", got)
	}
}

func TestRunLoopViaJumpdest(t *testing.T) {
	// counter = 3; while counter != 0 { counter-- }; return counter
	// PUSH1 3            (counter)
	// JUMPDEST           pc=2
	// DUP1
	// ISZERO
	// PUSH1 <end>
	// JUMPI
	// PUSH1 1
	// SWAP1
	// SUB
	// PUSH1 2
	// JUMP
	// JUMPDEST <end>
	// PUSH1 0
	// MSTORE
	// PUSH1 32
	// PUSH1 0
	// RETURN
	code := []byte{
		byte(opcodes.PUSH1), 3, // 0,1
		byte(opcodes.JUMPDEST), // 2
		byte(opcodes.DUP1),     // 3
		byte(opcodes.ISZERO),   // 4
		byte(opcodes.PUSH1), 15, // 5,6
		byte(opcodes.JUMPI),    // 7
		byte(opcodes.PUSH1), 1, // 8,9
		byte(opcodes.SWAP1),    // 10
		byte(opcodes.SUB),      // 11
		byte(opcodes.PUSH1), 2, // 12,13
		byte(opcodes.JUMP),     // 14
		byte(opcodes.JUMPDEST), // 15
		byte(opcodes.PUSH1), 0, // 16,17
		byte(opcodes.MSTORE),   // 18
		byte(opcodes.PUSH1), 32, // 19,20
		byte(opcodes.PUSH1), 0, // 21,22
		byte(opcodes.RETURN),  // 23
	}
	ctx, _ := run(t, code, 1000000)
	if ctx.ExitStatus != host.ExitReturn {
		t.Fatalf("got status %v, want ExitReturn", ctx.ExitStatus)
	}
	var got uint256.Int
	got.SetBytes(ctx.Output)
	if !got.IsZero() {
		t.Fatalf("loop should terminate with counter=0, got %v", got)
	}
}
