package codegen

import (
	"testing"

	"github.com/evmaot/evmaot/decoder"
	"github.com/evmaot/evmaot/ir"
	"github.com/evmaot/evmaot/opcodes"
)

func mustDecode(t *testing.T, code []byte) *decoder.Program {
	t.Helper()
	prog, err := decoder.Decode(code, decoder.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return prog
}

func TestGenerateStraightLineFallsThrough(t *testing.T) {
	// PUSH1 1, PUSH1 2, ADD, STOP
	code := []byte{byte(opcodes.PUSH1), 1, byte(opcodes.PUSH1), 2, byte(opcodes.ADD), byte(opcodes.STOP)}
	prog := mustDecode(t, code)
	mod, err := Generate(prog, DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(mod.Func.Blocks) != len(prog.Ops)+2 { // +fault +jumptable
		t.Fatalf("got %d blocks, want %d", len(mod.Func.Blocks), len(prog.Ops)+2)
	}
	entry := mod.Func.Blocks[mod.Func.EntryBlock]
	if entry.Term.Kind != ir.TermGoto {
		t.Fatalf("entry block should fall through, got %v", entry.Term.Kind)
	}
	stopBlockIdx := mod.Func.Blocks[mod.Func.EntryBlock].Term.Next
	stopBlockIdx = followChain(mod.Func, mod.Func.EntryBlock)
	stopBlock := mod.Func.Blocks[stopBlockIdx]
	if stopBlock.Term.Kind != ir.TermReturn {
		t.Fatalf("STOP should terminate, got %v", stopBlock.Term.Kind)
	}
}

func followChain(fn *ir.Function, start int) int {
	cur := start
	for fn.Blocks[cur].Term.Kind == ir.TermGoto {
		cur = fn.Blocks[cur].Term.Next
	}
	return cur
}

func TestGenerateJumpGoesThroughJumpTable(t *testing.T) {
	// PUSH1 4, JUMP, INVALID, JUMPDEST, STOP
	code := []byte{
		byte(opcodes.PUSH1), 4,
		byte(opcodes.JUMP),
		byte(opcodes.INVALID),
		byte(opcodes.JUMPDEST),
		byte(opcodes.STOP),
	}
	prog := mustDecode(t, code)
	mod, err := Generate(prog, DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	jumpBlockIdx := mod.Jumpdests[4]
	_ = jumpBlockIdx
	// find the JUMP block: second op
	jumpBlock := mod.Func.Blocks[followChain(mod.Func, mod.Func.EntryBlock)]
	if jumpBlock.Term.Kind != ir.TermGotoJumpTable {
		t.Fatalf("JUMP block should target the jump table, got %v", jumpBlock.Term.Kind)
	}
	jt := mod.Func.Blocks[mod.Func.JumpTableBlock]
	if jt.Term.Kind != ir.TermSwitch {
		t.Fatalf("jump table block should be a switch, got %v", jt.Term.Kind)
	}
	if _, ok := jt.Term.Cases[4]; !ok {
		t.Fatalf("jump table missing case for pc=4")
	}
	if jt.Term.Default != mod.Func.FaultBlock {
		t.Fatalf("jump table default should be the fault block")
	}
}

func TestGenerateEveryBlockHasGasAndStackChecks(t *testing.T) {
	code := []byte{byte(opcodes.PUSH1), 1, byte(opcodes.POP), byte(opcodes.STOP)}
	prog := mustDecode(t, code)
	mod, err := Generate(prog, DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, op := range prog.Ops {
		idx := mod.Jumpdests[op.PC]
		_ = idx
	}
	// block 0 is the fault block; one block per op follows from EntryBlock
	for i := mod.Func.EntryBlock; i < mod.Func.EntryBlock+len(prog.Ops); i++ {
		b := mod.Func.Blocks[i]
		if len(b.Instrs) != 3 {
			t.Fatalf("block %d (%s): got %d instrs, want 3", i, b.Label, len(b.Instrs))
		}
		if b.Instrs[0].Kind != ir.KindGasCheck || b.Instrs[1].Kind != ir.KindStackCheck || b.Instrs[2].Kind != ir.KindOp {
			t.Fatalf("block %d: unexpected instruction kinds", i)
		}
	}
}

func TestGenerateDisabledOpcodeFaultsAtRuntime(t *testing.T) {
	code := []byte{byte(opcodes.PUSH0)}
	prog := mustDecode(t, code)
	opts := DefaultOptions()
	opts.Rules.PushZero = false
	mod, err := Generate(prog, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b := mod.Func.Blocks[mod.Func.EntryBlock]
	if b.Instrs[0].Op != opcodes.INVALID {
		t.Fatalf("disabled opcode should lower to INVALID, got %v", b.Instrs[0].Op)
	}
}
