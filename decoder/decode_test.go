package decoder

import (
	"testing"

	"github.com/evmaot/evmaot/opcodes"
)

func TestDecodePushZeroPads(t *testing.T) {
	// PUSH2 with only one immediate byte available
	code := []byte{byte(opcodes.PUSH2), 0xAB}
	prog, err := Decode(code, Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(prog.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(prog.Ops))
	}
	op := prog.Ops[0]
	if op.PushWidth != 2 {
		t.Fatalf("got width %d, want 2", op.PushWidth)
	}
	if !op.PushValue.IsUint64() || op.PushValue.Uint64() != 0xAB00 {
		t.Fatalf("got %v, want 0xAB00 (zero padded)", op.PushValue)
	}
}

func TestDecodeStrictRejectsTruncatedPush(t *testing.T) {
	code := []byte{byte(opcodes.PUSH2), 0xAB}
	_, err := Decode(code, Options{Strict: true})
	if err == nil {
		t.Fatalf("expected strict decode to fail on truncated PUSH")
	}
}

func TestDecodeUnmappedByteBecomesInvalid(t *testing.T) {
	code := []byte{0x0C} // unassigned
	prog, err := Decode(code, Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prog.Ops[0].Op != opcodes.INVALID {
		t.Fatalf("got %v, want INVALID", prog.Ops[0].Op)
	}
}

func TestDecodeRecordsJumpdests(t *testing.T) {
	code := []byte{byte(opcodes.JUMPDEST), byte(opcodes.PUSH1), byte(opcodes.JUMPDEST), byte(opcodes.JUMPDEST)}
	prog, err := Decode(code, Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !prog.Jumpdests.Has(0) || !prog.Jumpdests.Has(3) {
		t.Fatalf("expected jumpdests at 0 and 3, got %v", prog.Jumpdests)
	}
	if prog.Jumpdests.Has(1) || prog.Jumpdests.Has(2) {
		t.Fatalf("PUSH1's immediate byte must not be a jumpdest")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 0x42,
		byte(opcodes.PUSH2), 0x01, 0x02,
		byte(opcodes.JUMPDEST),
		byte(opcodes.ADD),
		byte(opcodes.STOP),
	}
	prog, err := Decode(code, Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := Encode(prog)
	if len(got) != len(code) {
		t.Fatalf("got %d bytes, want %d", len(got), len(code))
	}
	for i := range code {
		if got[i] != code[i] {
			t.Fatalf("byte %d: got 0x%02x, want 0x%02x", i, got[i], code[i])
		}
	}
}

func TestSortedPCsAscending(t *testing.T) {
	s := JumpdestSet{10: true, 2: true, 7: true}
	got := s.SortedPCs()
	want := []uint64{2, 7, 10}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
