package host

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestMemoryResizeGrowOnly(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	if m.Len() != 32 {
		t.Fatalf("got len %d, want 32", m.Len())
	}
	m.Set32(0, [32]byte{1})
	m.Resize(64)
	if m.Len() != 64 {
		t.Fatalf("got len %d, want 64", m.Len())
	}
	if got := m.Get(0, 1); got[0] != 1 {
		t.Fatalf("resize lost existing data: got %v", got)
	}
	m.Resize(16)
	if m.Len() != 64 {
		t.Fatalf("shrink should be a no-op, got len %d", m.Len())
	}
}

func TestStackPushPop(t *testing.T) {
	s := NewStack()
	one := uint256.NewInt(1)
	s.Push(one)
	if s.Len() != 1 {
		t.Fatalf("got len %d, want 1", s.Len())
	}
	got := s.Pop()
	if !got.Eq(one) {
		t.Fatalf("got %v, want %v", got, one)
	}
}

// TestStackPushOverflowPanics exercises spec.md §8's boundary property: 1024
// pushes succeed, a 1025th overflows. Stack itself is the last-resort guard
// (KindStackCheck is supposed to catch this first), so overflow here is a
// panic rather than a returned error.
func TestStackPushOverflowPanics(t *testing.T) {
	s := NewStack()
	for i := 0; i < 1024; i++ {
		s.Push(uint256.NewInt(uint64(i)))
	}
	if s.Len() != 1024 {
		t.Fatalf("got len %d, want 1024 after filling the stack", s.Len())
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected the 1025th push to panic")
		}
	}()
	s.Push(uint256.NewInt(1024))
}

func TestStackDupSwap(t *testing.T) {
	s := NewStack()
	s.Push(uint256.NewInt(1))
	s.Push(uint256.NewInt(2))
	s.Dup(2)
	if s.Len() != 3 || !s.Peek(0).Eq(uint256.NewInt(1)) {
		t.Fatalf("dup2 should duplicate the bottom element")
	}
	s.Swap(1)
	if !s.Peek(0).Eq(uint256.NewInt(2)) || !s.Peek(1).Eq(uint256.NewInt(1)) {
		t.Fatalf("swap1 did not exchange top and depth-1 elements")
	}
}

func TestContextStorageOverlayShadowsDatabase(t *testing.T) {
	db := NewMemoryDatabase()
	addr := Address{1}
	key := uint256.NewInt(7)
	val := uint256.NewInt(42)
	db.Storage[addr] = map[Hash]uint256.Int{BigToHash(key): *uint256.NewInt(1)}

	ctx := NewContext(TxEnv{Origin: addr}, BlockEnv{}, ChainEnv{}, db, addr, Hash{})
	if got := ctx.ReadStorage(key); !got.Eq(uint256.NewInt(1)) {
		t.Fatalf("expected committed value before write, got %v", got)
	}
	ctx.WriteStorage(key, val)
	if got := ctx.ReadStorage(key); !got.Eq(val) {
		t.Fatalf("overlay did not shadow committed storage, got %v", got)
	}
	if got := ctx.OriginalStorage(key); !got.Eq(uint256.NewInt(1)) {
		t.Fatalf("original storage should bypass overlay, got %v", got)
	}
}

func TestContextAccessSetWarmsOnFirstTouch(t *testing.T) {
	ctx := NewContext(TxEnv{}, BlockEnv{}, ChainEnv{}, NewMemoryDatabase(), Address{}, Hash{})
	addr := Address{9}
	if !ctx.IsAddressCold(addr) {
		t.Fatalf("first touch should be cold")
	}
	if ctx.IsAddressCold(addr) {
		t.Fatalf("second touch should be warm")
	}
}

func TestContextWriteResultCapturesMemoryWindow(t *testing.T) {
	ctx := NewContext(TxEnv{}, BlockEnv{}, ChainEnv{}, NewMemoryDatabase(), Address{}, Hash{})
	ctx.ExtendMemory(32)
	ctx.Memory.Set32(0, [32]byte{0xAA})
	ctx.WriteResult(0, 1, ExitReturn)
	if len(ctx.Output) != 1 || ctx.Output[0] != 0xAA {
		t.Fatalf("unexpected output %v", ctx.Output)
	}
	if ctx.ExitStatus != ExitReturn {
		t.Fatalf("got status %v, want ExitReturn", ctx.ExitStatus)
	}
}
