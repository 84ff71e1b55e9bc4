package chainconfig

import (
	"testing"

	"github.com/evmaot/evmaot/opcodes"
)

func TestDefaultEnablesEverything(t *testing.T) {
	r := Default()
	for _, op := range []opcodes.OpCode{opcodes.PUSH0, opcodes.MCOPY, opcodes.TLOAD, opcodes.TSTORE, opcodes.BLOBHASH, opcodes.BLOBBASEFEE} {
		if !r.Enabled(op) {
			t.Fatalf("%v should be enabled by default", op)
		}
	}
}

func TestDisablingFlagDisablesItsOpcodes(t *testing.T) {
	r := Default()
	r.TransientStorage = false
	if r.Enabled(opcodes.TLOAD) || r.Enabled(opcodes.TSTORE) {
		t.Fatalf("TLOAD/TSTORE should be disabled when TransientStorage is false")
	}
	if !r.Enabled(opcodes.ADD) {
		t.Fatalf("unrelated opcodes must remain enabled")
	}
}

func TestDisablingBlobFieldsDisablesBoth(t *testing.T) {
	r := Default()
	r.BlobFields = false
	if r.Enabled(opcodes.BLOBHASH) || r.Enabled(opcodes.BLOBBASEFEE) {
		t.Fatalf("blob opcodes should be disabled")
	}
}

func TestOrdinaryOpcodeAlwaysEnabled(t *testing.T) {
	r := Rules{} // all flags false
	if !r.Enabled(opcodes.ADD) {
		t.Fatalf("ADD is not gated by any rule flag and must always be enabled")
	}
}
