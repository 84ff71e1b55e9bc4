package backend

import (
	"testing"

	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/opcodes"
)

func TestSstoreGateFaultsUnderSentryGas(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 1, // value
		byte(opcodes.PUSH1), 0, // key
		byte(opcodes.SSTORE),
	}
	// Two PUSH1s cost 3 each, leaving 2299 < SstoreSentryGas(2300): the gate
	// must fault before SstoreCost's own (much cheaper) charge ever applies.
	ctx, gasUsed := run(t, code, 2305)
	if ctx.ExitStatus != host.ExitError || ctx.FaultReason != host.FaultOutOfGas {
		t.Fatalf("got status=%v fault=%v, want ExitError/FaultOutOfGas", ctx.ExitStatus, ctx.FaultReason)
	}
	if gasUsed != 2305 {
		t.Fatalf("got gasUsed %d, want full gas limit 2305 consumed on halt", gasUsed)
	}
}

func TestSstoreSucceedsWithSentryGasAvailable(t *testing.T) {
	code := []byte{
		byte(opcodes.PUSH1), 1,
		byte(opcodes.PUSH1), 0,
		byte(opcodes.SSTORE),
		byte(opcodes.STOP),
	}
	ctx, _ := run(t, code, 100000)
	if ctx.ExitStatus != host.ExitStop {
		t.Fatalf("got status %v, want ExitStop", ctx.ExitStatus)
	}
}
