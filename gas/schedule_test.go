package gas

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/evmaot/evmaot/params"
)

func TestMemoryExpansionChargesOnlyMarginal(t *testing.T) {
	full := MemoryExpansionCost(0, 64)
	if full == 0 {
		t.Fatalf("expected nonzero cost growing from 0 to 64 bytes")
	}
	again := MemoryExpansionCost(64, 64)
	if again != 0 {
		t.Fatalf("growing to the same size should cost 0, got %d", again)
	}
	shrink := MemoryExpansionCost(64, 32)
	if shrink != 0 {
		t.Fatalf("shrinking should cost 0, got %d", shrink)
	}
}

func TestMemoryExpansionQuadraticAtLargeSizes(t *testing.T) {
	small := MemoryExpansionCost(0, 32*32)
	large := MemoryExpansionCost(0, 32*3200)
	// multiplying the word count by 100 should cost far more than 100x once
	// the quadratic term dominates.
	if large < small*100 {
		t.Fatalf("expected quadratic growth: small=%d large=%d", small, large)
	}
}

func TestExpCostZeroExponent(t *testing.T) {
	zero := uint256.NewInt(0)
	if got := ExpCost(zero); got != 10 {
		t.Fatalf("ExpCost(0): got %d, want 10", got)
	}
}

func TestExpCostScalesWithBitLength(t *testing.T) {
	one := uint256.NewInt(1)
	big := uint256.NewInt(1)
	big.Lsh(big, 200)
	small := ExpCost(one)
	large := ExpCost(big)
	if large <= small {
		t.Fatalf("expected larger exponent to cost more: small=%d large=%d", small, large)
	}
}

func TestSstoreCostFreshZeroToNonzero(t *testing.T) {
	zero := uint256.NewInt(0)
	one := uint256.NewInt(1)
	gasCost, refund := SstoreCost(zero, zero, one, false)
	if gasCost != params.SstoreSetGas {
		t.Fatalf("got gas %d, want %d", gasCost, params.SstoreSetGas)
	}
	if refund != 0 {
		t.Fatalf("got refund %d, want 0", refund)
	}
}

func TestSstoreCostClearingGrantsRefund(t *testing.T) {
	one := uint256.NewInt(1)
	zero := uint256.NewInt(0)
	gasCost, refund := SstoreCost(one, one, zero, false)
	if gasCost != params.SstoreResetGas {
		t.Fatalf("got gas %d, want %d", gasCost, params.SstoreResetGas)
	}
	if refund != params.SstoreClearRefund {
		t.Fatalf("got refund %d, want %d", refund, params.SstoreClearRefund)
	}
}

func TestSstoreCostNoopChargesWarmOrColdFloor(t *testing.T) {
	v := uint256.NewInt(7)
	gasCost, refund := SstoreCost(v, v, v, false)
	if gasCost != params.WarmStorageReadCost || refund != 0 {
		t.Fatalf("got (%d,%d), want (%d,0)", gasCost, refund, params.WarmStorageReadCost)
	}
	gasCost, _ = SstoreCost(v, v, v, true)
	if gasCost != params.ColdSloadCost {
		t.Fatalf("got %d, want %d", gasCost, params.ColdSloadCost)
	}
}

func TestCapRefundEnforcesQuotient(t *testing.T) {
	got := CapRefund(1000, 1000)
	want := uint64(1000 / params.MaxRefundQuotient)
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
	under := CapRefund(1000, 10)
	if under != 10 {
		t.Fatalf("got %d, want 10 (below cap, unchanged)", under)
	}
}

func TestCallGasAppliesSixtyThreeSixtyFourthsCap(t *testing.T) {
	_, forwarded := CallGas(CallGasParams{
		AvailableGas: 6400,
		Value:        uint256.NewInt(0),
	})
	// the cap applies to what is left after the warm access cost is charged
	avail := uint64(6400 - params.WarmStorageReadCost)
	want := avail - avail/64
	if forwarded != want {
		t.Fatalf("got %d, want %d", forwarded, want)
	}
}

func TestCallGasAddsStipendOnValueTransfer(t *testing.T) {
	accessCost, forwarded := CallGas(CallGasParams{
		AvailableGas: 100000,
		Value:        uint256.NewInt(1),
	})
	if accessCost < params.NotZeroValueCost {
		t.Fatalf("expected value-transfer surcharge included in access cost, got %d", accessCost)
	}
	if forwarded < params.CallStipend {
		t.Fatalf("expected stipend folded into forwarded gas, got %d", forwarded)
	}
}
