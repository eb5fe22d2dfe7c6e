package spork

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, 27, r.Len())

	cases := []struct {
		id   ID
		name string
		def  int64
	}{
		{SwiftTX, "SPORK_2_SWIFTTX", 978307200},
		{SwiftTXBlockFiltering, "SPORK_3_SWIFTTX_BLOCK_FILTERING", 1424217600},
		{MaxValue, "SPORK_5_MAX_VALUE", 1000},
		{MasternodePaymentEnforcement, "SPORK_8_MASTERNODE_PAYMENT_ENFORCEMENT", 1548846000},
		{ZerocoinMaintenanceMode, "SPORK_16_ZEROCOIN_MAINTENANCE_MODE", 4070908800},
		{RequiredMNCollateral, "SPORK_17_REQUIRED_MN_COLLATERAL", 1000},
		{Collateral20000, "SPORK_32_COLLATERAL_20000", 99999999},
	}

	for _, c := range cases {
		assert.Equal(t, c.name, r.NameOf(c.id))

		id, ok := r.IDOf(c.name)
		assert.True(t, ok)
		assert.Equal(t, c.id, id)

		def, ok := r.DefaultOf(c.id)
		assert.True(t, ok)
		assert.Equal(t, c.def, def)
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := DefaultRegistry()

	for _, id := range []ID{0, 10000, 10003, 10005, 10010, 10011, 10032} {
		if name := r.NameOf(id); name != UnknownName {
			t.Fatalf("NameOf(%d) should be %s, not %s", id, UnknownName, name)
		}
		if r.Known(id) {
			t.Fatalf("%d should not be known", id)
		}
		if def, ok := r.DefaultOf(id); ok || def != Unset {
			t.Fatalf("DefaultOf(%d) should be unset", id)
		}
	}

	// exact, case-sensitive match
	if _, ok := r.IDOf("spork_2_swifttx"); ok {
		t.Fatal("IDOf should be case-sensitive")
	}
	if _, ok := r.IDOf(UnknownName); ok {
		t.Fatal("IDOf(Unknown) should fail")
	}
}

func TestRegistryParamsSorted(t *testing.T) {
	params := DefaultRegistry().Params()
	for i := 1; i < len(params); i++ {
		if params[i-1].ID >= params[i].ID {
			t.Fatalf("params not sorted at %d", i)
		}
	}

	// Params returns a copy
	params[0].Name = "foo"
	assert.Equal(t, "SPORK_2_SWIFTTX", DefaultRegistry().NameOf(SwiftTX))
}

func TestNewRegistryErrors(t *testing.T) {
	cases := [][]Param{
		{{1, "A", 0}, {1, "B", 0}},
		{{1, "A", 0}, {2, "A", 0}},
		{{1, "", 0}},
		{{1, UnknownName, 0}},
	}

	for i, c := range cases {
		if _, err := NewRegistry(c); err == nil {
			t.Fatalf("case %d should fail", i)
		}
	}
}
