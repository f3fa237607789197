package settlement

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nftsweep/sdk-go/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(hash, itemID, price string) types.RawListing {
	return types.RawListing{
		OrderHash:       hash,
		ProtocolAddress: types.SeaportV16Address,
		ItemID:          itemID,
		Price:           price,
		Side:            "ask",
	}
}

func TestNormalize_FilterSortAndDedup(t *testing.T) {
	records := []types.RawListing{
		listing("0xa", "7", "100"),
		listing("0xb", "7", "90"),
		listing("0xc", "8", "50"),
		listing("0xd", "9", "10"),
	}

	orders, err := Normalize(records, []string{"7", "8"})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "0xc", orders[0].OrderHash)
	assert.Equal(t, "0xb", orders[1].OrderHash)
	assert.Equal(t, int64(90), orders[1].Price.Int64())
	assert.Equal(t, types.ProtocolSeaport, orders[1].Protocol)
	assert.Equal(t, seaportAddress, orders[1].ProtocolAddress)
	assert.Equal(t, types.SideListing, orders[1].Side)
	assert.Nil(t, orders[1].Terms)
}

func TestNormalize_EqualPricesKeepFirstSeen(t *testing.T) {
	records := []types.RawListing{
		listing("0xfirst", "7", "100"),
		listing("0xsecond", "7", "100"),
	}

	orders, err := Normalize(records, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "0xfirst", orders[0].OrderHash)
}

func TestNormalize_EmptyFilterKeepsEveryItem(t *testing.T) {
	records := []types.RawListing{
		listing("0xa", "1", "3"),
		listing("0xb", "2", "2"),
		listing("0xc", "3", "1"),
	}

	orders, err := Normalize(records, []string{})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "0xc", orders[0].OrderHash)
	assert.Equal(t, "0xa", orders[2].OrderHash)
}

func TestNormalize_HexItemFilter(t *testing.T) {
	orders, err := Normalize([]types.RawListing{listing("0xa", "42", "1")}, []string{"0x2a"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestNormalize_HexRecordFields(t *testing.T) {
	orders, err := Normalize([]types.RawListing{listing("0xa", "0x2A", "0x3e8")}, []string{"42"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(42), orders[0].ItemID.Int64())
	assert.Equal(t, int64(1000), orders[0].Price.Int64())
}

func TestNormalizeProtocol_FiltersBeforeDedup(t *testing.T) {
	looksRare := listing("0xlr", "7", "20")
	looksRare.ProtocolAddress = types.LooksRareV2Address
	records := []types.RawListing{listing("0xsp", "7", "10"), looksRare}

	tests := []struct {
		name     string
		protocol types.Protocol
		wantHash string
	}{
		{name: "any protocol takes the cheapest", protocol: types.ProtocolUnknown, wantHash: "0xsp"},
		{name: "seaport", protocol: types.ProtocolSeaport, wantHash: "0xsp"},
		{name: "looksrare keeps the dearer listing", protocol: types.ProtocolLooksRareV2, wantHash: "0xlr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := NormalizeProtocol(records, []string{"7"}, tt.protocol)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, tt.wantHash, orders[0].OrderHash)
		})
	}
}

func TestNormalize_ProtocolResolution(t *testing.T) {
	lr := listing("0xa", "1", "1")
	lr.ProtocolAddress = types.LooksRareV2Address

	named := listing("0xb", "2", "1")
	named.ProtocolAddress = "0x00000000000000000000000000000000000000aa"
	named.Protocol = "seaport"

	orders, err := Normalize([]types.RawListing{lr, named}, nil)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, types.ProtocolLooksRareV2, orders[0].Protocol)
	assert.Equal(t, types.ProtocolSeaport, orders[1].Protocol)
}

func TestNormalize_Errors(t *testing.T) {
	overflow := pow2(256).String()

	tests := []struct {
		name      string
		records   []types.RawListing
		itemIDs   []string
		wantKind  error
		wantIndex int
		wantField string
	}{
		{
			name:      "missing order hash",
			records:   []types.RawListing{listing("0xa", "1", "1"), listing("", "2", "1")},
			wantKind:  types.ErrMalformedOrder,
			wantIndex: 1,
			wantField: "order_hash",
		},
		{
			name:      "missing price on a filtered out item",
			records:   []types.RawListing{listing("0xa", "1", "")},
			itemIDs:   []string{"2"},
			wantKind:  types.ErrMalformedOrder,
			wantIndex: 0,
			wantField: "price",
		},
		{
			name:      "price beyond uint256",
			records:   []types.RawListing{listing("0xa", "1", overflow)},
			wantKind:  types.ErrValueOverflow,
			wantIndex: 0,
		},
		{
			name:      "unknown side",
			records:   []types.RawListing{func() types.RawListing { r := listing("0xa", "1", "1"); r.Side = "swap"; return r }()},
			wantKind:  types.ErrMalformedOrder,
			wantField: "side",
		},
		{
			name: "unknown settlement contract",
			records: []types.RawListing{func() types.RawListing {
				r := listing("0xa", "1", "1")
				r.ProtocolAddress = "0x00000000000000000000000000000000000000aa"
				return r
			}()},
			wantKind: types.ErrUnsupportedOrderShape,
		},
		{
			name:      "terms without signature",
			records:   []types.RawListing{func() types.RawListing { r := listing("0xa", "1", "1"); r.Terms = json.RawMessage(basicOrderJSON(false)); return r }()},
			wantKind:  types.ErrMalformedOrder,
			wantField: "signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := Normalize(tt.records, tt.itemIDs)
			require.ErrorIs(t, err, tt.wantKind)
			assert.Nil(t, orders)

			var oe *types.OrderError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, tt.wantIndex, oe.Index)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, oe.Field)
			}
		})
	}
}

func TestNormalize_InvalidItemFilter(t *testing.T) {
	_, err := Normalize([]types.RawListing{listing("0xa", "1", "1")}, []string{"not-a-number"})
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

func TestNormalize_InlineTerms(t *testing.T) {
	rec := listing("0xa", "1234", "1000")
	rec.Terms = json.RawMessage(basicOrderJSON(true))

	orders, err := Normalize([]types.RawListing{rec}, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	terms, ok := orders[0].Terms.(*types.SeaportTerms)
	require.True(t, ok)
	assert.Equal(t, 0, terms.Offer[0].IdentifierOrCriteria.Cmp(big.NewInt(1234)))
	assert.Equal(t, 2, terms.FeeRecipientCount())
}
