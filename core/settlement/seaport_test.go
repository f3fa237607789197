package settlement

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

const seaportFulfillAvailableSignature = "fulfillAvailableAdvancedOrders(" +
	"((address,address,(uint8,address,uint256,uint256,uint256)[],(uint8,address,uint256,uint256,uint256,address)[],uint8,uint256,uint256,bytes32,uint256,bytes32,uint256),uint120,uint120,bytes,bytes)[]," +
	"(uint256,uint8,uint256,uint256,bytes32[])[]," +
	"(uint256,uint256)[][]," +
	"(uint256,uint256)[][]," +
	"bytes32,address,uint256)"

func encodeSeaport(t *testing.T, orders []types.OrderInfo, params types.BatchParams) (*types.TxPlan, error) {
	t.Helper()
	plan, err := PlanFulfillments(orders)
	require.NoError(t, err)
	return NewSeaportEncoder().Encode(orders, plan, params)
}

func TestSeaportEncoder_Selector(t *testing.T) {
	method := SeaportABI.Methods[seaportFulfillAvailableMethod]
	assert.Equal(t, seaportFulfillAvailableSignature, method.Sig)
	assert.Equal(t, crypto.Keccak256([]byte(seaportFulfillAvailableSignature))[:4], method.ID)
	assert.True(t, method.IsPayable())
}

func TestSeaportEncoder_RoundTrip(t *testing.T) {
	feeA := common.HexToAddress("0x0000a26b00c1F0DF003000390027140000fAa719")
	feeB := common.HexToAddress("0x00000000000000000000000000000000000fee05")
	orders := []types.OrderInfo{
		seaportOrder("0xa", 11, 975, fee{20, feeA}, fee{5, feeB}),
		seaportOrder("0xb", 12, 500),
	}
	params := types.BatchParams{Recipient: testBuyer, ConduitKey: testConduitKey}

	tx, err := encodeSeaport(t, orders, params)
	require.NoError(t, err)

	require.NotNil(t, tx.To)
	assert.Equal(t, seaportAddress, *tx.To)
	assert.Equal(t, int64(1500), tx.Value.Int64())
	assert.Equal(t, SeaportABI.Methods[seaportFulfillAvailableMethod].ID, tx.Data[:4])

	call, err := DecodeSeaportCalldata(tx.Data)
	require.NoError(t, err)

	expected := &SeaportFulfillAvailableCall{
		CriteriaResolvers: []SeaportCriteriaResolver{},
		OfferFulfillments: [][]SeaportFulfillmentComponent{
			{{OrderIndex: big.NewInt(0), ItemIndex: big.NewInt(0)}},
			{{OrderIndex: big.NewInt(1), ItemIndex: big.NewInt(0)}},
		},
		ConsiderationFulfillments: [][]SeaportFulfillmentComponent{
			{{OrderIndex: big.NewInt(0), ItemIndex: big.NewInt(0)}},
			{{OrderIndex: big.NewInt(0), ItemIndex: big.NewInt(1)}},
			{{OrderIndex: big.NewInt(0), ItemIndex: big.NewInt(2)}},
			{{OrderIndex: big.NewInt(1), ItemIndex: big.NewInt(0)}},
		},
		FulfillerConduitKey: testConduitKey,
		Recipient:           testBuyer,
		MaximumFulfilled:    big.NewInt(2),
	}
	for _, order := range orders {
		terms := seaportTerms(order)
		consideration := make([]SeaportConsiderationItem, 0)
		for _, item := range terms.ConsiderationItems() {
			consideration = append(consideration, SeaportConsiderationItem{
				ItemType:             item.ItemType,
				Token:                item.Token,
				IdentifierOrCriteria: item.IdentifierOrCriteria,
				StartAmount:          item.StartAmount,
				EndAmount:            item.EndAmount,
				Recipient:            item.Recipient,
			})
		}
		expected.AdvancedOrders = append(expected.AdvancedOrders, SeaportAdvancedOrder{
			Parameters: SeaportOrderParameters{
				Offerer: terms.Offerer,
				Zone:    terms.Zone,
				Offer: []SeaportOfferItem{{
					ItemType:             terms.Offer[0].ItemType,
					Token:                terms.Offer[0].Token,
					IdentifierOrCriteria: terms.Offer[0].IdentifierOrCriteria,
					StartAmount:          terms.Offer[0].StartAmount,
					EndAmount:            terms.Offer[0].EndAmount,
				}},
				Consideration:                   consideration,
				OrderType:                       terms.OrderType,
				StartTime:                       terms.StartTime,
				EndTime:                         terms.EndTime,
				ZoneHash:                        terms.ZoneHash,
				Salt:                            terms.Salt,
				ConduitKey:                      terms.ConduitKey,
				TotalOriginalConsiderationItems: big.NewInt(int64(len(consideration))),
			},
			Numerator:   big.NewInt(1),
			Denominator: big.NewInt(1),
			Signature:   terms.Signature,
		})
	}

	if diff := cmp.Diff(expected, call, bigIntComparer, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded call mismatch (-want +got):\n%s", diff)
	}
}

func TestSeaportEncoder_TotalOriginalMatchesConsideration(t *testing.T) {
	var orders []types.OrderInfo
	for i := int64(0); i < 5; i++ {
		fees := make([]fee, i)
		for j := range fees {
			fees[j] = fee{amount: 10, recipient: common.BigToAddress(big.NewInt(int64(j + 1)))}
		}
		orders = append(orders, seaportOrder("0x", 20+i, 1000, fees...))
	}

	tx, err := encodeSeaport(t, orders, types.DefaultBatchParams(testBuyer))
	require.NoError(t, err)

	call, err := DecodeSeaportCalldata(tx.Data)
	require.NoError(t, err)
	require.Len(t, call.AdvancedOrders, len(orders))

	groups := 0
	for i, advanced := range call.AdvancedOrders {
		n := len(advanced.Parameters.Consideration)
		assert.Equal(t, int64(n), advanced.Parameters.TotalOriginalConsiderationItems.Int64(), "order %d", i)
		assert.Equal(t, 1+seaportTerms(orders[i]).FeeRecipientCount(), n)
		groups += n
	}
	assert.Len(t, call.ConsiderationFulfillments, groups)
	for _, group := range call.ConsiderationFulfillments {
		assert.Len(t, group, 1)
	}
}

func TestSeaportEncoder_MaximumFulfilled(t *testing.T) {
	orders := []types.OrderInfo{seaportOrder("0xa", 1, 10), seaportOrder("0xb", 2, 10), seaportOrder("0xc", 3, 10)}

	tests := []struct {
		name    string
		cap     uint64
		want    int64
		wantErr bool
	}{
		{name: "derived from batch size", cap: 0, want: 3},
		{name: "caller cap", cap: 2, want: 2},
		{name: "cap equal to batch size", cap: 3, want: 3},
		{name: "cap beyond batch size", cap: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := types.DefaultBatchParams(testBuyer)
			params.MaximumFulfilled = tt.cap

			tx, err := encodeSeaport(t, orders, params)
			if tt.wantErr {
				require.ErrorIs(t, err, types.ErrInvalidParams)
				assert.Nil(t, tx)
				return
			}
			require.NoError(t, err)
			call, err := DecodeSeaportCalldata(tx.Data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, call.MaximumFulfilled.Int64())
		})
	}
}

func TestSeaportEncoder_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(o *types.OrderInfo)
		wantKind  error
		wantField string
	}{
		{
			name:      "missing signature",
			mutate:    func(o *types.OrderInfo) { seaportTerms(*o).Signature = nil },
			wantKind:  types.ErrMalformedOrder,
			wantField: "signature",
		},
		{
			name: "criteria offer",
			mutate: func(o *types.OrderInfo) {
				seaportTerms(*o).Offer[0].ItemType = types.ItemTypeERC721WithCriteria
			},
			wantKind: types.ErrUnsupportedOrderShape,
		},
		{
			name: "erc20 payment",
			mutate: func(o *types.OrderInfo) {
				terms := seaportTerms(*o)
				terms.Consideration.ItemType = types.ItemTypeERC20
				terms.Consideration.Token = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
			},
			wantKind: types.ErrUnsupportedOrderShape,
		},
		{
			name:     "contract order",
			mutate:   func(o *types.OrderInfo) { seaportTerms(*o).OrderType = types.OrderTypeContract },
			wantKind: types.ErrUnsupportedOrderShape,
		},
		{
			name:     "consideration does not add up to price",
			mutate:   func(o *types.OrderInfo) { o.Price = big.NewInt(999) },
			wantKind: types.ErrEncodingMismatch,
		},
		{
			name:     "offer for another item",
			mutate:   func(o *types.OrderInfo) { seaportTerms(*o).Offer[0].IdentifierOrCriteria = big.NewInt(404) },
			wantKind: types.ErrEncodingMismatch,
		},
		{
			name: "declared recipient count differs",
			mutate: func(o *types.OrderInfo) {
				declared := 3
				seaportTerms(*o).DeclaredAdditionalRecipients = &declared
			},
			wantKind: types.ErrEncodingMismatch,
		},
		{
			name:     "bid side",
			mutate:   func(o *types.OrderInfo) { o.Side = types.SideBid },
			wantKind: types.ErrUnsupportedOrderShape,
		},
		{
			name:     "duplicate item",
			mutate:   func(o *types.OrderInfo) { o.ItemID = big.NewInt(1) },
			wantKind: types.ErrEncodingMismatch,
		},
		{
			name:     "other settlement contract",
			mutate:   func(o *types.OrderInfo) { o.ProtocolAddress = common.HexToAddress(types.SeaportV15Address) },
			wantKind: types.ErrUnsupportedOrderShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := seaportOrder("0xa", 1, 100)
			bad := seaportOrder("0xb", 2, 90, fee{10, common.HexToAddress("0xf1")})
			tt.mutate(&bad)

			orders := []types.OrderInfo{good, bad}
			plan := types.FulfillmentPlan{
				{Offer: []types.FulfillmentComponent{{OrderIndex: 0, ItemIndex: 0}}, Consideration: []types.FulfillmentComponent{{OrderIndex: 0, ItemIndex: 0}}},
				{Offer: []types.FulfillmentComponent{{OrderIndex: 1, ItemIndex: 0}}, Consideration: []types.FulfillmentComponent{{OrderIndex: 1, ItemIndex: 0}, {OrderIndex: 1, ItemIndex: 1}}},
			}

			tx, err := NewSeaportEncoder().Encode(orders, plan, types.DefaultBatchParams(testBuyer))
			require.ErrorIs(t, err, tt.wantKind)
			assert.Nil(t, tx)

			var oe *types.OrderError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, 1, oe.Index)
			assert.Equal(t, "0xb", oe.OrderHash)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, oe.Field)
			}
		})
	}
}

func TestSeaportEncoder_PlanMismatch(t *testing.T) {
	orders := []types.OrderInfo{seaportOrder("0xa", 1, 100), seaportOrder("0xb", 2, 90, fee{10, common.HexToAddress("0xf1")})}
	good := types.FulfillmentPlan{
		{Offer: []types.FulfillmentComponent{{OrderIndex: 0, ItemIndex: 0}}, Consideration: []types.FulfillmentComponent{{OrderIndex: 0, ItemIndex: 0}}},
		{Offer: []types.FulfillmentComponent{{OrderIndex: 1, ItemIndex: 0}}, Consideration: []types.FulfillmentComponent{{OrderIndex: 1, ItemIndex: 0}, {OrderIndex: 1, ItemIndex: 1}}},
	}

	tests := []struct {
		name string
		plan types.FulfillmentPlan
	}{
		{name: "short plan", plan: good[:1]},
		{name: "offer points at another order", plan: types.FulfillmentPlan{
			good[0],
			{Offer: []types.FulfillmentComponent{{OrderIndex: 0, ItemIndex: 0}}, Consideration: good[1].Consideration},
		}},
		{name: "missing fee component", plan: types.FulfillmentPlan{
			good[0],
			{Offer: good[1].Offer, Consideration: []types.FulfillmentComponent{{OrderIndex: 1, ItemIndex: 0}}},
		}},
		{name: "components out of order", plan: types.FulfillmentPlan{
			good[0],
			{Offer: good[1].Offer, Consideration: []types.FulfillmentComponent{{OrderIndex: 1, ItemIndex: 1}, {OrderIndex: 1, ItemIndex: 0}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewSeaportEncoder().Encode(orders, tt.plan, types.DefaultBatchParams(testBuyer))
			require.ErrorIs(t, err, types.ErrEncodingMismatch)
			assert.Nil(t, tx)
		})
	}

	_, err := NewSeaportEncoder().Encode(orders, good, types.DefaultBatchParams(testBuyer))
	require.NoError(t, err)
}

func TestSeaportEncoder_EmptyBatch(t *testing.T) {
	tx, err := NewSeaportEncoder().Encode(nil, nil, types.DefaultBatchParams(testBuyer))
	require.ErrorIs(t, err, types.ErrEmptyBatch)
	assert.Nil(t, tx)
}

func TestDecodeSeaportCalldata_Rejects(t *testing.T) {
	_, err := DecodeSeaportCalldata([]byte{0x01})
	require.Error(t, err)

	_, err = DecodeSeaportCalldata([]byte{0xde, 0xad, 0xbe, 0xef, 0x00})
	require.Error(t, err)

	tx, err := NewLooksRareEncoder().Encode([]types.OrderInfo{looksRareOrder("0xa", 1, 10)}, nil, types.DefaultBatchParams(testBuyer))
	require.NoError(t, err)
	_, err = DecodeSeaportCalldata(tx.Data)
	require.Error(t, err)
}
