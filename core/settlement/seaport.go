package settlement

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/pkg/errors"
)

// SeaportMaxFulfilledPerOrder is how many units of maximumFulfilled one order
// consumes. fulfillAvailable* counts every order it fills once.
const SeaportMaxFulfilledPerOrder = 1

// SeaportEncoder encodes listing batches as a Seaport fulfillAvailableAdvancedOrders call
type SeaportEncoder struct{}

var _ types.BatchEncoder = (*SeaportEncoder)(nil)

func NewSeaportEncoder() *SeaportEncoder {
	return &SeaportEncoder{}
}

func (e *SeaportEncoder) Protocol() types.Protocol {
	return types.ProtocolSeaport
}

// Encode builds the call for orders using plan. Every order is filled in full
// (numerator = denominator = 1), no criteria resolvers are supplied and each
// consideration component settles in its own group.
func (e *SeaportEncoder) Encode(orders []types.OrderInfo, plan types.FulfillmentPlan, params types.BatchParams) (*types.TxPlan, error) {
	to, err := checkBatch(orders, types.ProtocolSeaport)
	if err != nil {
		return nil, err
	}
	if len(plan) != len(orders) {
		return nil, types.EncodingMismatch(types.NoIndex, "", "plan has %d entries for %d orders", len(plan), len(orders))
	}
	maximumFulfilled, err := seaportMaximumFulfilled(len(orders), params.MaximumFulfilled)
	if err != nil {
		return nil, err
	}

	call := &SeaportFulfillAvailableCall{
		AdvancedOrders:            make([]SeaportAdvancedOrder, 0, len(orders)),
		CriteriaResolvers:         []SeaportCriteriaResolver{},
		OfferFulfillments:         make([][]SeaportFulfillmentComponent, 0, len(orders)),
		ConsiderationFulfillments: make([][]SeaportFulfillmentComponent, 0, len(orders)),
		FulfillerConduitKey:       params.ConduitKey,
		Recipient:                 params.Recipient,
		MaximumFulfilled:          new(big.Int).SetUint64(maximumFulfilled),
	}

	for i, order := range orders {
		terms, err := seaportTermsOf(i, order)
		if err != nil {
			return nil, err
		}
		advanced, err := seaportAdvancedOrder(i, order, terms)
		if err != nil {
			return nil, err
		}
		if err := checkSeaportPlanEntry(i, order, plan[i], advanced); err != nil {
			return nil, err
		}

		call.AdvancedOrders = append(call.AdvancedOrders, advanced)
		call.OfferFulfillments = append(call.OfferFulfillments, seaportComponents(plan[i].Offer))
		for _, c := range plan[i].Consideration {
			call.ConsiderationFulfillments = append(call.ConsiderationFulfillments, seaportComponents([]types.FulfillmentComponent{c}))
		}
	}

	value, err := TotalValue(orders)
	if err != nil {
		return nil, err
	}
	data, err := call.pack()
	if err != nil {
		return nil, errors.Wrap(err, "pack fulfillAvailableAdvancedOrders")
	}
	return &types.TxPlan{To: &to, Data: data, Value: value}, nil
}

func seaportMaximumFulfilled(orderCount int, requested uint64) (uint64, error) {
	derived := uint64(orderCount) * SeaportMaxFulfilledPerOrder
	if requested == 0 {
		return derived, nil
	}
	if requested > derived {
		return 0, errors.Wrapf(types.ErrInvalidParams, "maximumFulfilled %d exceeds %d orders", requested, orderCount)
	}
	return requested, nil
}

func seaportTermsOf(index int, order types.OrderInfo) (*types.SeaportTerms, error) {
	if order.Terms == nil {
		return nil, types.MalformedOrder(index, order.OrderHash, "terms", "order has no fulfillment terms")
	}
	terms, ok := order.Terms.(*types.SeaportTerms)
	if !ok {
		return nil, types.UnsupportedShape(index, order.OrderHash, "%s terms on a seaport order", order.Terms.Protocol())
	}
	if err := terms.Validate(); err != nil {
		return nil, types.MalformedOrderFrom(index, order.OrderHash, err)
	}
	return terms, nil
}

// seaportAdvancedOrder expands terms into the signed order parameters and checks
// that they describe a fixed-price, native-currency sale of order.ItemID at order.Price
func seaportAdvancedOrder(index int, order types.OrderInfo, terms *types.SeaportTerms) (SeaportAdvancedOrder, error) {
	hash := order.OrderHash
	if terms.OrderType >= types.OrderTypeContract {
		return SeaportAdvancedOrder{}, types.UnsupportedShape(index, hash, "order type %d", terms.OrderType)
	}
	if len(terms.Offer) != 1 {
		return SeaportAdvancedOrder{}, types.UnsupportedShape(index, hash, "order offers %d items, batch purchase needs exactly one", len(terms.Offer))
	}

	offer := terms.Offer[0]
	switch offer.ItemType {
	case types.ItemTypeERC721, types.ItemTypeERC1155:
	case types.ItemTypeERC721WithCriteria, types.ItemTypeERC1155WithCriteria:
		return SeaportAdvancedOrder{}, types.UnsupportedShape(index, hash, "criteria-based offer items need a criteria resolver")
	default:
		return SeaportAdvancedOrder{}, types.UnsupportedShape(index, hash, "offer item type %d is not an NFT", offer.ItemType)
	}
	if offer.IdentifierOrCriteria == nil || offer.IdentifierOrCriteria.Cmp(order.ItemID) != 0 {
		return SeaportAdvancedOrder{}, types.EncodingMismatch(index, hash, "offer identifier %v differs from item id %s", offer.IdentifierOrCriteria, order.ItemID)
	}
	if offer.StartAmount == nil || offer.EndAmount == nil || offer.StartAmount.Cmp(offer.EndAmount) != 0 {
		return SeaportAdvancedOrder{}, types.UnsupportedShape(index, hash, "offer amount varies over time")
	}

	if terms.DeclaredAdditionalRecipients != nil && *terms.DeclaredAdditionalRecipients != terms.FeeRecipientCount() {
		return SeaportAdvancedOrder{}, types.EncodingMismatch(index, hash, "order declares %d additional recipients but carries %d",
			*terms.DeclaredAdditionalRecipients, terms.FeeRecipientCount())
	}

	considerationItems := terms.ConsiderationItems()
	consideration := make([]SeaportConsiderationItem, 0, len(considerationItems))
	paid := new(big.Int)
	for _, item := range considerationItems {
		if item.ItemType != types.ItemTypeNative || item.Token != (common.Address{}) {
			return SeaportAdvancedOrder{}, types.UnsupportedShape(index, hash, "consideration is not paid in the native currency")
		}
		if item.EndAmount == nil || item.StartAmount.Cmp(item.EndAmount) != 0 {
			return SeaportAdvancedOrder{}, types.UnsupportedShape(index, hash, "consideration amount varies over time")
		}
		paid.Add(paid, item.StartAmount)
		consideration = append(consideration, SeaportConsiderationItem{
			ItemType:             item.ItemType,
			Token:                item.Token,
			IdentifierOrCriteria: bigOrZero(item.IdentifierOrCriteria),
			StartAmount:          new(big.Int).Set(item.StartAmount),
			EndAmount:            new(big.Int).Set(item.EndAmount),
			Recipient:            item.Recipient,
		})
	}
	if paid.Cmp(order.Price) != 0 {
		return SeaportAdvancedOrder{}, types.EncodingMismatch(index, hash, "consideration pays %s but order price is %s", paid, order.Price)
	}

	return SeaportAdvancedOrder{
		Parameters: SeaportOrderParameters{
			Offerer: terms.Offerer,
			Zone:    terms.Zone,
			Offer: []SeaportOfferItem{{
				ItemType:             offer.ItemType,
				Token:                offer.Token,
				IdentifierOrCriteria: new(big.Int).Set(offer.IdentifierOrCriteria),
				StartAmount:          new(big.Int).Set(offer.StartAmount),
				EndAmount:            new(big.Int).Set(offer.EndAmount),
			}},
			Consideration:                   consideration,
			OrderType:                       terms.OrderType,
			StartTime:                       new(big.Int).Set(terms.StartTime),
			EndTime:                         new(big.Int).Set(terms.EndTime),
			ZoneHash:                        terms.ZoneHash,
			Salt:                            new(big.Int).Set(terms.Salt),
			ConduitKey:                      terms.ConduitKey,
			TotalOriginalConsiderationItems: big.NewInt(int64(len(consideration))),
		},
		Numerator:   big.NewInt(1),
		Denominator: big.NewInt(1),
		Signature:   append([]byte(nil), terms.Signature...),
		ExtraData:   []byte{},
	}, nil
}

// checkSeaportPlanEntry verifies that a plan entry refers only to order index
// and covers exactly its encoded items
func checkSeaportPlanEntry(index int, order types.OrderInfo, entry types.OrderFulfillment, advanced SeaportAdvancedOrder) error {
	hash := order.OrderHash
	if len(entry.Offer) != 1 || entry.Offer[0] != (types.FulfillmentComponent{OrderIndex: index, ItemIndex: 0}) {
		return types.EncodingMismatch(index, hash, "offer components %v do not select item 0 of order %d", entry.Offer, index)
	}

	consideration := advanced.Parameters.Consideration
	if len(entry.Consideration) != len(consideration) {
		return types.EncodingMismatch(index, hash, "plan has %d consideration components for %d items",
			len(entry.Consideration), len(consideration))
	}
	for j, c := range entry.Consideration {
		if c.OrderIndex != index || c.ItemIndex != j {
			return types.EncodingMismatch(index, hash, "consideration component %d points at order %d item %d", j, c.OrderIndex, c.ItemIndex)
		}
	}
	if advanced.Parameters.TotalOriginalConsiderationItems.Cmp(big.NewInt(int64(len(consideration)))) != 0 {
		return types.EncodingMismatch(index, hash, "totalOriginalConsiderationItems %s for %d items",
			advanced.Parameters.TotalOriginalConsiderationItems, len(consideration))
	}
	return nil
}

func seaportComponents(components []types.FulfillmentComponent) []SeaportFulfillmentComponent {
	out := make([]SeaportFulfillmentComponent, 0, len(components))
	for _, c := range components {
		out = append(out, SeaportFulfillmentComponent{
			OrderIndex: big.NewInt(int64(c.OrderIndex)),
			ItemIndex:  big.NewInt(int64(c.ItemIndex)),
		})
	}
	return out
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
