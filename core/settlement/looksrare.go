package settlement

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/pkg/errors"
)

// LooksRareEncoder encodes listing batches as a LooksRare v2 executeMultipleTakerBids call
type LooksRareEncoder struct{}

var _ types.BatchEncoder = (*LooksRareEncoder)(nil)

func NewLooksRareEncoder() *LooksRareEncoder {
	return &LooksRareEncoder{}
}

func (e *LooksRareEncoder) Protocol() types.Protocol {
	return types.ProtocolLooksRareV2
}

// Encode pairs each maker ask with a taker bid delivering to params.Recipient.
// LooksRare takes no fulfillment plan; plan must be empty.
func (e *LooksRareEncoder) Encode(orders []types.OrderInfo, plan types.FulfillmentPlan, params types.BatchParams) (*types.TxPlan, error) {
	to, err := checkBatch(orders, types.ProtocolLooksRareV2)
	if err != nil {
		return nil, err
	}
	if len(plan) != 0 {
		return nil, types.EncodingMismatch(types.NoIndex, "", "executeMultipleTakerBids takes no fulfillment plan, got %d entries", len(plan))
	}
	if params.MaximumFulfilled != 0 {
		return nil, errors.Wrap(types.ErrInvalidParams, "maximumFulfilled is not supported by executeMultipleTakerBids")
	}

	call := &LooksRareExecuteMultipleCall{
		TakerBids:       make([]LooksRareTaker, 0, len(orders)),
		MakerAsks:       make([]LooksRareMaker, 0, len(orders)),
		MakerSignatures: make([][]byte, 0, len(orders)),
		MerkleTrees:     make([]LooksRareMerkleTree, 0, len(orders)),
		Affiliate:       params.Affiliate,
		IsAtomic:        params.IsAtomic,
	}

	for i, order := range orders {
		terms, err := looksRareTermsOf(i, order)
		if err != nil {
			return nil, err
		}
		maker, err := looksRareMakerAsk(i, order, terms)
		if err != nil {
			return nil, err
		}

		proof := make([]LooksRareMerkleNode, 0, len(terms.MerkleProof))
		for _, node := range terms.MerkleProof {
			proof = append(proof, LooksRareMerkleNode{Value: node.Value, Position: node.Position})
		}

		call.TakerBids = append(call.TakerBids, LooksRareTaker{Recipient: params.Recipient, AdditionalParameters: []byte{}})
		call.MakerAsks = append(call.MakerAsks, maker)
		call.MakerSignatures = append(call.MakerSignatures, append([]byte(nil), terms.Signature...))
		call.MerkleTrees = append(call.MerkleTrees, LooksRareMerkleTree{Root: terms.MerkleRoot, Proof: proof})
	}

	value, err := TotalValue(orders)
	if err != nil {
		return nil, err
	}
	data, err := call.pack()
	if err != nil {
		return nil, errors.Wrap(err, "pack executeMultipleTakerBids")
	}
	return &types.TxPlan{To: &to, Data: data, Value: value}, nil
}

func looksRareTermsOf(index int, order types.OrderInfo) (*types.LooksRareTerms, error) {
	if order.Terms == nil {
		return nil, types.MalformedOrder(index, order.OrderHash, "terms", "order has no fulfillment terms")
	}
	terms, ok := order.Terms.(*types.LooksRareTerms)
	if !ok {
		return nil, types.UnsupportedShape(index, order.OrderHash, "%s terms on a looksrare order", order.Terms.Protocol())
	}
	if err := terms.Validate(); err != nil {
		return nil, types.MalformedOrderFrom(index, order.OrderHash, err)
	}
	return terms, nil
}

// looksRareMakerAsk copies the signed maker order and checks it is a standard
// native-currency sale that includes order.ItemID at order.Price
func looksRareMakerAsk(index int, order types.OrderInfo, terms *types.LooksRareTerms) (LooksRareMaker, error) {
	hash := order.OrderHash
	if terms.QuoteType != types.QuoteTypeAsk {
		return LooksRareMaker{}, types.UnsupportedShape(index, hash, "maker order is not an ask")
	}
	if terms.StrategyID.Cmp(big.NewInt(types.LooksRareStandardSaleStrategy)) != 0 {
		return LooksRareMaker{}, types.UnsupportedShape(index, hash, "strategy %s needs taker parameters", terms.StrategyID)
	}
	if terms.Currency != (common.Address{}) {
		return LooksRareMaker{}, types.UnsupportedShape(index, hash, "maker ask is priced in %s, not the native currency", terms.Currency.Hex())
	}
	if terms.Price.Cmp(order.Price) != 0 {
		return LooksRareMaker{}, types.EncodingMismatch(index, hash, "maker price %s differs from order price %s", terms.Price, order.Price)
	}
	if len(terms.ItemIDs) != len(terms.Amounts) {
		return LooksRareMaker{}, types.EncodingMismatch(index, hash, "%d item ids but %d amounts", len(terms.ItemIDs), len(terms.Amounts))
	}

	itemIDs := make([]*big.Int, 0, len(terms.ItemIDs))
	found := false
	for _, id := range terms.ItemIDs {
		if id == nil {
			return LooksRareMaker{}, types.MalformedOrder(index, hash, "itemIds", "")
		}
		found = found || id.Cmp(order.ItemID) == 0
		itemIDs = append(itemIDs, new(big.Int).Set(id))
	}
	if !found {
		return LooksRareMaker{}, types.EncodingMismatch(index, hash, "maker ask does not include item %s", order.ItemID)
	}
	amounts := make([]*big.Int, 0, len(terms.Amounts))
	for _, amount := range terms.Amounts {
		if amount == nil {
			return LooksRareMaker{}, types.MalformedOrder(index, hash, "amounts", "")
		}
		amounts = append(amounts, new(big.Int).Set(amount))
	}

	return LooksRareMaker{
		QuoteType:            terms.QuoteType,
		GlobalNonce:          new(big.Int).Set(terms.GlobalNonce),
		SubsetNonce:          new(big.Int).Set(terms.SubsetNonce),
		OrderNonce:           new(big.Int).Set(terms.OrderNonce),
		StrategyId:           new(big.Int).Set(terms.StrategyID),
		CollectionType:       terms.CollectionType,
		Collection:           terms.Collection,
		Currency:             terms.Currency,
		Signer:               terms.Signer,
		StartTime:            new(big.Int).Set(terms.StartTime),
		EndTime:              new(big.Int).Set(terms.EndTime),
		Price:                new(big.Int).Set(terms.Price),
		ItemIds:              itemIDs,
		Amounts:              amounts,
		AdditionalParameters: append([]byte{}, terms.AdditionalParameters...),
	}, nil
}
