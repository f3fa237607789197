package settlement

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nftsweep/sdk-go/core/types"
)

var (
	seaportAddress   = common.HexToAddress(types.SeaportV16Address)
	looksRareAddress = common.HexToAddress(types.LooksRareV2Address)
	testCollection   = common.HexToAddress("0x00000000000000000000000000000000000c011e")
	testBuyer        = common.HexToAddress("0x000000000000000000000000000000000000b0b0")
	testConduitKey   = common.HexToHash("0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000")
)

type fee struct {
	amount    int64
	recipient common.Address
}

func sellerFor(itemID int64) common.Address {
	return common.BigToAddress(big.NewInt(0x5e11e4000 + itemID))
}

// seaportOrder builds a native-currency ERC721 listing whose price is the
// proceeds plus every fee
func seaportOrder(hash string, itemID, proceeds int64, fees ...fee) types.OrderInfo {
	seller := sellerFor(itemID)
	price := proceeds
	recipients := make([]types.SeaportAdditionalRecipient, 0, len(fees))
	for _, f := range fees {
		price += f.amount
		recipients = append(recipients, types.SeaportAdditionalRecipient{Amount: big.NewInt(f.amount), Recipient: f.recipient})
	}

	terms := &types.SeaportTerms{
		Offerer: seller,
		Offer: []types.SeaportOfferItem{{
			ItemType:             types.ItemTypeERC721,
			Token:                testCollection,
			IdentifierOrCriteria: big.NewInt(itemID),
			StartAmount:          big.NewInt(1),
			EndAmount:            big.NewInt(1),
		}},
		Consideration: types.SeaportConsiderationItem{
			ItemType:             types.ItemTypeNative,
			IdentifierOrCriteria: big.NewInt(0),
			StartAmount:          big.NewInt(proceeds),
			EndAmount:            big.NewInt(proceeds),
			Recipient:            seller,
		},
		AdditionalRecipients: recipients,
		OrderType:            types.OrderTypeFullRestricted,
		StartTime:            big.NewInt(1700000000),
		EndTime:              big.NewInt(1800000000),
		Salt:                 big.NewInt(itemID * 7919),
		ConduitKey:           testConduitKey,
		Signature:            bytes.Repeat([]byte{byte(itemID)}, 65),
	}

	return types.OrderInfo{
		OrderHash:       hash,
		ProtocolAddress: seaportAddress,
		Protocol:        types.ProtocolSeaport,
		ItemID:          big.NewInt(itemID),
		Price:           big.NewInt(price),
		Side:            types.SideListing,
		Terms:           terms,
	}
}

func seaportTerms(order types.OrderInfo) *types.SeaportTerms {
	return order.Terms.(*types.SeaportTerms)
}

func looksRareOrder(hash string, itemID, price int64) types.OrderInfo {
	terms := &types.LooksRareTerms{
		QuoteType:            types.QuoteTypeAsk,
		GlobalNonce:          big.NewInt(0),
		SubsetNonce:          big.NewInt(0),
		OrderNonce:           big.NewInt(itemID),
		StrategyID:           big.NewInt(types.LooksRareStandardSaleStrategy),
		CollectionType:       types.CollectionTypeERC721,
		Collection:           testCollection,
		Signer:               sellerFor(itemID),
		StartTime:            big.NewInt(1700000000),
		EndTime:              big.NewInt(1800000000),
		Price:                big.NewInt(price),
		ItemIDs:              []*big.Int{big.NewInt(itemID)},
		Amounts:              []*big.Int{big.NewInt(1)},
		AdditionalParameters: []byte{},
		Signature:            bytes.Repeat([]byte{0xa0 + byte(itemID)}, 65),
	}

	return types.OrderInfo{
		OrderHash:       hash,
		ProtocolAddress: looksRareAddress,
		Protocol:        types.ProtocolLooksRareV2,
		ItemID:          big.NewInt(itemID),
		Price:           big.NewInt(price),
		Side:            types.SideListing,
		Terms:           terms,
	}
}

func looksRareTerms(order types.OrderInfo) *types.LooksRareTerms {
	return order.Terms.(*types.LooksRareTerms)
}

func pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}
