package settlement

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/nftsweep/sdk-go/core/util"
	"github.com/pkg/errors"
)

// numeric accepts a JSON number or a JSON string holding a number.
// Marketplace APIs are inconsistent about which one they send.
type numeric string

func (n *numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numeric(num.String())
	return nil
}

// DecodeTerms decodes the fulfillment data a marketplace returns for an order.
// Missing or unparsable fields are reported as *types.FieldError; shapes the
// encoders cannot fill wrap types.ErrUnsupportedOrderShape.
func DecodeTerms(protocol types.Protocol, raw json.RawMessage) (types.ProtocolTerms, error) {
	switch protocol {
	case types.ProtocolSeaport:
		var in seaportTermsJSON
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, &types.FieldError{Field: "terms", Reason: err.Error()}
		}
		terms, err := in.toTerms()
		if err != nil {
			return nil, err
		}
		return terms, nil
	case types.ProtocolLooksRareV2:
		var in looksRareTermsJSON
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, &types.FieldError{Field: "terms", Reason: err.Error()}
		}
		terms, err := in.toTerms()
		if err != nil {
			return nil, err
		}
		return terms, nil
	default:
		return nil, errors.Wrapf(types.ErrUnsupportedOrderShape, "no terms decoder for protocol %s", protocol)
	}
}

// fieldParser collects the first parse failure so decoders read as straight-line code
type fieldParser struct {
	err error
}

func (p *fieldParser) fail(field string, err error) {
	if p.err == nil {
		p.err = &types.FieldError{Field: field, Reason: err.Error()}
	}
}

func (p *fieldParser) num(field string, v numeric, required bool) *big.Int {
	if v == "" {
		if required {
			p.missing(field)
		}
		return nil
	}
	n, err := util.ParseUint256(string(v))
	if err != nil {
		p.fail(field, err)
		return nil
	}
	return n
}

func (p *fieldParser) small(field string, v numeric, fallback uint8) uint8 {
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(string(v), 10, 8)
	if err != nil {
		p.fail(field, err)
		return fallback
	}
	return uint8(n)
}

func (p *fieldParser) address(field, v string) common.Address {
	a, err := util.ParseOptionalAddress(v)
	if err != nil {
		p.fail(field, err)
	}
	return a
}

func (p *fieldParser) bytes(field, v string) []byte {
	b, err := util.ParseHexBytes(v)
	if err != nil {
		p.fail(field, err)
	}
	return b
}

func (p *fieldParser) bytes32(field, v string) [32]byte {
	w, err := util.ParseBytes32(v)
	if err != nil {
		p.fail(field, err)
	}
	return w
}

func (p *fieldParser) missing(field string) {
	if p.err == nil {
		p.err = &types.FieldError{Field: field}
	}
}

// ═══════════════════════════════════════════════════════════════
// SEAPORT BASIC ORDER PARAMETERS
// ═══════════════════════════════════════════════════════════════

type seaportAdditionalRecipientJSON struct {
	Amount    numeric `json:"amount"`
	Recipient string  `json:"recipient"`
}

type seaportOfferItemJSON struct {
	ItemType             numeric `json:"itemType"`
	Token                string  `json:"token"`
	IdentifierOrCriteria numeric `json:"identifierOrCriteria"`
	StartAmount          numeric `json:"startAmount"`
	EndAmount            numeric `json:"endAmount"`
}

// seaportTermsJSON is the basic order parameter shape served by marketplace
// fulfillment endpoints. An explicit offer array overrides the offer* fields.
type seaportTermsJSON struct {
	ConsiderationToken                string                           `json:"considerationToken"`
	ConsiderationIdentifier           numeric                          `json:"considerationIdentifier"`
	ConsiderationAmount               numeric                          `json:"considerationAmount"`
	Offerer                           string                           `json:"offerer"`
	Zone                              string                           `json:"zone"`
	OfferToken                        string                           `json:"offerToken"`
	OfferIdentifier                   numeric                          `json:"offerIdentifier"`
	OfferAmount                       numeric                          `json:"offerAmount"`
	BasicOrderType                    numeric                          `json:"basicOrderType"`
	StartTime                         numeric                          `json:"startTime"`
	EndTime                           numeric                          `json:"endTime"`
	ZoneHash                          string                           `json:"zoneHash"`
	Salt                              numeric                          `json:"salt"`
	OffererConduitKey                 string                           `json:"offererConduitKey"`
	TotalOriginalAdditionalRecipients numeric                          `json:"totalOriginalAdditionalRecipients"`
	AdditionalRecipients              []seaportAdditionalRecipientJSON `json:"additionalRecipients"`
	Signature                         string                           `json:"signature"`
	Offer                             []seaportOfferItemJSON           `json:"offer,omitempty"`
}

// basicOrderRoutes gives the offer and consideration item types of each
// basic order route (basicOrderType / 4)
var basicOrderRoutes = [...]struct {
	offer, consideration uint8
}{
	{types.ItemTypeERC721, types.ItemTypeNative},  // ETH_TO_ERC721
	{types.ItemTypeERC1155, types.ItemTypeNative}, // ETH_TO_ERC1155
	{types.ItemTypeERC721, types.ItemTypeERC20},   // ERC20_TO_ERC721
	{types.ItemTypeERC1155, types.ItemTypeERC20},  // ERC20_TO_ERC1155
	{types.ItemTypeERC20, types.ItemTypeERC721},   // ERC721_TO_ERC20
	{types.ItemTypeERC20, types.ItemTypeERC1155},  // ERC1155_TO_ERC20
}

func (in seaportTermsJSON) toTerms() (*types.SeaportTerms, error) {
	var p fieldParser

	basicOrderType := p.small("basicOrderType", in.BasicOrderType, 0)
	route := int(basicOrderType / 4)
	if route >= len(basicOrderRoutes) {
		return nil, &types.FieldError{Field: "basicOrderType", Reason: "out of range"}
	}
	itemTypes := basicOrderRoutes[route]

	offerer := p.address("offerer", in.Offerer)
	terms := &types.SeaportTerms{
		Offerer:    offerer,
		Zone:       p.address("zone", in.Zone),
		OrderType:  basicOrderType % 4,
		StartTime:  p.num("startTime", in.StartTime, true),
		EndTime:    p.num("endTime", in.EndTime, true),
		ZoneHash:   p.bytes32("zoneHash", in.ZoneHash),
		Salt:       p.num("salt", in.Salt, true),
		ConduitKey: p.bytes32("offererConduitKey", in.OffererConduitKey),
		Signature:  p.bytes("signature", in.Signature),
	}

	if len(in.Offer) > 0 {
		for _, item := range in.Offer {
			terms.Offer = append(terms.Offer, types.SeaportOfferItem{
				ItemType:             p.small("offer.itemType", item.ItemType, itemTypes.offer),
				Token:                p.address("offer.token", item.Token),
				IdentifierOrCriteria: bigOrZero(p.num("offer.identifierOrCriteria", item.IdentifierOrCriteria, false)),
				StartAmount:          p.num("offer.startAmount", item.StartAmount, true),
				EndAmount:            p.num("offer.endAmount", item.EndAmount, true),
			})
		}
	} else if in.OfferToken != "" {
		amount := p.num("offerAmount", in.OfferAmount, false)
		if amount == nil {
			amount = big.NewInt(1)
		}
		terms.Offer = []types.SeaportOfferItem{{
			ItemType:             itemTypes.offer,
			Token:                p.address("offerToken", in.OfferToken),
			IdentifierOrCriteria: p.num("offerIdentifier", in.OfferIdentifier, true),
			StartAmount:          amount,
			EndAmount:            amount,
		}}
	}

	considerationAmount := p.num("considerationAmount", in.ConsiderationAmount, true)
	terms.Consideration = types.SeaportConsiderationItem{
		ItemType:             itemTypes.consideration,
		Token:                p.address("considerationToken", in.ConsiderationToken),
		IdentifierOrCriteria: bigOrZero(p.num("considerationIdentifier", in.ConsiderationIdentifier, false)),
		StartAmount:          considerationAmount,
		EndAmount:            considerationAmount,
		Recipient:            offerer,
	}

	for _, r := range in.AdditionalRecipients {
		terms.AdditionalRecipients = append(terms.AdditionalRecipients, types.SeaportAdditionalRecipient{
			Amount:    p.num("additionalRecipients.amount", r.Amount, true),
			Recipient: p.address("additionalRecipients.recipient", r.Recipient),
		})
	}
	if declared := p.num("totalOriginalAdditionalRecipients", in.TotalOriginalAdditionalRecipients, false); declared != nil {
		if !declared.IsInt64() || declared.Int64() > 1<<16 {
			p.fail("totalOriginalAdditionalRecipients", errors.New("out of range"))
		} else {
			n := int(declared.Int64())
			terms.DeclaredAdditionalRecipients = &n
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return terms, nil
}

// ═══════════════════════════════════════════════════════════════
// LOOKSRARE V2 MAKER ORDER
// ═══════════════════════════════════════════════════════════════

type looksRareMerkleNodeJSON struct {
	Value    string  `json:"value"`
	Position numeric `json:"position"`
}

type looksRareTermsJSON struct {
	QuoteType            numeric                   `json:"quoteType"`
	GlobalNonce          numeric                   `json:"globalNonce"`
	SubsetNonce          numeric                   `json:"subsetNonce"`
	OrderNonce           numeric                   `json:"orderNonce"`
	StrategyID           numeric                   `json:"strategyId"`
	CollectionType       numeric                   `json:"collectionType"`
	Collection           string                    `json:"collection"`
	Currency             string                    `json:"currency"`
	Signer               string                    `json:"signer"`
	StartTime            numeric                   `json:"startTime"`
	EndTime              numeric                   `json:"endTime"`
	Price                numeric                   `json:"price"`
	ItemIDs              []numeric                 `json:"itemIds"`
	Amounts              []numeric                 `json:"amounts"`
	AdditionalParameters string                    `json:"additionalParameters"`
	Signature            string                    `json:"signature"`
	MerkleRoot           string                    `json:"merkleRoot"`
	MerkleProof          []looksRareMerkleNodeJSON `json:"merkleProof"`
}

func (in looksRareTermsJSON) toTerms() (*types.LooksRareTerms, error) {
	var p fieldParser

	terms := &types.LooksRareTerms{
		QuoteType:            p.small("quoteType", in.QuoteType, types.QuoteTypeAsk),
		GlobalNonce:          p.num("globalNonce", in.GlobalNonce, true),
		SubsetNonce:          bigOrZero(p.num("subsetNonce", in.SubsetNonce, false)),
		OrderNonce:           p.num("orderNonce", in.OrderNonce, true),
		StrategyID:           bigOrZero(p.num("strategyId", in.StrategyID, false)),
		CollectionType:       p.small("collectionType", in.CollectionType, types.CollectionTypeERC721),
		Collection:           p.address("collection", in.Collection),
		Currency:             p.address("currency", in.Currency),
		Signer:               p.address("signer", in.Signer),
		StartTime:            p.num("startTime", in.StartTime, true),
		EndTime:              p.num("endTime", in.EndTime, true),
		Price:                p.num("price", in.Price, true),
		AdditionalParameters: p.bytes("additionalParameters", in.AdditionalParameters),
		Signature:            p.bytes("signature", in.Signature),
		MerkleRoot:           p.bytes32("merkleRoot", in.MerkleRoot),
	}
	for _, id := range in.ItemIDs {
		terms.ItemIDs = append(terms.ItemIDs, p.num("itemIds", id, true))
	}
	for _, amount := range in.Amounts {
		terms.Amounts = append(terms.Amounts, p.num("amounts", amount, true))
	}
	for _, node := range in.MerkleProof {
		terms.MerkleProof = append(terms.MerkleProof, types.LooksRareMerkleNode{
			Value:    p.bytes32("merkleProof.value", node.Value),
			Position: p.small("merkleProof.position", node.Position, 0),
		})
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return terms, nil
}
