package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OrderInfo is the normalized, protocol-neutral view of one listing.
// Terms is nil until the protocol-specific fulfillment data has been attached.
type OrderInfo struct {
	OrderHash       string
	ProtocolAddress common.Address
	Protocol        Protocol
	ItemID          *big.Int
	Price           *big.Int
	Side            Side
	Terms           ProtocolTerms
}

// WithTerms returns a copy of the order with the given terms attached
func (o OrderInfo) WithTerms(terms ProtocolTerms) OrderInfo {
	o.Terms = terms
	return o
}

// ProtocolTerms is the closed set of per-protocol signed order data.
// Implemented by *SeaportTerms and *LooksRareTerms.
type ProtocolTerms interface {
	Protocol() Protocol
	// Validate reports the first missing required field as a *FieldError
	Validate() error
	isProtocolTerms()
}

// ═══════════════════════════════════════════════════════════════
// SEAPORT
// ═══════════════════════════════════════════════════════════════

// Seaport item types
const (
	ItemTypeNative uint8 = iota
	ItemTypeERC20
	ItemTypeERC721
	ItemTypeERC1155
	ItemTypeERC721WithCriteria
	ItemTypeERC1155WithCriteria
)

// Seaport order types
const (
	OrderTypeFullOpen uint8 = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
	OrderTypeContract
)

type SeaportOfferItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

type SeaportConsiderationItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

// SeaportAdditionalRecipient is a fee or royalty payee paid in the same
// currency as the seller proceeds
type SeaportAdditionalRecipient struct {
	Amount    *big.Int
	Recipient common.Address
}

// SeaportTerms holds the signed parameters of a Seaport listing.
// Consideration is the seller proceeds item; AdditionalRecipients follow it
// in declared order.
type SeaportTerms struct {
	Offerer              common.Address
	Zone                 common.Address
	Offer                []SeaportOfferItem
	Consideration        SeaportConsiderationItem
	AdditionalRecipients []SeaportAdditionalRecipient
	// DeclaredAdditionalRecipients is the marketplace-reported
	// totalOriginalAdditionalRecipients, nil when not reported
	DeclaredAdditionalRecipients *int
	OrderType                    uint8
	StartTime                    *big.Int
	EndTime                      *big.Int
	ZoneHash                     [32]byte
	Salt                         *big.Int
	ConduitKey                   [32]byte
	Signature                    []byte
}

var _ ProtocolTerms = (*SeaportTerms)(nil)

func (t *SeaportTerms) Protocol() Protocol { return ProtocolSeaport }

func (t *SeaportTerms) isProtocolTerms() {}

func (t *SeaportTerms) Validate() error {
	switch {
	case t.Offerer == (common.Address{}):
		return &FieldError{Field: "offerer"}
	case len(t.Signature) == 0:
		return &FieldError{Field: "signature"}
	case t.StartTime == nil:
		return &FieldError{Field: "startTime"}
	case t.EndTime == nil:
		return &FieldError{Field: "endTime"}
	case t.Salt == nil:
		return &FieldError{Field: "salt"}
	case t.Consideration.StartAmount == nil:
		return &FieldError{Field: "considerationAmount"}
	}
	for _, r := range t.AdditionalRecipients {
		if r.Amount == nil {
			return &FieldError{Field: "additionalRecipients.amount"}
		}
	}
	return nil
}

// FeeRecipientCount is the number of consideration items beyond the seller proceeds
func (t *SeaportTerms) FeeRecipientCount() int {
	return len(t.AdditionalRecipients)
}

// ConsiderationItems expands the proceeds item and the additional recipients
// into the full consideration array, proceeds first
func (t *SeaportTerms) ConsiderationItems() []SeaportConsiderationItem {
	items := make([]SeaportConsiderationItem, 0, 1+len(t.AdditionalRecipients))
	items = append(items, t.Consideration)
	for _, r := range t.AdditionalRecipients {
		items = append(items, SeaportConsiderationItem{
			ItemType:             t.Consideration.ItemType,
			Token:                t.Consideration.Token,
			IdentifierOrCriteria: t.Consideration.IdentifierOrCriteria,
			StartAmount:          r.Amount,
			EndAmount:            r.Amount,
			Recipient:            r.Recipient,
		})
	}
	return items
}

// ═══════════════════════════════════════════════════════════════
// LOOKSRARE V2
// ═══════════════════════════════════════════════════════════════

// LooksRare quote types
const (
	QuoteTypeBid uint8 = iota
	QuoteTypeAsk
)

// LooksRare collection types
const (
	CollectionTypeERC721 uint8 = iota
	CollectionTypeERC1155
)

// LooksRareStandardSaleStrategy is the strategy id of a plain fixed-price sale
const LooksRareStandardSaleStrategy = 0

type LooksRareMerkleNode struct {
	Value    [32]byte
	Position uint8
}

// LooksRareTerms holds a signed LooksRare v2 maker order.
// MerkleRoot and MerkleProof are zero for orders signed individually.
type LooksRareTerms struct {
	QuoteType            uint8
	GlobalNonce          *big.Int
	SubsetNonce          *big.Int
	OrderNonce           *big.Int
	StrategyID           *big.Int
	CollectionType       uint8
	Collection           common.Address
	Currency             common.Address
	Signer               common.Address
	StartTime            *big.Int
	EndTime              *big.Int
	Price                *big.Int
	ItemIDs              []*big.Int
	Amounts              []*big.Int
	AdditionalParameters []byte
	Signature            []byte
	MerkleRoot           [32]byte
	MerkleProof          []LooksRareMerkleNode
}

var _ ProtocolTerms = (*LooksRareTerms)(nil)

func (t *LooksRareTerms) Protocol() Protocol { return ProtocolLooksRareV2 }

func (t *LooksRareTerms) isProtocolTerms() {}

func (t *LooksRareTerms) Validate() error {
	switch {
	case t.Signer == (common.Address{}):
		return &FieldError{Field: "signer"}
	case len(t.Signature) == 0:
		return &FieldError{Field: "signature"}
	case t.Price == nil:
		return &FieldError{Field: "price"}
	case t.GlobalNonce == nil:
		return &FieldError{Field: "globalNonce"}
	case t.SubsetNonce == nil:
		return &FieldError{Field: "subsetNonce"}
	case t.OrderNonce == nil:
		return &FieldError{Field: "orderNonce"}
	case t.StrategyID == nil:
		return &FieldError{Field: "strategyId"}
	case t.StartTime == nil:
		return &FieldError{Field: "startTime"}
	case t.EndTime == nil:
		return &FieldError{Field: "endTime"}
	}
	return nil
}
