package types

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type Client interface {
	// BuildPurchase discovers listings for the requested items and builds one batch purchase transaction
	BuildPurchase(ctx context.Context, input PurchaseInput) (*PurchaseResult, error)
	// BuildFromListings builds a batch purchase from already fetched listing records
	BuildFromListings(ctx context.Context, records []RawListing, input PurchaseInput) (*PurchaseResult, error)
}

// BatchEncoder turns a homogeneous batch of orders into settlement calldata.
// Protocols that take no fulfillment plan receive a nil plan.
type BatchEncoder interface {
	Protocol() Protocol
	Encode(orders []OrderInfo, plan FulfillmentPlan, params BatchParams) (*TxPlan, error)
}

// ListingQuery narrows a listing discovery request
type ListingQuery struct {
	Collection common.Address
	ItemIDs    []string
	// Protocol restricts discovery to one settlement protocol, ProtocolUnknown for any
	Protocol Protocol
}

// ListingSource discovers active listings, typically a marketplace API
type ListingSource interface {
	ListListings(ctx context.Context, query ListingQuery) ([]RawListing, error)
}

// TermsSource retrieves the signed protocol terms needed to fill an order
type TermsSource interface {
	FetchTerms(ctx context.Context, order OrderInfo, fulfiller common.Address) (ProtocolTerms, error)
}

type PurchaseInput struct {
	Collection common.Address
	ItemIDs    []string `validate:"required,min=1,dive,uint_text"`
	Protocol   Protocol
	Params     BatchParams
}

// PurchaseResult is the built transaction plus the orders it fills, in calldata order
type PurchaseResult struct {
	RequestID string
	Orders    []OrderInfo
	Tx        *TxPlan
}
