package types

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FulfillmentComponent points at one item of one order in the batch
type FulfillmentComponent struct {
	OrderIndex int
	ItemIndex  int
}

// OrderFulfillment holds the offer and consideration components of one order
type OrderFulfillment struct {
	Offer         []FulfillmentComponent
	Consideration []FulfillmentComponent
}

// FulfillmentPlan has exactly one entry per order, in batch order
type FulfillmentPlan []OrderFulfillment

// BatchParams are the caller-chosen arguments of a batch purchase
type BatchParams struct {
	// Recipient receives the purchased items
	Recipient common.Address
	// ConduitKey selects the fulfiller's Seaport conduit, zero for direct approval
	ConduitKey [32]byte
	// Affiliate is credited on LooksRare, zero for none
	Affiliate common.Address
	// IsAtomic makes a LooksRare batch revert when any order fails
	IsAtomic bool
	// MaximumFulfilled caps the Seaport fill count, zero derives it from the batch size
	MaximumFulfilled uint64
}

// DefaultBatchParams returns atomic parameters delivering to recipient
func DefaultBatchParams(recipient common.Address) BatchParams {
	return BatchParams{Recipient: recipient, IsAtomic: true}
}

// TxPlan is an unsigned transaction ready for a wallet to sign and send
type TxPlan struct {
	To    *common.Address
	Data  []byte
	Value *big.Int
}

type txPlanJSON struct {
	To    *common.Address `json:"to"`
	Data  hexutil.Bytes   `json:"data"`
	Value string          `json:"value"`
}

// MarshalJSON renders data as 0x-hex and value as a decimal wei string
func (p TxPlan) MarshalJSON() ([]byte, error) {
	value := "0"
	if p.Value != nil {
		value = p.Value.String()
	}
	return json.Marshal(txPlanJSON{To: p.To, Data: p.Data, Value: value})
}
