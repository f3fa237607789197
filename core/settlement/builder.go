package settlement

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/pkg/errors"
)

// Builder selects the batch encoder for a homogeneous batch of orders and,
// for protocols that need one, derives the fulfillment plan first.
type Builder struct {
	encoders map[types.Protocol]types.BatchEncoder
}

// NewBuilder registers encoders by protocol. A later encoder for the same protocol replaces an earlier one.
func NewBuilder(encoders ...types.BatchEncoder) *Builder {
	b := &Builder{encoders: make(map[types.Protocol]types.BatchEncoder, len(encoders))}
	for _, enc := range encoders {
		b.encoders[enc.Protocol()] = enc
	}
	return b
}

// DefaultBuilder knows the Seaport and LooksRare v2 batch entry points
func DefaultBuilder() *Builder {
	return NewBuilder(NewSeaportEncoder(), NewLooksRareEncoder())
}

func (b *Builder) Encoder(protocol types.Protocol) (types.BatchEncoder, bool) {
	enc, ok := b.encoders[protocol]
	return enc, ok
}

// Build encodes orders as a single batch purchase transaction. All orders must
// share one protocol and one settlement contract.
func (b *Builder) Build(orders []types.OrderInfo, params types.BatchParams) (*types.TxPlan, error) {
	if len(orders) == 0 {
		return nil, errors.WithStack(types.ErrEmptyBatch)
	}
	protocol := orders[0].Protocol
	for i, order := range orders[1:] {
		if order.Protocol != protocol {
			return nil, types.UnsupportedShape(i+1, order.OrderHash, "batch mixes %s and %s orders", protocol, order.Protocol)
		}
	}

	enc, ok := b.encoders[protocol]
	if !ok {
		return nil, types.UnsupportedShape(0, orders[0].OrderHash, "no batch encoder for protocol %s", protocol)
	}

	var plan types.FulfillmentPlan
	if protocol.RequiresFulfillmentPlan() {
		var err error
		if plan, err = PlanFulfillments(orders); err != nil {
			return nil, err
		}
	}
	return enc.Encode(orders, plan, params)
}

// checkBatch enforces the batch-wide invariants every encoder relies on and
// returns the settlement contract the transaction is sent to
func checkBatch(orders []types.OrderInfo, protocol types.Protocol) (common.Address, error) {
	if len(orders) == 0 {
		return common.Address{}, errors.WithStack(types.ErrEmptyBatch)
	}

	to := orders[0].ProtocolAddress
	seen := make(map[string]int, len(orders))
	for i, order := range orders {
		if order.Protocol != protocol {
			return common.Address{}, types.UnsupportedShape(i, order.OrderHash, "%s order in a %s batch", order.Protocol, protocol)
		}
		if order.ProtocolAddress != to {
			return common.Address{}, types.UnsupportedShape(i, order.OrderHash, "settlement contract %s differs from %s", order.ProtocolAddress.Hex(), to.Hex())
		}
		if order.Side != types.SideListing {
			return common.Address{}, types.UnsupportedShape(i, order.OrderHash, "%s orders cannot be bought", order.Side)
		}
		if order.ItemID == nil {
			return common.Address{}, types.MalformedOrder(i, order.OrderHash, "item_id", "")
		}
		if order.Price == nil || order.Price.Sign() < 0 {
			return common.Address{}, types.MalformedOrder(i, order.OrderHash, "price", "")
		}
		key := order.ItemID.String()
		if first, ok := seen[key]; ok {
			return common.Address{}, types.EncodingMismatch(i, order.OrderHash, "item %s already bought by order %d", key, first)
		}
		seen[key] = i
	}
	return to, nil
}
