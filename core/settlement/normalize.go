package settlement

import (
	"sort"

	"github.com/nftsweep/sdk-go/core/types"
	"github.com/nftsweep/sdk-go/core/util"
	"github.com/pkg/errors"
)

// Normalize validates raw listing records and turns them into OrderInfo values.
//
// Records whose item id is not in itemIDs are discarded; an empty itemIDs keeps
// every record. The result is ordered by ascending price and holds at most one
// order per item id, the cheapest one. Validation runs over every record, so a
// malformed record fails the call even when its item was not requested.
func Normalize(records []types.RawListing, itemIDs []string) ([]types.OrderInfo, error) {
	return NormalizeProtocol(records, itemIDs, types.ProtocolUnknown)
}

// NormalizeProtocol is Normalize restricted to one settlement protocol. Orders on
// other protocols are discarded before deduplication, so an item stays in the
// result when its cheapest listing is elsewhere. ProtocolUnknown keeps every
// protocol.
func NormalizeProtocol(records []types.RawListing, itemIDs []string, protocol types.Protocol) ([]types.OrderInfo, error) {
	wanted, err := newItemFilter(itemIDs)
	if err != nil {
		return nil, err
	}

	orders := make([]types.OrderInfo, 0, len(records))
	for i, rec := range records {
		order, err := normalizeRecord(i, rec)
		if err != nil {
			return nil, err
		}
		if !wanted.allows(order) {
			continue
		}
		if protocol != types.ProtocolUnknown && order.Protocol != protocol {
			continue
		}
		orders = append(orders, order)
	}

	sort.SliceStable(orders, func(a, b int) bool {
		return orders[a].Price.Cmp(orders[b].Price) < 0
	})
	return dedupByItem(orders), nil
}

func normalizeRecord(index int, rec types.RawListing) (types.OrderInfo, error) {
	if err := rec.Validate(); err != nil {
		return types.OrderInfo{}, types.MalformedOrderFrom(index, rec.OrderHash, err)
	}

	protocolAddress, err := util.ParseAddress(rec.ProtocolAddress)
	if err != nil {
		return types.OrderInfo{}, types.MalformedOrder(index, rec.OrderHash, "protocol_address", err.Error())
	}
	itemID, err := util.ParseUint256(rec.ItemID)
	if err != nil {
		return types.OrderInfo{}, types.MalformedOrder(index, rec.OrderHash, "item_id", err.Error())
	}
	price, err := util.ParseUint256(rec.Price)
	if errors.Is(err, util.ErrUint256Range) {
		return types.OrderInfo{}, types.ValueOverflow(index, rec.OrderHash, "price %s exceeds uint256", rec.Price)
	}
	if err != nil {
		return types.OrderInfo{}, types.MalformedOrder(index, rec.OrderHash, "price", err.Error())
	}
	side, err := types.ParseSide(rec.Side)
	if err != nil {
		return types.OrderInfo{}, types.MalformedOrder(index, rec.OrderHash, "side", err.Error())
	}
	protocol, err := resolveProtocol(rec)
	if err != nil {
		return types.OrderInfo{}, types.UnsupportedShape(index, rec.OrderHash, "%s", err.Error())
	}

	order := types.OrderInfo{
		OrderHash:       rec.OrderHash,
		ProtocolAddress: protocolAddress,
		Protocol:        protocol,
		ItemID:          itemID,
		Price:           price,
		Side:            side,
	}

	if len(rec.Terms) > 0 {
		terms, err := DecodeTerms(protocol, rec.Terms)
		if errors.Is(err, types.ErrUnsupportedOrderShape) {
			return types.OrderInfo{}, types.UnsupportedShape(index, rec.OrderHash, "%s", err.Error())
		}
		if err != nil {
			return types.OrderInfo{}, types.MalformedOrderFrom(index, rec.OrderHash, err)
		}
		order.Terms = terms
	}
	return order, nil
}

// resolveProtocol prefers the explicit protocol name and falls back to the
// well-known settlement contract addresses
func resolveProtocol(rec types.RawListing) (types.Protocol, error) {
	if rec.Protocol != "" {
		return types.ParseProtocol(rec.Protocol)
	}
	addr, err := util.ParseAddress(rec.ProtocolAddress)
	if err != nil {
		return types.ProtocolUnknown, err
	}
	if p, ok := types.ProtocolForAddress(addr); ok {
		return p, nil
	}
	return types.ProtocolUnknown, errors.Errorf("no protocol known for settlement contract %s", addr.Hex())
}

// itemFilter matches item ids by numeric value, so "0x2a" and "42" are the same item
type itemFilter map[string]struct{}

func newItemFilter(itemIDs []string) (itemFilter, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	f := make(itemFilter, len(itemIDs))
	for _, id := range itemIDs {
		v, err := util.ParseUint256(id)
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidParams, "item id %q: %v", id, err)
		}
		f[v.String()] = struct{}{}
	}
	return f, nil
}

func (f itemFilter) allows(order types.OrderInfo) bool {
	if f == nil {
		return true
	}
	_, ok := f[order.ItemID.String()]
	return ok
}

// dedupByItem keeps the first order seen for each item id
func dedupByItem(orders []types.OrderInfo) []types.OrderInfo {
	seen := make(map[string]struct{}, len(orders))
	out := orders[:0]
	for _, order := range orders {
		key := order.ItemID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, order)
	}
	return out
}
