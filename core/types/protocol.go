package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Protocol identifies the settlement contract family an order belongs to
type Protocol int

const (
	ProtocolUnknown Protocol = iota
	ProtocolSeaport
	ProtocolLooksRareV2
)

// Known settlement contract deployments
const (
	SeaportV15Address  = "0x00000000000000ADc04C56Bf30aC9d3c0aAF14dC"
	SeaportV16Address  = "0x0000000000000068F116a894984e2DB1123eB395"
	LooksRareV2Address = "0x0000000000E655fAe4d56241588680F86E3b2377"
)

// DefaultProtocolAddresses maps well-known settlement contracts to their protocol.
// Used when a listing carries no explicit protocol name.
var DefaultProtocolAddresses = map[common.Address]Protocol{
	common.HexToAddress(SeaportV15Address):  ProtocolSeaport,
	common.HexToAddress(SeaportV16Address):  ProtocolSeaport,
	common.HexToAddress(LooksRareV2Address): ProtocolLooksRareV2,
}

func (p Protocol) String() string {
	switch p {
	case ProtocolSeaport:
		return "seaport"
	case ProtocolLooksRareV2:
		return "looksrare_v2"
	default:
		return "unknown"
	}
}

// RequiresFulfillmentPlan reports whether the batch entry point of the protocol
// takes explicit offer/consideration aggregation groups
func (p Protocol) RequiresFulfillmentPlan() bool {
	return p == ProtocolSeaport
}

// ParseProtocol resolves a protocol name as reported by a listing source
func ParseProtocol(name string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "seaport", "seaport_v1.5", "seaport_v1.6", "opensea":
		return ProtocolSeaport, nil
	case "looksrare", "looksrare_v2", "looks-rare":
		return ProtocolLooksRareV2, nil
	default:
		return ProtocolUnknown, fmt.Errorf("unknown protocol %q", name)
	}
}

// ProtocolForAddress looks up a settlement contract in DefaultProtocolAddresses
func ProtocolForAddress(addr common.Address) (Protocol, bool) {
	p, ok := DefaultProtocolAddresses[addr]
	return p, ok
}

// Side is the direction of an order from the maker's point of view
type Side int

const (
	// SideListing is a maker selling an item (an ask)
	SideListing Side = iota
	// SideBid is a maker buying an item (an offer)
	SideBid
)

func (s Side) String() string {
	if s == SideBid {
		return "bid"
	}
	return "listing"
}

// ParseSide accepts the side names used by marketplace APIs
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ask", "listing", "sell":
		return SideListing, nil
	case "bid", "offer", "buy":
		return SideBid, nil
	default:
		return SideListing, fmt.Errorf("unknown order side %q", s)
	}
}
