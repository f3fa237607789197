package settlement

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const seaportFulfillAvailableMethod = "fulfillAvailableAdvancedOrders"

// seaportFulfillAvailableABIJSON is the fulfillAvailableAdvancedOrders entry of
// the Seaport 1.5/1.6 interface
const seaportFulfillAvailableABIJSON = `[{
  "type": "function",
  "name": "fulfillAvailableAdvancedOrders",
  "stateMutability": "payable",
  "inputs": [
    {"name": "advancedOrders", "type": "tuple[]", "components": [
      {"name": "parameters", "type": "tuple", "components": [
        {"name": "offerer", "type": "address"},
        {"name": "zone", "type": "address"},
        {"name": "offer", "type": "tuple[]", "components": [
          {"name": "itemType", "type": "uint8"},
          {"name": "token", "type": "address"},
          {"name": "identifierOrCriteria", "type": "uint256"},
          {"name": "startAmount", "type": "uint256"},
          {"name": "endAmount", "type": "uint256"}
        ]},
        {"name": "consideration", "type": "tuple[]", "components": [
          {"name": "itemType", "type": "uint8"},
          {"name": "token", "type": "address"},
          {"name": "identifierOrCriteria", "type": "uint256"},
          {"name": "startAmount", "type": "uint256"},
          {"name": "endAmount", "type": "uint256"},
          {"name": "recipient", "type": "address"}
        ]},
        {"name": "orderType", "type": "uint8"},
        {"name": "startTime", "type": "uint256"},
        {"name": "endTime", "type": "uint256"},
        {"name": "zoneHash", "type": "bytes32"},
        {"name": "salt", "type": "uint256"},
        {"name": "conduitKey", "type": "bytes32"},
        {"name": "totalOriginalConsiderationItems", "type": "uint256"}
      ]},
      {"name": "numerator", "type": "uint120"},
      {"name": "denominator", "type": "uint120"},
      {"name": "signature", "type": "bytes"},
      {"name": "extraData", "type": "bytes"}
    ]},
    {"name": "criteriaResolvers", "type": "tuple[]", "components": [
      {"name": "orderIndex", "type": "uint256"},
      {"name": "side", "type": "uint8"},
      {"name": "index", "type": "uint256"},
      {"name": "identifier", "type": "uint256"},
      {"name": "criteriaProof", "type": "bytes32[]"}
    ]},
    {"name": "offerFulfillments", "type": "tuple[][]", "components": [
      {"name": "orderIndex", "type": "uint256"},
      {"name": "itemIndex", "type": "uint256"}
    ]},
    {"name": "considerationFulfillments", "type": "tuple[][]", "components": [
      {"name": "orderIndex", "type": "uint256"},
      {"name": "itemIndex", "type": "uint256"}
    ]},
    {"name": "fulfillerConduitKey", "type": "bytes32"},
    {"name": "recipient", "type": "address"},
    {"name": "maximumFulfilled", "type": "uint256"}
  ],
  "outputs": [
    {"name": "availableOrders", "type": "bool[]"},
    {"name": "executions", "type": "tuple[]", "components": [
      {"name": "item", "type": "tuple", "components": [
        {"name": "itemType", "type": "uint8"},
        {"name": "token", "type": "address"},
        {"name": "identifier", "type": "uint256"},
        {"name": "amount", "type": "uint256"},
        {"name": "recipient", "type": "address"}
      ]},
      {"name": "offerer", "type": "address"},
      {"name": "conduitKey", "type": "bytes32"}
    ]}
  ]
}]`

// SeaportABI is the parsed Seaport batch fulfillment interface
var SeaportABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(seaportFulfillAvailableABIJSON))
	if err != nil {
		panic(fmt.Sprintf("failed to parse Seaport ABI: %v", err))
	}
	SeaportABI = parsed
}

// The structs below mirror the Seaport tuples field by field. Field order and
// names must follow the ABI components since packing matches by name and
// unpacking copies by position.

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

type SeaportOrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []SeaportOfferItem
	Consideration                   []SeaportConsiderationItem
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        [32]byte
	Salt                            *big.Int
	ConduitKey                      [32]byte
	TotalOriginalConsiderationItems *big.Int
}

type SeaportAdvancedOrder struct {
	Parameters  SeaportOrderParameters
	Numerator   *big.Int
	Denominator *big.Int
	Signature   []byte
	ExtraData   []byte
}

type SeaportCriteriaResolver struct {
	OrderIndex    *big.Int
	Side          uint8
	Index         *big.Int
	Identifier    *big.Int
	CriteriaProof [][32]byte
}

type SeaportFulfillmentComponent struct {
	OrderIndex *big.Int
	ItemIndex  *big.Int
}

// SeaportFulfillAvailableCall holds the arguments of a fulfillAvailableAdvancedOrders call
type SeaportFulfillAvailableCall struct {
	AdvancedOrders            []SeaportAdvancedOrder
	CriteriaResolvers         []SeaportCriteriaResolver
	OfferFulfillments         [][]SeaportFulfillmentComponent
	ConsiderationFulfillments [][]SeaportFulfillmentComponent
	FulfillerConduitKey       [32]byte
	Recipient                 common.Address
	MaximumFulfilled          *big.Int
}

func (c *SeaportFulfillAvailableCall) pack() ([]byte, error) {
	return SeaportABI.Pack(seaportFulfillAvailableMethod,
		c.AdvancedOrders,
		c.CriteriaResolvers,
		c.OfferFulfillments,
		c.ConsiderationFulfillments,
		c.FulfillerConduitKey,
		c.Recipient,
		c.MaximumFulfilled,
	)
}
